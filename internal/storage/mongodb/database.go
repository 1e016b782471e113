package mongodb

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database - явный хэндл подключения. Передается в хранилища по ссылке,
// глобальной переменной нет
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect подключается к MongoDB и проверяет соединение пингом
func Connect(ctx context.Context, uri, dbName string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logrus.Println("Successfully connected to the database.")
	return &Database{client: client, db: client.Database(dbName)}, nil
}

// Close закрывает соединение с базой данных
func (d *Database) Close(ctx context.Context) error {
	if d == nil || d.client == nil {
		return nil
	}

	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	logrus.Println("Database connection closed.")
	return nil
}

func (d *Database) Users() *mongo.Collection {
	return d.db.Collection("users")
}

func (d *Database) Posts() *mongo.Collection {
	return d.db.Collection("posts")
}
