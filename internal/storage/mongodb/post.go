package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/user"
	"github.com/VitaminP8/friendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostMongoStorage struct {
	db *Database
}

func NewPostMongoStorage(db *Database) *PostMongoStorage {
	return &PostMongoStorage{db: db}
}

func (s *PostMongoStorage) CreatePost(ctx context.Context, authorID, content string) (*model.Post, error) {
	authorOID, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: author %s", user.ErrNotFound, authorID)
	}

	var author models.User
	err = s.db.Users().FindOne(ctx, bson.M{"_id": authorOID}).Decode(&author)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: author %s", user.ErrNotFound, authorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}

	doc := models.Post{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Author:    authorOID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.db.Posts().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return toPostModel(&doc, toUserModel(&author)), nil
}

func (s *PostMongoStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	// новые первыми
	cursor, err := s.db.Posts().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Post
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	// авторов грузим по одному разу за выборку
	authors := make(map[primitive.ObjectID]*model.User)
	posts := make([]*model.Post, 0, len(docs))
	for i := range docs {
		doc := &docs[i]

		author, ok := authors[doc.Author]
		if !ok {
			var authorDoc models.User
			err := s.db.Users().FindOne(ctx, bson.M{"_id": doc.Author}).Decode(&authorDoc)
			if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("failed to resolve author: %w", err)
			}
			if err == nil {
				author = toUserModel(&authorDoc)
			}
			authors[doc.Author] = author
		}

		posts = append(posts, toPostModel(doc, author))
	}

	return posts, nil
}

func toPostModel(doc *models.Post, author *model.User) *model.Post {
	return &model.Post{
		ID:        doc.ID.Hex(),
		Content:   doc.Content,
		Author:    author,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
}
