package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - документ коллекции "users".
// friends и friendRequests - упорядоченные списки ObjectID (порядок вставки сохраняется)
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Username       string               `bson:"username"`
	Email          string               `bson:"email"`
	Password       string               `bson:"password"` // bcrypt-хеш, наружу не отдается
	Bio            string               `bson:"bio,omitempty"`
	Friends        []primitive.ObjectID `bson:"friends"`
	FriendRequests []primitive.ObjectID `bson:"friendRequests"`
}

// Post - документ коллекции "posts". CreatedAt проставляется сервером и не меняется
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Author    primitive.ObjectID `bson:"author"`
	CreatedAt time.Time          `bson:"createdAt"`
}
