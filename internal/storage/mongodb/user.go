package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/user"
	"github.com/VitaminP8/friendly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserMongoStorage struct {
	db *Database
}

func NewUserMongoStorage(db *Database) *UserMongoStorage {
	return &UserMongoStorage{db: db}
}

func (s *UserMongoStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	// проверка - занят ли email
	var existing models.User
	err := s.db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return nil, fmt.Errorf("%w: email %s is taken", user.ErrAlreadyExists, email)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), user.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doc := models.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Email:          email,
		Password:       string(hashedPassword),
		Friends:        []primitive.ObjectID{},
		FriendRequests: []primitive.ObjectID{},
	}

	if _, err := s.db.Users().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserModel(&doc), nil
}

func (s *UserMongoStorage) LoginUser(ctx context.Context, email, password string) (*model.User, error) {
	var doc models.User
	err := s.db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no user with email %s", user.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: password mismatch", user.ErrInvalidCredentials)
	}

	return toUserModel(&doc), nil
}

func (s *UserMongoStorage) GetUserById(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// кривой id эквивалентен отсутствию пользователя
		return nil, nil
	}

	var doc models.User
	err = s.db.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return toUserModel(&doc), nil
}

func (s *UserMongoStorage) GetUserWithRelations(ctx context.Context, id string) (*model.User, error) {
	doc, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolveRelations(ctx, doc)
}

func (s *UserMongoStorage) GetFriendRequests(ctx context.Context, id string) ([]*model.User, error) {
	doc, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, doc.FriendRequests)
}

func (s *UserMongoStorage) UpdateBio(ctx context.Context, id, bio string) (*model.User, error) {
	doc, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Users().UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{"bio": bio}})
	if err != nil {
		return nil, fmt.Errorf("failed to update bio: %w", err)
	}

	doc.Bio = bio
	return s.resolveRelations(ctx, doc)
}

func (s *UserMongoStorage) SendFriendRequest(ctx context.Context, senderID, recipientID string) (*model.User, error) {
	senderOID, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, senderID)
	}

	recipient, err := s.findUser(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	// линейный скан списка заявок, как и в памяти
	for _, pending := range recipient.FriendRequests {
		if pending == senderOID {
			return nil, fmt.Errorf("%w: to user %s", user.ErrDuplicateRequest, recipientID)
		}
	}

	_, err = s.db.Users().UpdateOne(ctx, bson.M{"_id": recipient.ID},
		bson.M{"$push": bson.M{"friendRequests": senderOID}})
	if err != nil {
		return nil, fmt.Errorf("failed to send friend request: %w", err)
	}

	recipient.FriendRequests = append(recipient.FriendRequests, senderOID)
	return s.resolveRelations(ctx, recipient)
}

func (s *UserMongoStorage) AcceptFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error) {
	requesterOID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: requester %s", user.ErrNoSuchRequest, requesterID)
	}

	doc, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, pending := range doc.FriendRequests {
		if pending == requesterOID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: requester %s", user.ErrNoSuchRequest, requesterID)
	}

	// Две последовательные записи по одному документу каждая, без транзакции.
	// Падение между ними оставляет дружбу односторонней
	_, err = s.db.Users().UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{
		"$pull": bson.M{"friendRequests": requesterOID},
		"$push": bson.M{"friends": requesterOID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	res, err := s.db.Users().UpdateOne(ctx, bson.M{"_id": requesterOID},
		bson.M{"$push": bson.M{"friends": doc.ID}})
	if err != nil {
		return nil, fmt.Errorf("failed to update requester: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: requester %s", user.ErrNotFound, requesterID)
	}

	return s.GetUserWithRelations(ctx, userID)
}

func (s *UserMongoStorage) RejectFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error) {
	doc, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// $pull по отсутствующему id - no-op, отклонение идемпотентно
	if requesterOID, oidErr := primitive.ObjectIDFromHex(requesterID); oidErr == nil {
		_, err = s.db.Users().UpdateOne(ctx, bson.M{"_id": doc.ID},
			bson.M{"$pull": bson.M{"friendRequests": requesterOID}})
		if err != nil {
			return nil, fmt.Errorf("failed to reject friend request: %w", err)
		}
	}

	return s.GetUserWithRelations(ctx, userID)
}

// findUser загружает документ по hex id, ErrNotFound - если его нет
func (s *UserMongoStorage) findUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	var doc models.User
	err = s.db.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &doc, nil
}

// resolveRelations разворачивает friends и friendRequests в полные записи
func (s *UserMongoStorage) resolveRelations(ctx context.Context, doc *models.User) (*model.User, error) {
	u := toUserModel(doc)

	friends, err := s.resolveUsers(ctx, doc.Friends)
	if err != nil {
		return nil, err
	}
	requests, err := s.resolveUsers(ctx, doc.FriendRequests)
	if err != nil {
		return nil, err
	}

	u.Friends = friends
	u.FriendRequests = requests
	return u, nil
}

// resolveUsers загружает пользователей по списку id, сохраняя его порядок
func (s *UserMongoStorage) resolveUsers(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.db.Users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}
	defer cursor.Close(ctx)

	byID := make(map[primitive.ObjectID]*models.User, len(ids))
	for cursor.Next(ctx) {
		var doc models.User
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		d := doc
		byID[d.ID] = &d
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	// $in не гарантирует порядок - восстанавливаем порядок списка
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			out = append(out, toUserModel(doc))
		}
	}

	return out, nil
}

func toUserModel(doc *models.User) *model.User {
	u := &model.User{
		ID:       doc.ID.Hex(),
		Username: doc.Username,
		Email:    doc.Email,
	}
	if doc.Bio != "" {
		bio := doc.Bio
		u.Bio = &bio
	}
	return u
}
