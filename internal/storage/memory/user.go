package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// userRecord - внутреннее представление пользователя (с хешем пароля)
type userRecord struct {
	id             string
	username       string
	email          string
	password       string
	bio            string
	friends        []string
	friendRequests []string
}

type UserMemoryStorage struct {
	mu     sync.Mutex
	users  map[string]*userRecord // id -> запись
	emails map[string]string      // email -> id
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:  make(map[string]*userRecord),
		emails: make(map[string]string),
	}
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[email]; exists {
		return nil, fmt.Errorf("%w: email %s is taken", user.ErrAlreadyExists, email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), user.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// hex ObjectID, чтобы формат id совпадал с mongo-бэкендом
	id := primitive.NewObjectID().Hex()

	rec := &userRecord{
		id:       id,
		username: username,
		email:    email,
		password: string(hashedPassword),
	}

	s.users[id] = rec
	s.emails[email] = id

	return s.toModel(rec, false), nil
}

func (s *UserMemoryStorage) LoginUser(ctx context.Context, email, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.emails[email]
	if !exists {
		return nil, fmt.Errorf("%w: no user with email %s", user.ErrNotFound, email)
	}
	rec := s.users[id]

	err := bcrypt.CompareHashAndPassword([]byte(rec.password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: password mismatch", user.ErrInvalidCredentials)
	}

	return s.toModel(rec, false), nil
}

func (s *UserMemoryStorage) GetUserById(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[id]
	if !exists {
		// отсутствие пользователя здесь - не ошибка
		return nil, nil
	}

	return s.toModel(rec, false), nil
}

func (s *UserMemoryStorage) GetUserWithRelations(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	return s.toModel(rec, true), nil
}

func (s *UserMemoryStorage) GetFriendRequests(ctx context.Context, id string) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	requesters := make([]*model.User, 0, len(rec.friendRequests))
	for _, reqID := range rec.friendRequests {
		if reqRec, ok := s.users[reqID]; ok {
			requesters = append(requesters, s.toModel(reqRec, false))
		}
	}

	return requesters, nil
}

func (s *UserMemoryStorage) UpdateBio(ctx context.Context, id, bio string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	rec.bio = bio
	return s.toModel(rec, true), nil
}

func (s *UserMemoryStorage) SendFriendRequest(ctx context.Context, senderID, recipientID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipient, exists := s.users[recipientID]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, recipientID)
	}

	// линейный скан - списки маленькие, порядок вставки важен
	if contains(recipient.friendRequests, senderID) {
		return nil, fmt.Errorf("%w: to user %s", user.ErrDuplicateRequest, recipientID)
	}

	recipient.friendRequests = append(recipient.friendRequests, senderID)
	return s.toModel(recipient, true), nil
}

func (s *UserMemoryStorage) AcceptFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, userID)
	}

	if !contains(rec.friendRequests, requesterID) {
		return nil, fmt.Errorf("%w: requester %s", user.ErrNoSuchRequest, requesterID)
	}

	rec.friendRequests = remove(rec.friendRequests, requesterID)
	rec.friends = append(rec.friends, requesterID)

	// обратная сторона дружбы
	if requester, ok := s.users[requesterID]; ok {
		requester.friends = append(requester.friends, userID)
	}

	return s.toModel(rec, true), nil
}

func (s *UserMemoryStorage) RejectFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, userID)
	}

	// молчаливо идемпотентно: нет заявки - ничего не меняем
	rec.friendRequests = remove(rec.friendRequests, requesterID)
	return s.toModel(rec, true), nil
}

// toModel конвертирует запись в API-модель. Вызывать только под мьютексом
func (s *UserMemoryStorage) toModel(rec *userRecord, withRelations bool) *model.User {
	u := &model.User{
		ID:       rec.id,
		Username: rec.username,
		Email:    rec.email,
	}
	if rec.bio != "" {
		bio := rec.bio
		u.Bio = &bio
	}

	if withRelations {
		for _, friendID := range rec.friends {
			if friendRec, ok := s.users[friendID]; ok {
				u.Friends = append(u.Friends, s.toModel(friendRec, false))
			}
		}
		for _, reqID := range rec.friendRequests {
			if reqRec, ok := s.users[reqID]; ok {
				u.FriendRequests = append(u.FriendRequests, s.toModel(reqRec, false))
			}
		}
	}

	return u
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
