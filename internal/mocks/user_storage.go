package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/user"
)

// mockUser - запись мока вместе со списками связей
type mockUser struct {
	user           *model.User
	password       string
	friends        []string
	friendRequests []string
}

// MockUserStorage реализует интерфейс user.UserStorage для тестирования.
// Пароли хранятся открытым текстом, id - последовательные числа
type MockUserStorage struct {
	mu     sync.Mutex
	users  map[string]*mockUser // id -> запись
	emails map[string]string    // email -> id
	nextID int

	// FailAcceptSecondWrite имитирует падение второй записи при принятии заявки:
	// документ принимающего уже обновлен, документ отправителя - нет
	FailAcceptSecondWrite bool
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:  make(map[string]*mockUser),
		emails: make(map[string]string),
		nextID: 1,
	}
}

// RegisterUser имитирует регистрацию пользователя
func (m *MockUserStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[email]; exists {
		return nil, fmt.Errorf("%w: email %s is taken", user.ErrAlreadyExists, email)
	}

	id := strconv.Itoa(m.nextID)
	m.nextID++

	rec := &mockUser{
		user: &model.User{
			ID:       id,
			Username: username,
			Email:    email,
		},
		password: password,
	}

	m.users[id] = rec
	m.emails[email] = id

	return copyUser(rec.user), nil
}

// LoginUser имитирует авторизацию пользователя
func (m *MockUserStorage) LoginUser(ctx context.Context, email, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, exists := m.emails[email]
	if !exists {
		return nil, fmt.Errorf("%w: no user with email %s", user.ErrNotFound, email)
	}

	rec := m.users[id]
	if rec.password != password {
		return nil, fmt.Errorf("%w: password mismatch", user.ErrInvalidCredentials)
	}

	return copyUser(rec.user), nil
}

func (m *MockUserStorage) GetUserById(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[id]
	if !exists {
		return nil, nil
	}

	return copyUser(rec.user), nil
}

func (m *MockUserStorage) GetUserWithRelations(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	return m.resolve(rec), nil
}

func (m *MockUserStorage) GetFriendRequests(ctx context.Context, id string) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	requesters := make([]*model.User, 0, len(rec.friendRequests))
	for _, reqID := range rec.friendRequests {
		if reqRec, ok := m.users[reqID]; ok {
			requesters = append(requesters, copyUser(reqRec.user))
		}
	}

	return requesters, nil
}

func (m *MockUserStorage) UpdateBio(ctx context.Context, id, bio string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, id)
	}

	b := bio
	rec.user.Bio = &b
	return m.resolve(rec), nil
}

func (m *MockUserStorage) SendFriendRequest(ctx context.Context, senderID, recipientID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipient, exists := m.users[recipientID]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, recipientID)
	}

	for _, pending := range recipient.friendRequests {
		if pending == senderID {
			return nil, fmt.Errorf("%w: to user %s", user.ErrDuplicateRequest, recipientID)
		}
	}

	recipient.friendRequests = append(recipient.friendRequests, senderID)
	return m.resolve(recipient), nil
}

func (m *MockUserStorage) AcceptFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, userID)
	}

	found := false
	for _, pending := range rec.friendRequests {
		if pending == requesterID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: requester %s", user.ErrNoSuchRequest, requesterID)
	}

	kept := rec.friendRequests[:0]
	for _, pending := range rec.friendRequests {
		if pending != requesterID {
			kept = append(kept, pending)
		}
	}
	rec.friendRequests = kept
	rec.friends = append(rec.friends, requesterID)

	if m.FailAcceptSecondWrite {
		return nil, fmt.Errorf("failed to update requester: simulated write failure")
	}

	if requester, ok := m.users[requesterID]; ok {
		requester.friends = append(requester.friends, userID)
	}

	return m.resolve(rec), nil
}

func (m *MockUserStorage) RejectFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: id %s", user.ErrNotFound, userID)
	}

	kept := rec.friendRequests[:0]
	for _, pending := range rec.friendRequests {
		if pending != requesterID {
			kept = append(kept, pending)
		}
	}
	rec.friendRequests = kept

	return m.resolve(rec), nil
}

// Friends вспомогательный метод для тестирования
func (m *MockUserStorage) Friends(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[id]
	if !exists {
		return nil
	}
	return append([]string(nil), rec.friends...)
}

// PendingRequests вспомогательный метод для тестирования
func (m *MockUserStorage) PendingRequests(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.users[id]
	if !exists {
		return nil
	}
	return append([]string(nil), rec.friendRequests...)
}

// Count вспомогательный метод для тестирования
func (m *MockUserStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// resolve собирает пользователя с развернутыми связями. Вызывать под мьютексом
func (m *MockUserStorage) resolve(rec *mockUser) *model.User {
	u := copyUser(rec.user)
	for _, friendID := range rec.friends {
		if friendRec, ok := m.users[friendID]; ok {
			u.Friends = append(u.Friends, copyUser(friendRec.user))
		}
	}
	for _, reqID := range rec.friendRequests {
		if reqRec, ok := m.users[reqID]; ok {
			u.FriendRequests = append(u.FriendRequests, copyUser(reqRec.user))
		}
	}
	return u
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Friends = nil
	c.FriendRequests = nil
	c.Token = nil
	return &c
}
