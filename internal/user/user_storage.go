package user

import (
	"context"
	"errors"

	"github.com/VitaminP8/friendly/graph/model"
)

// PasswordHashCost - стоимость bcrypt при регистрации
const PasswordHashCost = 12

// Ошибки хранилища пользователей. Реализации оборачивают их через %w,
// проверять через errors.Is
var (
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateRequest   = errors.New("friend request already sent")
	ErrNoSuchRequest      = errors.New("no friend request from this user")
)

type UserStorage interface {
	// RegisterUser хеширует пароль и создает пользователя.
	// ErrAlreadyExists - если email уже занят
	RegisterUser(ctx context.Context, username, email, password string) (*model.User, error)
	// LoginUser сверяет пароль с хешем.
	// ErrNotFound - нет такого email, ErrInvalidCredentials - пароль не подошел
	LoginUser(ctx context.Context, email, password string) (*model.User, error)
	// GetUserById возвращает (nil, nil), если пользователя нет - это не ошибка
	GetUserById(ctx context.Context, id string) (*model.User, error)
	// GetUserWithRelations возвращает пользователя с развернутыми friends и friendRequests
	GetUserWithRelations(ctx context.Context, id string) (*model.User, error)
	// GetFriendRequests возвращает отправителей ожидающих заявок, развернутых в полные записи
	GetFriendRequests(ctx context.Context, id string) ([]*model.User, error)
	// UpdateBio заменяет bio и возвращает запись с развернутыми связями
	UpdateBio(ctx context.Context, id, bio string) (*model.User, error)

	// SendFriendRequest добавляет senderID в список заявок получателя.
	// ErrNotFound - получателя нет, ErrDuplicateRequest - заявка уже висит.
	// Возвращает получателя
	SendFriendRequest(ctx context.Context, senderID, recipientID string) (*model.User, error)
	// AcceptFriendRequest убирает заявку и делает дружбу взаимной: сначала
	// пишется документ принимающего, затем документ отправителя - без транзакции.
	// ErrNoSuchRequest - заявки от requesterID нет. Возвращает принимающего с развернутыми связями
	AcceptFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error)
	// RejectFriendRequest убирает заявку, если она есть; отсутствие заявки - не ошибка
	RejectFriendRequest(ctx context.Context, userID, requesterID string) (*model.User, error)
}
