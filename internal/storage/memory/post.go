package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postRecord struct {
	id        string
	content   string
	authorID  string
	createdAt time.Time
}

type PostMemoryStorage struct {
	mu        sync.Mutex
	posts     []*postRecord
	userStore user.UserStorage
}

// NewPostMemoryStorage принимает хранилище пользователей для разворачивания автора
func NewPostMemoryStorage(userStore user.UserStorage) *PostMemoryStorage {
	return &PostMemoryStorage{
		userStore: userStore,
	}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, authorID, content string) (*model.Post, error) {
	author, err := s.userStore.GetUserById(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}
	if author == nil {
		return nil, fmt.Errorf("%w: author %s", user.ErrNotFound, authorID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &postRecord{
		id:        primitive.NewObjectID().Hex(),
		content:   content,
		authorID:  authorID,
		createdAt: time.Now().UTC(),
	}
	s.posts = append(s.posts, rec)

	return s.toModel(rec, author), nil
}

func (s *PostMemoryStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	s.mu.Lock()
	records := make([]*postRecord, len(s.posts))
	copy(records, s.posts)
	s.mu.Unlock()

	// новые первыми
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].createdAt.After(records[j].createdAt)
	})

	posts := make([]*model.Post, 0, len(records))
	for _, rec := range records {
		author, err := s.userStore.GetUserById(ctx, rec.authorID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve author: %w", err)
		}
		posts = append(posts, s.toModel(rec, author))
	}

	return posts, nil
}

func (s *PostMemoryStorage) toModel(rec *postRecord, author *model.User) *model.Post {
	return &model.Post{
		ID:        rec.id,
		Content:   rec.content,
		Author:    author,
		CreatedAt: rec.createdAt.Format(time.RFC3339),
	}
}
