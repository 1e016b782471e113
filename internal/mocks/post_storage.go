package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/friendly/graph/model"
)

// MockPostStorage реализует интерфейс post.PostStorage для тестирования.
// Автор не разворачивается в полную запись - подставляется заглушка с тем же id
type MockPostStorage struct {
	mu     sync.Mutex
	posts  []*model.Post
	times  map[string]time.Time
	nextID int

	// Clock позволяет тестам управлять серверным временем создания
	Clock func() time.Time
}

// NewMockPostStorage создает новый экземпляр мока для хранилища постов
func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		times:  make(map[string]time.Time),
		nextID: 1,
		Clock:  time.Now,
	}
}

// CreatePost имитирует создание поста
func (m *MockPostStorage) CreatePost(ctx context.Context, authorID, content string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := strconv.Itoa(m.nextID)
	m.nextID++

	createdAt := m.Clock().UTC()
	post := &model.Post{
		ID:        id,
		Content:   content,
		Author:    &model.User{ID: authorID},
		CreatedAt: createdAt.Format(time.RFC3339),
	}

	m.posts = append(m.posts, post)
	m.times[id] = createdAt

	return post, nil
}

// GetAllPosts имитирует выборку постов, новые первыми
func (m *MockPostStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Post, len(m.posts))
	copy(out, m.posts)

	// сортировка вставками по времени создания, новые первыми
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && m.times[out[j].ID].After(m.times[out[j-1].ID]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	return out, nil
}

// GetPostById вспомогательный метод для тестирования
func (m *MockPostStorage) GetPostById(id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}

	return nil, fmt.Errorf("post %s not found", id)
}

// Count вспомогательный метод для тестирования
func (m *MockPostStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}
