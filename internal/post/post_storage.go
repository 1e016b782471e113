package post

import (
	"context"

	"github.com/VitaminP8/friendly/graph/model"
)

type PostStorage interface {
	// CreatePost создает пост с серверным createdAt и возвращает его с развернутым автором
	CreatePost(ctx context.Context, authorID, content string) (*model.Post, error)
	// GetAllPosts возвращает все посты, новые первыми, с развернутыми авторами
	GetAllPosts(ctx context.Context) ([]*model.Post, error)
}
