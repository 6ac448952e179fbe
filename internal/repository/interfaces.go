package repository

import (
	"context"
	"errors"

	"productposts/internal/models"
)

var ErrNotFound = errors.New("record not found")

// ListFilter narrows PostRepository.List. Zero values mean no filtering;
// Limit defaults to 20.
type ListFilter struct {
	Type   string
	Search string
	Offset int
	Limit  int
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	AddMeta(ctx context.Context, postID, key, value string) error
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter ListFilter) ([]models.Post, int64, error)
	Delete(ctx context.Context, id string) error

	// Transaction runs fn against a repository bound to a single database
	// transaction. A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx PostRepository) error) error
}

type SettingRepository interface {
	// GetValue returns "" for a key that was never set.
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
