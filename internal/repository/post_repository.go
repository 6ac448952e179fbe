package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"productposts/internal/models"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Meta").Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) AddMeta(ctx context.Context, postID, key, value string) error {
	meta := models.PostMeta{PostID: postID, Key: key, Value: value}
	if err := r.db.WithContext(ctx).Create(&meta).Error; err != nil {
		return fmt.Errorf("add meta %s to post %s: %w", key, postID, err)
	}
	return nil
}

func (r *postRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Meta", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter ListFilter) ([]models.Post, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Type != "" {
		query = query.Where("post_type = ?", filter.Type)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var posts []models.Post
	err := query.Order("created_at DESC").Offset(filter.Offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostMeta{}).Error; err != nil {
			return fmt.Errorf("delete meta of post %s: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete post %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) Transaction(ctx context.Context, fn func(tx PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postRepository{db: tx})
	})
}
