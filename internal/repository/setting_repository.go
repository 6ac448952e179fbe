package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"productposts/internal/models"
)

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetValue(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return setting.Value, nil
}

func (r *settingRepository) SetValue(ctx context.Context, key, value string) error {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.Setting{Key: key, Value: value}
		if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return fmt.Errorf("create setting %s: %w", key, err)
		}
		return nil
	} else if err != nil {
		return fmt.Errorf("get setting %s: %w", key, err)
	}

	setting.Value = value
	if err := r.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return fmt.Errorf("update setting %s: %w", key, err)
	}
	return nil
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&models.Setting{}).Error; err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// EnsureValue stores value under key unless a non-empty value is already
// present. It reports whether it wrote anything.
func EnsureValue(ctx context.Context, settings SettingRepository, key, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	current, err := settings.GetValue(ctx, key)
	if err != nil {
		return false, err
	}
	if current != "" {
		return false, nil
	}
	if err := settings.SetValue(ctx, key, value); err != nil {
		return false, err
	}
	return true, nil
}
