package common

import (
	"context"
	"errors"
	"eventspark/src/models"
	"eventspark/src/types"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func ListCategories(ctx context.Context, db *gorm.DB) ([]models.EventCategory, error) {
	categories := make([]models.EventCategory, 0)
	if err := db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func CreateCategory(ctx context.Context, db *gorm.DB, user types.CurrentUser, name string) (*models.EventCategory, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, types.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewValidationError("Category name is required.")
	}
	category := models.EventCategory{Name: name, Slug: slug.Make(name)}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EventCategory{}).Where("name = ? OR slug = ?", category.Name, category.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewValidationError("A category with this name already exists.")
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewValidationError("A category with this name already exists.")
		}
		return nil, err
	}
	return &category, nil
}
