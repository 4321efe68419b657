package repository

import (
	"context"
	"errors"

	"recipehub/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// GetOrCreateTagByName looks a tag up by exact (case-sensitive) name and
// creates it with category "other" when missing. It takes the active handle
// directly so the authoring transaction can call it on its tx. A concurrent
// create racing on the unique name index is retried as a lookup.
func GetOrCreateTagByName(db *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name, Category: models.TagCategoryOther}
	if createErr := db.Create(&tag).Error; createErr != nil {
		if IsUniqueViolation(createErr) {
			if retryErr := db.Where("name = ?", name).First(&tag).Error; retryErr == nil {
				return &tag, nil
			}
		}
		return nil, createErr
	}
	return &tag, nil
}

func (r *tagRepository) ListByCategory(ctx context.Context, category string) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}
