package repository

import (
	"context"

	"github.com/Lisura123/AXG-Photo-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines the data access contract for catalog categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// FindByToken matches a category by slug or display name,
	// case-insensitively. Used by the category filter resolver.
	FindByToken(ctx context.Context, token string) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	// FindChildren returns the active direct children of a category,
	// ordered for display. Children are always computed by query — there is
	// no stored child list.
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]model.Category, error)
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *categoryRepo) FindByToken(ctx context.Context, token string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("(LOWER(slug) = LOWER(?) OR LOWER(name) = LOWER(?)) AND is_active = true", token, token).
		First(&c).Error
	return &c, err
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&c).Error
	return &c, err
}

func (r *categoryRepo) FindChildren(ctx context.Context, parentID uuid.UUID) ([]model.Category, error) {
	var children []model.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = true", parentID).
		Order("sort_order ASC, name ASC").
		Find(&children).Error
	return children, err
}

func (r *categoryRepo) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{})
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	var categories []model.Category
	err := q.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Update("is_active", false).Error
}
