package repository

import (
	"context"

	"github.com/Lisura123/AXG-Photo-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingAggregate is the result of a full re-scan over a product's approved
// reviews.
type RatingAggregate struct {
	Average float64
	Count   int64
}

// ReviewRepository defines the data access contract for product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.Review, int64, error)
	Update(ctx context.Context, rv *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementHelpful(ctx context.Context, id uuid.UUID) error

	// AggregateByProduct computes mean rating and count over the approved
	// reviews of a product. An empty set yields {0, 0}.
	AggregateByProduct(ctx context.Context, productID uuid.UUID) (RatingAggregate, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepo{db: db} }

func (r *reviewRepo) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).First(&rv, id).Error
	return &rv, err
}

func (r *reviewRepo) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rv).Error
	return &rv, err
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("product_id = ? AND is_approved = true", productID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepo) Update(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

func (r *reviewRepo) IncrementHelpful(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).
		Update("helpful_count", gorm.Expr("helpful_count + 1")).Error
}

func (r *reviewRepo) AggregateByProduct(ctx context.Context, productID uuid.UUID) (RatingAggregate, error) {
	var agg RatingAggregate
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = true", productID).
		Scan(&agg).Error
	return agg, err
}
