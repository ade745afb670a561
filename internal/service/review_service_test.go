package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Lisura123/AXG-Photo-sub001/internal/config"
	"github.com/Lisura123/AXG-Photo-sub001/internal/dto"
	"github.com/Lisura123/AXG-Photo-sub001/internal/model"
	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"
	"github.com/Lisura123/AXG-Photo-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ReviewRepository stub ──────────────────────────────────────────

type stubReviewRepo struct {
	reviews []*model.Review
}

func newStubReviewRepo() *stubReviewRepo { return &stubReviewRepo{} }

func (r *stubReviewRepo) findReview(id uuid.UUID) *model.Review {
	for _, rv := range r.reviews {
		if rv.ID == id {
			return rv
		}
	}
	return nil
}

func (r *stubReviewRepo) Create(_ context.Context, rv *model.Review) error {
	for _, existing := range r.reviews {
		if existing.UserID == rv.UserID && existing.ProductID == rv.ProductID {
			return gorm.ErrDuplicatedKey
		}
	}
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	r.reviews = append(r.reviews, rv)
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	if rv := r.findReview(id); rv != nil {
		return rv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReviewRepo) FindByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (*model.Review, error) {
	for _, rv := range r.reviews {
		if rv.UserID == userID && rv.ProductID == productID {
			return rv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReviewRepo) ListByProduct(_ context.Context, productID uuid.UUID, page, limit int) ([]model.Review, int64, error) {
	var matched []model.Review
	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.IsApproved {
			matched = append(matched, *rv)
		}
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubReviewRepo) Update(_ context.Context, rv *model.Review) error {
	for i, existing := range r.reviews {
		if existing.ID == rv.ID {
			r.reviews[i] = rv
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, rv := range r.reviews {
		if rv.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReviewRepo) IncrementHelpful(_ context.Context, id uuid.UUID) error {
	rv := r.findReview(id)
	if rv == nil {
		return gorm.ErrRecordNotFound
	}
	rv.HelpfulCount++
	return nil
}

func (r *stubReviewRepo) AggregateByProduct(_ context.Context, productID uuid.UUID) (repository.RatingAggregate, error) {
	var sum, count int64
	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.IsApproved {
			sum += int64(rv.Rating)
			count++
		}
	}
	agg := repository.RatingAggregate{Count: count}
	if count > 0 {
		agg.Average = float64(sum) / float64(count)
	}
	return agg, nil
}

var _ repository.ReviewRepository = (*stubReviewRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type reviewFixture struct {
	reviews  *stubReviewRepo
	products *stubProductRepo
	svc      service.ReviewService
	product  *model.Product
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	reviews := newStubReviewRepo()
	products := newStubProductRepo()
	product := seedProduct(products, "67mm UV Filter", "FLT-067", uuid.New(), 8)

	aggregator := service.NewRatingAggregator(reviews, products, nil)
	svc := service.NewReviewService(reviews, products, aggregator, nil, &config.Config{})
	return &reviewFixture{reviews: reviews, products: products, svc: svc, product: product}
}

func (fx *reviewFixture) submit(t *testing.T, userID uuid.UUID, rating int) *dto.ReviewResponse {
	t.Helper()
	resp, err := fx.svc.Create(context.Background(), userID, dto.CreateReviewRequest{
		ProductID: fx.product.ID.String(),
		Rating:    rating,
	})
	require.NoError(t, err)
	return resp
}

func (fx *reviewFixture) productRating(t *testing.T) (float64, int) {
	t.Helper()
	p, err := fx.products.FindByID(context.Background(), fx.product.ID)
	require.NoError(t, err)
	return p.AverageRating, p.TotalReviews
}

// ── Aggregation ──────────────────────────────────────────────────────────────

func TestReviewCreateUpdatesAggregate(t *testing.T) {
	fx := newReviewFixture(t)

	fx.submit(t, uuid.New(), 5)
	fx.submit(t, uuid.New(), 4)
	fx.submit(t, uuid.New(), 4)

	// mean(5,4,4) = 4.333…, rounded half-up to one decimal
	avg, total := fx.productRating(t)
	assert.Equal(t, 4.3, avg)
	assert.Equal(t, 3, total)
}

func TestReviewDeleteRecomputesAggregate(t *testing.T) {
	fx := newReviewFixture(t)

	top := fx.submit(t, uuid.New(), 5)
	fx.submit(t, uuid.New(), 4)
	fx.submit(t, uuid.New(), 4)

	topID := uuid.MustParse(top.ID)
	topUser := uuid.MustParse(top.UserID)
	require.NoError(t, fx.svc.Delete(context.Background(), topUser, topID, false))

	avg, total := fx.productRating(t)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 2, total)
}

func TestDeletingLastReviewResetsAggregate(t *testing.T) {
	fx := newReviewFixture(t)

	only := fx.submit(t, uuid.New(), 5)
	require.NoError(t, fx.svc.Delete(
		context.Background(),
		uuid.MustParse(only.UserID),
		uuid.MustParse(only.ID),
		false,
	))

	avg, total := fx.productRating(t)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, total)
}

func TestReviewUpdateRecomputesAggregate(t *testing.T) {
	fx := newReviewFixture(t)

	userID := uuid.New()
	created := fx.submit(t, userID, 2)
	fx.submit(t, uuid.New(), 4)

	newRating := 5
	_, err := fx.svc.Update(context.Background(), userID, uuid.MustParse(created.ID), dto.UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)

	avg, total := fx.productRating(t)
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, 2, total)
}

func TestUnapprovedReviewsExcludedFromAggregate(t *testing.T) {
	fx := newReviewFixture(t)

	fx.submit(t, uuid.New(), 5)
	hidden := fx.submit(t, uuid.New(), 1)
	fx.reviews.findReview(uuid.MustParse(hidden.ID)).IsApproved = false

	// Next mutation re-scans and drops the unapproved review.
	fx.submit(t, uuid.New(), 5)

	avg, total := fx.productRating(t)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, 2, total)
}

// ── Uniqueness / ownership ───────────────────────────────────────────────────

func TestDuplicateReviewIsConflictNotValidation(t *testing.T) {
	fx := newReviewFixture(t)

	userID := uuid.New()
	fx.submit(t, userID, 5)

	_, err := fx.svc.Create(context.Background(), userID, dto.CreateReviewRequest{
		ProductID: fx.product.ID.String(),
		Rating:    3,
	})
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
	var validation *service.ValidationError
	assert.False(t, errors.As(err, &validation))
}

func TestReviewUpdateRequiresOwnership(t *testing.T) {
	fx := newReviewFixture(t)

	created := fx.submit(t, uuid.New(), 4)
	stranger := uuid.New()

	newRating := 1
	_, err := fx.svc.Update(context.Background(), stranger, uuid.MustParse(created.ID), dto.UpdateReviewRequest{Rating: &newRating})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestReviewDeleteRequiresOwnershipUnlessAdmin(t *testing.T) {
	fx := newReviewFixture(t)

	created := fx.submit(t, uuid.New(), 4)
	reviewID := uuid.MustParse(created.ID)
	stranger := uuid.New()

	err := fx.svc.Delete(context.Background(), stranger, reviewID, false)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Admins moderate anyone's review.
	require.NoError(t, fx.svc.Delete(context.Background(), stranger, reviewID, true))
	_, total := fx.productRating(t)
	assert.Equal(t, 0, total)
}

func TestReviewForMissingProduct(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), dto.CreateReviewRequest{
		ProductID: uuid.NewString(),
		Rating:    4,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMarkHelpfulIncrements(t *testing.T) {
	fx := newReviewFixture(t)

	created := fx.submit(t, uuid.New(), 4)
	reviewID := uuid.MustParse(created.ID)

	require.NoError(t, fx.svc.MarkHelpful(context.Background(), reviewID))
	require.NoError(t, fx.svc.MarkHelpful(context.Background(), reviewID))
	assert.Equal(t, 2, fx.reviews.findReview(reviewID).HelpfulCount)
}

func TestListByProductOnlyApproved(t *testing.T) {
	fx := newReviewFixture(t)

	fx.submit(t, uuid.New(), 5)
	hidden := fx.submit(t, uuid.New(), 1)
	fx.reviews.findReview(uuid.MustParse(hidden.ID)).IsApproved = false

	resp, meta, err := fx.svc.ListByProduct(context.Background(), fx.product.ID, dto.ReviewFilter{})
	require.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, int64(1), meta.Total)
}
