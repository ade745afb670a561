package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lisura123/AXG-Photo-sub001/internal/config"
	"github.com/Lisura123/AXG-Photo-sub001/internal/dto"
	"github.com/Lisura123/AXG-Photo-sub001/internal/model"
	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"
	"github.com/Lisura123/AXG-Photo-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReviewService defines business operations for product reviews. Every
// mutation ends with a synchronous rating recompute so the product's derived
// fields are correct before the response goes out.
type ReviewService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, filter dto.ReviewFilter) ([]dto.ReviewResponse, dto.Meta, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID, isAdmin bool) error
	MarkHelpful(ctx context.Context, reviewID uuid.UUID) error
}

type reviewService struct {
	repo       repository.ReviewRepository
	products   repository.ProductRepository
	aggregator *RatingAggregator
	dispatcher *worker.Dispatcher
	cfg        *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	products repository.ProductRepository,
	aggregator *RatingAggregator,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) ReviewService {
	return &reviewService{repo: repo, products: products, aggregator: aggregator, dispatcher: dispatcher, cfg: cfg}
}

func mapReview(rv *model.Review) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:           rv.ID.String(),
		ProductID:    rv.ProductID.String(),
		UserID:       rv.UserID.String(),
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		IsApproved:   rv.IsApproved,
		HelpfulCount: rv.HelpfulCount,
		CreatedAt:    rv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rv.User != nil {
		resp.UserName = rv.User.Name
	}
	return resp
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, newValidation("productId", "must be a valid id")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rv := &model.Review{
		UserID:     userID,
		ProductID:  productID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: true,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		// The (user, product) unique index is the enforcement point; the
		// duplicate-key class is surfaced distinctly from validation errors.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "review", Value: product.Name}
		}
		return nil, err
	}

	if err := s.aggregator.Recompute(ctx, productID); err != nil {
		return nil, err
	}
	s.notifyAdmin(ctx, product.Name, req.Rating)

	return mapReview(rv), nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter dto.ReviewFilter) ([]dto.ReviewResponse, dto.Meta, error) {
	page, limit := filter.Pagination()
	reviews, total, err := s.repo.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, dto.Meta{}, err
	}
	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, *mapReview(&reviews[i]))
	}
	return resp, dto.NewMeta(total, page, limit), nil
}

func (s *reviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	rv, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rv.UserID != userID {
		return nil, ErrForbidden
	}

	if req.Rating != nil {
		rv.Rating = *req.Rating
	}
	if req.Comment != nil {
		rv.Comment = req.Comment
	}
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	if err := s.aggregator.Recompute(ctx, rv.ProductID); err != nil {
		return nil, err
	}
	return mapReview(rv), nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID, isAdmin bool) error {
	rv, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isAdmin && rv.UserID != userID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}
	return s.aggregator.Recompute(ctx, rv.ProductID)
}

func (s *reviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.IncrementHelpful(ctx, reviewID)
}

// notifyAdmin enqueues a new-review notification. Best-effort: review
// submission never fails on a full queue or missing admin address.
func (s *reviewService) notifyAdmin(ctx context.Context, productName string, rating int) {
	if s.dispatcher == nil || s.cfg.AdminEmail == "" {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: s.cfg.AdminEmail,
		Subject: fmt.Sprintf("New review for %s", productName),
		Body:    fmt.Sprintf("A customer rated %s %d/5.", productName, rating),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("failed to enqueue review notification")
	}
}
