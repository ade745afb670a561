package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Lisura123/AXG-Photo-sub001/internal/dto"
	"github.com/Lisura123/AXG-Photo-sub001/internal/model"
	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

// ProductCacheKey is the redis key for a cached product detail response.
// Shared with the rating aggregator, which must invalidate it after
// rewriting the derived rating fields.
func ProductCacheKey(id uuid.UUID) string { return "product:" + id.String() }

// ProductService defines the business logic contract for catalog products.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetBySlug(ctx context.Context, productSlug string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, dto.Meta, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo       repository.ProductRepository
	categories CategoryService
	rdb        *redis.Client
}

func NewProductService(repo repository.ProductRepository, categories CategoryService, rdb *redis.Client) ProductService {
	return &productService{repo: repo, categories: categories, rdb: rdb}
}

func mapProduct(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		CategoryID:    p.CategoryID.String(),
		SubCategory:   p.SubCategory,
		Brand:         p.Brand,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Status:        p.Status,
		Features:      p.Features,
		Featured:      p.Featured,
		AverageRating: p.AverageRating,
		TotalReviews:  p.TotalReviews,
		IsActive:      p.IsActive,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}

// normalizeStatus keeps status mechanically consistent with stock:
// zero stock forces out_of_stock (from active), restocking reverts
// out_of_stock to active. A manually set inactive is left alone.
func normalizeStatus(p *model.Product) {
	switch {
	case p.StockQuantity == 0 && p.Status == model.StatusActive:
		p.Status = model.StatusOutOfStock
	case p.StockQuantity > 0 && p.Status == model.StatusOutOfStock:
		p.Status = model.StatusActive
	}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, newValidation("categoryId", "must be a valid id")
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newValidation("categoryId", "category does not exist")
		}
		return nil, err
	}

	p := &model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Slug:          slug.Make(req.Name),
		Description:   req.Description,
		CategoryID:    categoryID,
		SubCategory:   req.SubCategory,
		Brand:         req.Brand,
		Price:         req.Price,
		StockQuantity: req.Stock,
		Status:        model.StatusActive,
		Features:      req.Features,
		Featured:      req.Featured,
		IsActive:      true,
	}
	normalizeStatus(p)

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "sku", Value: req.SKU}
		}
		return nil, err
	}
	return mapProduct(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ProductCacheKey(id)).Bytes(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapProduct(p)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, ProductCacheKey(id), data, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) GetBySlug(ctx context.Context, productSlug string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return mapProduct(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, dto.Meta, error) {
	categoryIDs, err := s.categories.ResolveFilter(ctx, filter.Category)
	if err != nil {
		return nil, dto.Meta{}, err
	}

	products, total, err := s.repo.List(ctx, filter, categoryIDs)
	if err != nil {
		return nil, dto.Meta{}, err
	}

	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *mapProduct(&products[i]))
	}
	page, limit := filter.Pagination()
	return resp, dto.NewMeta(total, page, limit), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != p.Name {
		p.Name = *req.Name
		p.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, newValidation("categoryId", "must be a valid id")
		}
		if _, err := s.categories.Get(ctx, categoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, newValidation("categoryId", "category does not exist")
			}
			return nil, err
		}
		p.CategoryID = categoryID
	}
	if req.SubCategory != nil {
		p.SubCategory = *req.SubCategory
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	// AverageRating / TotalReviews are derived fields — edits never touch them.
	normalizeStatus(p)

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "sku", Value: p.SKU}
		}
		return nil, err
	}
	s.invalidateCache(ctx, id)
	return mapProduct(p), nil
}

func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	next := p.StockQuantity + req.Delta
	if next < 0 {
		return nil, newValidation("delta", "stock cannot go negative")
	}
	p.StockQuantity = next
	normalizeStatus(p)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, id)

	log.Info().
		Str("product_id", id.String()).
		Int("delta", req.Delta).
		Int("stock", p.StockQuantity).
		Str("reason", req.Reason).
		Msg("stock adjusted")
	return mapProduct(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

// invalidateCache is best-effort: a failed delete only means a stale read
// until the TTL expires.
func (s *productService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ProductCacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache invalidation failed")
	}
}
