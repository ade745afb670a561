package service_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/Lisura123/AXG-Photo-sub001/internal/dto"
	"github.com/Lisura123/AXG-Photo-sub001/internal/model"
	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"
	"github.com/Lisura123/AXG-Photo-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

// stubProductRepo keeps products in insertion order so listings are
// deterministic without relying on map iteration.
type stubProductRepo struct {
	products []*model.Product
}

func newStubProductRepo() *stubProductRepo { return &stubProductRepo{} }

func (r *stubProductRepo) find(id uuid.UUID) *model.Product {
	for _, p := range r.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU || existing.Slug == p.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products = append(r.products, p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if p := r.find(id); p != nil {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindBySlug(_ context.Context, slugText string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Slug == slugText && p.IsActive {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter, categoryIDs []uuid.UUID) ([]model.Product, int64, error) {
	var matched []model.Product
	for _, p := range r.products {
		if !p.IsActive {
			continue
		}
		if categoryIDs != nil && !containsID(categoryIDs, p.CategoryID) {
			continue
		}
		if filter.SubCategory != "" && p.SubCategory != filter.SubCategory {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Featured == "true" && !(p.Featured && p.Status == model.StatusActive) {
			continue
		}
		if filter.Search != "" && !matchesSearch(p, filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		switch filter.SortBy {
		case "name":
			if filter.SortOrder == "asc" {
				return matched[i].Name < matched[j].Name
			}
			return matched[i].Name > matched[j].Name
		case "price":
			if filter.SortOrder == "asc" {
				return matched[i].Price.LessThan(matched[j].Price)
			}
			return matched[i].Price.GreaterThan(matched[j].Price)
		default:
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
	})

	total := int64(len(matched))
	page, limit := filter.Pagination()
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

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	for _, existing := range r.products {
		if existing.ID != p.ID && (existing.SKU == p.SKU || existing.Slug == p.Slug) {
			return gorm.ErrDuplicatedKey
		}
	}
	for i, existing := range r.products {
		if existing.ID == p.ID {
			r.products[i] = p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = true
	return nil
}

func (r *stubProductRepo) UpdateRating(_ context.Context, id uuid.UUID, average float64, total int64) error {
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.AverageRating = average
	p.TotalReviews = int(total)
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func matchesSearch(p *model.Product, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Brand), term) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term) {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type catalogFixture struct {
	categories *stubCategoryRepo
	products   *stubProductRepo
	svc        service.ProductService
}

func newCatalogFixture() *catalogFixture {
	categories := newStubCategoryRepo()
	products := newStubProductRepo()
	categorySvc := service.NewCategoryService(categories)
	return &catalogFixture{
		categories: categories,
		products:   products,
		svc:        service.NewProductService(products, categorySvc, nil),
	}
}

func seedProduct(repo *stubProductRepo, name, sku string, categoryID uuid.UUID, stock int) *model.Product {
	p := &model.Product{
		ID:            uuid.New(),
		SKU:           sku,
		Name:          name,
		Slug:          strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		CategoryID:    categoryID,
		Price:         decimal.NewFromInt(100),
		StockQuantity: stock,
		Status:        model.StatusActive,
		IsActive:      true,
	}
	if stock == 0 {
		p.Status = model.StatusOutOfStock
	}
	repo.products = append(repo.products, p)
	return p
}

// ── Create / status normalization ────────────────────────────────────────────

func TestCreateProductZeroStockIsOutOfStock(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)

	resp, err := fx.svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:        "TRP-001",
		Name:       "Carbon Travel Tripod",
		CategoryID: cat.ID.String(),
		Price:      decimal.NewFromInt(249),
		Stock:      0,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOutOfStock, resp.Status)
	assert.Equal(t, "carbon-travel-tripod", resp.Slug)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	fx := newCatalogFixture()

	_, err := fx.svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:        "TRP-001",
		Name:       "Carbon Travel Tripod",
		CategoryID: uuid.NewString(),
		Price:      decimal.NewFromInt(249),
		Stock:      3,
	})
	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "categoryId")
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 3)

	_, err := fx.svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:        "TRP-001",
		Name:       "Aluminum Studio Tripod",
		CategoryID: cat.ID.String(),
		Price:      decimal.NewFromInt(129),
		Stock:      5,
	})
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "sku", conflict.Field)
}

// ── Stock adjustment ─────────────────────────────────────────────────────────

func TestAdjustStockToZeroFlipsOutOfStock(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 2)

	resp, err := fx.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: -2, Reason: "sold out"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StockQuantity)
	assert.Equal(t, model.StatusOutOfStock, resp.Status)
}

func TestAdjustStockRestockReactivates(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 0)

	resp, err := fx.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: 10, Reason: "restock"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.StockQuantity)
	assert.Equal(t, model.StatusActive, resp.Status)
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 2)

	_, err := fx.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: -5})
	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "delta")

	stored, _ := fx.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 2, stored.StockQuantity)
}

func TestUpdateRepairsStaleOutOfStock(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 5)
	// Simulate stale data: stock on hand but status still out_of_stock.
	p.Status = model.StatusOutOfStock

	resp, err := fx.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, resp.Status)
}

func TestUpdateLeavesInactiveAlone(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 0)
	inactive := model.StatusInactive

	resp, err := fx.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, resp.Status, "inactive is never auto-overridden")
}

func TestUpdateNeverTouchesDerivedRating(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 5)
	p.AverageRating = 4.3
	p.TotalReviews = 12

	newName := "Carbon Travel Tripod Mk II"
	resp, err := fx.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, 4.3, resp.AverageRating)
	assert.Equal(t, 12, resp.TotalReviews)
}

// ── Listing ──────────────────────────────────────────────────────────────────

func TestListExpandsCategoryHierarchy(t *testing.T) {
	fx := newCatalogFixture()
	parent, children := seedFilterTree(fx.categories)
	inChild := seedProduct(fx.products, "67mm UV Filter", "FLT-067", children[1].ID, 8)
	inParent := seedProduct(fx.products, "Filter Pouch", "FLT-PCH", parent.ID, 4)
	tripods := seedCategory(fx.categories, "Tripods", "tripods", nil)
	seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", tripods.ID, 3)

	resp, meta, err := fx.svc.List(context.Background(), dto.ProductFilter{Category: "lens-filters"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Total)

	var names []string
	for _, p := range resp {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{inChild.Name, inParent.Name}, names)
}

func TestListWithoutCategoryReturnsEverything(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 3)
	seedProduct(fx.products, "Aluminum Studio Tripod", "TRP-002", cat.ID, 5)

	_, meta, err := fx.svc.List(context.Background(), dto.ProductFilter{Category: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Total)
}

func TestListUnknownCategoryReturnsEmpty(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 3)

	resp, meta, err := fx.svc.List(context.Background(), dto.ProductFilter{Category: "no-such-category"})
	require.NoError(t, err)
	assert.Empty(t, resp)
	assert.Equal(t, int64(0), meta.Total)
}

func TestListFeaturedExcludesOutOfStock(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	active := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 3)
	active.Featured = true
	oos := seedProduct(fx.products, "Aluminum Studio Tripod", "TRP-002", cat.ID, 0)
	oos.Featured = true

	resp, meta, err := fx.svc.List(context.Background(), dto.ProductFilter{Featured: "true"})
	require.NoError(t, err)
	require.Equal(t, int64(1), meta.Total)
	assert.Equal(t, active.Name, resp[0].Name)
}

func TestListSearchCoversFeatures(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Lens Filters", "lens-filters", nil)
	match := seedProduct(fx.products, "67mm UV Filter", "FLT-067", cat.ID, 8)
	match.Features = []string{"multi-coated glass", "slim frame"}
	seedProduct(fx.products, "Filter Pouch", "FLT-PCH", cat.ID, 4)

	resp, _, err := fx.svc.List(context.Background(), dto.ProductFilter{Search: "multi-coated"})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, match.Name, resp[0].Name)
}

func TestListMetaPagination(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	for i := 0; i < 5; i++ {
		seedProduct(fx.products, "Tripod "+string(rune('A'+i)), "TRP-00"+string(rune('1'+i)), cat.ID, 3)
	}

	resp, meta, err := fx.svc.List(context.Background(), dto.ProductFilter{Page: "2", Limit: "2"})
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.Pages)
	assert.True(t, meta.HasMore)
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

func TestDeactivateHidesProductFromListing(t *testing.T) {
	fx := newCatalogFixture()
	cat := seedCategory(fx.categories, "Tripods", "tripods", nil)
	p := seedProduct(fx.products, "Carbon Travel Tripod", "TRP-001", cat.ID, 3)

	require.NoError(t, fx.svc.Deactivate(context.Background(), p.ID))

	_, meta, err := fx.svc.List(context.Background(), dto.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Total)

	require.NoError(t, fx.svc.Reactivate(context.Background(), p.ID))
	_, meta, err = fx.svc.List(context.Background(), dto.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
}

func TestGetMissingProduct(t *testing.T) {
	fx := newCatalogFixture()
	_, err := fx.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
