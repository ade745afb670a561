package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Lisura123/AXG-Photo-sub001/internal/dto"
	"github.com/Lisura123/AXG-Photo-sub001/internal/model"
	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CategoryFilterAll is the sentinel token meaning "no category constraint".
const CategoryFilterAll = "all"

// CategoryService defines business operations for catalog categories,
// including resolution of client-supplied category tokens into concrete
// filter sets for the product listing.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.CategoryResponse, error)
	Tree(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// ResolveFilter expands a category token (slug, display name, or raw id)
	// into the set of category ids the product listing filters on.
	// nil means "no filter". Matching is case-insensitive throughout.
	ResolveFilter(ctx context.Context, token string) ([]uuid.UUID, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func mapCategory(c *model.Category) *dto.CategoryResponse {
	resp := &dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
	if c.ParentID != nil {
		pid := c.ParentID.String()
		resp.ParentID = &pid
	}
	return resp
}

// ResolveFilter implements the leniency policy for category tokens:
//   - empty or "all"            → nil (no constraint)
//   - slug/name match, children → {self} ∪ {active direct children}
//   - slug/name match, leaf     → {self}
//   - no match, parsable uuid   → {literal id}
//   - no match, garbage token   → {uuid.Nil}, which matches no product
//
// An unresolvable token never raises an error; the query degrades to an
// empty result instead.
func (s *categoryService) ResolveFilter(ctx context.Context, token string) ([]uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, CategoryFilterAll) {
		return nil, nil
	}

	cat, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if id, perr := uuid.Parse(token); perr == nil {
			return []uuid.UUID{id}, nil
		}
		return []uuid.UUID{uuid.Nil}, nil
	}

	ids := []uuid.UUID{cat.ID}
	children, err := s.repo.FindChildren(ctx, cat.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		ids = append(ids, child.ID)
	}
	return ids, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.ParentID != nil {
		pid, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, newValidation("parentId", "must be a valid id")
		}
		if _, err := s.repo.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newValidation("parentId", "parent category does not exist")
			}
			return nil, err
		}
		c.ParentID = &pid
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "name", Value: req.Name}
		}
		return nil, err
	}
	return mapCategory(c), nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapCategory(c)
	children, err := s.repo.FindChildren(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for i := range children {
		resp.Children = append(resp.Children, *mapCategory(&children[i]))
	}
	return resp, nil
}

func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapCategory(&list[i]))
	}
	return result, nil
}

// Tree assembles the flat active-category list into a two-level hierarchy
// for storefront navigation.
func (s *categoryService) Tree(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]dto.CategoryResponse)
	var roots []dto.CategoryResponse
	for i := range list {
		mapped := *mapCategory(&list[i])
		if mapped.ParentID == nil {
			roots = append(roots, mapped)
		} else {
			byParent[*mapped.ParentID] = append(byParent[*mapped.ParentID], mapped)
		}
	}
	for i := range roots {
		roots[i].Children = byParent[roots[i].ID]
	}
	return roots, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != c.Name {
		existing, err := s.repo.FindByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existing.ID != id {
			return nil, &ConflictError{Field: "name", Value: *req.Name}
		}
		c.Name = *req.Name
		// Slug always tracks the name.
		c.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.ParentID != nil {
		pid, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, newValidation("parentId", "must be a valid id")
		}
		if err := s.checkCycle(ctx, id, pid); err != nil {
			return nil, err
		}
		c.ParentID = &pid
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "name", Value: c.Name}
		}
		return nil, err
	}
	return mapCategory(c), nil
}

// checkCycle rejects parent assignments that would make a category its own
// ancestor. The catalog is two-level in practice but the walk is bounded
// anyway in case deeper trees appear.
func (s *categoryService) checkCycle(ctx context.Context, id, parentID uuid.UUID) error {
	const maxDepth = 32
	current := parentID
	for i := 0; i < maxDepth; i++ {
		if current == id {
			return newValidation("parentId", "assignment would create a category cycle")
		}
		parent, err := s.repo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newValidation("parentId", "parent category does not exist")
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return newValidation("parentId", "category tree too deep")
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
