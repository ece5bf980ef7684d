package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// CategoryUseCase categorías, subcategorías y formulaciones.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	now  func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, now: time.Now}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	return name, nil
}

// CreateCategory crea una categoría activa. Nombre repetido → ErrDuplicate.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	c := &entity.ProductCategory{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

// ListCategories lista categorías; activeOnly oculta las inactivas.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *categoryResponse(c))
	}
	return out, nil
}

// UpdateCategory reemplaza nombre y descripción; IsActive solo si viene informado.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	c.Name, c.Description = name, in.Description
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = uc.now().UTC()
	if err := uc.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

// DeactivateCategory marca la categoría como inactiva.
func (uc *CategoryUseCase) DeactivateCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	inactive := false
	return uc.UpdateCategory(ctx, id, dto.CategoryRequest{Name: c.Name, Description: c.Description, IsActive: &inactive})
}

// CreateSubCategory crea una subcategoría dentro de una categoría existente.
func (uc *CategoryUseCase) CreateSubCategory(ctx context.Context, categoryID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if _, err := uc.getCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	s := &entity.ProductSubCategory{
		ID:          uuid.New().String(),
		CategoryID:  categoryID,
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreateSubCategory(ctx, s); err != nil {
		return nil, err
	}
	return subCategoryResponse(s), nil
}

// ListSubCategories lista las subcategorías de una categoría.
func (uc *CategoryUseCase) ListSubCategories(ctx context.Context, categoryID string) ([]dto.CategoryResponse, error) {
	if _, err := uc.getCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *subCategoryResponse(s))
	}
	return out, nil
}

// UpdateSubCategory actualiza una subcategoría.
func (uc *CategoryUseCase) UpdateSubCategory(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	s, err := uc.repo.GetSubCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	s.Name, s.Description = name, in.Description
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.UpdatedAt = uc.now().UTC()
	if err := uc.repo.UpdateSubCategory(ctx, s); err != nil {
		return nil, err
	}
	return subCategoryResponse(s), nil
}

// CreateFormulation crea una formulación activa.
func (uc *CategoryUseCase) CreateFormulation(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	f := &entity.ProductFormulation{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreateFormulation(ctx, f); err != nil {
		return nil, err
	}
	return formulationResponse(f), nil
}

// ListFormulations lista formulaciones.
func (uc *CategoryUseCase) ListFormulations(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListFormulations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, f := range list {
		out = append(out, *formulationResponse(f))
	}
	return out, nil
}

// UpdateFormulation actualiza una formulación.
func (uc *CategoryUseCase) UpdateFormulation(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	f, err := uc.repo.GetFormulation(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	f.Name, f.Description = name, in.Description
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	f.UpdatedAt = uc.now().UTC()
	if err := uc.repo.UpdateFormulation(ctx, f); err != nil {
		return nil, err
	}
	return formulationResponse(f), nil
}

func (uc *CategoryUseCase) getCategory(ctx context.Context, id string) (*entity.ProductCategory, error) {
	c, err := uc.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func categoryResponse(c *entity.ProductCategory) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func subCategoryResponse(s *entity.ProductSubCategory) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
	}
}

func formulationResponse(f *entity.ProductFormulation) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
	}
}
