package repository

import (
	"context"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías, subcategorías y formulaciones.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *entity.ProductCategory) error
	GetCategory(ctx context.Context, id string) (*entity.ProductCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*entity.ProductCategory, error)
	UpdateCategory(ctx context.Context, c *entity.ProductCategory) error

	CreateSubCategory(ctx context.Context, s *entity.ProductSubCategory) error
	GetSubCategory(ctx context.Context, id string) (*entity.ProductSubCategory, error)
	ListSubCategories(ctx context.Context, categoryID string) ([]*entity.ProductSubCategory, error)
	UpdateSubCategory(ctx context.Context, s *entity.ProductSubCategory) error

	CreateFormulation(ctx context.Context, f *entity.ProductFormulation) error
	GetFormulation(ctx context.Context, id string) (*entity.ProductFormulation, error)
	ListFormulations(ctx context.Context) ([]*entity.ProductFormulation, error)
	UpdateFormulation(ctx context.Context, f *entity.ProductFormulation) error
}
