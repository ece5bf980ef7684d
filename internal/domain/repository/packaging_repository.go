package repository

import (
	"context"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// PackagingRepository puerto para unidades de empaque y plantillas.
type PackagingRepository interface {
	ListUnits(ctx context.Context, productID string) ([]*entity.PackagingUnit, error)
	GetUnit(ctx context.Context, id string) (*entity.PackagingUnit, error)
	// ReplaceUnits borra las unidades del producto e inserta las nuevas.
	ReplaceUnits(ctx context.Context, productID string, units []*entity.PackagingUnit) error

	CreateTemplate(ctx context.Context, t *entity.PackagingTemplate) error
	GetTemplate(ctx context.Context, id string) (*entity.PackagingTemplate, error)
	ListTemplates(ctx context.Context) ([]*entity.PackagingTemplate, error)
}
