package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// DocumentFilter filtros comunes de listado de documentos.
type DocumentFilter struct {
	From, To *time.Time
	Limit    int
	Offset   int
}

// PurchaseRepository puerto de persistencia para GRN (cabecera + ítems).
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.StockPurchase) error
	// Update reemplaza cabecera e ítems.
	Update(ctx context.Context, p *entity.StockPurchase) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.StockPurchase, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.StockPurchase, error)
}

// SaleRepository puerto de persistencia para ventas y despachos.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.StockSale) error
	GetByID(ctx context.Context, id string) (*entity.StockSale, error)
	List(ctx context.Context, kind string, f DocumentFilter) ([]*entity.StockSale, error)
}

// AdjustmentRepository puerto de persistencia para ajustes.
type AdjustmentRepository interface {
	Create(ctx context.Context, a *entity.StockAdjustment) error
	List(ctx context.Context, f DocumentFilter) ([]*entity.StockAdjustment, error)
}
