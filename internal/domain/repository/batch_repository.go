package repository

import (
	"context"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// BatchRepository puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetByProductAndNumber(ctx context.Context, productID, batchNumber string) (*entity.Batch, error)
	ListByProduct(ctx context.Context, productID string, includeInactive bool) ([]*entity.Batch, error)
	Update(ctx context.Context, batch *entity.Batch) error
}
