package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, batch_number, expiry_date, cost_override, is_active, created_at, updated_at`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	if err := row.Scan(&b.ID, &b.ProductID, &b.BatchNumber, &b.ExpiryDate, &b.CostOverride,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create persiste un lote. El número de lote es único por producto.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_batches (id, product_id, batch_number, expiry_date, cost_override, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.ProductID, b.BatchNumber, b.ExpiryDate, b.CostOverride, b.IsActive, b.CreatedAt, b.UpdatedAt)
	return mapWriteError("insert batch", err)
}

// GetByID obtiene un lote; nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM product_batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetByProductAndNumber busca un lote por producto y número; nil si no existe.
func (r *BatchRepo) GetByProductAndNumber(ctx context.Context, productID, batchNumber string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+`
		FROM product_batches WHERE product_id = $1 AND batch_number = $2`, productID, batchNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by number: %w", err)
	}
	return b, nil
}

// ListByProduct lista los lotes de un producto, primero los que vencen antes.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID string, includeInactive bool) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, `SELECT `+batchColumns+` FROM product_batches
		WHERE product_id = $1 AND ($2 OR is_active) ORDER BY expiry_date, batch_number`, productID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Update actualiza vencimiento, costo y estado del lote.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_batches SET batch_number = $2, expiry_date = $3, cost_override = $4, is_active = $5, updated_at = $6
		WHERE id = $1`, b.ID, b.BatchNumber, b.ExpiryDate, b.CostOverride, b.IsActive, b.UpdatedAt)
	return mapWriteError("update batch", err)
}
