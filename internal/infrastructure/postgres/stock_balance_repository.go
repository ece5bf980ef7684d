package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo saldos materializados (products_stock_status) sobre PostgreSQL.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `product_id, batch_id, location_type, location_id, quantity, cost_per_unit, updated_at`

// Claves de advisory lock: (ledgerLockClass, 0) global; (pairLockClass, hash) por producto/lote.
const (
	ledgerLockClass = 7301
	pairLockClass   = 7302
)

// LockProductBatch toma el lock global en modo compartido y el del par en modo exclusivo.
// FOR UPDATE no alcanza: no bloquea filas que aún no existen ni las que borra un rebuild.
func (r *StockBalanceRepo) LockProductBatch(ctx context.Context, productID, batchID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock_shared($1, 0), pg_advisory_xact_lock($2, hashtext($3))`,
		ledgerLockClass, pairLockClass, productID+"|"+batchID)
	return mapWriteError("lock product batch", err)
}

// LockAll toma el lock global en modo exclusivo (reconstrucción completa).
func (r *StockBalanceRepo) LockAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, 0)`, ledgerLockClass)
	return mapWriteError("lock stock balances", err)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE); nil si no existe.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, productID, batchID, locationType, locationID string) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM products_stock_status
		WHERE product_id = $1 AND batch_id = $2 AND location_type = $3 AND location_id = $4
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, batchID, locationType, locationID).Scan(
		&b.ProductID, &b.BatchID, &b.LocationType, &b.LocationID, &b.Quantity, &b.CostPerUnit, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapWriteError("get stock balance for update", err)
	}
	return &b, nil
}

// Upsert inserta o reemplaza la fila del saldo (cantidad y costo ya calculados por el motor).
func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO products_stock_status (product_id, batch_id, location_type, location_id, quantity, cost_per_unit, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, batch_id, location_type, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, cost_per_unit = EXCLUDED.cost_per_unit, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, b.ProductID, b.BatchID, b.LocationType, b.LocationID, b.Quantity, b.CostPerUnit, b.UpdatedAt)
	return mapWriteError("upsert stock balance", err)
}

// List saldos con datos de producto y lote para clasificación.
func (r *StockBalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalanceView, error) {
	var w whereBuilder
	if f.LocationType != "" {
		w.add("s.location_type = ?", f.LocationType)
	}
	if f.LocationID != "" {
		w.add("s.location_id = ?", f.LocationID)
	}
	if f.ProductID != "" {
		w.add("s.product_id = ?", f.ProductID)
	}
	if f.PositiveOnly {
		w.add("s.quantity > ?", 0)
	}
	query := `
		SELECT s.product_id, s.batch_id, s.location_type, s.location_id, s.quantity, s.cost_per_unit, s.updated_at,
			p.code, p.name, p.category_id, p.min_stock_godown, p.min_stock_mr, b.batch_number, b.expiry_date
		FROM products_stock_status s
		JOIN products p ON p.id = s.product_id
		JOIN product_batches b ON b.id = s.batch_id` + w.sql() + `
		ORDER BY p.name, b.expiry_date, s.location_type, s.location_id`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalanceView
	for rows.Next() {
		var v entity.StockBalanceView
		if err := rows.Scan(&v.ProductID, &v.BatchID, &v.LocationType, &v.LocationID, &v.Quantity, &v.CostPerUnit, &v.UpdatedAt,
			&v.ProductCode, &v.ProductName, &v.CategoryID, &v.MinStockGodown, &v.MinStockMR, &v.BatchNumber, &v.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ListAll devuelve todas las filas de saldo (para auditoría).
func (r *StockBalanceRepo) ListAll(ctx context.Context) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, `SELECT `+balanceColumns+` FROM products_stock_status`)
	if err != nil {
		return nil, fmt.Errorf("list all stock balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.BatchID, &b.LocationType, &b.LocationID, &b.Quantity, &b.CostPerUnit, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// DeleteByProductBatch borra los saldos de un producto+lote en todas las ubicaciones.
func (r *StockBalanceRepo) DeleteByProductBatch(ctx context.Context, productID, batchID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products_stock_status WHERE product_id = $1 AND batch_id = $2`, productID, batchID)
	return mapWriteError("delete stock balances", err)
}

// DeleteAll vacía la tabla de saldos (reconstrucción completa).
func (r *StockBalanceRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products_stock_status`)
	return mapWriteError("delete all stock balances", err)
}
