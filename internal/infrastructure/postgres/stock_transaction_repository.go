package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de stock sobre PostgreSQL (usable con pool o tx).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const txColumns = `id, seq, type, product_id, batch_id, quantity,
	source_type, COALESCE(source_id::text, ''), destination_type, COALESCE(destination_id::text, ''),
	cost_per_unit, reference_type, COALESCE(reference_id::text, ''), reference_number, notes,
	occurred_at, created_at, COALESCE(created_by::text, '')`

// La vista ya expone los UUID opcionales como texto.
const txViewColumns = `id, seq, type, product_id, batch_id, quantity,
	source_type, source_id, destination_type, destination_id,
	cost_per_unit, reference_type, reference_id, reference_number, notes,
	occurred_at, created_at, created_by,
	product_code, product_name, category_id, batch_number, expiry_date`

func txScanTargets(t *entity.StockTransaction) []any {
	return []any{&t.ID, &t.Seq, &t.Type, &t.ProductID, &t.BatchID, &t.Quantity,
		&t.SourceType, &t.SourceID, &t.DestinationType, &t.DestinationID,
		&t.CostPerUnit, &t.ReferenceType, &t.ReferenceID, &t.ReferenceNumber, &t.Notes,
		&t.OccurredAt, &t.CreatedAt, &t.CreatedBy}
}

// Create inserta la transacción y asigna Seq desde la secuencia de la tabla.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, type, product_id, batch_id, quantity,
			source_type, source_id, destination_type, destination_id, cost_per_unit,
			reference_type, reference_id, reference_number, notes, occurred_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.Type, t.ProductID, t.BatchID, t.Quantity,
		t.SourceType, nullIfEmpty(t.SourceID), t.DestinationType, nullIfEmpty(t.DestinationID), t.CostPerUnit,
		t.ReferenceType, nullIfEmpty(t.ReferenceID), t.ReferenceNumber, t.Notes, t.OccurredAt, t.CreatedAt,
		nullIfEmpty(t.CreatedBy),
	).Scan(&t.Seq)
	return mapWriteError("insert stock transaction", err)
}

// List consulta stock_transactions_view con filtros, en orden cronológico.
func (r *StockTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.StockTransactionView, error) {
	var w whereBuilder
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.BatchID != "" {
		w.add("batch_id = ?", f.BatchID)
	}
	if f.LocationType != "" {
		w.add("(source_type = ? OR destination_type = ?)", f.LocationType)
	}
	if f.LocationID != "" {
		w.add("(source_id = ? OR destination_id = ?)", f.LocationID)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Search != "" {
		w.add("(product_code ILIKE ? OR product_name ILIKE ?)", "%"+f.Search+"%")
	}
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.BatchSearch != "" {
		w.add("batch_number ILIKE ?", "%"+f.BatchSearch+"%")
	}
	if f.From != nil {
		w.add("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("occurred_at <= ?", *f.To)
	}
	if f.ExpiryFrom != nil {
		w.add("expiry_date >= ?", *f.ExpiryFrom)
	}
	if f.ExpiryTo != nil {
		w.add("expiry_date <= ?", *f.ExpiryTo)
	}
	query := `SELECT ` + txViewColumns + ` FROM stock_transactions_view` + w.sql() + ` ORDER BY occurred_at, seq`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransactionView
	for rows.Next() {
		var v entity.StockTransactionView
		targets := append(txScanTargets(&v.StockTransaction),
			&v.ProductCode, &v.ProductName, &v.CategoryID, &v.BatchNumber, &v.ExpiryDate)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan stock transaction view: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ListByProductBatch devuelve todas las transacciones de un producto+lote (todas las ubicaciones).
func (r *StockTransactionRepo) ListByProductBatch(ctx context.Context, productID, batchID string) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, `SELECT `+txColumns+` FROM stock_transactions
		WHERE product_id = $1 AND batch_id = $2 ORDER BY occurred_at, seq`, productID, batchID)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions by key: %w", err)
	}
	return collectTransactions(rows)
}

// LatestOccurredAt devuelve la fecha más reciente del libro del par; cero si no hay filas.
func (r *StockTransactionRepo) LatestOccurredAt(ctx context.Context, productID, batchID string) (time.Time, error) {
	var latest *time.Time
	err := r.q.QueryRow(ctx, `SELECT MAX(occurred_at) FROM stock_transactions
		WHERE product_id = $1 AND batch_id = $2`, productID, batchID).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("latest stock transaction: %w", err)
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}

// ListAll devuelve el libro completo en orden cronológico.
func (r *StockTransactionRepo) ListAll(ctx context.Context) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, `SELECT `+txColumns+` FROM stock_transactions ORDER BY occurred_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("list all stock transactions: %w", err)
	}
	return collectTransactions(rows)
}

// DeleteByReference borra las transacciones de un documento y devuelve las filas borradas.
func (r *StockTransactionRepo) DeleteByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, `DELETE FROM stock_transactions
		WHERE reference_type = $1 AND reference_id = $2 RETURNING `+txColumns, referenceType, referenceID)
	if err != nil {
		return nil, mapWriteError("delete stock transactions", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*entity.StockTransaction, error) {
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(txScanTargets(&t)...); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapWriteError("read stock transactions", err)
	}
	return list, nil
}
