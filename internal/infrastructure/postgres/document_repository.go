package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository   = (*PurchaseRepo)(nil)
	_ repository.SaleRepository       = (*SaleRepo)(nil)
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
)

// ── GRN ──────────────────────────────────────────────────────────────────────

// PurchaseRepo cabecera e ítems de GRN. Usar con tx para escribir cabecera e ítems juntos.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, grn_number, supplier_id, godown_id, supplier_invoice_number, received_at,
	notes, total_value, COALESCE(created_by::text, ''), created_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.StockPurchase, error) {
	var p entity.StockPurchase
	if err := row.Scan(&p.ID, &p.GRNNumber, &p.SupplierID, &p.GodownID, &p.SupplierInvoiceNumber,
		&p.ReceivedAt, &p.Notes, &p.TotalValue, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta la cabecera y sus ítems.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.StockPurchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_purchases (id, grn_number, supplier_id, godown_id, supplier_invoice_number,
			received_at, notes, total_value, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.GRNNumber, p.SupplierID, p.GodownID, p.SupplierInvoiceNumber,
		p.ReceivedAt, p.Notes, p.TotalValue, nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteError("insert purchase", err)
	}
	return r.insertItems(ctx, p)
}

// Update reemplaza la cabecera y todos los ítems.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.StockPurchase) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_purchases SET grn_number = $2, supplier_id = $3, godown_id = $4, supplier_invoice_number = $5,
			received_at = $6, notes = $7, total_value = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.GRNNumber, p.SupplierID, p.GodownID, p.SupplierInvoiceNumber,
		p.ReceivedAt, p.Notes, p.TotalValue, p.UpdatedAt)
	if err != nil {
		return mapWriteError("update purchase", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_purchase_items WHERE purchase_id = $1`, p.ID); err != nil {
		return mapWriteError("delete purchase items", err)
	}
	return r.insertItems(ctx, p)
}

func (r *PurchaseRepo) insertItems(ctx context.Context, p *entity.StockPurchase) error {
	for _, it := range p.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_purchase_items (id, purchase_id, product_id, batch_id, packaging_unit_id,
				quantity_entered, quantity_strips, cost_per_unit, line_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, p.ID, it.ProductID, it.BatchID, nullIfEmpty(it.PackagingUnitID),
			it.QuantityEntered, it.QuantityStrips, it.CostPerUnit, it.LineValue)
		if err != nil {
			return mapWriteError("insert purchase item", err)
		}
	}
	return nil
}

// Delete borra la cabecera (los ítems caen en cascada).
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock_purchases WHERE id = $1`, id)
	return mapWriteError("delete purchase", err)
}

// GetByID obtiene el GRN con sus ítems; nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.StockPurchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM stock_purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, batch_id, COALESCE(packaging_unit_id::text, ''),
			quantity_entered, quantity_strips, cost_per_unit, line_value
		FROM stock_purchase_items WHERE purchase_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockPurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.BatchID, &it.PackagingUnitID,
			&it.QuantityEntered, &it.QuantityStrips, &it.CostPerUnit, &it.LineValue); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	return p, rows.Err()
}

// List lista cabeceras de GRN (sin ítems), más recientes primero.
func (r *PurchaseRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockPurchase, error) {
	var w whereBuilder
	if f.From != nil {
		w.add("received_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("received_at <= ?", *f.To)
	}
	query := `SELECT ` + purchaseColumns + ` FROM stock_purchases` + w.sql() + ` ORDER BY received_at DESC, grn_number`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPurchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ── Ventas y despachos ───────────────────────────────────────────────────────

// SaleRepo documentos de venta/despacho sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, document_number, kind, source_type, source_id, destination_type,
	COALESCE(destination_id::text, ''), customer_name, occurred_at, notes, total_value,
	COALESCE(created_by::text, ''), created_at`

func scanSale(row pgx.Row) (*entity.StockSale, error) {
	var s entity.StockSale
	if err := row.Scan(&s.ID, &s.DocumentNumber, &s.Kind, &s.SourceType, &s.SourceID, &s.DestinationType,
		&s.DestinationID, &s.CustomerName, &s.OccurredAt, &s.Notes, &s.TotalValue, &s.CreatedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta el documento y sus ítems.
func (r *SaleRepo) Create(ctx context.Context, s *entity.StockSale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_sales (id, document_number, kind, source_type, source_id, destination_type, destination_id,
			customer_name, occurred_at, notes, total_value, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.DocumentNumber, s.Kind, s.SourceType, s.SourceID, s.DestinationType, nullIfEmpty(s.DestinationID),
		s.CustomerName, s.OccurredAt, s.Notes, s.TotalValue, nullIfEmpty(s.CreatedBy), s.CreatedAt)
	if err != nil {
		return mapWriteError("insert sale", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_sale_items (id, sale_id, product_id, batch_id, packaging_unit_id,
				quantity_entered, quantity_strips, cost_per_unit, line_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, s.ID, it.ProductID, it.BatchID, nullIfEmpty(it.PackagingUnitID),
			it.QuantityEntered, it.QuantityStrips, it.CostPerUnit, it.LineValue)
		if err != nil {
			return mapWriteError("insert sale item", err)
		}
	}
	return nil
}

// GetByID obtiene el documento con sus ítems; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.StockSale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM stock_sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, batch_id, COALESCE(packaging_unit_id::text, ''),
			quantity_entered, quantity_strips, cost_per_unit, line_value
		FROM stock_sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockSaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.BatchID, &it.PackagingUnitID,
			&it.QuantityEntered, &it.QuantityStrips, &it.CostPerUnit, &it.LineValue); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

// List lista documentos; kind vacío = todos.
func (r *SaleRepo) List(ctx context.Context, kind string, f repository.DocumentFilter) ([]*entity.StockSale, error) {
	var w whereBuilder
	if kind != "" {
		w.add("kind = ?", kind)
	}
	if f.From != nil {
		w.add("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("occurred_at <= ?", *f.To)
	}
	query := `SELECT ` + saleColumns + ` FROM stock_sales` + w.sql() + ` ORDER BY occurred_at DESC, document_number`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockSale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

// AdjustmentRepo ajustes de stock sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste el ajuste (la transacción de stock ya debe existir).
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustments (id, type, location_type, location_id, product_id, batch_id, quantity,
			cost_per_unit, reason, occurred_at, transaction_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.Type, a.LocationType, a.LocationID, a.ProductID, a.BatchID, a.Quantity,
		a.CostPerUnit, a.Reason, a.OccurredAt, a.TransactionID, nullIfEmpty(a.CreatedBy), a.CreatedAt)
	return mapWriteError("insert adjustment", err)
}

// List lista ajustes, más recientes primero.
func (r *AdjustmentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockAdjustment, error) {
	var w whereBuilder
	if f.From != nil {
		w.add("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("occurred_at <= ?", *f.To)
	}
	query := `SELECT id, type, location_type, location_id, product_id, batch_id, quantity, cost_per_unit,
		reason, occurred_at, transaction_id, COALESCE(created_by::text, ''), created_at
		FROM stock_adjustments` + w.sql() + ` ORDER BY occurred_at DESC`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		if err := rows.Scan(&a.ID, &a.Type, &a.LocationType, &a.LocationID, &a.ProductID, &a.BatchID, &a.Quantity,
			&a.CostPerUnit, &a.Reason, &a.OccurredAt, &a.TransactionID, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
