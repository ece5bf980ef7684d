package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, code, name, generic_name, manufacturer, category_id,
	COALESCE(sub_category_id::text, ''), COALESCE(formulation_id::text, ''),
	base_cost, min_stock_godown, min_stock_mr, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.GenericName, &p.Manufacturer, &p.CategoryID,
		&p.SubCategoryID, &p.FormulationID, &p.BaseCost, &p.MinStockGodown, &p.MinStockMR,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, generic_name, manufacturer, category_id, sub_category_id, formulation_id,
			base_cost, min_stock_godown, min_stock_mr, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.GenericName, p.Manufacturer, p.CategoryID,
		nullIfEmpty(p.SubCategoryID), nullIfEmpty(p.FormulationID),
		p.BaseCost, p.MinStockGodown, p.MinStockMR, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	return mapWriteError("insert product", err)
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por código; nil si no existe.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, generic_name = $4, manufacturer = $5, category_id = $6,
			sub_category_id = $7, formulation_id = $8, base_cost = $9, min_stock_godown = $10,
			min_stock_mr = $11, is_active = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.GenericName, p.Manufacturer, p.CategoryID,
		nullIfEmpty(p.SubCategoryID), nullIfEmpty(p.FormulationID), p.BaseCost,
		p.MinStockGodown, p.MinStockMR, p.IsActive, p.UpdatedAt,
	)
	return mapWriteError("update product", err)
}

// List lista productos con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add("(code ILIKE ? OR name ILIKE ? OR generic_name ILIKE ?)", "%"+f.Search+"%")
	}
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.ActiveOnly {
		w.add("is_active = ?", true)
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.sql() + ` ORDER BY name`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// IsReferenced indica si existen transacciones del producto.
func (r *ProductRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_transactions WHERE product_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("product references: %w", err)
	}
	return exists, nil
}

// Delete elimina un producto por ID (las unidades de empaque caen en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return mapWriteError("delete product", err)
}
