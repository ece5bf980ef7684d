package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var _ repository.PackagingRepository = (*PackagingRepo)(nil)

// PackagingRepo unidades de empaque y plantillas sobre PostgreSQL.
type PackagingRepo struct {
	q Querier
}

// NewPackagingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackagingRepository(q Querier) *PackagingRepo {
	return &PackagingRepo{q: q}
}

const unitColumns = `id, product_id, unit_name, conversion_factor, hierarchy_order,
	is_base_unit, is_default_purchase, is_default_sale, created_at`

func scanUnit(row pgx.Row) (*entity.PackagingUnit, error) {
	var u entity.PackagingUnit
	err := row.Scan(&u.ID, &u.ProductID, &u.UnitName, &u.ConversionFactor, &u.HierarchyOrder,
		&u.IsBaseUnit, &u.IsDefaultPurchase, &u.IsDefaultSale, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUnits lista las unidades del producto en orden jerárquico.
func (r *PackagingRepo) ListUnits(ctx context.Context, productID string) ([]*entity.PackagingUnit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+unitColumns+` FROM product_packaging_units
		WHERE product_id = $1 ORDER BY hierarchy_order, conversion_factor`, productID)
	if err != nil {
		return nil, fmt.Errorf("list packaging units: %w", err)
	}
	defer rows.Close()
	var list []*entity.PackagingUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan packaging unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// GetUnit obtiene una unidad; nil si no existe.
func (r *PackagingRepo) GetUnit(ctx context.Context, id string) (*entity.PackagingUnit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM product_packaging_units WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get packaging unit: %w", err)
	}
	return u, nil
}

// ReplaceUnits reemplaza todas las unidades del producto. Debe llamarse dentro de una tx
// para que el borrado y la inserción sean atómicos.
func (r *PackagingRepo) ReplaceUnits(ctx context.Context, productID string, units []*entity.PackagingUnit) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_packaging_units WHERE product_id = $1`, productID); err != nil {
		return mapWriteError("delete packaging units", err)
	}
	for _, u := range units {
		_, err := r.q.Exec(ctx, `
			INSERT INTO product_packaging_units (id, product_id, unit_name, conversion_factor, hierarchy_order,
				is_base_unit, is_default_purchase, is_default_sale, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			u.ID, productID, u.UnitName, u.ConversionFactor, u.HierarchyOrder,
			u.IsBaseUnit, u.IsDefaultPurchase, u.IsDefaultSale, u.CreatedAt)
		if err != nil {
			return mapWriteError("insert packaging unit", err)
		}
	}
	return nil
}

// CreateTemplate persiste una plantilla; las unidades se guardan como JSONB.
func (r *PackagingRepo) CreateTemplate(ctx context.Context, t *entity.PackagingTemplate) error {
	units, err := json.Marshal(toTemplateRows(t.Units))
	if err != nil {
		return fmt.Errorf("marshal template units: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO packaging_templates (id, name, description, units, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Description, units, t.CreatedAt, t.UpdatedAt)
	return mapWriteError("insert packaging template", err)
}

// GetTemplate obtiene una plantilla; nil si no existe.
func (r *PackagingRepo) GetTemplate(ctx context.Context, id string) (*entity.PackagingTemplate, error) {
	t, err := scanTemplate(r.q.QueryRow(ctx, `
		SELECT id, name, description, units, created_at, updated_at FROM packaging_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get packaging template: %w", err)
	}
	return t, nil
}

// ListTemplates lista las plantillas por nombre.
func (r *PackagingRepo) ListTemplates(ctx context.Context) ([]*entity.PackagingTemplate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, units, created_at, updated_at FROM packaging_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packaging templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.PackagingTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan packaging template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// templateUnitRow forma JSON de una unidad de plantilla en la columna units.
type templateUnitRow struct {
	UnitName          string `json:"unit_name"`
	ConversionFactor  int64  `json:"conversion_factor"`
	HierarchyOrder    int    `json:"hierarchy_order"`
	IsBaseUnit        bool   `json:"is_base_unit"`
	IsDefaultPurchase bool   `json:"is_default_purchase"`
	IsDefaultSale     bool   `json:"is_default_sale"`
}

func toTemplateRows(units []entity.PackagingTemplateUnit) []templateUnitRow {
	out := make([]templateUnitRow, len(units))
	for i, u := range units {
		out[i] = templateUnitRow(u)
	}
	return out
}

func scanTemplate(row pgx.Row) (*entity.PackagingTemplate, error) {
	var t entity.PackagingTemplate
	var raw []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &raw, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	var units []templateUnitRow
	if err := json.Unmarshal(raw, &units); err != nil {
		return nil, fmt.Errorf("unmarshal template units: %w", err)
	}
	t.Units = make([]entity.PackagingTemplateUnit, len(units))
	for i, u := range units {
		t.Units[i] = entity.PackagingTemplateUnit(u)
	}
	return &t, nil
}
