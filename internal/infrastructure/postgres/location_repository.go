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
	_ repository.SupplierRepository   = (*SupplierRepo)(nil)
	_ repository.GodownRepository     = (*GodownRepo)(nil)
	_ repository.MedicalRepRepository = (*MedicalRepRepo)(nil)
)

// ── Proveedores ──────────────────────────────────────────────────────────────

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, tax_id, phone, email, address, is_active, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.Email, &s.Address,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, name, tax_id, phone, email, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.TaxID, s.Phone, s.Email, s.Address, s.IsActive, s.CreatedAt, s.UpdatedAt)
	return mapWriteError("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE ($1 OR is_active) ORDER BY name`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, tax_id = $3, phone = $4, email = $5, address = $6, is_active = $7, updated_at = $8
		WHERE id = $1`, s.ID, s.Name, s.TaxID, s.Phone, s.Email, s.Address, s.IsActive, s.UpdatedAt)
	return mapWriteError("update supplier", err)
}

// ── Bodegas ──────────────────────────────────────────────────────────────────

// GodownRepo bodegas sobre PostgreSQL.
type GodownRepo struct {
	q Querier
}

// NewGodownRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGodownRepository(q Querier) *GodownRepo {
	return &GodownRepo{q: q}
}

func scanGodown(row pgx.Row) (*entity.Godown, error) {
	var g entity.Godown
	if err := row.Scan(&g.ID, &g.Name, &g.Address, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GodownRepo) Create(ctx context.Context, g *entity.Godown) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO godowns (id, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.Name, g.Address, g.IsActive, g.CreatedAt, g.UpdatedAt)
	return mapWriteError("insert godown", err)
}

func (r *GodownRepo) GetByID(ctx context.Context, id string) (*entity.Godown, error) {
	g, err := scanGodown(r.q.QueryRow(ctx, `
		SELECT id, name, address, is_active, created_at, updated_at FROM godowns WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get godown: %w", err)
	}
	return g, nil
}

func (r *GodownRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Godown, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, address, is_active, created_at, updated_at
		FROM godowns WHERE ($1 OR is_active) ORDER BY name`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list godowns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Godown
	for rows.Next() {
		g, err := scanGodown(rows)
		if err != nil {
			return nil, fmt.Errorf("scan godown: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *GodownRepo) Update(ctx context.Context, g *entity.Godown) error {
	_, err := r.q.Exec(ctx, `
		UPDATE godowns SET name = $2, address = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		g.ID, g.Name, g.Address, g.IsActive, g.UpdatedAt)
	return mapWriteError("update godown", err)
}

// ── Representantes médicos ───────────────────────────────────────────────────

// MedicalRepRepo representantes (ubicaciones MR) sobre PostgreSQL.
type MedicalRepRepo struct {
	q Querier
}

// NewMedicalRepRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicalRepRepository(q Querier) *MedicalRepRepo {
	return &MedicalRepRepo{q: q}
}

func scanMedicalRep(row pgx.Row) (*entity.MedicalRep, error) {
	var m entity.MedicalRep
	if err := row.Scan(&m.ID, &m.Name, &m.Phone, &m.Territory, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicalRepRepo) Create(ctx context.Context, m *entity.MedicalRep) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO medical_reps (id, name, phone, territory, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.Phone, m.Territory, m.IsActive, m.CreatedAt, m.UpdatedAt)
	return mapWriteError("insert medical rep", err)
}

func (r *MedicalRepRepo) GetByID(ctx context.Context, id string) (*entity.MedicalRep, error) {
	m, err := scanMedicalRep(r.q.QueryRow(ctx, `
		SELECT id, name, phone, territory, is_active, created_at, updated_at FROM medical_reps WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medical rep: %w", err)
	}
	return m, nil
}

func (r *MedicalRepRepo) List(ctx context.Context, includeInactive bool) ([]*entity.MedicalRep, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, phone, territory, is_active, created_at, updated_at
		FROM medical_reps WHERE ($1 OR is_active) ORDER BY name`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list medical reps: %w", err)
	}
	defer rows.Close()
	var list []*entity.MedicalRep
	for rows.Next() {
		m, err := scanMedicalRep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medical rep: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MedicalRepRepo) Update(ctx context.Context, m *entity.MedicalRep) error {
	_, err := r.q.Exec(ctx, `
		UPDATE medical_reps SET name = $2, phone = $3, territory = $4, is_active = $5, updated_at = $6 WHERE id = $1`,
		m.ID, m.Name, m.Phone, m.Territory, m.IsActive, m.UpdatedAt)
	return mapWriteError("update medical rep", err)
}
