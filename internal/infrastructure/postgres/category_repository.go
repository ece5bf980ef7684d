package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías, subcategorías y formulaciones sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// CreateCategory persiste una categoría.
func (r *CategoryRepo) CreateCategory(ctx context.Context, c *entity.ProductCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_categories (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, c.IsActive, c.CreatedAt, c.UpdatedAt)
	return mapWriteError("insert category", err)
}

// GetCategory obtiene una categoría; nil si no existe.
func (r *CategoryRepo) GetCategory(ctx context.Context, id string) (*entity.ProductCategory, error) {
	var c entity.ProductCategory
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM product_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListCategories lista categorías ordenadas por nombre.
func (r *CategoryRepo) ListCategories(ctx context.Context, activeOnly bool) ([]*entity.ProductCategory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM product_categories WHERE ($1 = false OR is_active) ORDER BY name`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductCategory
	for rows.Next() {
		var c entity.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateCategory actualiza nombre, descripción y estado.
func (r *CategoryRepo) UpdateCategory(ctx context.Context, c *entity.ProductCategory) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_categories SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1`, c.ID, c.Name, c.Description, c.IsActive, c.UpdatedAt)
	return mapWriteError("update category", err)
}

// CreateSubCategory persiste una subcategoría.
func (r *CategoryRepo) CreateSubCategory(ctx context.Context, s *entity.ProductSubCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_sub_categories (id, category_id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.CategoryID, s.Name, s.Description, s.IsActive, s.CreatedAt, s.UpdatedAt)
	return mapWriteError("insert sub-category", err)
}

// GetSubCategory obtiene una subcategoría; nil si no existe.
func (r *CategoryRepo) GetSubCategory(ctx context.Context, id string) (*entity.ProductSubCategory, error) {
	var s entity.ProductSubCategory
	err := r.q.QueryRow(ctx, `
		SELECT id, category_id, name, description, is_active, created_at, updated_at
		FROM product_sub_categories WHERE id = $1`, id).
		Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sub-category: %w", err)
	}
	return &s, nil
}

// ListSubCategories lista las subcategorías de una categoría.
func (r *CategoryRepo) ListSubCategories(ctx context.Context, categoryID string) ([]*entity.ProductSubCategory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, category_id, name, description, is_active, created_at, updated_at
		FROM product_sub_categories WHERE category_id = $1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list sub-categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductSubCategory
	for rows.Next() {
		var s entity.ProductSubCategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sub-category: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateSubCategory actualiza nombre, descripción y estado de una subcategoría.
func (r *CategoryRepo) UpdateSubCategory(ctx context.Context, s *entity.ProductSubCategory) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_sub_categories SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1`, s.ID, s.Name, s.Description, s.IsActive, s.UpdatedAt)
	return mapWriteError("update sub-category", err)
}

// CreateFormulation persiste una formulación.
func (r *CategoryRepo) CreateFormulation(ctx context.Context, f *entity.ProductFormulation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_formulations (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.Name, f.Description, f.IsActive, f.CreatedAt, f.UpdatedAt)
	return mapWriteError("insert formulation", err)
}

// GetFormulation obtiene una formulación; nil si no existe.
func (r *CategoryRepo) GetFormulation(ctx context.Context, id string) (*entity.ProductFormulation, error) {
	var f entity.ProductFormulation
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM product_formulations WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Description, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get formulation: %w", err)
	}
	return &f, nil
}

// ListFormulations lista formulaciones.
func (r *CategoryRepo) ListFormulations(ctx context.Context) ([]*entity.ProductFormulation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM product_formulations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list formulations: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductFormulation
	for rows.Next() {
		var f entity.ProductFormulation
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan formulation: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// UpdateFormulation actualiza nombre, descripción y estado de una formulación.
func (r *CategoryRepo) UpdateFormulation(ctx context.Context, f *entity.ProductFormulation) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_formulations SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1`, f.ID, f.Name, f.Description, f.IsActive, f.UpdatedAt)
	return mapWriteError("update formulation", err)
}
