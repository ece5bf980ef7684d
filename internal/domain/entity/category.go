package entity

import "time"

// ProductCategory categoría de productos (ej. Antibióticos).
type ProductCategory struct {
	ID          string
	Name        string // único
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductSubCategory subcategoría; pertenece a una categoría.
type ProductSubCategory struct {
	ID          string
	CategoryID  string
	Name        string // único por categoría
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFormulation forma farmacéutica (tableta, jarabe, inyectable...).
type ProductFormulation struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
