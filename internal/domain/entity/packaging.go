package entity

import "time"

// PackagingUnit unidad de empaque de un producto. ConversionFactor = strips por unidad.
type PackagingUnit struct {
	ID                string
	ProductID         string
	UnitName          string
	ConversionFactor  int64
	HierarchyOrder    int
	IsBaseUnit        bool
	IsDefaultPurchase bool
	IsDefaultSale     bool
	CreatedAt         time.Time
}

// PackagingTemplate grupo reutilizable de unidades (ej. "Standard Pharma": Strip→Box→Carton).
type PackagingTemplate struct {
	ID          string
	Name        string
	Description string
	Units       []PackagingTemplateUnit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PackagingTemplateUnit unidad dentro de una plantilla.
type PackagingTemplateUnit struct {
	UnitName          string
	ConversionFactor  int64
	HierarchyOrder    int
	IsBaseUnit        bool
	IsDefaultPurchase bool
	IsDefaultSale     bool
}
