package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest alta/edición de categoría o formulación.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// CategoryResponse salida de categoría, subcategoría o formulación.
type CategoryResponse struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id,omitempty"` // solo subcategorías
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// PackagingUnitRequest unidad de empaque en altas y plantillas.
type PackagingUnitRequest struct {
	UnitName          string `json:"unit_name" validate:"required"`
	ConversionFactor  int64  `json:"conversion_factor" validate:"min=1"`
	HierarchyOrder    int    `json:"hierarchy_order"`
	IsBaseUnit        bool   `json:"is_base_unit"`
	IsDefaultPurchase bool   `json:"is_default_purchase"`
	IsDefaultSale     bool   `json:"is_default_sale"`
}

// PackagingUnitResponse salida de una unidad de empaque.
type PackagingUnitResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	UnitName          string `json:"unit_name"`
	ConversionFactor  int64  `json:"conversion_factor"`
	HierarchyOrder    int    `json:"hierarchy_order"`
	IsBaseUnit        bool   `json:"is_base_unit"`
	IsDefaultPurchase bool   `json:"is_default_purchase"`
	IsDefaultSale     bool   `json:"is_default_sale"`
}

// PackagingTemplateRequest alta de plantilla.
type PackagingTemplateRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Units       []PackagingUnitRequest `json:"units" validate:"required,min=1"`
}

// PackagingTemplateResponse salida de plantilla.
type PackagingTemplateResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Units       []PackagingUnitRequest `json:"units"`
	CreatedAt   time.Time              `json:"created_at"`
}

// BatchRequest alta/edición de lote. ExpiryDate en formato YYYY-MM-DD.
type BatchRequest struct {
	BatchNumber  string           `json:"batch_number" validate:"required"`
	ExpiryDate   string           `json:"expiry_date" validate:"required"`
	CostOverride *decimal.Decimal `json:"cost_override,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

// BatchResponse salida de lote con su clasificación de vencimiento.
type BatchResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	BatchNumber  string           `json:"batch_number"`
	ExpiryDate   string           `json:"expiry_date"`
	ExpiryStatus string           `json:"expiry_status"`
	CostOverride *decimal.Decimal `json:"cost_override,omitempty"`
	IsActive     bool             `json:"is_active"`
}
