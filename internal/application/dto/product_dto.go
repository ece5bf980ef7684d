package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Si Units está vacío se crea la unidad base "Strip".
type CreateProductRequest struct {
	Code           string                 `json:"code" validate:"required,min=1,max=50"`
	Name           string                 `json:"name" validate:"required,min=1,max=200"`
	GenericName    string                 `json:"generic_name"`
	Manufacturer   string                 `json:"manufacturer"`
	CategoryID     string                 `json:"category_id" validate:"required,uuid"`
	SubCategoryID  string                 `json:"sub_category_id,omitempty"`
	FormulationID  string                 `json:"formulation_id,omitempty"`
	BaseCost       decimal.Decimal        `json:"base_cost"`
	MinStockGodown int64                  `json:"min_stock_godown" validate:"min=0"`
	MinStockMR     int64                  `json:"min_stock_mr" validate:"min=0"`
	Units          []PackagingUnitRequest `json:"units,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto; los campos nil no cambian.
type UpdateProductRequest struct {
	Code           *string          `json:"code"`
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	GenericName    *string          `json:"generic_name"`
	Manufacturer   *string          `json:"manufacturer"`
	CategoryID     *string          `json:"category_id"`
	SubCategoryID  *string          `json:"sub_category_id"`
	FormulationID  *string          `json:"formulation_id"`
	BaseCost       *decimal.Decimal `json:"base_cost"`
	MinStockGodown *int64           `json:"min_stock_godown"`
	MinStockMR     *int64           `json:"min_stock_mr"`
	IsActive       *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	GenericName    string          `json:"generic_name"`
	Manufacturer   string          `json:"manufacturer"`
	CategoryID     string          `json:"category_id"`
	SubCategoryID  string          `json:"sub_category_id,omitempty"`
	FormulationID  string          `json:"formulation_id,omitempty"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	MinStockGodown int64           `json:"min_stock_godown"`
	MinStockMR     int64           `json:"min_stock_mr"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
