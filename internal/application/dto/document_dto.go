package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de GRN. Si BatchID está vacío se busca o crea el lote por BatchNumber.
type PurchaseItemRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	BatchID         string           `json:"batch_id,omitempty"`
	BatchNumber     string           `json:"batch_number,omitempty"`
	ExpiryDate      string           `json:"expiry_date,omitempty"` // YYYY-MM-DD, para lotes nuevos
	PackagingUnitID string           `json:"packaging_unit_id,omitempty"`
	Quantity        int64            `json:"quantity" validate:"min=1"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"` // por strip
}

// PurchaseRequest alta/edición de GRN.
type PurchaseRequest struct {
	GRNNumber             string                `json:"grn_number" validate:"required"`
	SupplierID            string                `json:"supplier_id" validate:"required,uuid"`
	GodownID              string                `json:"godown_id" validate:"required,uuid"`
	SupplierInvoiceNumber string                `json:"supplier_invoice_number"`
	ReceivedAt            *time.Time            `json:"received_at,omitempty"`
	Notes                 string                `json:"notes"`
	Items                 []PurchaseItemRequest `json:"items" validate:"required,min=1"`
}

// DocumentItemResponse línea de GRN o de venta/despacho.
type DocumentItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	BatchID         string          `json:"batch_id"`
	PackagingUnitID string          `json:"packaging_unit_id,omitempty"`
	QuantityEntered int64           `json:"quantity_entered"`
	QuantityStrips  int64           `json:"quantity_strips"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	LineValue       decimal.Decimal `json:"line_value"`
}

// PurchaseResponse salida de GRN.
type PurchaseResponse struct {
	ID                    string                 `json:"id"`
	GRNNumber             string                 `json:"grn_number"`
	SupplierID            string                 `json:"supplier_id"`
	GodownID              string                 `json:"godown_id"`
	SupplierInvoiceNumber string                 `json:"supplier_invoice_number"`
	ReceivedAt            time.Time              `json:"received_at"`
	Notes                 string                 `json:"notes"`
	TotalValue            decimal.Decimal        `json:"total_value"`
	Items                 []DocumentItemResponse `json:"items,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

// SaleItemRequest línea de venta/despacho.
type SaleItemRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	BatchID         string           `json:"batch_id" validate:"required,uuid"`
	PackagingUnitID string           `json:"packaging_unit_id,omitempty"`
	Quantity        int64            `json:"quantity" validate:"min=1"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
}

// SaleRequest alta de venta (SALE) o despacho a MR (DISPATCH).
type SaleRequest struct {
	DocumentNumber string            `json:"document_number" validate:"required"`
	Kind           string            `json:"kind" validate:"required,oneof=SALE DISPATCH"`
	SourceType     string            `json:"source_type" validate:"required"`
	SourceID       string            `json:"source_id" validate:"required,uuid"`
	DestinationID  string            `json:"destination_id,omitempty"` // MR, solo DISPATCH
	CustomerName   string            `json:"customer_name,omitempty"`
	OccurredAt     *time.Time        `json:"occurred_at,omitempty"`
	Notes          string            `json:"notes"`
	Items          []SaleItemRequest `json:"items" validate:"required,min=1"`
}

// SaleResponse salida de venta/despacho.
type SaleResponse struct {
	ID              string                 `json:"id"`
	DocumentNumber  string                 `json:"document_number"`
	Kind            string                 `json:"kind"`
	SourceType      string                 `json:"source_type"`
	SourceID        string                 `json:"source_id"`
	DestinationType string                 `json:"destination_type,omitempty"`
	DestinationID   string                 `json:"destination_id,omitempty"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	OccurredAt      time.Time              `json:"occurred_at"`
	Notes           string                 `json:"notes"`
	TotalValue      decimal.Decimal        `json:"total_value"`
	Items           []DocumentItemResponse `json:"items,omitempty"`
}

// AdjustmentRequest alta de ajuste. Type debe ser un tipo de ajuste
// (DAMAGE, LOSS, REPLACEMENT_IN, REPLACEMENT_OUT, CUSTOMER_RETURN, STOCK_IN_ADJUSTMENT).
type AdjustmentRequest struct {
	Type            string           `json:"type" validate:"required"`
	LocationType    string           `json:"location_type" validate:"required"`
	LocationID      string           `json:"location_id" validate:"required,uuid"`
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	BatchID         string           `json:"batch_id" validate:"required,uuid"`
	PackagingUnitID string           `json:"packaging_unit_id,omitempty"`
	Quantity        int64            `json:"quantity" validate:"min=1"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	Reason          string           `json:"reason"`
	OccurredAt      *time.Time       `json:"occurred_at,omitempty"`
}

// AdjustmentResponse salida de ajuste.
type AdjustmentResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	LocationType  string          `json:"location_type"`
	LocationID    string          `json:"location_id"`
	ProductID     string          `json:"product_id"`
	BatchID       string          `json:"batch_id"`
	Quantity      int64           `json:"quantity"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	Reason        string          `json:"reason"`
	OccurredAt    time.Time       `json:"occurred_at"`
	TransactionID string          `json:"transaction_id"`
}
