package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordTransactionRequest body para POST /api/stock/transactions.
// Quantity se expresa en la unidad PackagingUnitID (vacío = strips).
type RecordTransactionRequest struct {
	Type            string           `json:"type" validate:"required"`
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	BatchID         string           `json:"batch_id" validate:"required,uuid"`
	PackagingUnitID string           `json:"packaging_unit_id,omitempty"`
	Quantity        int64            `json:"quantity" validate:"min=1"`
	SourceType      string           `json:"source_type,omitempty"`
	SourceID        string           `json:"source_id,omitempty"`
	DestinationType string           `json:"destination_type,omitempty"`
	DestinationID   string           `json:"destination_id,omitempty"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	OccurredAt      *time.Time       `json:"occurred_at,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// TransactionResponse fila del libro (stock_transactions_view).
type TransactionResponse struct {
	ID              string          `json:"id"`
	Seq             int64           `json:"seq"`
	Type            string          `json:"type"`
	ProductID       string          `json:"product_id"`
	ProductCode     string          `json:"product_code,omitempty"`
	ProductName     string          `json:"product_name,omitempty"`
	BatchID         string          `json:"batch_id"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	Quantity        int64           `json:"quantity"`
	SourceType      string          `json:"source_type,omitempty"`
	SourceID        string          `json:"source_id,omitempty"`
	DestinationType string          `json:"destination_type,omitempty"`
	DestinationID   string          `json:"destination_id,omitempty"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// TransactionListResponse lista paginada del libro.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// StockPositionResponse saldo o posición con clasificación de nivel y vencimiento.
type StockPositionResponse struct {
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	BatchID      string          `json:"batch_id"`
	BatchNumber  string          `json:"batch_number"`
	ExpiryDate   string          `json:"expiry_date"`
	LocationType string          `json:"location_type"`
	LocationID   string          `json:"location_id"`
	Quantity     int64           `json:"quantity"`
	Packs        string          `json:"packs,omitempty"` // desglose en unidades de empaque
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	TotalValue   decimal.Decimal `json:"total_value"`
	MinLevel     int64           `json:"min_level"`
	StockStatus  string          `json:"stock_status"`
	ExpiryStatus string          `json:"expiry_status"`
}

// StockPositionListResponse lista de saldos/posiciones con totales.
type StockPositionListResponse struct {
	Items         []StockPositionResponse `json:"items"`
	TotalQuantity int64                   `json:"total_quantity"`
	TotalValue    decimal.Decimal         `json:"total_value"`
}

// StockAlertDTO posición bajo el umbral "medium" con la cantidad sugerida para reponer.
type StockAlertDTO struct {
	StockPositionResponse
	IdealStock       int64           `json:"ideal_stock"`       // ceil(min * factor)
	SuggestedReorder int64           `json:"suggested_reorder"` // ideal - cantidad
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	Priority         int             `json:"priority"` // 1 = más urgente
}

// AlertsResponse alertas de stock y de vencimiento.
type AlertsResponse struct {
	LowStock []StockAlertDTO         `json:"low_stock"`
	Expiry   []StockPositionResponse `json:"expiry"`
}

// LocationSummaryDTO totales por tipo de ubicación.
type LocationSummaryDTO struct {
	LocationType string          `json:"location_type"`
	Positions    int             `json:"positions"`
	Quantity     int64           `json:"quantity"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// SummaryResponse resumen de stock valorizado.
type SummaryResponse struct {
	Locations     []LocationSummaryDTO `json:"locations"`
	TotalQuantity int64                `json:"total_quantity"`
	TotalValue    decimal.Decimal      `json:"total_value"`
	LowStockCount int                  `json:"low_stock_count"`
	ExpiringCount int                  `json:"expiring_count"`
	ExpiredCount  int                  `json:"expired_count"`
}

// DiscrepancyDTO diferencia entre el libro y los saldos materializados.
type DiscrepancyDTO struct {
	Kind             string          `json:"kind"`
	ProductID        string          `json:"product_id"`
	BatchID          string          `json:"batch_id"`
	LocationType     string          `json:"location_type"`
	LocationID       string          `json:"location_id"`
	ExpectedQuantity int64           `json:"expected_quantity"`
	ActualQuantity   int64           `json:"actual_quantity"`
	ExpectedCost     decimal.Decimal `json:"expected_cost"`
	ActualCost       decimal.Decimal `json:"actual_cost"`
}

// AuditResponse resultado de la verificación completa.
type AuditResponse struct {
	TransactionsReplayed int              `json:"transactions_replayed"`
	BalancesChecked      int              `json:"balances_checked"`
	Consistent           bool             `json:"consistent"`
	Discrepancies        []DiscrepancyDTO `json:"discrepancies"`
}

// RebuildResponse resultado de reconstruir los saldos desde el libro.
type RebuildResponse struct {
	TransactionsReplayed int `json:"transactions_replayed"`
	BalancesWritten      int `json:"balances_written"`
}
