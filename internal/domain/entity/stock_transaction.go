package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de referencia de una transacción.
const (
	ReferencePurchase   = "PURCHASE"
	ReferenceSale       = "SALE"
	ReferenceAdjustment = "ADJUSTMENT"
	ReferenceManual     = "MANUAL"
)

// StockTransaction fila inmutable del libro de stock. Quantity siempre positiva (strips);
// la dirección la dan Source/Destination.
type StockTransaction struct {
	ID              string
	Seq             int64 // orden de inserción, asignado por la BD
	Type            string
	ProductID       string
	BatchID         string
	Quantity        int64
	SourceType      string // vacío si no hay origen
	SourceID        string
	DestinationType string // vacío si no hay destino
	DestinationID   string
	CostPerUnit     decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string // ej. número de GRN
	Notes           string
	OccurredAt      time.Time
	CreatedAt       time.Time
	CreatedBy       string
}

// StockTransactionView proyección de stock_transactions_view (transacción + datos de producto y lote).
type StockTransactionView struct {
	StockTransaction
	ProductCode string
	ProductName string
	CategoryID  string
	BatchNumber string
	ExpiryDate  time.Time
}
