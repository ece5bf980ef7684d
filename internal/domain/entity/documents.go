package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPurchase cabecera de un GRN (Goods Received Note).
type StockPurchase struct {
	ID                    string
	GRNNumber             string // único
	SupplierID            string
	GodownID              string
	SupplierInvoiceNumber string
	ReceivedAt            time.Time
	Notes                 string
	TotalValue            decimal.Decimal
	Items                 []StockPurchaseItem
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StockPurchaseItem línea de un GRN.
type StockPurchaseItem struct {
	ID              string
	PurchaseID      string
	ProductID       string
	BatchID         string
	PackagingUnitID string // vacío = strips
	QuantityEntered int64
	QuantityStrips  int64
	CostPerUnit     decimal.Decimal
	LineValue       decimal.Decimal
}

// Clases de documento de salida.
const (
	SaleKindSale     = "SALE"
	SaleKindDispatch = "DISPATCH"
)

// StockSale documento de venta o despacho a MR.
type StockSale struct {
	ID              string
	DocumentNumber  string // único
	Kind            string // SALE | DISPATCH
	SourceType      string
	SourceID        string
	DestinationType string // solo en DISPATCH (MR)
	DestinationID   string
	CustomerName    string
	OccurredAt      time.Time
	Notes           string
	TotalValue      decimal.Decimal
	Items           []StockSaleItem
	CreatedBy       string
	CreatedAt       time.Time
}

// StockSaleItem línea de venta/despacho.
type StockSaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	BatchID         string
	PackagingUnitID string
	QuantityEntered int64
	QuantityStrips  int64
	CostPerUnit     decimal.Decimal
	LineValue       decimal.Decimal
}

// StockAdjustment ajuste de stock (daño, pérdida, reposición, devolución...).
type StockAdjustment struct {
	ID            string
	Type          string
	LocationType  string
	LocationID    string
	ProductID     string
	BatchID       string
	Quantity      int64
	CostPerUnit   decimal.Decimal
	Reason        string
	OccurredAt    time.Time
	TransactionID string
	CreatedBy     string
	CreatedAt     time.Time
}
