package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance saldo materializado (products_stock_status) por producto, lote y ubicación.
// Solo se escribe desde el motor de inventario.
type StockBalance struct {
	ProductID    string
	BatchID      string
	LocationType string
	LocationID   string
	Quantity     int64
	CostPerUnit  decimal.Decimal
	UpdatedAt    time.Time
}

// StockBalanceView saldo con los datos necesarios para clasificar nivel y vencimiento.
type StockBalanceView struct {
	StockBalance
	ProductCode    string
	ProductName    string
	CategoryID     string
	MinStockGodown int64
	MinStockMR     int64
	BatchNumber    string
	ExpiryDate     time.Time
}
