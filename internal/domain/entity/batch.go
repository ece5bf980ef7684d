package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch lote de un producto con fecha de vencimiento.
// CostOverride, si no es nil, reemplaza el costo base del producto para este lote.
type Batch struct {
	ID           string
	ProductID    string
	BatchNumber  string // único por producto
	ExpiryDate   time.Time
	CostOverride *decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
