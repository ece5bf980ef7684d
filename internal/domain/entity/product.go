package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto farmacéutico del catálogo.
// BaseCost es el costo por strip (unidad mínima); el stock se maneja por lote y ubicación en StockBalance.
type Product struct {
	ID             string
	Code           string // código único
	Name           string
	GenericName    string
	Manufacturer   string
	CategoryID     string
	SubCategoryID  string // vacío si no aplica
	FormulationID  string // vacío si no aplica
	BaseCost       decimal.Decimal
	MinStockGodown int64
	MinStockMR     int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MinLevelFor devuelve el mínimo configurado para el tipo de ubicación (GODOWN o MR).
func (p *Product) MinLevelFor(locationType string) int64 {
	if locationType == "MR" {
		return p.MinStockMR
	}
	return p.MinStockGodown
}
