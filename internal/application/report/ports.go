package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
)

// GRNLine línea del GRN lista para imprimir.
type GRNLine struct {
	ProductCode     string
	ProductName     string
	BatchNumber     string
	ExpiryDate      time.Time
	UnitName        string // unidad en que se ingresó
	QuantityEntered int64
	QuantityStrips  int64
	CostPerUnit     decimal.Decimal
	LineValue       decimal.Decimal
}

// GRNDocument datos del GRN con nombres ya resueltos.
type GRNDocument struct {
	GRNNumber             string
	SupplierName          string
	SupplierTaxID         string
	GodownName            string
	SupplierInvoiceNumber string
	ReceivedAt            time.Time
	Notes                 string
	Lines                 []GRNLine
	TotalValue            decimal.Decimal
}

// GRNPDFGenerator genera la representación imprimible de un GRN.
type GRNPDFGenerator interface {
	GenerateGRNPDF(ctx context.Context, doc GRNDocument) ([]byte, error)
}

// StockRow posición de stock con el nombre de la ubicación.
type StockRow struct {
	dto.StockPositionResponse
	LocationName string
}

// StockWorkbook contenido del libro de stock: hoja de posiciones y hoja de resumen.
type StockWorkbook struct {
	GeneratedAt time.Time
	Rows        []StockRow
	Summary     *dto.SummaryResponse
}

// StockWorkbookWriter serializa el libro de stock (xlsx).
type StockWorkbookWriter interface {
	WriteStockWorkbook(ctx context.Context, wb StockWorkbook) ([]byte, error)
}
