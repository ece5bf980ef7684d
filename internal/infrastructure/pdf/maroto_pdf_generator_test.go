package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/application/report"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.500", formatMoney("-1500"))
	assert.Equal(t, "999", formatMoney("999"))
	assert.Equal(t, "1.234,50", formatAmount("1234.50"))
	assert.Equal(t, "0,25", formatAmount("0.25"))
}

func TestGenerateGRNPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Droguería Demo")
	out, err := g.GenerateGRNPDF(context.Background(), report.GRNDocument{
		GRNNumber:    "GRN-001",
		SupplierName: "Proveedor S.A.",
		GodownName:   "Bodega Norte",
		ReceivedAt:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Lines: []report.GRNLine{{
			ProductCode: "PARA500", ProductName: "Paracetamol 500mg", BatchNumber: "LOT-A",
			ExpiryDate: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), UnitName: "Box",
			QuantityEntered: 3, QuantityStrips: 30,
			CostPerUnit: decimal.NewFromInt(2), LineValue: decimal.NewFromInt(60),
		}},
		TotalValue: decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
