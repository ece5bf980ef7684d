package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/report"
)

func TestWriteStockWorkbook(t *testing.T) {
	wb := report.StockWorkbook{
		GeneratedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Rows: []report.StockRow{{
			StockPositionResponse: dto.StockPositionResponse{
				ProductCode: "PARA500", ProductName: "Paracetamol 500mg", BatchNumber: "LOT-A",
				ExpiryDate: "2024-06-20", LocationType: "GODOWN", LocationID: "g1",
				Quantity: 117, Packs: "11 Box, 7 Strip", CostPerUnit: decimal.NewFromInt(2),
				TotalValue: decimal.NewFromInt(234), MinLevel: 100, StockStatus: "medium", ExpiryStatus: "expiring-soon",
			},
			LocationName: "Bodega Norte",
		}},
		Summary: &dto.SummaryResponse{
			Locations:     []dto.LocationSummaryDTO{{LocationType: "GODOWN", Positions: 1, Quantity: 117, TotalValue: decimal.NewFromInt(234)}},
			TotalQuantity: 117,
			TotalValue:    decimal.NewFromInt(234),
			LowStockCount: 0,
			ExpiringCount: 1,
		},
	}

	data, err := NewStockWorkbookWriter().WriteStockWorkbook(context.Background(), wb)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{positionsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(positionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "PARA500", rows[1][0])
	assert.Equal(t, "Bodega Norte", rows[1][5])
	assert.Equal(t, "117", rows[1][6])
	assert.Equal(t, "Total", rows[2][0])

	total, err := f.GetCellValue(summarySheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "117", total)
}
