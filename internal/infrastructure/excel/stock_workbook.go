// Package excel escribe el libro de stock en formato xlsx con excelize.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/report"
)

const (
	positionsSheet = "Posiciones"
	summarySheet   = "Resumen"
)

var positionHeaders = []string{
	"Código", "Producto", "Lote", "Vence", "Tipo ubicación", "Ubicación",
	"Strips", "Empaques", "Costo unit.", "Valor", "Mínimo", "Estado stock", "Estado vencimiento",
}

var positionWidths = []float64{12, 32, 14, 12, 14, 24, 10, 20, 12, 14, 10, 14, 18}

var _ report.StockWorkbookWriter = (*StockWorkbookWriter)(nil)

// StockWorkbookWriter implementa report.StockWorkbookWriter.
type StockWorkbookWriter struct{}

// NewStockWorkbookWriter construye el writer.
func NewStockWorkbookWriter() *StockWorkbookWriter { return &StockWorkbookWriter{} }

// WriteStockWorkbook genera un xlsx con la hoja de posiciones y la de resumen.
func (w *StockWorkbookWriter) WriteStockWorkbook(_ context.Context, wb report.StockWorkbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", positionsSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9EAD3"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	if err := writePositions(f, wb, headerStyle, boldStyle); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("excel: hoja resumen: %w", err)
	}
	if err := writeSummary(f, wb, headerStyle, boldStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writePositions(f *excelize.File, wb report.StockWorkbook, headerStyle, boldStyle int) error {
	sheet := positionsSheet
	for i, h := range positionHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		f.SetColWidth(sheet, col, col, positionWidths[i])
	}
	var strips int64
	for i, r := range wb.Rows {
		row := i + 2
		values := []any{
			r.ProductCode, r.ProductName, r.BatchNumber, r.ExpiryDate, r.LocationType, nonEmpty(r.LocationName, r.LocationID),
			r.Quantity, r.Packs, r.CostPerUnit.InexactFloat64(), r.TotalValue.InexactFloat64(), r.MinLevel,
			r.StockStatus, r.ExpiryStatus,
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v); err != nil {
				return fmt.Errorf("excel: celda %s%d: %w", col, row, err)
			}
		}
		strips += r.Quantity
	}
	totalRow := len(wb.Rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), strips)
	if len(wb.Rows) > 0 {
		f.SetCellFormula(sheet, fmt.Sprintf("J%d", totalRow), fmt.Sprintf("SUM(J2:J%d)", totalRow-1))
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("M%d", totalRow), boldStyle)
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, wb report.StockWorkbook, headerStyle, boldStyle int) error {
	sheet := summarySheet
	f.SetCellValue(sheet, "A1", "Generado")
	f.SetCellValue(sheet, "B1", wb.GeneratedAt.Format("2006-01-02 15:04"))
	for i, h := range []string{"Tipo ubicación", "Posiciones", "Strips", "Valor"} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s3", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "D", 14)
	if wb.Summary == nil {
		return nil
	}
	row := 4
	for _, l := range wb.Summary.Locations {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), l.LocationType)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), l.Positions)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), l.TotalValue.InexactFloat64())
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), wb.Summary.TotalQuantity)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), wb.Summary.TotalValue.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), boldStyle)

	row += 2
	alerts := [][2]any{
		{"Stock bajo", wb.Summary.LowStockCount},
		{"Por vencer", wb.Summary.ExpiringCount},
		{"Vencidos", wb.Summary.ExpiredCount},
	}
	for _, a := range alerts {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a[1])
		row++
	}
	return nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
