package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// Los fakes embeben la interfaz: solo se implementan los métodos que usa el reporte.
type products struct {
	repository.ProductRepository
	items map[string]*entity.Product
}

func (p products) GetByID(_ context.Context, id string) (*entity.Product, error) { return p.items[id], nil }

type batches struct {
	repository.BatchRepository
	items map[string]*entity.Batch
}

func (b batches) GetByID(_ context.Context, id string) (*entity.Batch, error) { return b.items[id], nil }

type packaging struct {
	repository.PackagingRepository
	units map[string]*entity.PackagingUnit
}

func (p packaging) GetUnit(_ context.Context, id string) (*entity.PackagingUnit, error) {
	return p.units[id], nil
}

type suppliers struct {
	repository.SupplierRepository
	items map[string]*entity.Supplier
}

func (s suppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) { return s.items[id], nil }

type godowns struct {
	repository.GodownRepository
	items []*entity.Godown
}

func (g godowns) GetByID(_ context.Context, id string) (*entity.Godown, error) {
	for _, it := range g.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

func (g godowns) List(context.Context, bool) ([]*entity.Godown, error) { return g.items, nil }

type reps struct {
	repository.MedicalRepRepository
	items []*entity.MedicalRep
}

func (r reps) List(context.Context, bool) ([]*entity.MedicalRep, error) { return r.items, nil }

type stockSource struct {
	positions    []dto.StockPositionResponse
	lastQuery    inventory.PositionQuery
	summaryQuery inventory.BalanceQuery
}

func (s *stockSource) ListPositions(_ context.Context, q inventory.PositionQuery) (*dto.StockPositionListResponse, error) {
	s.lastQuery = q
	return &dto.StockPositionListResponse{Items: s.positions}, nil
}

func (s *stockSource) Summary(_ context.Context, q inventory.BalanceQuery) (*dto.SummaryResponse, error) {
	s.summaryQuery = q
	return &dto.SummaryResponse{TotalQuantity: 42}, nil
}

type purchaseSource map[string]*entity.StockPurchase

func (p purchaseSource) GetEntity(_ context.Context, id string) (*entity.StockPurchase, error) {
	if g, ok := p[id]; ok {
		return g, nil
	}
	return nil, domain.ErrNotFound
}

type capturePDF struct{ doc GRNDocument }

func (c *capturePDF) GenerateGRNPDF(_ context.Context, doc GRNDocument) ([]byte, error) {
	c.doc = doc
	return []byte("%PDF"), nil
}

type captureWorkbook struct{ wb StockWorkbook }

func (c *captureWorkbook) WriteStockWorkbook(_ context.Context, wb StockWorkbook) ([]byte, error) {
	c.wb = wb
	return []byte("PK"), nil
}

func testCatalog() Catalog {
	expiry := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	return Catalog{
		Products:  products{items: map[string]*entity.Product{"p1": {ID: "p1", Code: "PARA500", Name: "Paracetamol 500mg"}}},
		Batches:   batches{items: map[string]*entity.Batch{"b1": {ID: "b1", BatchNumber: "LOT-A", ExpiryDate: expiry}}},
		Packaging: packaging{units: map[string]*entity.PackagingUnit{"u-box": {ID: "u-box", UnitName: "Box", ConversionFactor: 10}}},
		Suppliers: suppliers{items: map[string]*entity.Supplier{"s1": {ID: "s1", Name: "Droguería Central", TaxID: "900123"}}},
		Godowns:   godowns{items: []*entity.Godown{{ID: "g1", Name: "Bodega Norte"}}},
		Reps:      reps{items: []*entity.MedicalRep{{ID: "m1", Name: "Ana Pérez"}}},
	}
}

func TestGRNPDF_ResuelveNombres(t *testing.T) {
	pdf := &capturePDF{}
	grn := &entity.StockPurchase{
		ID: "grn-1", GRNNumber: "GRN/2024 001", SupplierID: "s1", GodownID: "g1",
		TotalValue: decimal.NewFromInt(60),
		Items: []entity.StockPurchaseItem{{
			ProductID: "p1", BatchID: "b1", PackagingUnitID: "u-box",
			QuantityEntered: 3, QuantityStrips: 30, CostPerUnit: decimal.NewFromInt(2), LineValue: decimal.NewFromInt(60),
		}},
	}
	uc := NewReportUseCase(&stockSource{}, purchaseSource{"grn-1": grn}, testCatalog(), pdf, &captureWorkbook{}, nil)

	data, name, err := uc.GRNPDF(context.Background(), "grn-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, "grn_GRN_2024_001.pdf", name)

	assert.Equal(t, "Droguería Central", pdf.doc.SupplierName)
	assert.Equal(t, "Bodega Norte", pdf.doc.GodownName)
	require.Len(t, pdf.doc.Lines, 1)
	line := pdf.doc.Lines[0]
	assert.Equal(t, "PARA500", line.ProductCode)
	assert.Equal(t, "LOT-A", line.BatchNumber)
	assert.Equal(t, "Box", line.UnitName)
	assert.Equal(t, int64(30), line.QuantityStrips)

	_, _, err = uc.GRNPDF(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockWorkbook_NombreDeUbicacionYFiltros(t *testing.T) {
	src := &stockSource{positions: []dto.StockPositionResponse{
		{ProductCode: "PARA500", LocationType: "GODOWN", LocationID: "g1", Quantity: 117},
		{ProductCode: "PARA500", LocationType: "MR", LocationID: "m1", Quantity: 8},
		{ProductCode: "PARA500", LocationType: "MR", LocationID: "m9", Quantity: 1},
	}}
	wbw := &captureWorkbook{}
	uc := NewReportUseCase(src, purchaseSource{}, testCatalog(), &capturePDF{}, wbw, nil)
	uc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC) }

	q := inventory.PositionQuery{Search: "para"}
	_, name, err := uc.StockWorkbook(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "stock_20240601_1030.xlsx", name)
	assert.Equal(t, q, src.lastQuery)

	require.Len(t, wbw.wb.Rows, 3)
	assert.Equal(t, "Bodega Norte", wbw.wb.Rows[0].LocationName)
	assert.Equal(t, "Ana Pérez", wbw.wb.Rows[1].LocationName)
	assert.Empty(t, wbw.wb.Rows[2].LocationName)
	assert.Equal(t, int64(42), wbw.wb.Summary.TotalQuantity)
	assert.Equal(t, inventory.BalanceQuery{}, src.summaryQuery)
}

func TestStockWorkbook_ResumenAcotadoALaUbicacion(t *testing.T) {
	src := &stockSource{positions: []dto.StockPositionResponse{
		{ProductCode: "PARA500", LocationType: "MR", LocationID: "m1", Quantity: 8},
	}}
	uc := NewReportUseCase(src, purchaseSource{}, testCatalog(), &capturePDF{}, &captureWorkbook{}, nil)

	_, _, err := uc.StockWorkbook(context.Background(), inventory.PositionQuery{LocationType: "MR", LocationID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, inventory.BalanceQuery{LocationType: "MR", LocationID: "m1"}, src.summaryQuery)
}
