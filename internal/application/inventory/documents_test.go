package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

func (w *world) purchases() *PurchaseUseCase {
	return NewPurchaseUseCase(w.tx, w.refs, w.engine, purchaseRepo{w.db}, nil, clock)
}

func (w *world) sales() *SaleUseCase {
	return NewSaleUseCase(w.tx, w.refs, w.engine, saleRepo{w.db}, nil, clock)
}

func (w *world) adjustments() *AdjustmentUseCase {
	return NewAdjustmentUseCase(w.tx, w.refs, w.engine, adjustmentRepo{w.db}, nil, clock)
}

func grn(items ...dto.PurchaseItemRequest) dto.PurchaseRequest {
	return dto.PurchaseRequest{GRNNumber: "GRN-001", SupplierID: supplierID, GodownID: godownID, Items: items}
}

func TestPurchase_CreaLoteYRegistraEntradas(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	cost := decimal.NewFromFloat(1.25)

	resp, err := w.purchases().Create(ctx, "u1", grn(
		dto.PurchaseItemRequest{ProductID: productID, BatchID: batchID, PackagingUnitID: boxUnitID, Quantity: 3},
		dto.PurchaseItemRequest{ProductID: productID, BatchNumber: "LOT-B", ExpiryDate: "2025-01-31", Quantity: 40, CostPerUnit: &cost},
	))
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(30), resp.Items[0].QuantityStrips)
	assert.True(t, decimal.NewFromInt(60).Equal(resp.Items[0].LineValue), "30 x 2")
	assert.True(t, decimal.NewFromInt(50).Equal(resp.Items[1].LineValue), "40 x 1.25")
	assert.True(t, decimal.NewFromInt(110).Equal(resp.TotalValue))

	newBatchID := resp.Items[1].BatchID
	require.NotEqual(t, batchID, newBatchID)
	require.Contains(t, w.db.batches, newBatchID)
	assert.Equal(t, "LOT-B", w.db.batches[newBatchID].BatchNumber)

	assert.Equal(t, int64(30), w.balance("GODOWN", godownID).Quantity)
	assert.Len(t, w.db.txs, 2)
	for _, tx := range w.db.txs {
		assert.Equal(t, entity.ReferencePurchase, tx.ReferenceType)
		assert.Equal(t, resp.ID, tx.ReferenceID)
		assert.Equal(t, "GRN-001", tx.ReferenceNumber)
	}
}

func TestPurchase_LoteNuevoSinVencimiento(t *testing.T) {
	w := newWorld()
	_, err := w.purchases().Create(context.Background(), "u1", grn(
		dto.PurchaseItemRequest{ProductID: productID, BatchNumber: "LOT-Z", Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, w.db.txs, "rollback")
	assert.Len(t, w.db.batches, 1)
}

func TestPurchase_ActualizarYBorrarReconstruyen(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	uc := w.purchases()

	created, err := uc.Create(ctx, "u1", grn(dto.PurchaseItemRequest{ProductID: productID, BatchID: batchID, Quantity: 100}))
	require.NoError(t, err)
	later := fixedNow.Add(time.Hour)
	_, err = w.recorder().RecordTransaction(ctx, TransactionInput{
		Type: "SALE", ProductID: productID, BatchID: batchID, Quantity: 30,
		SourceType: "GODOWN", SourceID: godownID, OccurredAt: &later,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), w.balance("GODOWN", godownID).Quantity)

	// La cantidad recibida baja a 40: 40 - 30 = 10.
	_, err = uc.Update(ctx, "u1", created.ID, grn(dto.PurchaseItemRequest{ProductID: productID, BatchID: batchID, Quantity: 40}))
	require.NoError(t, err)
	assert.Equal(t, int64(10), w.balance("GODOWN", godownID).Quantity)
	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(40), got.Items[0].QuantityStrips)

	// Sin el GRN la venta queda sin stock: el saldo se mantiene en cero.
	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.Equal(t, int64(0), w.balance("GODOWN", godownID).Quantity)
	assert.Len(t, w.db.txs, 1)

	_, err = uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)

	audit, err := w.queries().Audit(ctx)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestPurchase_ProveedorInactivo(t *testing.T) {
	w := newWorld()
	w.db.suppliers[supplierID].IsActive = false
	_, err := w.purchases().Create(context.Background(), "u1", grn(dto.PurchaseItemRequest{ProductID: productID, BatchID: batchID, Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestSale_DespachoYVenta(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	_, err := w.recorder().RecordTransaction(ctx, stockIn(100))
	require.NoError(t, err)

	dispatch, err := w.sales().Create(ctx, "u1", dto.SaleRequest{
		DocumentNumber: "D-1", Kind: "DISPATCH", SourceType: "GODOWN", SourceID: godownID, DestinationID: repID,
		Items: []dto.SaleItemRequest{{ProductID: productID, BatchID: batchID, PackagingUnitID: boxUnitID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "MR", dispatch.DestinationType)
	assert.Equal(t, int64(80), w.balance("GODOWN", godownID).Quantity)
	assert.Equal(t, int64(20), w.balance("MR", repID).Quantity)

	sale, err := w.sales().Create(ctx, "u1", dto.SaleRequest{
		DocumentNumber: "S-1", Kind: "sale", SourceType: "MR", SourceID: repID, CustomerName: "Farmacia X",
		Items: []dto.SaleItemRequest{{ProductID: productID, BatchID: batchID, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(sale.TotalValue))
	assert.Equal(t, int64(15), w.balance("MR", repID).Quantity)

	list, err := w.sales().List(ctx, "DISPATCH", nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSale_DespachoDesdeMRRechazado(t *testing.T) {
	w := newWorld()
	_, err := w.sales().Create(context.Background(), "u1", dto.SaleRequest{
		DocumentNumber: "D-2", Kind: "DISPATCH", SourceType: "MR", SourceID: repID, DestinationID: repID,
		Items: []dto.SaleItemRequest{{ProductID: productID, BatchID: batchID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, w.db.txs)
}

func TestAdjustment_DireccionSegunTipo(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	uc := w.adjustments()

	_, err := uc.Create(ctx, "u1", dto.AdjustmentRequest{
		Type: "STOCK_IN_ADJUSTMENT", LocationType: "GODOWN", LocationID: godownID,
		ProductID: productID, BatchID: batchID, Quantity: 12, Reason: "conteo físico",
	})
	require.NoError(t, err)
	adj, err := uc.Create(ctx, "u1", dto.AdjustmentRequest{
		Type: "DAMAGE", LocationType: "GODOWN", LocationID: godownID,
		ProductID: productID, BatchID: batchID, Quantity: 2, Reason: "roto",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), w.balance("GODOWN", godownID).Quantity)
	assert.NotEmpty(t, adj.TransactionID)

	last := w.db.txs[len(w.db.txs)-1]
	assert.Equal(t, "GODOWN", last.SourceType)
	assert.Empty(t, last.DestinationType)
	assert.Equal(t, entity.ReferenceAdjustment, last.ReferenceType)

	list, err := uc.List(ctx, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAdjustment_TipoNoPermitido(t *testing.T) {
	w := newWorld()
	_, err := w.adjustments().Create(context.Background(), "u1", dto.AdjustmentRequest{
		Type: "SALE", LocationType: "GODOWN", LocationID: godownID,
		ProductID: productID, BatchID: batchID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
