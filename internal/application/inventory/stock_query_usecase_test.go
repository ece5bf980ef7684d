package inventory

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

func seedStock(t *testing.T, w *world) {
	t.Helper()
	ctx := context.Background()
	rec := w.recorder()
	_, err := rec.RecordTransaction(ctx, stockIn(125))
	require.NoError(t, err)
	_, err = rec.RecordTransaction(ctx, TransactionInput{
		Type: "DISPATCH_TO_MR", ProductID: productID, BatchID: batchID, Quantity: 8,
		SourceType: "GODOWN", SourceID: godownID, DestinationType: "MR", DestinationID: repID,
	})
	require.NoError(t, err)
}

func TestListBalances_Clasifica(t *testing.T) {
	w := newWorld()
	seedStock(t, w)

	resp, err := w.queries().ListBalances(context.Background(), BalanceQuery{LocationType: "godown"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	it := resp.Items[0]
	assert.Equal(t, int64(117), it.Quantity)
	assert.Equal(t, int64(100), it.MinLevel)
	assert.Equal(t, string(inventory.StockMedium), it.StockStatus, "117 <= 150")
	assert.Equal(t, string(inventory.ExpiryExpiringSoon), it.ExpiryStatus, "vence 2024-06-20")
	assert.Equal(t, "11 Box, 7 Strip", it.Packs)
	assert.True(t, decimal.NewFromInt(234).Equal(it.TotalValue))
	assert.Equal(t, int64(117), resp.TotalQuantity)
}

func TestListPositions_BusquedaSinAcentosYUbicacion(t *testing.T) {
	w := newWorld()
	w.db.products[productID].Name = "Parácetamol 500mg"
	seedStock(t, w)
	ctx := context.Background()

	all, err := w.queries().ListPositions(ctx, PositionQuery{Search: "PARACETAMOL"})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, int64(125), all.TotalQuantity)

	mr, err := w.queries().ListPositions(ctx, PositionQuery{Search: "paracet", LocationType: "MR", LocationID: repID})
	require.NoError(t, err)
	require.Len(t, mr.Items, 1)
	assert.Equal(t, int64(8), mr.Items[0].Quantity)
	assert.Equal(t, int64(10), mr.Items[0].MinLevel)
	assert.Equal(t, string(inventory.StockLow), mr.Items[0].StockStatus)
	assert.Equal(t, "LOT-A", mr.Items[0].BatchNumber)

	none, err := w.queries().ListPositions(ctx, PositionQuery{Search: "ibuprofeno"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	byBatch, err := w.queries().ListPositions(ctx, PositionQuery{BatchSearch: "lot-b"})
	require.NoError(t, err)
	assert.Empty(t, byBatch.Items)
}

func TestListTransactions_TipoInvalido(t *testing.T) {
	w := newWorld()
	_, err := w.queries().ListTransactions(context.Background(), repository.TransactionFilter{Type: "NOPE"}, dto.PageRequest{})
	assert.Error(t, err)
}

// Una fila guardada con tipo desconocido es un dato corrupto, no un error de validación.
func TestReplay_FilaGuardadaInvalida(t *testing.T) {
	w := newWorld()
	seedStock(t, w)
	w.db.txs[0].Type = "BOGUS"
	ctx := context.Background()

	_, err := w.queries().ListPositions(ctx, PositionQuery{})
	assert.ErrorIs(t, err, domain.ErrCorruptLedger)
	assert.NotErrorIs(t, err, domain.ErrUnknownTransactionType)

	_, err = w.queries().Audit(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptLedger)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	_, err = w.queries().Rebuild(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptLedger)
}

func TestAuditYRebuild(t *testing.T) {
	w := newWorld()
	seedStock(t, w)
	ctx := context.Background()
	q := w.queries()

	audit, err := q.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.Equal(t, 2, audit.TransactionsReplayed)
	assert.Equal(t, 2, audit.BalancesChecked)

	// Alteración manual de la tabla materializada.
	w.balance("GODOWN", godownID).Quantity = 999
	w.db.balances["huérfana"] = &entity.StockBalance{ProductID: "x", BatchID: "y", LocationType: "MR", LocationID: "z", Quantity: 4}

	audit, err = q.Audit(ctx)
	require.NoError(t, err)
	assert.False(t, audit.Consistent)
	assert.Len(t, audit.Discrepancies, 2)

	rebuilt, err := q.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilt.TransactionsReplayed)
	assert.Equal(t, 2, rebuilt.BalancesWritten)
	assert.Equal(t, int64(117), w.balance("GODOWN", godownID).Quantity)

	audit, err = q.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestSummary(t *testing.T) {
	w := newWorld()
	seedStock(t, w)

	s, err := w.queries().Summary(context.Background(), BalanceQuery{})
	require.NoError(t, err)
	require.Len(t, s.Locations, 2)
	assert.Equal(t, int64(117), s.Locations[0].Quantity)
	assert.Equal(t, int64(8), s.Locations[1].Quantity)
	assert.Equal(t, int64(125), s.TotalQuantity)
	assert.True(t, decimal.NewFromInt(250).Equal(s.TotalValue))
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, 2, s.ExpiringCount)
}

func TestSummary_AcotadoAUbicacion(t *testing.T) {
	w := newWorld()
	seedStock(t, w)

	s, err := w.queries().Summary(context.Background(), BalanceQuery{LocationType: "mr", LocationID: repID})
	require.NoError(t, err)
	require.Len(t, s.Locations, 2)
	assert.Equal(t, int64(0), s.Locations[0].Quantity, "sin bodegas")
	assert.Equal(t, 0, s.Locations[0].Positions)
	assert.Equal(t, int64(8), s.Locations[1].Quantity)
	assert.Equal(t, int64(8), s.TotalQuantity)
	assert.True(t, decimal.NewFromInt(16).Equal(s.TotalValue))
	assert.Equal(t, 1, s.LowStockCount)

	_, err = w.queries().Summary(context.Background(), BalanceQuery{LocationType: "BODEGA"})
	assert.Error(t, err)
}

func TestAlerts(t *testing.T) {
	w := newWorld()
	seedStock(t, w)

	uc := NewAlertsUseCase(balanceRepo{w.db}, w.refs, inventory.DefaultPolicy(), clock)
	resp, err := uc.Alerts(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, resp.LowStock, 2)
	first := resp.LowStock[0]
	assert.Equal(t, "MR", first.LocationType, "low antes que medium")
	assert.Equal(t, 1, first.Priority)
	assert.Equal(t, int64(15), first.IdealStock)
	assert.Equal(t, int64(7), first.SuggestedReorder)
	assert.True(t, decimal.NewFromInt(14).Equal(first.EstimatedCost))

	second := resp.LowStock[1]
	assert.Equal(t, "GODOWN", second.LocationType)
	assert.Equal(t, int64(33), second.SuggestedReorder, "150 - 117")

	assert.Len(t, resp.Expiry, 2)
}

// La ruta incremental y el replay producen los mismos saldos para historiales
// generados al azar (incluye salidas mayores al saldo y filas con fecha anterior).
func TestEngine_IncrementalIgualAReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		w := newWorld()
		ctx := context.Background()
		rec := w.recorder()
		for i := 0; i < 40; i++ {
			at := fixedNow.Add(time.Duration(rng.Intn(200)-100) * time.Minute)
			in := randomInput(rng)
			in.OccurredAt = &at
			_, err := rec.RecordTransaction(ctx, in)
			require.NoError(t, err)
		}
		audit, err := w.queries().Audit(ctx)
		require.NoError(t, err)
		require.True(t, audit.Consistent, "ronda %d: %+v", round, audit.Discrepancies)
	}
}

func randomInput(rng *rand.Rand) TransactionInput {
	in := TransactionInput{ProductID: productID, BatchID: batchID, Quantity: int64(rng.Intn(50) + 1)}
	cost := decimal.NewFromInt(int64(rng.Intn(5) + 1))
	switch rng.Intn(6) {
	case 0, 1:
		in.Type, in.DestinationType, in.DestinationID = "STOCK_IN", "GODOWN", godownID
		in.CostPerUnit = &cost
	case 2:
		in.Type, in.SourceType, in.SourceID = "SALE", "GODOWN", godownID
	case 3:
		in.Type = "DISPATCH_TO_MR"
		in.SourceType, in.SourceID, in.DestinationType, in.DestinationID = "GODOWN", godownID, "MR", repID
	case 4:
		in.Type = "RETURN_FROM_MR"
		in.SourceType, in.SourceID, in.DestinationType, in.DestinationID = "MR", repID, "GODOWN", godown2ID
	case 5:
		in.Type = "GODOWN_TRANSFER"
		in.SourceType, in.SourceID, in.DestinationType, in.DestinationID = "GODOWN", godown2ID, "GODOWN", godownID
	}
	return in
}
