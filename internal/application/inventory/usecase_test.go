package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

func stockIn(qty int64) TransactionInput {
	return TransactionInput{
		UserID: "u1", Type: "STOCK_IN", ProductID: productID, BatchID: batchID,
		Quantity: qty, DestinationType: "GODOWN", DestinationID: godownID,
	}
}

func TestRecordTransaction_ConvierteUnidadYResuelveCosto(t *testing.T) {
	w := newWorld()
	in := stockIn(5)
	in.PackagingUnitID = boxUnitID

	tx, err := w.recorder().RecordTransaction(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(50), tx.Quantity, "5 Box x 10")
	assert.True(t, decimal.NewFromInt(2).Equal(tx.CostPerUnit), "costo base del producto")
	assert.Equal(t, entity.ReferenceManual, tx.ReferenceType)
	assert.Equal(t, int64(1), tx.Seq)

	b := w.balance("GODOWN", godownID)
	require.NotNil(t, b)
	assert.Equal(t, int64(50), b.Quantity)
}

func TestRecordTransaction_CostoDelLoteTienePrioridad(t *testing.T) {
	w := newWorld()
	override := decimal.NewFromFloat(3.5)
	w.db.batches[batchID].CostOverride = &override

	tx, err := w.recorder().RecordTransaction(context.Background(), stockIn(10))
	require.NoError(t, err)
	assert.True(t, override.Equal(tx.CostPerUnit))

	explicit := decimal.NewFromInt(7)
	in := stockIn(1)
	in.CostPerUnit = &explicit
	tx, err = w.recorder().RecordTransaction(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, explicit.Equal(tx.CostPerUnit))
	assert.True(t, explicit.Equal(w.balance("GODOWN", godownID).CostPerUnit), "la entrada refresca el costo")
}

func TestRecordTransaction_DespachoMueveAmbosLados(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	_, err := w.recorder().RecordTransaction(ctx, stockIn(100))
	require.NoError(t, err)

	_, err = w.recorder().RecordTransaction(ctx, TransactionInput{
		Type: "dispatch_to_mr", ProductID: productID, BatchID: batchID, Quantity: 30,
		SourceType: "GODOWN", SourceID: godownID, DestinationType: "MR", DestinationID: repID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), w.balance("GODOWN", godownID).Quantity)
	assert.Equal(t, int64(30), w.balance("MR", repID).Quantity)
}

func TestRecordTransaction_SalidaMayorAlSaldoQuedaEnCero(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	_, err := w.recorder().RecordTransaction(ctx, stockIn(10))
	require.NoError(t, err)

	_, err = w.recorder().RecordTransaction(ctx, TransactionInput{
		Type: "SALE", ProductID: productID, BatchID: batchID, Quantity: 25,
		SourceType: "GODOWN", SourceID: godownID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.balance("GODOWN", godownID).Quantity)
	assert.Len(t, w.db.txs, 2)
}

func TestRecordTransaction_Rechazos(t *testing.T) {
	ctx := context.Background()

	t.Run("tipo desconocido", func(t *testing.T) {
		w := newWorld()
		in := stockIn(1)
		in.Type = "TELEPORT"
		_, err := w.recorder().RecordTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrUnknownTransactionType)
		assert.Empty(t, w.db.txs)
	})
	t.Run("roles inválidos", func(t *testing.T) {
		w := newWorld()
		in := stockIn(1)
		in.SourceType, in.SourceID = "GODOWN", godown2ID
		_, err := w.recorder().RecordTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("STOCK_IN solo a bodega", func(t *testing.T) {
		w := newWorld()
		in := stockIn(1)
		in.DestinationType, in.DestinationID = "MR", repID
		_, err := w.recorder().RecordTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("producto inactivo", func(t *testing.T) {
		w := newWorld()
		w.db.products[productID].IsActive = false
		_, err := w.recorder().RecordTransaction(ctx, stockIn(1))
		assert.ErrorIs(t, err, domain.ErrInactive)
	})
	t.Run("bodega inexistente", func(t *testing.T) {
		w := newWorld()
		in := stockIn(1)
		in.DestinationID = "99999999-9999-9999-9999-999999999999"
		_, err := w.recorder().RecordTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("cantidad cero", func(t *testing.T) {
		w := newWorld()
		_, err := w.recorder().RecordTransaction(ctx, stockIn(0))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// Una fila con fecha anterior reconstruye el par y coincide con el replay.
func TestRecordTransaction_FechaAnteriorReconstruye(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	rec := w.recorder()

	_, err := rec.RecordTransaction(ctx, stockIn(10))
	require.NoError(t, err)
	sale := TransactionInput{
		Type: "SALE", ProductID: productID, BatchID: batchID, Quantity: 15,
		SourceType: "GODOWN", SourceID: godownID,
	}
	_, err = rec.RecordTransaction(ctx, sale)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.balance("GODOWN", godownID).Quantity)

	// Entrada de 20 fechada antes de todo: el orden cronológico es 20 + 10 - 15 = 15.
	early := fixedNow.Add(-48 * time.Hour)
	in := stockIn(20)
	in.OccurredAt = &early
	_, err = rec.RecordTransaction(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(15), w.balance("GODOWN", godownID).Quantity)

	audit, err := w.queries().Audit(ctx)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}
