package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
)

func TestVerify_DetectaDiferencias(t *testing.T) {
	l, err := inventory.Replay([]inventory.Movement{purchase(100, "5", t0), sale(30, "5", t0.Add(time.Hour))})
	require.NoError(t, err)

	// Tabla correcta: sin diferencias.
	ok := []inventory.Balance{{Key: godownKey(), Quantity: 70, CostPerUnit: decimal.NewFromInt(5)}}
	assert.Empty(t, inventory.Verify(l, ok))

	// Cantidad distinta.
	bad := []inventory.Balance{{Key: godownKey(), Quantity: 100, CostPerUnit: decimal.NewFromInt(5)}}
	d := inventory.Verify(l, bad)
	require.Len(t, d, 1)
	assert.Equal(t, inventory.DiscrepancyQuantityMismatch, d[0].Kind)
	assert.Equal(t, int64(70), d[0].Expected.Quantity)

	// Costo distinto.
	cost := []inventory.Balance{{Key: godownKey(), Quantity: 70, CostPerUnit: decimal.NewFromInt(6)}}
	d = inventory.Verify(l, cost)
	require.Len(t, d, 1)
	assert.Equal(t, inventory.DiscrepancyCostMismatch, d[0].Kind)

	// Fila ausente y fila huérfana.
	orphanKey := inventory.Key{ProductID: "X", BatchID: "Y", Location: *mr1}
	d = inventory.Verify(l, []inventory.Balance{{Key: orphanKey, Quantity: 3}})
	require.Len(t, d, 2)
	kinds := []inventory.DiscrepancyKind{d[0].Kind, d[1].Kind}
	assert.ElementsMatch(t, []inventory.DiscrepancyKind{inventory.DiscrepancyMissingRow, inventory.DiscrepancyOrphanRow}, kinds)
}

func TestVerify_FilaEnCeroNoEsHuerfana(t *testing.T) {
	l := inventory.NewLedger()
	orphan := inventory.Balance{Key: godownKey(), Quantity: 0}
	assert.Empty(t, inventory.Verify(l, []inventory.Balance{orphan}))
}

func TestSummarise(t *testing.T) {
	l, err := inventory.Replay([]inventory.Movement{
		purchase(100, "2", t0),
		{
			ID: "d", Type: inventory.TxDispatchToMR, ProductID: "P", BatchID: "B",
			Source: godown, Destination: mr1, Quantity: 25,
			CostPerUnit: decimal.NewFromInt(2), OccurredAt: t0.Add(time.Hour),
		},
	})
	require.NoError(t, err)

	s := inventory.Summarise(l.Positions())
	require.Len(t, s, 2)
	assert.Equal(t, inventory.LocationGodown, s[0].LocationType)
	assert.Equal(t, int64(75), s[0].Quantity)
	assert.True(t, decimal.NewFromInt(150).Equal(s[0].TotalValue))
	assert.Equal(t, int64(25), s[1].Quantity)
	assert.True(t, decimal.NewFromInt(50).Equal(s[1].TotalValue))
}
