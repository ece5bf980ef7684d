package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
)

// firstCall índice de la primera llamada con el prefijo dado; -1 si no hubo.
func firstCall(calls []string, prefix string) int {
	for i, c := range calls {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

func TestEngine_LockOrdenaPares(t *testing.T) {
	db := newMemDB()
	e := NewEngine(nil, clock)

	err := e.Lock(context.Background(), Repos{Balances: balanceRepo{db}}, []productBatch{
		{ProductID: "p2", BatchID: "b1"},
		{ProductID: "p1", BatchID: "b9"},
		{ProductID: "p1", BatchID: "b2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"lock p1|b2", "lock p1|b9", "lock p2|b1"}, *db.calls)
}

// Sin fila de saldo previa FOR UPDATE no bloquea nada: el lock del par debe ir antes.
func TestEngine_RecordBloqueaParAntesDeLeerSaldos(t *testing.T) {
	w := newWorld()
	_, err := w.recorder().RecordTransaction(context.Background(), stockIn(10))
	require.NoError(t, err)

	calls := *w.db.calls
	lock := firstCall(calls, "lock "+productID+"|"+batchID)
	require.NotEqual(t, -1, lock)
	get := firstCall(calls, "get ")
	require.NotEqual(t, -1, get)
	assert.Less(t, lock, get)
	assert.Less(t, lock, firstCall(calls, "upsert "))
}

func TestEngine_EdicionDeGRNBloqueaAntesDeBorrarSaldos(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	uc := w.purchases()
	created, err := uc.Create(ctx, "u1", grn(dto.PurchaseItemRequest{ProductID: productID, BatchID: batchID, Quantity: 100}))
	require.NoError(t, err)

	*w.db.calls = nil
	_, err = uc.Update(ctx, "u1", created.ID, grn(dto.PurchaseItemRequest{ProductID: productID, BatchID: batchID, Quantity: 40}))
	require.NoError(t, err)

	calls := *w.db.calls
	lock := firstCall(calls, "lock "+productID+"|"+batchID)
	del := firstCall(calls, "delete "+productID+"|"+batchID)
	require.NotEqual(t, -1, lock)
	require.NotEqual(t, -1, del)
	assert.Less(t, lock, del)
	assert.Equal(t, int64(40), w.balance("GODOWN", godownID).Quantity)

	*w.db.calls = nil
	require.NoError(t, uc.Delete(ctx, created.ID))
	calls = *w.db.calls
	assert.Less(t, firstCall(calls, "lock "), firstCall(calls, "delete "))
}

func TestEngine_RebuildAllTomaElLockGlobal(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	seedStock(t, w)

	*w.db.calls = nil
	_, err := w.queries().Rebuild(ctx)
	require.NoError(t, err)

	calls := *w.db.calls
	require.NotEmpty(t, calls)
	assert.Equal(t, "lockall", calls[0])
	assert.Less(t, 0, firstCall(calls, "deleteall"))
}
