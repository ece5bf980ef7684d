package inventory_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	godown = &inventory.Location{Type: inventory.LocationGodown, ID: "G1"}
	mr1    = &inventory.Location{Type: inventory.LocationMR, ID: "MR1"}
	t0     = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
)

func purchase(qty int64, cost string, at time.Time) inventory.Movement {
	return inventory.Movement{
		ID: fmt.Sprintf("in-%d-%s", qty, at.Format(time.RFC3339Nano)), Type: inventory.TxStockIn,
		ProductID: "P", BatchID: "B", Destination: godown,
		Quantity: qty, CostPerUnit: decimal.RequireFromString(cost), OccurredAt: at,
	}
}

func sale(qty int64, cost string, at time.Time) inventory.Movement {
	return inventory.Movement{
		ID: fmt.Sprintf("out-%d-%s", qty, at.Format(time.RFC3339Nano)), Type: inventory.TxSale,
		ProductID: "P", BatchID: "B", Source: godown,
		Quantity: qty, CostPerUnit: decimal.RequireFromString(cost), OccurredAt: at,
	}
}

func godownKey() inventory.Key {
	return inventory.Key{ProductID: "P", BatchID: "B", Location: *godown}
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla de saldo
// ──────────────────────────────────────────────────────────────────────────────

// Compra de 100 a 5.00 y venta de 30: saldo 70, costo sin cambios.
func TestLedger_CompraYVenta(t *testing.T) {
	l := inventory.NewLedger()

	_, err := l.Apply(purchase(100, "5.00", t0))
	require.NoError(t, err)
	b, ok := l.Balance(godownKey())
	require.True(t, ok)
	assert.Equal(t, int64(100), b.Quantity)
	assert.True(t, decimal.RequireFromString("5.00").Equal(b.CostPerUnit))

	_, err = l.Apply(sale(30, "9.99", t0.Add(time.Hour)))
	require.NoError(t, err)
	b, _ = l.Balance(godownKey())
	assert.Equal(t, int64(70), b.Quantity)
	assert.True(t, decimal.RequireFromString("5.00").Equal(b.CostPerUnit), "la salida no debe actualizar el costo")
}

// Un crédito que desborda el saldo se rechaza y el saldo previo queda intacto.
func TestLedger_CreditoFueraDeRango(t *testing.T) {
	l := inventory.NewLedger()
	_, err := l.Apply(purchase(math.MaxInt64-5, "1", t0))
	require.NoError(t, err)

	_, err = l.Apply(purchase(6, "1", t0.Add(time.Minute)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	b, _ := l.Balance(godownKey())
	assert.Equal(t, int64(math.MaxInt64-5), b.Quantity)

	_, err = l.Apply(purchase(5, "1", t0.Add(time.Hour)))
	require.NoError(t, err)
	b, _ = l.Balance(godownKey())
	assert.Equal(t, int64(math.MaxInt64), b.Quantity)
}

// Saldo 20 y venta de 50: queda en 0, no en -30, y se informa el faltante.
func TestLedger_SobreRetiroQuedaEnCero(t *testing.T) {
	l := inventory.NewLedger()
	_, err := l.Apply(purchase(20, "5", t0))
	require.NoError(t, err)

	outcomes, err := l.Apply(sale(50, "5", t0.Add(time.Minute)))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, int64(0), outcomes[0].Balance.Quantity)
	assert.Equal(t, int64(30), outcomes[0].Shortfall)
}

// Una salida sobre una clave sin fila crea la fila en cero con el costo de la transacción.
func TestLedger_SalidaSinFilaPrevia(t *testing.T) {
	l := inventory.NewLedger()
	outcomes, err := l.Apply(sale(10, "3.50", t0))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Created)
	assert.Equal(t, int64(0), outcomes[0].Balance.Quantity)
	assert.True(t, decimal.RequireFromString("3.50").Equal(outcomes[0].Balance.CostPerUnit))
}

// La compra siempre refresca el costo al último costo de adquisición.
func TestLedger_EntradaRefrescaCosto(t *testing.T) {
	l := inventory.NewLedger()
	_, _ = l.Apply(purchase(10, "5", t0))
	_, _ = l.Apply(purchase(10, "6.25", t0.Add(time.Hour)))
	b, _ := l.Balance(godownKey())
	assert.Equal(t, int64(20), b.Quantity)
	assert.True(t, decimal.RequireFromString("6.25").Equal(b.CostPerUnit))
}

// Un despacho a MR mueve el stock en ambos lados.
func TestLedger_DespachoAMRMueveAmbosLados(t *testing.T) {
	l := inventory.NewLedger()
	_, _ = l.Apply(purchase(100, "5", t0))
	_, err := l.Apply(inventory.Movement{
		ID: "d1", Type: inventory.TxDispatchToMR, ProductID: "P", BatchID: "B",
		Source: godown, Destination: mr1, Quantity: 40,
		CostPerUnit: decimal.NewFromInt(5), OccurredAt: t0.Add(time.Hour),
	})
	require.NoError(t, err)

	g, _ := l.Balance(godownKey())
	m, ok := l.Balance(inventory.Key{ProductID: "P", BatchID: "B", Location: *mr1})
	require.True(t, ok)
	assert.Equal(t, int64(60), g.Quantity)
	assert.Equal(t, int64(40), m.Quantity)
}

// Re-aplicar la misma fila cuenta dos veces: cada fila es un evento independiente.
func TestLedger_NoEsIdempotente(t *testing.T) {
	l := inventory.NewLedger()
	m := purchase(10, "1", t0)
	_, _ = l.Apply(m)
	_, _ = l.Apply(m)
	b, _ := l.Balance(godownKey())
	assert.Equal(t, int64(20), b.Quantity)
}

func TestLedger_TipoDesconocidoEsError(t *testing.T) {
	l := inventory.NewLedger()
	m := purchase(10, "1", t0)
	m.Type = "STOCK_TELEPORT"
	_, err := l.Apply(m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownTransactionType))
	assert.Equal(t, 0, l.Len())
}

func TestLedger_RolesInvalidos(t *testing.T) {
	cases := map[string]inventory.Movement{
		"venta sin origen":      {Type: inventory.TxSale, Destination: godown},
		"compra a MR":           {Type: inventory.TxStockIn, Destination: mr1},
		"despacho MR a bodega":  {Type: inventory.TxDispatchToMR, Source: mr1, Destination: godown},
		"traslado misma bodega": {Type: inventory.TxGodownTransfer, Source: godown, Destination: godown},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			m.ProductID, m.BatchID, m.Quantity = "P", "B", 1
			_, err := inventory.Effects(m)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay y posiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReplay_OrdenCronologicoYPosiciones(t *testing.T) {
	// Entregadas fuera de orden: la venta ocurre después de la compra.
	ms := []inventory.Movement{
		sale(30, "5", t0.Add(2*time.Hour)),
		purchase(100, "5", t0),
	}
	l, err := inventory.Replay(ms)
	require.NoError(t, err)

	pos := l.Positions()
	require.Len(t, pos, 1)
	assert.Equal(t, int64(70), pos[0].Quantity)
	assert.True(t, decimal.NewFromInt(350).Equal(pos[0].TotalValue))
}

func TestReplay_DescartaSaldosEnCero(t *testing.T) {
	l, err := inventory.Replay([]inventory.Movement{
		purchase(10, "2", t0),
		sale(10, "2", t0.Add(time.Minute)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
	assert.Empty(t, l.Positions())
}

func TestReplay_ErrorIndicaMovimiento(t *testing.T) {
	bad := purchase(1, "1", t0)
	bad.ID = "tx-malo"
	bad.Type = "NOPE"
	_, err := inventory.Replay([]inventory.Movement{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tx-malo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

// Para una sola clave: si ningún prefijo queda negativo, el saldo es la suma de
// entradas menos salidas; en cualquier caso nunca es menor que esa suma con piso cero.
func TestPropiedad_SumaConPisoCero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		l := inventory.NewLedger()
		var sum int64
		clamped := false
		for i := 0; i < 30; i++ {
			at := t0.Add(time.Duration(i) * time.Minute)
			q := int64(rng.Intn(50) + 1)
			if rng.Intn(3) == 0 {
				outs, err := l.Apply(sale(q, "1", at))
				require.NoError(t, err)
				if outs[0].Shortfall > 0 {
					clamped = true
				}
				sum -= q
			} else {
				_, err := l.Apply(purchase(q, "1", at))
				require.NoError(t, err)
				sum += q
			}
		}
		b, _ := l.Balance(godownKey())
		assert.GreaterOrEqual(t, b.Quantity, int64(0))
		floor := sum
		if floor < 0 {
			floor = 0
		}
		if clamped {
			assert.GreaterOrEqual(t, b.Quantity, floor)
		} else {
			assert.Equal(t, floor, b.Quantity)
		}
	}
}

// La ruta incremental (fila por fila contra una tabla) y el replay completo
// producen los mismos saldos sobre el mismo libro.
func TestPropiedad_IncrementalIgualAReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	locations := []*inventory.Location{
		godown,
		{Type: inventory.LocationGodown, ID: "G2"},
		mr1,
		{Type: inventory.LocationMR, ID: "MR2"},
	}
	types := inventory.TransactionTypes()

	for run := 0; run < 50; run++ {
		var ledger []inventory.Movement
		for i := 0; len(ledger) < 80; i++ {
			m := inventory.Movement{
				ID:          fmt.Sprintf("tx-%d-%d", run, i),
				Seq:         int64(i),
				Type:        types[rng.Intn(len(types))],
				ProductID:   []string{"P1", "P2"}[rng.Intn(2)],
				BatchID:     []string{"B1", "B2"}[rng.Intn(2)],
				Quantity:    int64(rng.Intn(40) + 1),
				CostPerUnit: decimal.NewFromInt(int64(rng.Intn(9) + 1)),
				OccurredAt:  t0.Add(time.Duration(i) * time.Minute),
				Source:      locations[rng.Intn(len(locations))],
				Destination: locations[rng.Intn(len(locations))],
			}
			dir, _ := inventory.Classify(m.Type)
			switch dir {
			case inventory.DirectionInflow:
				m.Source = nil
			case inventory.DirectionOutflow:
				m.Destination = nil
			}
			if m.Validate() != nil {
				continue
			}
			ledger = append(ledger, m)
		}

		// Ruta incremental: tabla de saldos actualizada por cada inserción.
		table := map[inventory.Key]*inventory.Balance{}
		for _, m := range ledger {
			effects, err := inventory.Effects(m)
			require.NoError(t, err)
			for _, e := range effects {
				out, err := e.Apply(table[e.Key])
				require.NoError(t, err)
				b := out.Balance
				table[e.Key] = &b
			}
		}
		stored := make([]inventory.Balance, 0, len(table))
		for _, b := range table {
			stored = append(stored, *b)
		}

		// Ruta de replay sobre el libro desordenado.
		shuffled := append([]inventory.Movement(nil), ledger...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		replayed, err := inventory.Replay(shuffled)
		require.NoError(t, err)

		assert.Empty(t, inventory.Verify(replayed, stored), "run %d", run)
	}
}
