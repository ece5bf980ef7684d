package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStockLevel_Limites(t *testing.T) {
	p := inventory.DefaultPolicy()
	assert.Equal(t, inventory.StockLow, p.StockLevel(10, 10))
	assert.Equal(t, inventory.StockLow, p.StockLevel(0, 10))
	assert.Equal(t, inventory.StockMedium, p.StockLevel(15, 10), "15 <= 10*1.5")
	assert.Equal(t, inventory.StockGood, p.StockLevel(16, 10))
}

func TestStockLevel_MinimoCero(t *testing.T) {
	p := inventory.DefaultPolicy()
	assert.Equal(t, inventory.StockLow, p.StockLevel(0, 0))
	assert.Equal(t, inventory.StockGood, p.StockLevel(1, 0))
}

func TestStockLevel_FactorConfigurable(t *testing.T) {
	p := inventory.Policy{MediumFactor: decimal.NewFromInt(2), ExpiryHorizonDays: 30}
	assert.Equal(t, inventory.StockMedium, p.StockLevel(20, 10))
	assert.Equal(t, inventory.StockGood, p.StockLevel(21, 10))
}

func TestExpiryLevel_Limites(t *testing.T) {
	p := inventory.DefaultPolicy()
	today := date(2024, 6, 1)

	assert.Equal(t, inventory.ExpiryExpired, p.ExpiryLevel(date(2024, 5, 31), today))
	assert.Equal(t, inventory.ExpiryExpiringSoon, p.ExpiryLevel(date(2024, 6, 1), today), "vence hoy: aún no vencido")
	assert.Equal(t, inventory.ExpiryExpiringSoon, p.ExpiryLevel(date(2024, 6, 30), today))
	assert.Equal(t, inventory.ExpiryExpiringSoon, p.ExpiryLevel(date(2024, 7, 1), today), "hoy + 30 días")
	assert.Equal(t, inventory.ExpiryGood, p.ExpiryLevel(date(2024, 7, 2), today))
	assert.Equal(t, inventory.ExpiryGood, p.ExpiryLevel(date(2024, 8, 1), today))
}

// La hora del día no cambia la clasificación.
func TestExpiryLevel_IgnoraHora(t *testing.T) {
	p := inventory.DefaultPolicy()
	today := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	expiry := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, inventory.ExpiryExpired, p.ExpiryLevel(expiry, today))
}

func TestSuggestedReorder(t *testing.T) {
	p := inventory.DefaultPolicy()
	assert.Equal(t, int64(11), p.SuggestedReorder(4, 10))
	assert.Equal(t, int64(0), p.SuggestedReorder(15, 10))
	assert.Equal(t, int64(2), p.SuggestedReorder(9, 7), "7*1.5 = 10.5 se redondea a 11")
}
