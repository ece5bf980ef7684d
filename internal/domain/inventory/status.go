package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel clasificación de nivel de stock para los badges.
type StockLevel string

const (
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockGood   StockLevel = "good"
)

// ExpiryLevel clasificación de vencimiento de un lote.
type ExpiryLevel string

const (
	ExpiryExpired      ExpiryLevel = "expired"
	ExpiryExpiringSoon ExpiryLevel = "expiring-soon"
	ExpiryGood         ExpiryLevel = "good"
)

// Clock fuente de la fecha actual; se inyecta para poder fijarla en tests.
type Clock func() time.Time

// Policy umbrales de clasificación.
type Policy struct {
	MediumFactor      decimal.Decimal // stock <= min*factor => medium
	ExpiryHorizonDays int
}

// DefaultPolicy factor 1.5 y horizonte de 30 días.
func DefaultPolicy() Policy {
	return Policy{MediumFactor: decimal.NewFromFloat(1.5), ExpiryHorizonDays: 30}
}

// StockLevel clasifica una cantidad contra el mínimo del tipo de ubicación.
func (p Policy) StockLevel(quantity, minLevel int64) StockLevel {
	q := decimal.NewFromInt(quantity)
	threshold := decimal.NewFromInt(minLevel)
	if q.LessThanOrEqual(threshold) {
		return StockLow
	}
	if q.LessThanOrEqual(threshold.Mul(p.MediumFactor)) {
		return StockMedium
	}
	return StockGood
}

// ExpiryLevel clasifica una fecha de vencimiento a nivel de día calendario.
func (p Policy) ExpiryLevel(expiry, today time.Time) ExpiryLevel {
	e := civilDate(expiry)
	t := civilDate(today)
	if e.Before(t) {
		return ExpiryExpired
	}
	if !e.After(t.AddDate(0, 0, p.ExpiryHorizonDays)) {
		return ExpiryExpiringSoon
	}
	return ExpiryGood
}

// SuggestedReorder cantidad para volver a min*factor (0 si ya está por encima).
func (p Policy) SuggestedReorder(quantity, minLevel int64) int64 {
	ideal := decimal.NewFromInt(minLevel).Mul(p.MediumFactor).Ceil().IntPart()
	if ideal <= quantity {
		return 0
	}
	return ideal - quantity
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
