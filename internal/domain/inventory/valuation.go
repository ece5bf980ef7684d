package inventory

import "github.com/shopspring/decimal"

// LineValue valor de una tenencia: cantidad * costo por tira.
func LineValue(quantity int64, costPerUnit decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(quantity).Mul(costPerUnit)
}

// ResolveCost elige el costo de una transacción: explícito, luego el del lote,
// luego el costo base del producto.
func ResolveCost(explicit, batchOverride *decimal.Decimal, productBase decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	if batchOverride != nil {
		return *batchOverride
	}
	return productBase
}

// LocationSummary totales de un tipo de ubicación.
type LocationSummary struct {
	LocationType LocationType
	Positions    int
	Quantity     int64
	TotalValue   decimal.Decimal
}

// Summarise agrupa posiciones por tipo de ubicación (orden: GODOWN, MR).
func Summarise(positions []Position) []LocationSummary {
	byType := map[LocationType]*LocationSummary{
		LocationGodown: {LocationType: LocationGodown, TotalValue: decimal.Zero},
		LocationMR:     {LocationType: LocationMR, TotalValue: decimal.Zero},
	}
	for _, p := range positions {
		s, ok := byType[p.Key.Location.Type]
		if !ok {
			continue
		}
		s.Positions++
		s.Quantity += p.Quantity
		s.TotalValue = s.TotalValue.Add(p.TotalValue)
	}
	return []LocationSummary{*byType[LocationGodown], *byType[LocationMR]}
}
