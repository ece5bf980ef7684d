package inventory

import "sort"

// DiscrepancyKind tipo de diferencia entre el libro y la tabla materializada.
type DiscrepancyKind string

const (
	DiscrepancyMissingRow       DiscrepancyKind = "MISSING_ROW"       // el libro tiene stock, la tabla no tiene fila
	DiscrepancyOrphanRow        DiscrepancyKind = "ORPHAN_ROW"        // la tabla tiene stock que el libro no explica
	DiscrepancyQuantityMismatch DiscrepancyKind = "QUANTITY_MISMATCH"
	DiscrepancyCostMismatch     DiscrepancyKind = "COST_MISMATCH"
)

// Discrepancy diferencia encontrada para una clave.
type Discrepancy struct {
	Kind     DiscrepancyKind
	Key      Key
	Expected Balance // según el libro
	Actual   Balance // según la tabla
}

// Verify compara un libro reconstruido con los saldos almacenados.
// Una clave ausente cuenta como cantidad cero; el costo solo se compara cuando
// ambos lados tienen fila.
func Verify(ledger *Ledger, stored []Balance) []Discrepancy {
	storedByKey := make(map[Key]Balance, len(stored))
	for _, b := range stored {
		storedByKey[b.Key] = b
	}

	var out []Discrepancy
	for _, exp := range ledger.Balances() {
		act, ok := storedByKey[exp.Key]
		delete(storedByKey, exp.Key)
		switch {
		case !ok:
			if exp.Quantity != 0 {
				out = append(out, Discrepancy{Kind: DiscrepancyMissingRow, Key: exp.Key, Expected: exp})
			}
		case act.Quantity != exp.Quantity:
			out = append(out, Discrepancy{Kind: DiscrepancyQuantityMismatch, Key: exp.Key, Expected: exp, Actual: act})
		case !act.CostPerUnit.Equal(exp.CostPerUnit):
			out = append(out, Discrepancy{Kind: DiscrepancyCostMismatch, Key: exp.Key, Expected: exp, Actual: act})
		}
	}
	for k, act := range storedByKey {
		if act.Quantity != 0 {
			out = append(out, Discrepancy{Kind: DiscrepancyOrphanRow, Key: k, Actual: act})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.String() != out[j].Key.String() {
			return out[i].Key.String() < out[j].Key.String()
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
