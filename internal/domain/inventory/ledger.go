package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Ledger acumula saldos en memoria aplicando la misma regla que la ruta de
// persistencia. Sirve para reportes que filtran más allá de la tabla materializada
// y para auditar esa tabla.
type Ledger struct {
	balances map[Key]*Balance
}

// NewLedger crea un libro vacío.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[Key]*Balance)}
}

// Apply aplica un movimiento y devuelve el resultado por cada ubicación tocada.
func (l *Ledger) Apply(m Movement) ([]Outcome, error) {
	effects, err := Effects(m)
	if err != nil {
		return nil, err
	}
	outcomes := make([]Outcome, 0, len(effects))
	for _, e := range effects {
		out, err := e.Apply(l.balances[e.Key])
		if err != nil {
			return nil, err
		}
		out.Balance.UpdatedAt = m.OccurredAt
		b := out.Balance
		l.balances[e.Key] = &b
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// SortMovements ordena cronológicamente: occurred_at, luego orden de inserción.
func SortMovements(ms []Movement) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.ID < b.ID
	})
}

// Replay reconstruye los saldos desde el historial completo. No modifica ms.
func Replay(ms []Movement) (*Ledger, error) {
	ordered := make([]Movement, len(ms))
	copy(ordered, ms)
	SortMovements(ordered)

	l := NewLedger()
	for _, m := range ordered {
		if _, err := l.Apply(m); err != nil {
			return nil, fmt.Errorf("movimiento %s: %w", m.ID, err)
		}
	}
	return l, nil
}

// Balance devuelve el saldo de una clave.
func (l *Ledger) Balance(k Key) (Balance, bool) {
	b, ok := l.balances[k]
	if !ok {
		return Balance{}, false
	}
	return *b, true
}

// Len cantidad de claves tocadas (incluye saldos en cero).
func (l *Ledger) Len() int { return len(l.balances) }

// Balances devuelve todos los saldos ordenados por clave.
func (l *Ledger) Balances() []Balance {
	out := make([]Balance, 0, len(l.balances))
	for _, b := range l.balances {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out
}

// Position tenencia positiva reportable.
type Position struct {
	Key         Key
	Quantity    int64
	CostPerUnit decimal.Decimal
	TotalValue  decimal.Decimal
}

// Positions descarta claves con cantidad <= 0 y calcula el valor total.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.balances))
	for _, b := range l.Balances() {
		if b.Quantity <= 0 {
			continue
		}
		out = append(out, Position{
			Key:         b.Key,
			Quantity:    b.Quantity,
			CostPerUnit: b.CostPerUnit,
			TotalValue:  LineValue(b.Quantity, b.CostPerUnit),
		})
	}
	return out
}
