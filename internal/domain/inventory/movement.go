package inventory

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
)

// Movement es la vista del libro que necesita la regla de saldos: una fila de
// stock_transactions. Quantity siempre es positiva; el sentido lo dan origen/destino.
type Movement struct {
	ID          string
	Seq         int64
	Type        TransactionType
	ProductID   string
	BatchID     string
	Source      *Location
	Destination *Location
	Quantity    int64 // tiras
	CostPerUnit decimal.Decimal
	OccurredAt  time.Time
}

// Validate comprueba el movimiento antes de aplicarlo o persistirlo.
func (m Movement) Validate() error {
	if m.ProductID == "" || m.BatchID == "" {
		return fmt.Errorf("%w: producto y lote requeridos", domain.ErrInvalidInput)
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if m.CostPerUnit.IsNegative() {
		return fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
	}
	return ValidateRoles(m.Type, m.Source, m.Destination)
}

// Role papel de una ubicación dentro de un movimiento.
type Role int

const (
	RoleCredit Role = iota + 1 // destino: suma y refresca costo
	RoleDebit                  // origen: resta con piso en cero, conserva costo
)

// Effect efecto de un movimiento sobre un saldo concreto.
type Effect struct {
	Key         Key
	Role        Role
	Quantity    int64
	CostPerUnit decimal.Decimal
}

// Balance saldo materializado de una clave (products_stock_status).
type Balance struct {
	Key         Key
	Quantity    int64
	CostPerUnit decimal.Decimal
	UpdatedAt   time.Time
}

// Outcome resultado de aplicar un efecto. Shortfall > 0 cuando una salida pidió más
// de lo disponible y el saldo quedó en cero.
type Outcome struct {
	Balance   Balance
	Created   bool
	Shortfall int64
}

// Effects devuelve los efectos del movimiento, ordenados por clave para que quien
// bloquee filas lo haga siempre en el mismo orden.
func Effects(m Movement) ([]Effect, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	effects := make([]Effect, 0, 2)
	if m.Destination != nil {
		effects = append(effects, Effect{
			Key:         Key{ProductID: m.ProductID, BatchID: m.BatchID, Location: *m.Destination},
			Role:        RoleCredit,
			Quantity:    m.Quantity,
			CostPerUnit: m.CostPerUnit,
		})
	}
	if m.Source != nil {
		effects = append(effects, Effect{
			Key:         Key{ProductID: m.ProductID, BatchID: m.BatchID, Location: *m.Source},
			Role:        RoleDebit,
			Quantity:    m.Quantity,
			CostPerUnit: m.CostPerUnit,
		})
	}
	sort.Slice(effects, func(i, j int) bool {
		return effects[i].Key.String() < effects[j].Key.String()
	})
	return effects, nil
}

// Apply aplica el efecto sobre el saldo actual (nil = la fila no existe todavía).
//
//	crédito: cantidad += q, costo := costo de la transacción
//	débito:  cantidad := max(0, cantidad - q), costo sin cambios
//
// Una fila nueva creada por un débito queda en cero con el costo de la transacción.
// Un crédito que desborda int64 se rechaza sin tocar el saldo.
func (e Effect) Apply(current *Balance) (Outcome, error) {
	out := Outcome{}
	var b Balance
	if current == nil {
		out.Created = true
		b = Balance{Key: e.Key, CostPerUnit: e.CostPerUnit}
	} else {
		b = *current
		b.Key = e.Key
	}

	switch e.Role {
	case RoleCredit:
		if b.Quantity > 0 && e.Quantity > math.MaxInt64-b.Quantity {
			return Outcome{}, fmt.Errorf("%w: saldo de %s fuera de rango", domain.ErrInvalidInput, e.Key)
		}
		b.Quantity += e.Quantity
		b.CostPerUnit = e.CostPerUnit
	case RoleDebit:
		remaining := b.Quantity - e.Quantity
		if remaining < 0 {
			out.Shortfall = -remaining
			remaining = 0
		}
		b.Quantity = remaining
	}
	out.Balance = b
	return out, nil
}
