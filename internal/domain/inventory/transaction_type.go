package inventory

import (
	"fmt"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
)

// TransactionType tipo de movimiento del libro de stock.
type TransactionType string

const (
	TxStockIn           TransactionType = "STOCK_IN"            // recepción de compra (GRN)
	TxStockInOpening    TransactionType = "STOCK_IN_OPENING"    // saldo inicial
	TxStockInAdjustment TransactionType = "STOCK_IN_ADJUSTMENT" // ajuste positivo
	TxCustomerReturn    TransactionType = "CUSTOMER_RETURN"
	TxReplacementIn     TransactionType = "REPLACEMENT_IN"
	TxSale              TransactionType = "SALE"
	TxDamage            TransactionType = "DAMAGE"
	TxLoss              TransactionType = "LOSS"
	TxReplacementOut    TransactionType = "REPLACEMENT_OUT"
	TxDispatchToMR      TransactionType = "DISPATCH_TO_MR" // bodega -> MR
	TxReturnFromMR      TransactionType = "RETURN_FROM_MR" // MR -> bodega
	TxGodownTransfer    TransactionType = "GODOWN_TRANSFER"
)

// Direction indica qué ubicaciones toca un tipo de transacción.
type Direction int

const (
	DirectionInflow   Direction = iota + 1 // solo destino
	DirectionOutflow                       // solo origen
	DirectionTransfer                      // origen y destino
)

func (d Direction) String() string {
	switch d {
	case DirectionInflow:
		return "inflow"
	case DirectionOutflow:
		return "outflow"
	case DirectionTransfer:
		return "transfer"
	}
	return "unknown"
}

// TransactionTypes devuelve el conjunto cerrado de tipos soportados.
func TransactionTypes() []TransactionType {
	return []TransactionType{
		TxStockIn, TxStockInOpening, TxStockInAdjustment, TxCustomerReturn, TxReplacementIn,
		TxSale, TxDamage, TxLoss, TxReplacementOut,
		TxDispatchToMR, TxReturnFromMR, TxGodownTransfer,
	}
}

// Classify devuelve la dirección del tipo. Un tipo fuera del conjunto es un error:
// nunca contribuye cero en silencio.
func Classify(t TransactionType) (Direction, error) {
	switch t {
	case TxStockIn, TxStockInOpening, TxStockInAdjustment, TxCustomerReturn, TxReplacementIn:
		return DirectionInflow, nil
	case TxSale, TxDamage, TxLoss, TxReplacementOut:
		return DirectionOutflow, nil
	case TxDispatchToMR, TxReturnFromMR, TxGodownTransfer:
		return DirectionTransfer, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, string(t))
	}
}

// IsAdjustmentType indica si el tipo se puede registrar como ajuste manual.
func IsAdjustmentType(t TransactionType) bool {
	switch t {
	case TxStockInAdjustment, TxCustomerReturn, TxReplacementIn,
		TxDamage, TxLoss, TxReplacementOut:
		return true
	}
	return false
}

// ValidateRoles verifica que origen y destino correspondan a la dirección del tipo
// y a las restricciones de tipo de ubicación.
func ValidateRoles(t TransactionType, source, destination *Location) error {
	dir, err := Classify(t)
	if err != nil {
		return err
	}
	switch dir {
	case DirectionInflow:
		if destination == nil || source != nil {
			return fmt.Errorf("%w: %s requiere solo destino", domain.ErrInvalidInput, t)
		}
	case DirectionOutflow:
		if source == nil || destination != nil {
			return fmt.Errorf("%w: %s requiere solo origen", domain.ErrInvalidInput, t)
		}
	case DirectionTransfer:
		if source == nil || destination == nil {
			return fmt.Errorf("%w: %s requiere origen y destino", domain.ErrInvalidInput, t)
		}
		if *source == *destination {
			return fmt.Errorf("%w: origen y destino iguales", domain.ErrInvalidInput)
		}
	}

	switch t {
	case TxStockIn:
		return expectType(destination, LocationGodown, "destino")
	case TxDispatchToMR:
		if err := expectType(source, LocationGodown, "origen"); err != nil {
			return err
		}
		return expectType(destination, LocationMR, "destino")
	case TxReturnFromMR:
		if err := expectType(source, LocationMR, "origen"); err != nil {
			return err
		}
		return expectType(destination, LocationGodown, "destino")
	case TxGodownTransfer:
		if err := expectType(source, LocationGodown, "origen"); err != nil {
			return err
		}
		return expectType(destination, LocationGodown, "destino")
	}
	return nil
}

func expectType(l *Location, want LocationType, role string) error {
	if l.Type != want {
		return fmt.Errorf("%w: %s debe ser %s", domain.ErrInvalidInput, role, want)
	}
	return nil
}
