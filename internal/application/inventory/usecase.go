package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// RecordTransactionUseCase registra transacciones manuales del libro de stock.
// Cada registro inserta la fila y actualiza los saldos con bloqueo de fila dentro de una
// sola transacción de BD (Commit/Rollback en TxRunner.Run).
type RecordTransactionUseCase struct {
	txRunner TxRunner
	refs     *References
	engine   *Engine
	log      *logger.Logger
	now      inventory.Clock
}

// NewRecordTransactionUseCase construye el caso de uso.
func NewRecordTransactionUseCase(txRunner TxRunner, refs *References, engine *Engine, log *logger.Logger, now inventory.Clock) *RecordTransactionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &RecordTransactionUseCase{
		txRunner: txRunner,
		refs:     refs,
		engine:   engine,
		log:      log.Component("stock"),
		now:      now,
	}
}

// TransactionInput entrada del registro manual. Quantity está expresada en la unidad
// PackagingUnitID (vacío = strips). CostPerUnit nil usa el costo del lote o del producto.
type TransactionInput struct {
	UserID          string
	Type            string
	ProductID       string
	BatchID         string
	PackagingUnitID string
	Quantity        int64
	SourceType      string
	SourceID        string
	DestinationType string
	DestinationID   string
	CostPerUnit     *decimal.Decimal
	OccurredAt      *time.Time
	Notes           string
}

// line datos resueltos de una línea de movimiento.
type line struct {
	product *entity.Product
	batch   *entity.Batch
	strips  int64
	cost    decimal.Decimal
}

// resolveLine valida producto y lote, convierte a strips y resuelve el costo
// (explícito, luego override del lote, luego costo base del producto).
func resolveLine(ctx context.Context, refs *References, productID, batchID, unitID string, quantity int64, cost *decimal.Decimal) (line, error) {
	if quantity <= 0 {
		return line{}, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if cost != nil && cost.IsNegative() {
		return line{}, fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
	}
	product, err := refs.Product(ctx, productID)
	if err != nil {
		return line{}, err
	}
	batch, err := refs.Batch(ctx, productID, batchID)
	if err != nil {
		return line{}, err
	}
	strips, err := refs.Strips(ctx, productID, unitID, quantity)
	if err != nil {
		return line{}, err
	}
	return line{
		product: product,
		batch:   batch,
		strips:  strips,
		cost:    inventory.ResolveCost(cost, batch.CostOverride, product.BaseCost),
	}, nil
}

func parseType(s string) (inventory.TransactionType, error) {
	t := inventory.TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if _, err := inventory.Classify(t); err != nil {
		return "", err
	}
	return t, nil
}

func locationParts(l *inventory.Location) (string, string) {
	if l == nil {
		return "", ""
	}
	return string(l.Type), l.ID
}

// RecordTransaction valida tipo y roles, resuelve unidad, costo y ubicaciones, y aplica
// la transacción. Las salidas mayores al saldo no fallan: el saldo queda en cero.
func (uc *RecordTransactionUseCase) RecordTransaction(ctx context.Context, input TransactionInput) (*entity.StockTransaction, error) {
	txType, err := parseType(input.Type)
	if err != nil {
		return nil, err
	}
	source, err := uc.refs.Location(ctx, input.SourceType, input.SourceID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.refs.Location(ctx, input.DestinationType, input.DestinationID)
	if err != nil {
		return nil, err
	}
	if err := inventory.ValidateRoles(txType, source, destination); err != nil {
		return nil, err
	}
	ln, err := resolveLine(ctx, uc.refs, input.ProductID, input.BatchID, input.PackagingUnitID, input.Quantity, input.CostPerUnit)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}
	srcType, srcID := locationParts(source)
	dstType, dstID := locationParts(destination)
	tx := &entity.StockTransaction{
		ID:              uuid.New().String(),
		Type:            string(txType),
		ProductID:       ln.product.ID,
		BatchID:         ln.batch.ID,
		Quantity:        ln.strips,
		SourceType:      srcType,
		SourceID:        srcID,
		DestinationType: dstType,
		DestinationID:   dstID,
		CostPerUnit:     ln.cost,
		ReferenceType:   entity.ReferenceManual,
		Notes:           input.Notes,
		OccurredAt:      occurredAt,
		CreatedAt:       now,
		CreatedBy:       input.UserID,
	}

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		_, err := uc.engine.Record(ctx, r, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tx_id", tx.ID).Str("type", tx.Type).Int64("strips", tx.Quantity).Msg("transacción registrada")
	return tx, nil
}
