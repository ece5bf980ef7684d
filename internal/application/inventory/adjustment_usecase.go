package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// AdjustmentUseCase registra ajustes de stock sobre una ubicación. Los tipos de entrada
// usan la ubicación como destino y los de salida como origen.
type AdjustmentUseCase struct {
	txRunner    TxRunner
	refs        *References
	engine      *Engine
	adjustments repository.AdjustmentRepository
	log         *logger.Logger
	now         inventory.Clock
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	refs *References,
	engine *Engine,
	adjustments repository.AdjustmentRepository,
	log *logger.Logger,
	now inventory.Clock,
) *AdjustmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &AdjustmentUseCase{
		txRunner:    txRunner,
		refs:        refs,
		engine:      engine,
		adjustments: adjustments,
		log:         log.Component("adjustments"),
		now:         now,
	}
}

// Create registra la transacción del ajuste y el documento que la respalda.
func (uc *AdjustmentUseCase) Create(ctx context.Context, userID string, in dto.AdjustmentRequest) (*dto.AdjustmentResponse, error) {
	txType, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}
	if !inventory.IsAdjustmentType(txType) {
		return nil, fmt.Errorf("%w: %s no es un tipo de ajuste", domain.ErrInvalidInput, txType)
	}
	loc, err := uc.refs.Location(ctx, in.LocationType, in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación requerida", domain.ErrInvalidInput)
	}
	ln, err := resolveLine(ctx, uc.refs, in.ProductID, in.BatchID, in.PackagingUnitID, in.Quantity, in.CostPerUnit)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	occurredAt := now
	if in.OccurredAt != nil {
		occurredAt = in.OccurredAt.UTC()
	}
	tx := &entity.StockTransaction{
		ID:            uuid.New().String(),
		Type:          string(txType),
		ProductID:     ln.product.ID,
		BatchID:       ln.batch.ID,
		Quantity:      ln.strips,
		CostPerUnit:   ln.cost,
		ReferenceType: entity.ReferenceAdjustment,
		Notes:         in.Reason,
		OccurredAt:    occurredAt,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if dir, _ := inventory.Classify(txType); dir == inventory.DirectionInflow {
		tx.DestinationType, tx.DestinationID = locationParts(loc)
	} else {
		tx.SourceType, tx.SourceID = locationParts(loc)
	}

	adj := &entity.StockAdjustment{
		ID:            uuid.New().String(),
		Type:          tx.Type,
		LocationType:  string(loc.Type),
		LocationID:    loc.ID,
		ProductID:     tx.ProductID,
		BatchID:       tx.BatchID,
		Quantity:      tx.Quantity,
		CostPerUnit:   tx.CostPerUnit,
		Reason:        in.Reason,
		OccurredAt:    occurredAt,
		TransactionID: tx.ID,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	tx.ReferenceID = adj.ID

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		if _, err := uc.engine.Record(ctx, r, tx); err != nil {
			return err
		}
		return r.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tx_id", tx.ID).Str("type", tx.Type).Str("location", loc.String()).Msg("ajuste registrado")
	out := toAdjustmentResponse(adj)
	return &out, nil
}

// List lista ajustes por rango de fechas.
func (uc *AdjustmentUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]dto.AdjustmentResponse, error) {
	page.DefaultPage()
	list, err := uc.adjustments.List(ctx, repository.DocumentFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAdjustmentResponse(a))
	}
	return out, nil
}
