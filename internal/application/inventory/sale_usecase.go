package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// SaleUseCase registra ventas (SALE desde cualquier ubicación) y despachos a MR
// (DISPATCH: DISPATCH_TO_MR desde bodega hacia un representante).
type SaleUseCase struct {
	txRunner TxRunner
	refs     *References
	engine   *Engine
	sales    repository.SaleRepository
	log      *logger.Logger
	now      inventory.Clock
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	refs *References,
	engine *Engine,
	sales repository.SaleRepository,
	log *logger.Logger,
	now inventory.Clock,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &SaleUseCase{
		txRunner: txRunner,
		refs:     refs,
		engine:   engine,
		sales:    sales,
		log:      log.Component("sales"),
		now:      now,
	}
}

// Create valida el documento y registra sus transacciones en una sola transacción de BD.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	if strings.TrimSpace(in.DocumentNumber) == "" {
		return nil, fmt.Errorf("%w: número de documento requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el documento no tiene ítems", domain.ErrInvalidInput)
	}

	kind := strings.ToUpper(strings.TrimSpace(in.Kind))
	var txType inventory.TransactionType
	var destination *inventory.Location
	source, err := uc.refs.Location(ctx, in.SourceType, in.SourceID)
	if err != nil {
		return nil, err
	}
	switch kind {
	case entity.SaleKindSale:
		txType = inventory.TxSale
	case entity.SaleKindDispatch:
		txType = inventory.TxDispatchToMR
		if destination, err = uc.refs.Location(ctx, string(inventory.LocationMR), in.DestinationID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: clase de documento %q", domain.ErrInvalidInput, in.Kind)
	}
	if err := inventory.ValidateRoles(txType, source, destination); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	occurredAt := now
	if in.OccurredAt != nil {
		occurredAt = in.OccurredAt.UTC()
	}
	srcType, srcID := locationParts(source)
	dstType, dstID := locationParts(destination)
	s := &entity.StockSale{
		ID:              uuid.New().String(),
		DocumentNumber:  strings.TrimSpace(in.DocumentNumber),
		Kind:            kind,
		SourceType:      srcType,
		SourceID:        srcID,
		DestinationType: dstType,
		DestinationID:   dstID,
		CustomerName:    in.CustomerName,
		OccurredAt:      occurredAt,
		Notes:           in.Notes,
		TotalValue:      decimal.Zero,
		CreatedBy:       userID,
		CreatedAt:       now,
	}

	txs := make([]*entity.StockTransaction, 0, len(in.Items))
	for _, it := range in.Items {
		ln, err := resolveLine(ctx, uc.refs, it.ProductID, it.BatchID, it.PackagingUnitID, it.Quantity, it.CostPerUnit)
		if err != nil {
			return nil, err
		}
		value := inventory.LineValue(ln.strips, ln.cost)
		s.Items = append(s.Items, entity.StockSaleItem{
			ID:              uuid.New().String(),
			SaleID:          s.ID,
			ProductID:       ln.product.ID,
			BatchID:         ln.batch.ID,
			PackagingUnitID: it.PackagingUnitID,
			QuantityEntered: it.Quantity,
			QuantityStrips:  ln.strips,
			CostPerUnit:     ln.cost,
			LineValue:       value,
		})
		s.TotalValue = s.TotalValue.Add(value)
		txs = append(txs, &entity.StockTransaction{
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
			ReferenceType:   entity.ReferenceSale,
			ReferenceID:     s.ID,
			ReferenceNumber: s.DocumentNumber,
			Notes:           in.Notes,
			OccurredAt:      occurredAt,
			CreatedAt:       now,
			CreatedBy:       userID,
		})
	}

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		if err := uc.engine.Lock(ctx, r, pairsOf(txs)); err != nil {
			return err
		}
		if err := r.Sales.Create(ctx, s); err != nil {
			return err
		}
		for _, tx := range txs {
			if _, err := uc.engine.Record(ctx, r, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("document", s.DocumentNumber).Str("kind", s.Kind).Int("items", len(s.Items)).Msg("documento de salida registrado")
	return toSaleResponse(s), nil
}

// Get devuelve el documento con sus ítems.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(s), nil
}

// List lista documentos por clase (vacío = todas) y rango de fechas.
func (uc *SaleUseCase) List(ctx context.Context, kind string, from, to *time.Time, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind != "" && kind != entity.SaleKindSale && kind != entity.SaleKindDispatch {
		return nil, fmt.Errorf("%w: clase de documento %q", domain.ErrInvalidInput, kind)
	}
	list, err := uc.sales.List(ctx, kind, repository.DocumentFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}
