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

// PurchaseUseCase administra los GRN (recepciones de compra). Cada ítem genera un
// STOCK_IN hacia la bodega del GRN; editar o borrar un GRN reconstruye por replay los
// saldos de los pares producto/lote afectados.
type PurchaseUseCase struct {
	txRunner  TxRunner
	refs      *References
	engine    *Engine
	purchases repository.PurchaseRepository
	log       *logger.Logger
	now       inventory.Clock
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	refs *References,
	engine *Engine,
	purchases repository.PurchaseRepository,
	log *logger.Logger,
	now inventory.Clock,
) *PurchaseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &PurchaseUseCase{
		txRunner:  txRunner,
		refs:      refs,
		engine:    engine,
		purchases: purchases,
		log:       log.Component("purchases"),
		now:       now,
	}
}

// pendingItem ítem validado fuera de la transacción; el lote puede crearse dentro.
type pendingItem struct {
	req     dto.PurchaseItemRequest
	product *entity.Product
	batch   *entity.Batch // nil si se resuelve por número de lote
	expiry  time.Time
	strips  int64
}

func (uc *PurchaseUseCase) validate(ctx context.Context, in dto.PurchaseRequest) ([]pendingItem, error) {
	if strings.TrimSpace(in.GRNNumber) == "" {
		return nil, fmt.Errorf("%w: número de GRN requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el GRN no tiene ítems", domain.ErrInvalidInput)
	}
	if _, err := uc.refs.Supplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}
	if _, err := uc.refs.Location(ctx, string(inventory.LocationGodown), in.GodownID); err != nil {
		return nil, err
	}

	items := make([]pendingItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ítem %d: la cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
		}
		if it.CostPerUnit != nil && it.CostPerUnit.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d: costo negativo", domain.ErrInvalidInput, i+1)
		}
		product, err := uc.refs.Product(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		p := pendingItem{req: it, product: product}
		switch {
		case it.BatchID != "":
			if p.batch, err = uc.refs.Batch(ctx, it.ProductID, it.BatchID); err != nil {
				return nil, err
			}
		case strings.TrimSpace(it.BatchNumber) != "":
			if it.ExpiryDate != "" {
				if p.expiry, err = time.Parse(dto.DateLayout, it.ExpiryDate); err != nil {
					return nil, fmt.Errorf("%w: ítem %d: fecha de vencimiento %q", domain.ErrInvalidInput, i+1, it.ExpiryDate)
				}
			}
		default:
			return nil, fmt.Errorf("%w: ítem %d: lote requerido", domain.ErrInvalidInput, i+1)
		}
		if p.strips, err = uc.refs.Strips(ctx, it.ProductID, it.PackagingUnitID, it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

// resolveBatch busca el lote por número o lo crea dentro de la transacción.
func (uc *PurchaseUseCase) resolveBatch(ctx context.Context, r Repos, p pendingItem, now time.Time) (*entity.Batch, error) {
	if p.batch != nil {
		return p.batch, nil
	}
	number := strings.TrimSpace(p.req.BatchNumber)
	b, err := r.Batches.GetByProductAndNumber(ctx, p.product.ID, number)
	if err != nil {
		return nil, err
	}
	if b != nil {
		if !b.IsActive {
			return nil, fmt.Errorf("%w: lote %s", domain.ErrInactive, b.BatchNumber)
		}
		return b, nil
	}
	if p.expiry.IsZero() {
		return nil, fmt.Errorf("%w: lote nuevo %s sin fecha de vencimiento", domain.ErrInvalidInput, number)
	}
	b = &entity.Batch{
		ID:          uuid.New().String(),
		ProductID:   p.product.ID,
		BatchNumber: number,
		ExpiryDate:  p.expiry,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Batches.Create(ctx, b); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", b.ProductID).Str("batch", b.BatchNumber).Msg("lote creado desde GRN")
	return b, nil
}

// buildItems resuelve lotes y costos y arma ítems y transacciones del GRN.
func (uc *PurchaseUseCase) buildItems(ctx context.Context, r Repos, p *entity.StockPurchase, pending []pendingItem, userID string, now time.Time) ([]*entity.StockTransaction, error) {
	p.Items = p.Items[:0]
	p.TotalValue = decimal.Zero
	txs := make([]*entity.StockTransaction, 0, len(pending))
	for _, it := range pending {
		batch, err := uc.resolveBatch(ctx, r, it, now)
		if err != nil {
			return nil, err
		}
		cost := inventory.ResolveCost(it.req.CostPerUnit, batch.CostOverride, it.product.BaseCost)
		value := inventory.LineValue(it.strips, cost)
		p.Items = append(p.Items, entity.StockPurchaseItem{
			ID:              uuid.New().String(),
			PurchaseID:      p.ID,
			ProductID:       it.product.ID,
			BatchID:         batch.ID,
			PackagingUnitID: it.req.PackagingUnitID,
			QuantityEntered: it.req.Quantity,
			QuantityStrips:  it.strips,
			CostPerUnit:     cost,
			LineValue:       value,
		})
		p.TotalValue = p.TotalValue.Add(value)
		txs = append(txs, &entity.StockTransaction{
			ID:              uuid.New().String(),
			Type:            string(inventory.TxStockIn),
			ProductID:       it.product.ID,
			BatchID:         batch.ID,
			Quantity:        it.strips,
			DestinationType: string(inventory.LocationGodown),
			DestinationID:   p.GodownID,
			CostPerUnit:     cost,
			ReferenceType:   entity.ReferencePurchase,
			ReferenceID:     p.ID,
			ReferenceNumber: p.GRNNumber,
			OccurredAt:      p.ReceivedAt,
			CreatedAt:       now,
			CreatedBy:       userID,
		})
	}
	return txs, nil
}

func applyHeader(p *entity.StockPurchase, in dto.PurchaseRequest, now time.Time) {
	p.GRNNumber = strings.TrimSpace(in.GRNNumber)
	p.SupplierID = in.SupplierID
	p.GodownID = in.GodownID
	p.SupplierInvoiceNumber = in.SupplierInvoiceNumber
	p.Notes = in.Notes
	switch {
	case in.ReceivedAt != nil:
		p.ReceivedAt = in.ReceivedAt.UTC()
	case p.ReceivedAt.IsZero():
		p.ReceivedAt = now
	}
	p.UpdatedAt = now
}

// Create registra el GRN, sus ítems, los lotes nuevos y los STOCK_IN en una sola transacción.
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	pending, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	p := &entity.StockPurchase{ID: uuid.New().String(), CreatedBy: userID, CreatedAt: now}
	applyHeader(p, in, now)

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		txs, err := uc.buildItems(ctx, r, p, pending, userID, now)
		if err != nil {
			return err
		}
		if err := uc.engine.Lock(ctx, r, pairsOf(txs)); err != nil {
			return err
		}
		if err := r.Purchases.Create(ctx, p); err != nil {
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
	uc.log.Info().Str("grn", p.GRNNumber).Int("items", len(p.Items)).Str("total", p.TotalValue.String()).Msg("GRN registrado")
	return toPurchaseResponse(p), nil
}

// Update reemplaza cabecera e ítems del GRN. Las transacciones previas se borran, se
// insertan las nuevas y se reconstruyen los saldos de todos los pares afectados.
func (uc *PurchaseUseCase) Update(ctx context.Context, userID, id string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	existing, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	pending, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	p := existing
	applyHeader(p, in, now)

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		old, err := r.Transactions.DeleteByReference(ctx, entity.ReferencePurchase, p.ID)
		if err != nil {
			return err
		}
		txs, err := uc.buildItems(ctx, r, p, pending, userID, now)
		if err != nil {
			return err
		}
		if err := uc.engine.Lock(ctx, r, pairsOf(old, txs)); err != nil {
			return err
		}
		if err := r.Purchases.Update(ctx, p); err != nil {
			return err
		}
		for _, tx := range txs {
			if err := uc.engine.Append(ctx, r, tx); err != nil {
				return err
			}
		}
		_, err = uc.engine.RebuildKeys(ctx, r, pairsOf(old, txs))
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("grn", p.GRNNumber).Int("items", len(p.Items)).Msg("GRN actualizado")
	return toPurchaseResponse(p), nil
}

// Delete borra el GRN y sus transacciones y reconstruye los saldos afectados.
func (uc *PurchaseUseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		old, err := r.Transactions.DeleteByReference(ctx, entity.ReferencePurchase, id)
		if err != nil {
			return err
		}
		if err := r.Purchases.Delete(ctx, id); err != nil {
			return err
		}
		_, err = uc.engine.RebuildKeys(ctx, r, pairsOf(old))
		return err
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("grn", existing.GRNNumber).Msg("GRN eliminado")
	return nil
}

// Get devuelve el GRN con sus ítems.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// GetEntity devuelve el GRN como entidad (usado por la generación del PDF).
func (uc *PurchaseUseCase) GetEntity(ctx context.Context, id string) (*entity.StockPurchase, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista GRN por rango de fechas con paginación.
func (uc *PurchaseUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]dto.PurchaseResponse, error) {
	page.DefaultPage()
	list, err := uc.purchases.List(ctx, repository.DocumentFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPurchaseResponse(p))
	}
	return out, nil
}
