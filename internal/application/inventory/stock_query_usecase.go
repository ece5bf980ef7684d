package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
	"github.com/jhoicas/pharma-stock-api/pkg/textmatch"
)

// StockQueryUseCase consultas de stock: saldos materializados, posiciones por replay,
// libro, auditoría y reconstrucción.
type StockQueryUseCase struct {
	txRunner     TxRunner
	engine       *Engine
	refs         *References
	products     repository.ProductRepository
	transactions repository.StockTransactionRepository
	balances     repository.StockBalanceRepository
	policy       inventory.Policy
	clock        inventory.Clock
	log          *logger.Logger
}

// NewStockQueryUseCase construye el caso de uso. clock nil usa time.Now.
func NewStockQueryUseCase(
	txRunner TxRunner,
	engine *Engine,
	refs *References,
	products repository.ProductRepository,
	transactions repository.StockTransactionRepository,
	balances repository.StockBalanceRepository,
	policy inventory.Policy,
	clock inventory.Clock,
	log *logger.Logger,
) *StockQueryUseCase {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockQueryUseCase{
		txRunner:     txRunner,
		engine:       engine,
		refs:         refs,
		products:     products,
		transactions: transactions,
		balances:     balances,
		policy:       policy,
		clock:        clock,
		log:          log.Component("stock-query"),
	}
}

// BalanceQuery filtros de saldos materializados.
type BalanceQuery struct {
	LocationType string
	LocationID   string
	ProductID    string
	PositiveOnly bool
}

// PositionQuery filtros de posiciones calculadas por replay.
type PositionQuery struct {
	Search       string // nombre o código, sin distinguir mayúsculas ni acentos
	CategoryID   string
	BatchSearch  string
	ProductID    string
	LocationType string
	LocationID   string
	ExpiryFrom   *time.Time
	ExpiryTo     *time.Time
}

// positionRow datos mínimos para construir una StockPositionResponse.
type positionRow struct {
	key         inventory.Key
	quantity    int64
	cost        decimal.Decimal
	productCode string
	productName string
	batchNumber string
	expiry      time.Time
	minLevel    int64
}

func buildPosition(ctx context.Context, units *unitCache, policy inventory.Policy, r positionRow, today time.Time) (dto.StockPositionResponse, error) {
	specs, err := units.get(ctx, r.key.ProductID)
	if err != nil {
		return dto.StockPositionResponse{}, err
	}
	return dto.StockPositionResponse{
		ProductID:    r.key.ProductID,
		ProductCode:  r.productCode,
		ProductName:  r.productName,
		BatchID:      r.key.BatchID,
		BatchNumber:  r.batchNumber,
		ExpiryDate:   r.expiry.Format(dto.DateLayout),
		LocationType: string(r.key.Location.Type),
		LocationID:   r.key.Location.ID,
		Quantity:     r.quantity,
		Packs:        inventory.FormatBreakdown(inventory.Breakdown(r.quantity, specs)),
		CostPerUnit:  r.cost,
		TotalValue:   inventory.LineValue(r.quantity, r.cost),
		MinLevel:     r.minLevel,
		StockStatus:  string(policy.StockLevel(r.quantity, r.minLevel)),
		ExpiryStatus: string(policy.ExpiryLevel(r.expiry, today)),
	}, nil
}

func viewRow(v *entity.StockBalanceView) positionRow {
	p := entity.Product{MinStockGodown: v.MinStockGodown, MinStockMR: v.MinStockMR}
	return positionRow{
		key:         toDomainBalance(&v.StockBalance).Key,
		quantity:    v.Quantity,
		cost:        v.CostPerUnit,
		productCode: v.ProductCode,
		productName: v.ProductName,
		batchNumber: v.BatchNumber,
		expiry:      v.ExpiryDate,
		minLevel:    p.MinLevelFor(v.LocationType),
	}
}

func listResponse(items []dto.StockPositionResponse) *dto.StockPositionListResponse {
	out := &dto.StockPositionListResponse{Items: items, TotalValue: decimal.Zero}
	for _, it := range items {
		out.TotalQuantity += it.Quantity
		out.TotalValue = out.TotalValue.Add(it.TotalValue)
	}
	return out
}

// ListBalances lee products_stock_status con su clasificación de nivel y vencimiento.
func (uc *StockQueryUseCase) ListBalances(ctx context.Context, q BalanceQuery) (*dto.StockPositionListResponse, error) {
	f, err := balanceFilter(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.balances.List(ctx, f)
	if err != nil {
		return nil, err
	}
	today := uc.clock()
	units := newUnitCache(uc.refs)
	items := make([]dto.StockPositionResponse, 0, len(rows))
	for _, v := range rows {
		p, err := buildPosition(ctx, units, uc.policy, viewRow(v), today)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return listResponse(items), nil
}

func balanceFilter(q BalanceQuery) (repository.BalanceFilter, error) {
	f := repository.BalanceFilter{ProductID: q.ProductID, LocationID: q.LocationID, PositiveOnly: q.PositiveOnly}
	if q.LocationType != "" {
		t, err := inventory.ParseLocationType(q.LocationType)
		if err != nil {
			return f, err
		}
		f.LocationType = string(t)
	}
	return f, nil
}

// ListPositions reproduce el libro filtrado y devuelve las posiciones positivas.
// El filtro de ubicación se aplica después del replay para que las transferencias
// cuenten en ambos lados.
func (uc *StockQueryUseCase) ListPositions(ctx context.Context, q PositionQuery) (*dto.StockPositionListResponse, error) {
	var locType inventory.LocationType
	if q.LocationType != "" {
		t, err := inventory.ParseLocationType(q.LocationType)
		if err != nil {
			return nil, err
		}
		locType = t
	}
	views, err := uc.transactions.List(ctx, repository.TransactionFilter{
		ProductID:   q.ProductID,
		CategoryID:  q.CategoryID,
		BatchSearch: strings.TrimSpace(q.BatchSearch),
		ExpiryFrom:  q.ExpiryFrom,
		ExpiryTo:    q.ExpiryTo,
	})
	if err != nil {
		return nil, err
	}

	type batchMeta struct {
		number string
		expiry time.Time
	}
	productMeta := map[string][2]string{}
	batches := map[string]batchMeta{}
	txs := make([]*entity.StockTransaction, 0, len(views))
	for _, v := range views {
		if q.Search != "" && !textmatch.Contains(q.Search, v.ProductCode, v.ProductName) {
			continue
		}
		productMeta[v.ProductID] = [2]string{v.ProductCode, v.ProductName}
		batches[v.BatchID] = batchMeta{number: v.BatchNumber, expiry: v.ExpiryDate}
		tx := v.StockTransaction
		txs = append(txs, &tx)
	}
	ledger, err := replayStored(txs)
	if err != nil {
		return nil, err
	}

	today := uc.clock()
	units := newUnitCache(uc.refs)
	minLevels := map[string]*entity.Product{}
	items := make([]dto.StockPositionResponse, 0)
	for _, pos := range ledger.Positions() {
		if locType != "" && pos.Key.Location.Type != locType {
			continue
		}
		if q.LocationID != "" && pos.Key.Location.ID != q.LocationID {
			continue
		}
		product, ok := minLevels[pos.Key.ProductID]
		if !ok {
			if product, err = uc.products.GetByID(ctx, pos.Key.ProductID); err != nil {
				return nil, err
			}
			if product == nil {
				product = &entity.Product{}
			}
			minLevels[pos.Key.ProductID] = product
		}
		meta := productMeta[pos.Key.ProductID]
		b := batches[pos.Key.BatchID]
		p, err := buildPosition(ctx, units, uc.policy, positionRow{
			key:         pos.Key,
			quantity:    pos.Quantity,
			cost:        pos.CostPerUnit,
			productCode: meta[0],
			productName: meta[1],
			batchNumber: b.number,
			expiry:      b.expiry,
			minLevel:    product.MinLevelFor(string(pos.Key.Location.Type)),
		}, today)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return listResponse(items), nil
}

// ListTransactions lista stock_transactions_view con filtros y paginación.
func (uc *StockQueryUseCase) ListTransactions(ctx context.Context, f repository.TransactionFilter, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.DefaultPage()
	if f.LocationType != "" {
		t, err := inventory.ParseLocationType(f.LocationType)
		if err != nil {
			return nil, err
		}
		f.LocationType = string(t)
	}
	if f.Type != "" {
		t, err := parseType(f.Type)
		if err != nil {
			return nil, err
		}
		f.Type = string(t)
	}
	f.Limit, f.Offset = page.Limit, page.Offset
	views, err := uc.transactions.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.TransactionListResponse{
		Items: make([]dto.TransactionResponse, 0, len(views)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, v := range views {
		out.Items = append(out.Items, toTransactionViewResponse(v))
	}
	return out, nil
}

// Audit reproduce el libro completo y lo compara con products_stock_status.
func (uc *StockQueryUseCase) Audit(ctx context.Context) (*dto.AuditResponse, error) {
	txs, err := uc.transactions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := replayStored(txs)
	if err != nil {
		return nil, err
	}
	stored, err := uc.balances.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	balances := make([]inventory.Balance, 0, len(stored))
	for _, b := range stored {
		balances = append(balances, *toDomainBalance(b))
	}

	diffs := inventory.Verify(ledger, balances)
	out := &dto.AuditResponse{
		TransactionsReplayed: len(txs),
		BalancesChecked:      len(balances),
		Consistent:           len(diffs) == 0,
		Discrepancies:        make([]dto.DiscrepancyDTO, 0, len(diffs)),
	}
	for _, d := range diffs {
		out.Discrepancies = append(out.Discrepancies, toDiscrepancyDTO(d))
	}
	if len(diffs) > 0 {
		uc.log.Warn().Int("discrepancies", len(diffs)).Msg("saldos materializados no coinciden con el libro")
	}
	return out, nil
}

// Rebuild recalcula todos los saldos materializados desde el libro.
func (uc *StockQueryUseCase) Rebuild(ctx context.Context) (*dto.RebuildResponse, error) {
	var replayed, written int
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		replayed, written, err = uc.engine.RebuildAll(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("transactions", replayed).Int("balances", written).Msg("saldos reconstruidos")
	return &dto.RebuildResponse{TransactionsReplayed: replayed, BalancesWritten: written}, nil
}

// Summary totales valorizados por tipo de ubicación y conteo de alertas.
func (uc *StockQueryUseCase) Summary(ctx context.Context, q BalanceQuery) (*dto.SummaryResponse, error) {
	q.PositiveOnly = true
	f, err := balanceFilter(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.balances.List(ctx, f)
	if err != nil {
		return nil, err
	}
	today := uc.clock()
	out := &dto.SummaryResponse{Locations: []dto.LocationSummaryDTO{}, TotalValue: decimal.Zero}
	positions := make([]inventory.Position, 0, len(rows))
	for _, v := range rows {
		r := viewRow(v)
		positions = append(positions, inventory.Position{
			Key:         r.key,
			Quantity:    r.quantity,
			CostPerUnit: r.cost,
			TotalValue:  inventory.LineValue(r.quantity, r.cost),
		})
		if uc.policy.StockLevel(r.quantity, r.minLevel) == inventory.StockLow {
			out.LowStockCount++
		}
		switch uc.policy.ExpiryLevel(r.expiry, today) {
		case inventory.ExpiryExpiringSoon:
			out.ExpiringCount++
		case inventory.ExpiryExpired:
			out.ExpiredCount++
		}
	}
	for _, s := range inventory.Summarise(positions) {
		out.Locations = append(out.Locations, dto.LocationSummaryDTO{
			LocationType: string(s.LocationType),
			Positions:    s.Positions,
			Quantity:     s.Quantity,
			TotalValue:   s.TotalValue,
		})
		out.TotalQuantity += s.Quantity
		out.TotalValue = out.TotalValue.Add(s.TotalValue)
	}
	return out, nil
}
