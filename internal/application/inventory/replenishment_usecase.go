package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// AlertsUseCase genera la lista de reposición (saldos en nivel low o medium) y las
// alertas de vencimiento de lotes que todavía tienen stock.
type AlertsUseCase struct {
	balances repository.StockBalanceRepository
	refs     *References
	policy   inventory.Policy
	clock    inventory.Clock
}

// NewAlertsUseCase construye el caso de uso de alertas.
func NewAlertsUseCase(
	balances repository.StockBalanceRepository,
	refs *References,
	policy inventory.Policy,
	clock inventory.Clock,
) *AlertsUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &AlertsUseCase{balances: balances, refs: refs, policy: policy, clock: clock}
}

// Alerts devuelve las sugerencias de reposición y los lotes por vencer o vencidos.
// locationType/locationID vacíos consideran todas las ubicaciones.
func (uc *AlertsUseCase) Alerts(ctx context.Context, locationType, locationID string) (*dto.AlertsResponse, error) {
	f := repository.BalanceFilter{LocationID: locationID}
	if locationType != "" {
		t, err := inventory.ParseLocationType(locationType)
		if err != nil {
			return nil, err
		}
		f.LocationType = string(t)
	}
	rows, err := uc.balances.List(ctx, f)
	if err != nil {
		return nil, err
	}

	today := uc.clock()
	units := newUnitCache(uc.refs)
	out := &dto.AlertsResponse{LowStock: []dto.StockAlertDTO{}, Expiry: []dto.StockPositionResponse{}}

	// 1. Saldos bajo el umbral medium
	for _, v := range rows {
		r := viewRow(v)
		pos, err := buildPosition(ctx, units, uc.policy, r, today)
		if err != nil {
			return nil, err
		}
		// Sin mínimo configurado no hay reposición que sugerir.
		if level := uc.policy.StockLevel(r.quantity, r.minLevel); r.minLevel > 0 && level != inventory.StockGood {
			suggested := uc.policy.SuggestedReorder(r.quantity, r.minLevel)
			out.LowStock = append(out.LowStock, dto.StockAlertDTO{
				StockPositionResponse: pos,
				IdealStock:            r.quantity + suggested,
				SuggestedReorder:      suggested,
				EstimatedCost:         inventory.LineValue(suggested, r.cost),
			})
		}
		// 2. Vencimientos, solo lotes con stock
		if r.quantity > 0 && pos.ExpiryStatus != string(inventory.ExpiryGood) {
			out.Expiry = append(out.Expiry, pos)
		}
	}

	// 3. Ordenar: primero low antes que medium, luego mayor déficit relativo,
	//    finalmente mayor cantidad sugerida.
	sort.SliceStable(out.LowStock, func(i, j int) bool {
		a, b := out.LowStock[i], out.LowStock[j]
		if a.StockStatus != b.StockStatus {
			return a.StockStatus == string(inventory.StockLow)
		}
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.SuggestedReorder > b.SuggestedReorder
	})
	// 4. Asignar prioridad (1 = más urgente)
	for i := range out.LowStock {
		out.LowStock[i].Priority = i + 1
	}

	sort.SliceStable(out.Expiry, func(i, j int) bool {
		return out.Expiry[i].ExpiryDate < out.Expiry[j].ExpiryDate
	})
	return out, nil
}

// coverage fracción del ideal cubierta por el saldo actual (0 = sin stock).
func coverage(a dto.StockAlertDTO) decimal.Decimal {
	if a.IdealStock <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(a.Quantity).Div(decimal.NewFromInt(a.IdealStock))
}
