package inventory

import (
	"fmt"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
)

// toMovement convierte una fila del libro en el movimiento que entiende la regla de saldos.
func toMovement(tx *entity.StockTransaction) (inventory.Movement, error) {
	m := inventory.Movement{
		ID:          tx.ID,
		Seq:         tx.Seq,
		Type:        inventory.TransactionType(tx.Type),
		ProductID:   tx.ProductID,
		BatchID:     tx.BatchID,
		Quantity:    tx.Quantity,
		CostPerUnit: tx.CostPerUnit,
		OccurredAt:  tx.OccurredAt,
	}
	if tx.SourceType != "" {
		loc, err := inventory.NewLocation(tx.SourceType, tx.SourceID)
		if err != nil {
			return m, err
		}
		m.Source = loc
	}
	if tx.DestinationType != "" {
		loc, err := inventory.NewLocation(tx.DestinationType, tx.DestinationID)
		if err != nil {
			return m, err
		}
		m.Destination = loc
	}
	return m, nil
}

func toMovements(txs []*entity.StockTransaction) ([]inventory.Movement, error) {
	out := make([]inventory.Movement, 0, len(txs))
	for _, tx := range txs {
		m, err := toMovement(tx)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// replayStored reproduce filas ya guardadas. Un fallo aquí es un dato corrupto en la
// base, no un error del cliente: se reporta como ErrCorruptLedger sin envolver la causa.
func replayStored(txs []*entity.StockTransaction) (*inventory.Ledger, error) {
	ms, err := toMovements(txs)
	if err == nil {
		var ledger *inventory.Ledger
		if ledger, err = inventory.Replay(ms); err == nil {
			return ledger, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrCorruptLedger, err)
}

func toDomainBalance(b *entity.StockBalance) *inventory.Balance {
	if b == nil {
		return nil
	}
	return &inventory.Balance{
		Key: inventory.Key{
			ProductID: b.ProductID,
			BatchID:   b.BatchID,
			Location:  inventory.Location{Type: inventory.LocationType(b.LocationType), ID: b.LocationID},
		},
		Quantity:    b.Quantity,
		CostPerUnit: b.CostPerUnit,
		UpdatedAt:   b.UpdatedAt,
	}
}

func fromDomainBalance(b inventory.Balance) *entity.StockBalance {
	return &entity.StockBalance{
		ProductID:    b.Key.ProductID,
		BatchID:      b.Key.BatchID,
		LocationType: string(b.Key.Location.Type),
		LocationID:   b.Key.Location.ID,
		Quantity:     b.Quantity,
		CostPerUnit:  b.CostPerUnit,
		UpdatedAt:    b.UpdatedAt,
	}
}

func unitSpecs(units []*entity.PackagingUnit) []inventory.UnitSpec {
	out := make([]inventory.UnitSpec, 0, len(units))
	for _, u := range units {
		out = append(out, inventory.UnitSpec{
			Name:              u.UnitName,
			ConversionFactor:  u.ConversionFactor,
			HierarchyOrder:    u.HierarchyOrder,
			IsBaseUnit:        u.IsBaseUnit,
			IsDefaultPurchase: u.IsDefaultPurchase,
			IsDefaultSale:     u.IsDefaultSale,
		})
	}
	return out
}

func toTransactionResponse(tx *entity.StockTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              tx.ID,
		Seq:             tx.Seq,
		Type:            tx.Type,
		ProductID:       tx.ProductID,
		BatchID:         tx.BatchID,
		Quantity:        tx.Quantity,
		SourceType:      tx.SourceType,
		SourceID:        tx.SourceID,
		DestinationType: tx.DestinationType,
		DestinationID:   tx.DestinationID,
		CostPerUnit:     tx.CostPerUnit,
		ReferenceType:   tx.ReferenceType,
		ReferenceID:     tx.ReferenceID,
		ReferenceNumber: tx.ReferenceNumber,
		Notes:           tx.Notes,
		OccurredAt:      tx.OccurredAt,
		CreatedBy:       tx.CreatedBy,
	}
}

func toTransactionViewResponse(v *entity.StockTransactionView) dto.TransactionResponse {
	r := toTransactionResponse(&v.StockTransaction)
	r.ProductCode = v.ProductCode
	r.ProductName = v.ProductName
	r.BatchNumber = v.BatchNumber
	return r
}

func toDiscrepancyDTO(d inventory.Discrepancy) dto.DiscrepancyDTO {
	return dto.DiscrepancyDTO{
		Kind:             string(d.Kind),
		ProductID:        d.Key.ProductID,
		BatchID:          d.Key.BatchID,
		LocationType:     string(d.Key.Location.Type),
		LocationID:       d.Key.Location.ID,
		ExpectedQuantity: d.Expected.Quantity,
		ActualQuantity:   d.Actual.Quantity,
		ExpectedCost:     d.Expected.CostPerUnit,
		ActualCost:       d.Actual.CostPerUnit,
	}
}

func purchaseItemResponse(it *entity.StockPurchaseItem) dto.DocumentItemResponse {
	return dto.DocumentItemResponse{
		ID:              it.ID,
		ProductID:       it.ProductID,
		BatchID:         it.BatchID,
		PackagingUnitID: it.PackagingUnitID,
		QuantityEntered: it.QuantityEntered,
		QuantityStrips:  it.QuantityStrips,
		CostPerUnit:     it.CostPerUnit,
		LineValue:       it.LineValue,
	}
}

func saleItemResponse(it *entity.StockSaleItem) dto.DocumentItemResponse {
	return dto.DocumentItemResponse{
		ID:              it.ID,
		ProductID:       it.ProductID,
		BatchID:         it.BatchID,
		PackagingUnitID: it.PackagingUnitID,
		QuantityEntered: it.QuantityEntered,
		QuantityStrips:  it.QuantityStrips,
		CostPerUnit:     it.CostPerUnit,
		LineValue:       it.LineValue,
	}
}

func toPurchaseResponse(p *entity.StockPurchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:                    p.ID,
		GRNNumber:             p.GRNNumber,
		SupplierID:            p.SupplierID,
		GodownID:              p.GodownID,
		SupplierInvoiceNumber: p.SupplierInvoiceNumber,
		ReceivedAt:            p.ReceivedAt,
		Notes:                 p.Notes,
		TotalValue:            p.TotalValue,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	for i := range p.Items {
		out.Items = append(out.Items, purchaseItemResponse(&p.Items[i]))
	}
	return out
}

func toSaleResponse(s *entity.StockSale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:              s.ID,
		DocumentNumber:  s.DocumentNumber,
		Kind:            s.Kind,
		SourceType:      s.SourceType,
		SourceID:        s.SourceID,
		DestinationType: s.DestinationType,
		DestinationID:   s.DestinationID,
		CustomerName:    s.CustomerName,
		OccurredAt:      s.OccurredAt,
		Notes:           s.Notes,
		TotalValue:      s.TotalValue,
	}
	for i := range s.Items {
		out.Items = append(out.Items, saleItemResponse(&s.Items[i]))
	}
	return out
}

func toAdjustmentResponse(a *entity.StockAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:            a.ID,
		Type:          a.Type,
		LocationType:  a.LocationType,
		LocationID:    a.LocationID,
		ProductID:     a.ProductID,
		BatchID:       a.BatchID,
		Quantity:      a.Quantity,
		CostPerUnit:   a.CostPerUnit,
		Reason:        a.Reason,
		OccurredAt:    a.OccurredAt,
		TransactionID: a.TransactionID,
	}
}
