package inventory

import (
	"context"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
)

// RecordTransactionFromRequest adapta el request HTTP al caso de uso RecordTransaction(ctx, TransactionInput).
func (uc *RecordTransactionUseCase) RecordTransactionFromRequest(ctx context.Context, userID string, in dto.RecordTransactionRequest) (*dto.TransactionResponse, error) {
	input := TransactionInput{
		UserID:          userID,
		Type:            in.Type,
		ProductID:       in.ProductID,
		BatchID:         in.BatchID,
		PackagingUnitID: in.PackagingUnitID,
		Quantity:        in.Quantity,
		SourceType:      in.SourceType,
		SourceID:        in.SourceID,
		DestinationType: in.DestinationType,
		DestinationID:   in.DestinationID,
		CostPerUnit:     in.CostPerUnit,
		OccurredAt:      in.OccurredAt,
		Notes:           in.Notes,
	}
	tx, err := uc.RecordTransaction(ctx, input)
	if err != nil {
		return nil, err
	}
	out := toTransactionResponse(tx)
	return &out, nil
}
