package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// BatchUseCase lotes de producto. El número de lote es único por producto.
type BatchUseCase struct {
	batches  repository.BatchRepository
	products repository.ProductRepository
	policy   inventory.Policy
	clock    inventory.Clock
}

// NewBatchUseCase construye el caso de uso. clock nil usa time.Now.
func NewBatchUseCase(batches repository.BatchRepository, products repository.ProductRepository, policy inventory.Policy, clock inventory.Clock) *BatchUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &BatchUseCase{batches: batches, products: products, policy: policy, clock: clock}
}

// Create registra un lote para un producto existente.
func (uc *BatchUseCase) Create(ctx context.Context, productID string, in dto.BatchRequest) (*dto.BatchResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	number := strings.TrimSpace(in.BatchNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: número de lote requerido", domain.ErrInvalidInput)
	}
	expiry, err := parseExpiry(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if in.CostOverride != nil && in.CostOverride.IsNegative() {
		return nil, fmt.Errorf("%w: costo del lote negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.batches.GetByProductAndNumber(ctx, productID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el lote %q ya existe para el producto", domain.ErrDuplicate, number)
	}
	now := uc.clock().UTC()
	b := &entity.Batch{
		ID:           uuid.New().String(),
		ProductID:    productID,
		BatchNumber:  number,
		ExpiryDate:   expiry,
		CostOverride: in.CostOverride,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.batches.Create(ctx, b); err != nil {
		return nil, err
	}
	return uc.toResponse(b), nil
}

// List lotes de un producto, por vencimiento.
func (uc *BatchUseCase) List(ctx context.Context, productID string, includeInactive bool) ([]dto.BatchResponse, error) {
	list, err := uc.batches.ListByProduct(ctx, productID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *uc.toResponse(b))
	}
	return out, nil
}

// Get obtiene un lote por ID.
func (uc *BatchUseCase) Get(ctx context.Context, id string) (*dto.BatchResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(b), nil
}

// Update cambia número, vencimiento, costo del lote y, si viene, el estado.
// El costo de los movimientos ya registrados no cambia.
func (uc *BatchUseCase) Update(ctx context.Context, id string, in dto.BatchRequest) (*dto.BatchResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.BatchNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: número de lote requerido", domain.ErrInvalidInput)
	}
	expiry, err := parseExpiry(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if in.CostOverride != nil && in.CostOverride.IsNegative() {
		return nil, fmt.Errorf("%w: costo del lote negativo", domain.ErrInvalidInput)
	}
	if number != b.BatchNumber {
		other, err := uc.batches.GetByProductAndNumber(ctx, b.ProductID, number)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: el lote %q ya existe para el producto", domain.ErrDuplicate, number)
		}
	}
	b.BatchNumber = number
	b.ExpiryDate = expiry
	b.CostOverride = in.CostOverride
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	b.UpdatedAt = uc.clock().UTC()
	if err := uc.batches.Update(ctx, b); err != nil {
		return nil, err
	}
	return uc.toResponse(b), nil
}

// Deactivate desactiva el lote; no admite movimientos nuevos.
func (uc *BatchUseCase) Deactivate(ctx context.Context, id string) (*dto.BatchResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.IsActive = false
	b.UpdatedAt = uc.clock().UTC()
	if err := uc.batches.Update(ctx, b); err != nil {
		return nil, err
	}
	return uc.toResponse(b), nil
}

func (uc *BatchUseCase) get(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (uc *BatchUseCase) toResponse(b *entity.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:           b.ID,
		ProductID:    b.ProductID,
		BatchNumber:  b.BatchNumber,
		ExpiryDate:   b.ExpiryDate.Format(dto.DateLayout),
		ExpiryStatus: string(uc.policy.ExpiryLevel(b.ExpiryDate, uc.clock())),
		CostOverride: b.CostOverride,
		IsActive:     b.IsActive,
	}
}

func parseExpiry(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha de vencimiento %q (use YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}
