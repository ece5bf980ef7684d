package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// PackagingTxRunner ejecuta fn con el repositorio de empaques atado a una transacción.
type PackagingTxRunner interface {
	RunPackaging(ctx context.Context, fn func(repo repository.PackagingRepository) error) error
}

// PackagingUseCase unidades de empaque por producto y plantillas reutilizables.
type PackagingUseCase struct {
	txRunner  PackagingTxRunner
	packaging repository.PackagingRepository
	products  repository.ProductRepository
	now       func() time.Time
}

// NewPackagingUseCase construye el caso de uso.
func NewPackagingUseCase(txRunner PackagingTxRunner, packaging repository.PackagingRepository, products repository.ProductRepository) *PackagingUseCase {
	return &PackagingUseCase{txRunner: txRunner, packaging: packaging, products: products, now: time.Now}
}

// ListUnits unidades del producto ordenadas por jerarquía.
func (uc *PackagingUseCase) ListUnits(ctx context.Context, productID string) ([]dto.PackagingUnitResponse, error) {
	if err := uc.checkProduct(ctx, productID); err != nil {
		return nil, err
	}
	units, err := uc.packaging.ListUnits(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toUnitResponses(units), nil
}

// ReplaceUnits reemplaza la jerarquía completa del producto tras validarla.
func (uc *PackagingUseCase) ReplaceUnits(ctx context.Context, productID string, in []dto.PackagingUnitRequest) ([]dto.PackagingUnitResponse, error) {
	if err := uc.checkProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := validateUnitRequests(in); err != nil {
		return nil, err
	}
	units := newUnits(productID, in, uc.now().UTC())
	err := uc.txRunner.RunPackaging(ctx, func(repo repository.PackagingRepository) error {
		return repo.ReplaceUnits(ctx, productID, units)
	})
	if err != nil {
		return nil, err
	}
	return toUnitResponses(units), nil
}

// AddUnit agrega una unidad a la jerarquía existente. Las unidades previas conservan su ID.
func (uc *PackagingUseCase) AddUnit(ctx context.Context, productID string, in dto.PackagingUnitRequest) ([]dto.PackagingUnitResponse, error) {
	if err := uc.checkProduct(ctx, productID); err != nil {
		return nil, err
	}
	var result []*entity.PackagingUnit
	err := uc.txRunner.RunPackaging(ctx, func(repo repository.PackagingRepository) error {
		current, err := repo.ListUnits(ctx, productID)
		if err != nil {
			return err
		}
		specs := make([]inventory.UnitSpec, 0, len(current)+1)
		for _, u := range current {
			specs = append(specs, unitSpec(u))
		}
		specs = append(specs, requestSpec(in))
		if err := inventory.ValidateUnits(specs); err != nil {
			return err
		}
		added := newUnits(productID, []dto.PackagingUnitRequest{in}, uc.now().UTC())
		result = append(current, added...)
		return repo.ReplaceUnits(ctx, productID, result)
	})
	if err != nil {
		return nil, err
	}
	return toUnitResponses(result), nil
}

// CreateTemplate crea una plantilla de empaque validando su jerarquía.
func (uc *PackagingUseCase) CreateTemplate(ctx context.Context, in dto.PackagingTemplateRequest) (*dto.PackagingTemplateResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de plantilla requerido", domain.ErrInvalidInput)
	}
	if err := validateUnitRequests(in.Units); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	t := &entity.PackagingTemplate{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, u := range in.Units {
		t.Units = append(t.Units, entity.PackagingTemplateUnit{
			UnitName:          strings.TrimSpace(u.UnitName),
			ConversionFactor:  u.ConversionFactor,
			HierarchyOrder:    u.HierarchyOrder,
			IsBaseUnit:        u.IsBaseUnit,
			IsDefaultPurchase: u.IsDefaultPurchase,
			IsDefaultSale:     u.IsDefaultSale,
		})
	}
	if err := uc.packaging.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return toTemplateResponse(t), nil
}

// ListTemplates lista las plantillas.
func (uc *PackagingUseCase) ListTemplates(ctx context.Context) ([]dto.PackagingTemplateResponse, error) {
	list, err := uc.packaging.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackagingTemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTemplateResponse(t))
	}
	return out, nil
}

// GetTemplate obtiene una plantilla por ID.
func (uc *PackagingUseCase) GetTemplate(ctx context.Context, id string) (*dto.PackagingTemplateResponse, error) {
	t, err := uc.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(t), nil
}

// ApplyTemplate reemplaza las unidades del producto por las de la plantilla.
func (uc *PackagingUseCase) ApplyTemplate(ctx context.Context, productID, templateID string) ([]dto.PackagingUnitResponse, error) {
	t, err := uc.getTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return uc.ReplaceUnits(ctx, productID, toTemplateResponse(t).Units)
}

func (uc *PackagingUseCase) getTemplate(ctx context.Context, id string) (*entity.PackagingTemplate, error) {
	t, err := uc.packaging.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *PackagingUseCase) checkProduct(ctx context.Context, productID string) error {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

func defaultBaseUnit() dto.PackagingUnitRequest {
	return dto.PackagingUnitRequest{
		UnitName:          "Strip",
		ConversionFactor:  1,
		HierarchyOrder:    1,
		IsBaseUnit:        true,
		IsDefaultPurchase: true,
		IsDefaultSale:     true,
	}
}

func requestSpec(u dto.PackagingUnitRequest) inventory.UnitSpec {
	return inventory.UnitSpec{
		Name:              u.UnitName,
		ConversionFactor:  u.ConversionFactor,
		HierarchyOrder:    u.HierarchyOrder,
		IsBaseUnit:        u.IsBaseUnit,
		IsDefaultPurchase: u.IsDefaultPurchase,
		IsDefaultSale:     u.IsDefaultSale,
	}
}

func unitSpec(u *entity.PackagingUnit) inventory.UnitSpec {
	return inventory.UnitSpec{
		Name:              u.UnitName,
		ConversionFactor:  u.ConversionFactor,
		HierarchyOrder:    u.HierarchyOrder,
		IsBaseUnit:        u.IsBaseUnit,
		IsDefaultPurchase: u.IsDefaultPurchase,
		IsDefaultSale:     u.IsDefaultSale,
	}
}

func validateUnitRequests(in []dto.PackagingUnitRequest) error {
	specs := make([]inventory.UnitSpec, 0, len(in))
	for _, u := range in {
		specs = append(specs, requestSpec(u))
	}
	return inventory.ValidateUnits(specs)
}

func newUnits(productID string, in []dto.PackagingUnitRequest, now time.Time) []*entity.PackagingUnit {
	units := make([]*entity.PackagingUnit, 0, len(in))
	for _, u := range in {
		units = append(units, &entity.PackagingUnit{
			ID:                uuid.New().String(),
			ProductID:         productID,
			UnitName:          strings.TrimSpace(u.UnitName),
			ConversionFactor:  u.ConversionFactor,
			HierarchyOrder:    u.HierarchyOrder,
			IsBaseUnit:        u.IsBaseUnit,
			IsDefaultPurchase: u.IsDefaultPurchase,
			IsDefaultSale:     u.IsDefaultSale,
			CreatedAt:         now,
		})
	}
	return units
}

func toUnitResponses(units []*entity.PackagingUnit) []dto.PackagingUnitResponse {
	sorted := append([]*entity.PackagingUnit(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HierarchyOrder != sorted[j].HierarchyOrder {
			return sorted[i].HierarchyOrder < sorted[j].HierarchyOrder
		}
		return sorted[i].ConversionFactor < sorted[j].ConversionFactor
	})
	out := make([]dto.PackagingUnitResponse, 0, len(sorted))
	for _, u := range sorted {
		out = append(out, dto.PackagingUnitResponse{
			ID:                u.ID,
			ProductID:         u.ProductID,
			UnitName:          u.UnitName,
			ConversionFactor:  u.ConversionFactor,
			HierarchyOrder:    u.HierarchyOrder,
			IsBaseUnit:        u.IsBaseUnit,
			IsDefaultPurchase: u.IsDefaultPurchase,
			IsDefaultSale:     u.IsDefaultSale,
		})
	}
	return out
}

func toTemplateResponse(t *entity.PackagingTemplate) *dto.PackagingTemplateResponse {
	units := make([]dto.PackagingUnitRequest, 0, len(t.Units))
	for _, u := range t.Units {
		units = append(units, dto.PackagingUnitRequest{
			UnitName:          u.UnitName,
			ConversionFactor:  u.ConversionFactor,
			HierarchyOrder:    u.HierarchyOrder,
			IsBaseUnit:        u.IsBaseUnit,
			IsDefaultPurchase: u.IsDefaultPurchase,
			IsDefaultSale:     u.IsDefaultSale,
		})
	}
	return &dto.PackagingTemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Units:       units,
		CreatedAt:   t.CreatedAt,
	}
}
