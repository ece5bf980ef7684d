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
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// CatalogTxRunner ejecuta fn con productos y empaques atados a la misma transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(products repository.ProductRepository, packaging repository.PackagingRepository) error) error
}

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	catalogTx  CatalogTxRunner
	log        *logger.Logger
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	catalogTx CatalogTxRunner,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		products:   products,
		categories: categories,
		catalogTx:  catalogTx,
		log:        log.Component("products"),
		now:        time.Now,
	}
}

// Create crea un producto y su jerarquía de empaque en una sola transacción.
// Sin unidades se crea "Strip" x1 como base.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.BaseCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo base negativo", domain.ErrInvalidInput)
	}
	if in.MinStockGodown < 0 || in.MinStockMR < 0 {
		return nil, fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el código %q ya existe", domain.ErrDuplicate, code)
	}
	if err := uc.checkClassification(ctx, in.CategoryID, in.SubCategoryID, in.FormulationID); err != nil {
		return nil, err
	}

	reqUnits := in.Units
	if len(reqUnits) == 0 {
		reqUnits = []dto.PackagingUnitRequest{defaultBaseUnit()}
	}
	if err := validateUnitRequests(reqUnits); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	p := &entity.Product{
		ID:             uuid.New().String(),
		Code:           code,
		Name:           name,
		GenericName:    strings.TrimSpace(in.GenericName),
		Manufacturer:   strings.TrimSpace(in.Manufacturer),
		CategoryID:     in.CategoryID,
		SubCategoryID:  in.SubCategoryID,
		FormulationID:  in.FormulationID,
		BaseCost:       in.BaseCost,
		MinStockGodown: in.MinStockGodown,
		MinStockMR:     in.MinStockMR,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	units := newUnits(p.ID, reqUnits, now)
	err = uc.catalogTx.RunCatalog(ctx, func(products repository.ProductRepository, packaging repository.PackagingRepository) error {
		if err := products.Create(ctx, p); err != nil {
			return err
		}
		return packaging.ReplaceUnits(ctx, p.ID, units)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("code", p.Code).Int("units", len(units)).Msg("producto creado")
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos con filtros de búsqueda, categoría y estado.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := uc.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica los campos no nil del request.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: código vacío", domain.ErrInvalidInput)
		}
		if code != p.Code {
			other, err := uc.products.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("%w: el código %q ya existe", domain.ErrDuplicate, code)
			}
			p.Code = code
		}
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.GenericName != nil {
		p.GenericName = strings.TrimSpace(*in.GenericName)
	}
	if in.Manufacturer != nil {
		p.Manufacturer = strings.TrimSpace(*in.Manufacturer)
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.SubCategoryID != nil {
		p.SubCategoryID = *in.SubCategoryID
	}
	if in.FormulationID != nil {
		p.FormulationID = *in.FormulationID
	}
	if in.BaseCost != nil {
		if in.BaseCost.IsNegative() {
			return nil, fmt.Errorf("%w: costo base negativo", domain.ErrInvalidInput)
		}
		p.BaseCost = *in.BaseCost
	}
	if in.MinStockGodown != nil {
		p.MinStockGodown = *in.MinStockGodown
	}
	if in.MinStockMR != nil {
		p.MinStockMR = *in.MinStockMR
	}
	if p.MinStockGodown < 0 || p.MinStockMR < 0 {
		return nil, fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.CategoryID != nil || in.SubCategoryID != nil || in.FormulationID != nil {
		if err := uc.checkClassification(ctx, p.CategoryID, p.SubCategoryID, p.FormulationID); err != nil {
			return nil, err
		}
	}
	p.UpdatedAt = uc.now().UTC()
	if err := uc.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Deactivate marca el producto como inactivo; deja de aceptar movimientos nuevos.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) (*dto.ProductResponse, error) {
	inactive := false
	return uc.Update(ctx, id, dto.UpdateProductRequest{IsActive: &inactive})
}

// Delete elimina un producto. Si ya tiene movimientos de stock se rechaza con ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	used, err := uc.products.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: el producto tiene movimientos; desactívelo", domain.ErrConflict)
	}
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// checkClassification verifica categoría, subcategoría (de esa categoría) y formulación.
func (uc *ProductUseCase) checkClassification(ctx context.Context, categoryID, subCategoryID, formulationID string) error {
	if categoryID == "" {
		return fmt.Errorf("%w: categoría obligatoria", domain.ErrInvalidInput)
	}
	c, err := uc.categories.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	if subCategoryID != "" {
		s, err := uc.categories.GetSubCategory(ctx, subCategoryID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, subCategoryID)
		}
		if s.CategoryID != categoryID {
			return fmt.Errorf("%w: la subcategoría no pertenece a la categoría", domain.ErrInvalidInput)
		}
	}
	if formulationID != "" {
		f, err := uc.categories.GetFormulation(ctx, formulationID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: formulación %s", domain.ErrNotFound, formulationID)
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		GenericName:    p.GenericName,
		Manufacturer:   p.Manufacturer,
		CategoryID:     p.CategoryID,
		SubCategoryID:  p.SubCategoryID,
		FormulationID:  p.FormulationID,
		BaseCost:       p.BaseCost,
		MinStockGodown: p.MinStockGodown,
		MinStockMR:     p.MinStockMR,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
