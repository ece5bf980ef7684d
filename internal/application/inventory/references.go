package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// References resuelve y valida las referencias de catálogo de un movimiento
// (producto, lote, ubicaciones, unidad de empaque) antes de abrir la transacción.
type References struct {
	products  repository.ProductRepository
	batches   repository.BatchRepository
	packaging repository.PackagingRepository
	suppliers repository.SupplierRepository
	godowns   repository.GodownRepository
	reps      repository.MedicalRepRepository
}

// NewReferences construye el resolvedor de referencias.
func NewReferences(
	products repository.ProductRepository,
	batches repository.BatchRepository,
	packaging repository.PackagingRepository,
	suppliers repository.SupplierRepository,
	godowns repository.GodownRepository,
	reps repository.MedicalRepRepository,
) *References {
	return &References{
		products:  products,
		batches:   batches,
		packaging: packaging,
		suppliers: suppliers,
		godowns:   godowns,
		reps:      reps,
	}
}

// Product devuelve el producto activo o ErrNotFound / ErrInactive.
func (r *References) Product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrInactive, p.Code)
	}
	return p, nil
}

// Batch devuelve el lote activo y verifica que pertenezca al producto.
func (r *References) Batch(ctx context.Context, productID, batchID string) (*entity.Batch, error) {
	b, err := r.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
	}
	if b.ProductID != productID {
		return nil, fmt.Errorf("%w: el lote %s no pertenece al producto", domain.ErrInvalidInput, b.BatchNumber)
	}
	if !b.IsActive {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrInactive, b.BatchNumber)
	}
	return b, nil
}

// Supplier verifica que el proveedor exista y esté activo.
func (r *References) Supplier(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := r.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	if !s.IsActive {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrInactive, s.Name)
	}
	return s, nil
}

// Location valida tipo e id de una ubicación y que exista activa.
// Tipo e id vacíos devuelven nil (rol ausente en el movimiento).
func (r *References) Location(ctx context.Context, locationType, id string) (*inventory.Location, error) {
	if locationType == "" && id == "" {
		return nil, nil
	}
	loc, err := inventory.NewLocation(locationType, id)
	if err != nil {
		return nil, err
	}
	switch loc.Type {
	case inventory.LocationGodown:
		g, err := r.godowns.GetByID(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, loc.ID)
		}
		if !g.IsActive {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrInactive, g.Name)
		}
	case inventory.LocationMR:
		m, err := r.reps.GetByID(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: representante %s", domain.ErrNotFound, loc.ID)
		}
		if !m.IsActive {
			return nil, fmt.Errorf("%w: representante %s", domain.ErrInactive, m.Name)
		}
	}
	return loc, nil
}

// Strips convierte la cantidad ingresada en la unidad indicada a strips.
// unitID vacío significa que la cantidad ya viene en strips.
func (r *References) Strips(ctx context.Context, productID, unitID string, quantity int64) (int64, error) {
	if unitID == "" {
		return inventory.ToStrips(quantity, 1)
	}
	u, err := r.packaging.GetUnit(ctx, unitID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("%w: unidad de empaque %s", domain.ErrNotFound, unitID)
	}
	if u.ProductID != productID {
		return 0, fmt.Errorf("%w: la unidad %s no pertenece al producto", domain.ErrInvalidInput, u.UnitName)
	}
	return inventory.ToStrips(quantity, u.ConversionFactor)
}

// Units devuelve las unidades de empaque del producto como UnitSpec.
func (r *References) Units(ctx context.Context, productID string) ([]inventory.UnitSpec, error) {
	units, err := r.packaging.ListUnits(ctx, productID)
	if err != nil {
		return nil, err
	}
	return unitSpecs(units), nil
}

// unitCache memoriza unidades por producto durante una consulta.
type unitCache struct {
	refs  *References
	units map[string][]inventory.UnitSpec
}

func newUnitCache(refs *References) *unitCache {
	return &unitCache{refs: refs, units: map[string][]inventory.UnitSpec{}}
}

func (c *unitCache) get(ctx context.Context, productID string) ([]inventory.UnitSpec, error) {
	if u, ok := c.units[productID]; ok {
		return u, nil
	}
	u, err := c.refs.Units(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.units[productID] = u
	return u, nil
}
