package inventory

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
)

// UnitSpec datos de una unidad de empaque relevantes para conversión y validación.
type UnitSpec struct {
	Name              string
	ConversionFactor  int64 // tiras por unidad
	HierarchyOrder    int
	IsBaseUnit        bool
	IsDefaultPurchase bool
	IsDefaultSale     bool
}

// ToStrips convierte una cantidad en la unidad elegida a tiras.
// factor 0 significa "sin unidad seleccionada" y se toma como 1.
func ToStrips(quantity, factor int64) (int64, error) {
	if quantity < 0 {
		return 0, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	if factor < 0 {
		return 0, fmt.Errorf("%w: factor de conversión negativo", domain.ErrInvalidInput)
	}
	if factor == 0 {
		factor = 1
	}
	if quantity > 0 && factor > math.MaxInt64/quantity {
		return 0, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
	}
	return quantity * factor, nil
}

// ValidateUnits verifica la jerarquía de empaque de un producto: exactamente una
// unidad base con factor 1, factores >= 1, nombres únicos y como máximo un
// predeterminado de compra y uno de venta.
func ValidateUnits(units []UnitSpec) error {
	if len(units) == 0 {
		return fmt.Errorf("%w: se requiere al menos la unidad base", domain.ErrInvalidInput)
	}
	var bases, defPurchase, defSale int
	names := make(map[string]struct{}, len(units))
	for _, u := range units {
		name := strings.ToLower(strings.TrimSpace(u.Name))
		if name == "" {
			return fmt.Errorf("%w: nombre de unidad requerido", domain.ErrInvalidInput)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("%w: unidad %q repetida", domain.ErrInvalidInput, u.Name)
		}
		names[name] = struct{}{}
		if u.ConversionFactor < 1 {
			return fmt.Errorf("%w: factor de %q debe ser >= 1", domain.ErrInvalidInput, u.Name)
		}
		if u.IsBaseUnit {
			bases++
			if u.ConversionFactor != 1 {
				return fmt.Errorf("%w: la unidad base debe tener factor 1", domain.ErrInvalidInput)
			}
		}
		if u.IsDefaultPurchase {
			defPurchase++
		}
		if u.IsDefaultSale {
			defSale++
		}
	}
	if bases != 1 {
		return fmt.Errorf("%w: debe existir exactamente una unidad base (hay %d)", domain.ErrInvalidInput, bases)
	}
	if defPurchase > 1 || defSale > 1 {
		return fmt.Errorf("%w: solo una unidad predeterminada por contexto", domain.ErrInvalidInput)
	}
	return nil
}

// PackPart cantidad expresada en una unidad de empaque.
type PackPart struct {
	Unit     string
	Quantity int64
}

// Breakdown expresa una cantidad en tiras usando primero las unidades más grandes.
// Ej.: 125 tiras con caja=10 y cartón=100 -> 1 cartón, 2 cajas, 5 tiras.
func Breakdown(strips int64, units []UnitSpec) []PackPart {
	sorted := make([]UnitSpec, 0, len(units))
	for _, u := range units {
		if u.ConversionFactor >= 1 {
			sorted = append(sorted, u)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ConversionFactor > sorted[j].ConversionFactor
	})

	var parts []PackPart
	rest := strips
	for _, u := range sorted {
		if rest <= 0 {
			break
		}
		n := rest / u.ConversionFactor
		if n == 0 {
			continue
		}
		parts = append(parts, PackPart{Unit: u.Name, Quantity: n})
		rest -= n * u.ConversionFactor
	}
	if rest > 0 {
		parts = append(parts, PackPart{Unit: "strip", Quantity: rest})
	}
	return parts
}

// FormatBreakdown representa el desglose como texto ("1 Carton, 2 Box, 5 Strip").
func FormatBreakdown(parts []PackPart) string {
	if len(parts) == 0 {
		return "0"
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, fmt.Sprintf("%d %s", p.Quantity, p.Unit))
	}
	return strings.Join(out, ", ")
}
