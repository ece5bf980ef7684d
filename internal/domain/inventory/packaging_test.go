package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
)

func standardUnits() []inventory.UnitSpec {
	return []inventory.UnitSpec{
		{Name: "Strip", ConversionFactor: 1, HierarchyOrder: 1, IsBaseUnit: true, IsDefaultSale: true},
		{Name: "Box", ConversionFactor: 10, HierarchyOrder: 2, IsDefaultPurchase: true},
		{Name: "Carton", ConversionFactor: 100, HierarchyOrder: 3},
	}
}

func TestToStrips(t *testing.T) {
	got, err := inventory.ToStrips(5, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got)

	// Sin unidad seleccionada el factor es 1.
	got, err = inventory.ToStrips(7, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestToStrips_UnidadBaseEsIdentidad(t *testing.T) {
	for _, q := range []int64{0, 1, 2, 99, 12345} {
		got, err := inventory.ToStrips(q, 1)
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
}

func TestToStrips_Errores(t *testing.T) {
	_, err := inventory.ToStrips(-1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ToStrips(1, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ToStrips(math.MaxInt64, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateUnits(t *testing.T) {
	require.NoError(t, inventory.ValidateUnits(standardUnits()))

	noBase := standardUnits()
	noBase[0].IsBaseUnit = false
	assert.ErrorIs(t, inventory.ValidateUnits(noBase), domain.ErrInvalidInput)

	twoBases := standardUnits()
	twoBases[1].IsBaseUnit = true
	assert.ErrorIs(t, inventory.ValidateUnits(twoBases), domain.ErrInvalidInput)

	baseFactor := standardUnits()
	baseFactor[0].ConversionFactor = 2
	assert.ErrorIs(t, inventory.ValidateUnits(baseFactor), domain.ErrInvalidInput)

	zero := standardUnits()
	zero[2].ConversionFactor = 0
	assert.ErrorIs(t, inventory.ValidateUnits(zero), domain.ErrInvalidInput)

	dup := standardUnits()
	dup[2].Name = "box"
	assert.ErrorIs(t, inventory.ValidateUnits(dup), domain.ErrInvalidInput)

	defaults := standardUnits()
	defaults[2].IsDefaultPurchase = true
	assert.ErrorIs(t, inventory.ValidateUnits(defaults), domain.ErrInvalidInput)

	assert.ErrorIs(t, inventory.ValidateUnits(nil), domain.ErrInvalidInput)
}

func TestBreakdown(t *testing.T) {
	parts := inventory.Breakdown(125, standardUnits())
	assert.Equal(t, []inventory.PackPart{
		{Unit: "Carton", Quantity: 1},
		{Unit: "Box", Quantity: 2},
		{Unit: "Strip", Quantity: 5},
	}, parts)
	assert.Equal(t, "1 Carton, 2 Box, 5 Strip", inventory.FormatBreakdown(parts))
	assert.Equal(t, "0", inventory.FormatBreakdown(inventory.Breakdown(0, standardUnits())))
}
