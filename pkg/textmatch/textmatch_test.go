package textmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pharma-stock-api/pkg/textmatch"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "paracetamol", textmatch.Fold(" Paracetamól "))
	assert.Equal(t, "ibuprofeno", textmatch.Fold("IBUPROFÉNO"))
}

func TestContains(t *testing.T) {
	assert.True(t, textmatch.Contains("amoxi", "Amoxicilina 500mg", "AMX-500"))
	assert.True(t, textmatch.Contains("amx", "Amoxicilina 500mg", "AMX-500"))
	assert.True(t, textmatch.Contains("", "cualquier"))
	assert.True(t, textmatch.Contains("cion", "Solución oral"))
	assert.False(t, textmatch.Contains("jarabe", "Tableta"))
}
