package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "u1:positions")
	require.NoError(t, err)
	assert.False(t, found)

	v := []byte(`{"batch":true}`)
	require.NoError(t, s.Set(ctx, "u1:positions", v, 0))
	v[0] = 'X' // el almacén guarda una copia

	got, found, err := s.Get(ctx, "u1:positions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"batch":true}`, string(got))
}

func TestMemoryStore_Expira(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	_, found, _ := s.Get(ctx, "k")
	assert.True(t, found)

	now = now.Add(time.Hour)
	_, found, _ = s.Get(ctx, "k")
	assert.False(t, found)
}
