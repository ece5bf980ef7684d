package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
)

type mapStore struct {
	data map[string][]byte
	ttl  map[string]time.Duration
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *mapStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.data[key] = value
	s.ttl[key] = ttl
	return nil
}

func TestPreferences_GuardarYLeer(t *testing.T) {
	store := &mapStore{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
	uc := NewPreferenceUseCase(store, 24*time.Hour)
	ctx := context.Background()

	empty, err := uc.Get(ctx, "u1", "positions")
	require.NoError(t, err)
	assert.Empty(t, empty.Columns)

	_, err = uc.Save(ctx, "u1", "positions", map[string]bool{"batch_number": true, "total_value": false})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, store.ttl["prefs:u1:positions"])

	got, err := uc.Get(ctx, "u1", "positions")
	require.NoError(t, err)
	assert.Equal(t, "positions", got.View)
	assert.True(t, got.Columns["batch_number"])
	assert.False(t, got.Columns["total_value"])

	other, err := uc.Get(ctx, "u2", "positions")
	require.NoError(t, err)
	assert.Empty(t, other.Columns, "las preferencias son por usuario")
}

func TestPreferences_VistaInvalida(t *testing.T) {
	uc := NewPreferenceUseCase(&mapStore{data: map[string][]byte{}, ttl: map[string]time.Duration{}}, 0)
	_, err := uc.Get(context.Background(), "u1", "../etc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Save(context.Background(), "u1", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
