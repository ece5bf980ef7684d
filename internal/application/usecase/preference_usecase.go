package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

var viewName = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,49}$`)

// PreferenceUseCase columnas visibles por usuario y vista, guardadas en un almacén clave-valor.
type PreferenceUseCase struct {
	store repository.PreferenceStore
	ttl   time.Duration // 0 = sin vencimiento
}

// NewPreferenceUseCase construye el caso de uso.
func NewPreferenceUseCase(store repository.PreferenceStore, ttl time.Duration) *PreferenceUseCase {
	return &PreferenceUseCase{store: store, ttl: ttl}
}

func preferenceKey(userID, view string) string {
	return "prefs:" + userID + ":" + view
}

// Get devuelve las preferencias guardadas; sin datos devuelve un mapa vacío (todas visibles).
func (uc *PreferenceUseCase) Get(ctx context.Context, userID, view string) (*dto.ViewPreferences, error) {
	if !viewName.MatchString(view) {
		return nil, fmt.Errorf("%w: vista %q", domain.ErrInvalidInput, view)
	}
	raw, found, err := uc.store.Get(ctx, preferenceKey(userID, view))
	if err != nil {
		return nil, err
	}
	prefs := &dto.ViewPreferences{View: view, Columns: map[string]bool{}}
	if !found {
		return prefs, nil
	}
	if err := json.Unmarshal(raw, prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	prefs.View = view
	if prefs.Columns == nil {
		prefs.Columns = map[string]bool{}
	}
	return prefs, nil
}

// Save reemplaza las preferencias de la vista.
func (uc *PreferenceUseCase) Save(ctx context.Context, userID, view string, columns map[string]bool) (*dto.ViewPreferences, error) {
	if !viewName.MatchString(view) {
		return nil, fmt.Errorf("%w: vista %q", domain.ErrInvalidInput, view)
	}
	if columns == nil {
		columns = map[string]bool{}
	}
	prefs := &dto.ViewPreferences{View: view, Columns: columns}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	if err := uc.store.Set(ctx, preferenceKey(userID, view), raw, uc.ttl); err != nil {
		return nil, err
	}
	return prefs, nil
}
