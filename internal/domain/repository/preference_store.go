package repository

import (
	"context"
	"time"
)

// PreferenceStore almacén clave-valor para preferencias de vista (columnas visibles).
// Get devuelve found=false si la clave no existe.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
