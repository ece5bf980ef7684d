package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/pharma-stock-api/internal/domain"
)

// LocationType tipo de ubicación que puede tener stock.
type LocationType string

const (
	LocationGodown LocationType = "GODOWN" // bodega central
	LocationMR     LocationType = "MR"     // stock en manos de un representante médico
)

// ParseLocationType normaliza y valida un tipo de ubicación recibido como texto.
func ParseLocationType(s string) (LocationType, error) {
	switch LocationType(strings.ToUpper(strings.TrimSpace(s))) {
	case LocationGodown:
		return LocationGodown, nil
	case LocationMR:
		return LocationMR, nil
	}
	return "", fmt.Errorf("%w: tipo de ubicación %q", domain.ErrInvalidInput, s)
}

// Location identifica un punto de stock (tipo + id).
type Location struct {
	Type LocationType
	ID   string
}

// NewLocation construye una ubicación validando tipo e id.
func NewLocation(locationType, id string) (*Location, error) {
	t, err := ParseLocationType(locationType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id de ubicación requerido", domain.ErrInvalidInput)
	}
	return &Location{Type: t, ID: id}, nil
}

func (l Location) String() string {
	return string(l.Type) + ":" + l.ID
}

// Key clave de un saldo: producto, lote y ubicación.
type Key struct {
	ProductID string
	BatchID   string
	Location  Location
}

func (k Key) String() string {
	return k.ProductID + "/" + k.BatchID + "@" + k.Location.String()
}
