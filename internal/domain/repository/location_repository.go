package repository

import (
	"context"

	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
}

// GodownRepository puerto de persistencia para bodegas.
type GodownRepository interface {
	Create(ctx context.Context, g *entity.Godown) error
	GetByID(ctx context.Context, id string) (*entity.Godown, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Godown, error)
	Update(ctx context.Context, g *entity.Godown) error
}

// MedicalRepRepository puerto de persistencia para representantes médicos.
type MedicalRepRepository interface {
	Create(ctx context.Context, m *entity.MedicalRep) error
	GetByID(ctx context.Context, id string) (*entity.MedicalRep, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.MedicalRep, error)
	Update(ctx context.Context, m *entity.MedicalRep) error
}
