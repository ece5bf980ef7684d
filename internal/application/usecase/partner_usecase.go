package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	now  func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, now: time.Now}
}

// Create crea un proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     strings.TrimSpace(in.TaxID),
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores.
func (uc *SupplierUseCase) List(ctx context.Context, includeInactive bool) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	s.Name, s.TaxID, s.Phone, s.Email, s.Address = name, strings.TrimSpace(in.TaxID), in.Phone, in.Email, in.Address
	s.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Deactivate desactiva el proveedor; no admite GRN nuevos.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.IsActive = false
	s.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

// GodownUseCase casos de uso CRUD para bodegas.
type GodownUseCase struct {
	repo repository.GodownRepository
	now  func() time.Time
}

// NewGodownUseCase construye el caso de uso.
func NewGodownUseCase(repo repository.GodownRepository) *GodownUseCase {
	return &GodownUseCase{repo: repo, now: time.Now}
}

// Create crea una bodega activa.
func (uc *GodownUseCase) Create(ctx context.Context, in dto.GodownRequest) (*dto.GodownResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	g := &entity.Godown{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return toGodownResponse(g), nil
}

// GetByID obtiene una bodega por ID.
func (uc *GodownUseCase) GetByID(ctx context.Context, id string) (*dto.GodownResponse, error) {
	g, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGodownResponse(g), nil
}

// List lista bodegas.
func (uc *GodownUseCase) List(ctx context.Context, includeInactive bool) ([]dto.GodownResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GodownResponse, 0, len(list))
	for _, g := range list {
		out = append(out, *toGodownResponse(g))
	}
	return out, nil
}

// Update actualiza una bodega.
func (uc *GodownUseCase) Update(ctx context.Context, id string, in dto.GodownRequest) (*dto.GodownResponse, error) {
	g, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	g.Name, g.Address = name, in.Address
	g.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return toGodownResponse(g), nil
}

// Deactivate desactiva la bodega. El stock existente se conserva en el libro.
func (uc *GodownUseCase) Deactivate(ctx context.Context, id string) (*dto.GodownResponse, error) {
	g, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	g.IsActive = false
	g.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return toGodownResponse(g), nil
}

func (uc *GodownUseCase) get(ctx context.Context, id string) (*entity.Godown, error) {
	g, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func toGodownResponse(g *entity.Godown) *dto.GodownResponse {
	return &dto.GodownResponse{
		ID:        g.ID,
		Name:      g.Name,
		Address:   g.Address,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
	}
}

// MedicalRepUseCase casos de uso CRUD para representantes médicos.
type MedicalRepUseCase struct {
	repo repository.MedicalRepRepository
	now  func() time.Time
}

// NewMedicalRepUseCase construye el caso de uso.
func NewMedicalRepUseCase(repo repository.MedicalRepRepository) *MedicalRepUseCase {
	return &MedicalRepUseCase{repo: repo, now: time.Now}
}

// Create crea un representante activo.
func (uc *MedicalRepUseCase) Create(ctx context.Context, in dto.MedicalRepRequest) (*dto.MedicalRepResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	m := &entity.MedicalRep{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     in.Phone,
		Territory: in.Territory,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMedicalRepResponse(m), nil
}

// GetByID obtiene un representante por ID.
func (uc *MedicalRepUseCase) GetByID(ctx context.Context, id string) (*dto.MedicalRepResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMedicalRepResponse(m), nil
}

// List lista representantes.
func (uc *MedicalRepUseCase) List(ctx context.Context, includeInactive bool) ([]dto.MedicalRepResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MedicalRepResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMedicalRepResponse(m))
	}
	return out, nil
}

// Update actualiza un representante.
func (uc *MedicalRepUseCase) Update(ctx context.Context, id string, in dto.MedicalRepRequest) (*dto.MedicalRepResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	m.Name, m.Phone, m.Territory = name, in.Phone, in.Territory
	m.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMedicalRepResponse(m), nil
}

// Deactivate desactiva el representante; deja de recibir despachos.
func (uc *MedicalRepUseCase) Deactivate(ctx context.Context, id string) (*dto.MedicalRepResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.IsActive = false
	m.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMedicalRepResponse(m), nil
}

func (uc *MedicalRepUseCase) get(ctx context.Context, id string) (*entity.MedicalRep, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: representante %s", domain.ErrNotFound, id)
	}
	return m, nil
}

func toMedicalRepResponse(m *entity.MedicalRep) *dto.MedicalRepResponse {
	return &dto.MedicalRepResponse{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Territory: m.Territory,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
