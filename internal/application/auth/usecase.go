package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/pkg/jwt"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	repRepo  repository.MedicalRepRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
	cost     int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, repRepo repository.MedicalRepRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, repRepo: repRepo, jwtCfg: jwtCfg, log: log.Component("auth"), cost: bcrypt.DefaultCost}
}

// RegisterUser crea un usuario con password bcrypt. El primer usuario del sistema se crea
// como admin sin autenticación; después solo un admin (callerRole) puede registrar.
// Un usuario mr debe apuntar a un representante médico existente.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, callerRole string, in dto.RegisterRequest) (*dto.UserResponse, error) {
	count, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	bootstrap := count == 0
	if !bootstrap && callerRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y password (mínimo 8 caracteres) son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role := in.Role
	if bootstrap {
		role = entity.RoleAdmin
	}
	if role == "" {
		role = entity.RoleGodown
	}
	repID := ""
	switch role {
	case entity.RoleAdmin, entity.RoleGodown:
	case entity.RoleMR:
		if in.MedicalRepID == "" {
			return nil, fmt.Errorf("%w: un usuario mr requiere medical_rep_id", domain.ErrInvalidInput)
		}
		rep, err := uc.repRepo.GetByID(ctx, in.MedicalRepID)
		if err != nil {
			return nil, err
		}
		if rep == nil {
			return nil, fmt.Errorf("%w: representante %s", domain.ErrNotFound, in.MedicalRepID)
		}
		repID = rep.ID
	default:
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		MedicalRepID: repID,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", role).Bool("bootstrap", bootstrap).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.Identity{
		UserID:       user.ID,
		Role:         user.Role,
		MedicalRepID: user.MedicalRepID,
	}, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		MedicalRepID: u.MedicalRepID,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
	}
}
