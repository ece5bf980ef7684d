package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/domain"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
	"github.com/jhoicas/pharma-stock-api/pkg/jwt"
)

type fakeUsers struct{ byEmail map[string]*entity.User }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) Count(context.Context) (int, error) { return len(f.byEmail), nil }

type fakeReps struct{ items map[string]*entity.MedicalRep }

func (f *fakeReps) Create(_ context.Context, m *entity.MedicalRep) error {
	f.items[m.ID] = m
	return nil
}

func (f *fakeReps) GetByID(_ context.Context, id string) (*entity.MedicalRep, error) {
	return f.items[id], nil
}

func (f *fakeReps) List(context.Context, bool) ([]*entity.MedicalRep, error) { return nil, nil }

func (f *fakeReps) Update(_ context.Context, m *entity.MedicalRep) error {
	f.items[m.ID] = m
	return nil
}

const secret = "test-secret"

func newAuth() (*AuthUseCase, *fakeUsers) {
	users := &fakeUsers{byEmail: map[string]*entity.User{}}
	reps := &fakeReps{items: map[string]*entity.MedicalRep{"rep-1": {ID: "rep-1", Name: "Ana", IsActive: true}}}
	uc := NewAuthUseCase(users, reps, JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, nil)
	uc.cost = bcrypt.MinCost
	return uc, users
}

func TestRegister_PrimerUsuarioEsAdmin(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	first, err := uc.RegisterUser(ctx, "", dto.RegisterRequest{Email: "Boss@Example.com", Password: "secret123", Role: "godown"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, "boss@example.com", first.Email)

	_, err = uc.RegisterUser(ctx, "", dto.RegisterRequest{Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "tras el bootstrap se requiere admin")
	_, err = uc.RegisterUser(ctx, entity.RoleGodown, dto.RegisterRequest{Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	second, err := uc.RegisterUser(ctx, entity.RoleAdmin, dto.RegisterRequest{Email: "x@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGodown, second.Role)

	_, err = uc.RegisterUser(ctx, entity.RoleAdmin, dto.RegisterRequest{Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_UsuarioMR(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, "", dto.RegisterRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, entity.RoleAdmin, dto.RegisterRequest{Email: "mr@example.com", Password: "secret123", Role: "mr"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, entity.RoleAdmin, dto.RegisterRequest{Email: "mr@example.com", Password: "secret123", Role: "mr", MedicalRepID: "rep-9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mr, err := uc.RegisterUser(ctx, entity.RoleAdmin, dto.RegisterRequest{Email: "mr@example.com", Password: "secret123", Role: "mr", MedicalRepID: "rep-1"})
	require.NoError(t, err)
	assert.Equal(t, "rep-1", mr.MedicalRepID)
}

func TestLogin(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, "", dto.RegisterRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ADMIN@example.com", Password: "secret123"})
	require.NoError(t, err)
	id, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id.UserID)
	assert.Equal(t, entity.RoleAdmin, id.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users.byEmail["admin@example.com"].Status = "inactive"
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
