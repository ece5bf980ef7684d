package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleGodown = "godown"
	RoleMR     = "mr"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, godown, mr
	MedicalRepID string // solo para rol mr: la ubicación MR que puede consultar
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
