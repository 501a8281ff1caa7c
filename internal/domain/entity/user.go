package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleStock      = "estoque"
	RoleTechnical  = "tecnica"
	RoleTechnician = "tecnico"
)

// Estados de usuario.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// ValidRole indica si r es uno de los roles conocidos.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleStock, RoleTechnical, RoleTechnician:
		return true
	}
	return false
}

// User representa un usuario del sistema. TechnicianID se llena para perfiles tecnico.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string
	TechnicianID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
