package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User representa un miembro del personal de la tienda.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string // bcrypt hash, nunca plano en dominio después de persistir
	Role             string // ADMIN, STAFF
	RefreshTokenHash string // bcrypt del refresh token vigente; vacío si no hay sesión
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsValidRole indica si el rol es uno de los admitidos.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
