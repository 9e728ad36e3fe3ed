package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// User representa un operador del punto de venta.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, vendedor
	CreatedAt    time.Time
}
