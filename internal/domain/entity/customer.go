package entity

import "time"

// Customer representa un cliente de la tienda. El teléfono lo identifica.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	Email     string
	IsActive  bool
	IsDelete  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
