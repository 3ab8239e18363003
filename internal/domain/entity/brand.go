package entity

import "time"

// Brand marca comercial de productos.
type Brand struct {
	ID        string
	Name      string // único
	IsDelete  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
