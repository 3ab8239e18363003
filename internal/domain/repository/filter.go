package repository

import "time"

// ListFilter criterios comunes de listado (paginación, búsqueda, rango y orden).
type ListFilter struct {
	Limit    int
	Offset   int
	Keyword  string     // búsqueda case-insensitive sobre columnas de texto
	From     *time.Time // rango sobre created_at (cerrado)
	To       *time.Time
	Statuses []string // sólo órdenes: payment_status IN (...)
	SortBy   string   // campo lógico; cada adaptador lo traduce a una columna permitida
	SortAsc  bool
}
