package dto

// Límites de paginación de los listados.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto y acota Limit a MaxLimit.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListQuery parámetros comunes de búsqueda de productos, órdenes y clientes.
type ListQuery struct {
	PageRequest
	Keyword   string   `query:"keyword"`
	TimeType  string   `query:"timeType"`
	Statuses  []string `query:"status"`
	SortBy    string   `query:"sortBy"`
	SortOrder string   `query:"sortOrder"`
}

// PageAttrs metadatos de página en respuestas.
type PageAttrs struct {
	TotalPage  int `json:"totalPage"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// NewPageAttrs calcula el total de páginas para el conteo dado.
func NewPageAttrs(total int, p PageRequest) PageAttrs {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageAttrs{TotalPage: pages, TotalCount: total, Page: p.Page, Limit: p.Limit}
}

// ListResponse envoltorio {data, attrs} de los listados paginados.
type ListResponse[T any] struct {
	Data  []T       `json:"data"`
	Attrs PageAttrs `json:"attrs"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
