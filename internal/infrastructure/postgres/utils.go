package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Querier es la superficie común de *pgxpool.Pool y pgx.Tx; los repos la reciben para operar con o sin transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// emptyIfNil evita escribir NULL en columnas TEXT[] NOT NULL.
func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// whereBuilder acumula condiciones y argumentos posicionales ($1, $2, ...).
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registra un argumento y devuelve su placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// listSpec describe cómo traducir un ListFilter para una tabla concreta.
type listSpec struct {
	alias       string
	search      []string          // expresiones con %[1]s como placeholder del patrón
	statusCol   string            // vacío si el recurso no filtra por estado
	sortColumns map[string]string // campo lógico -> columna
}

// apply agrega las condiciones de búsqueda, rango y estado.
func (s listSpec) apply(w *whereBuilder, f repository.ListFilter) {
	if kw := strings.TrimSpace(f.Keyword); kw != "" && len(s.search) > 0 {
		p := w.arg("%" + kw + "%")
		parts := make([]string, 0, len(s.search))
		for _, expr := range s.search {
			parts = append(parts, fmt.Sprintf(expr, p))
		}
		w.add("(" + strings.Join(parts, " OR ") + ")")
	}
	if f.From != nil {
		w.add(s.alias + ".created_at >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.add(s.alias + ".created_at <= " + w.arg(*f.To))
	}
	if s.statusCol != "" && len(f.Statuses) > 0 {
		w.add(s.alias + "." + s.statusCol + " = ANY(" + w.arg(f.Statuses) + ")")
	}
}

// orderAndPage arma ORDER BY (con columna en lista blanca) + LIMIT/OFFSET.
func (s listSpec) orderAndPage(w *whereBuilder, f repository.ListFilter) string {
	col, ok := s.sortColumns[f.SortBy]
	if !ok {
		col = s.alias + ".created_at"
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s.id %s LIMIT %s OFFSET %s",
		col, dir, s.alias, dir, w.arg(limit), w.arg(f.Offset))
}
