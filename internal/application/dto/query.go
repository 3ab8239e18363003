package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/period"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Filter traduce los parámetros de query al filtro de los repositorios.
// El rango de timeType se calcula con now (ya en la zona horaria de la tienda).
func (q *ListQuery) Filter(now time.Time) repository.ListFilter {
	q.DefaultPage()
	f := repository.ListFilter{
		Limit:   q.Limit,
		Offset:  q.Offset(),
		Keyword: strings.TrimSpace(q.Keyword),
		SortBy:  q.SortBy,
		SortAsc: strings.EqualFold(q.SortOrder, "asc"),
	}
	if r, ok := period.ForListing(q.TimeType, now); ok {
		f.From, f.To = &r.From, &r.To
	}
	for _, s := range q.Statuses {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Statuses = append(f.Statuses, part)
			}
		}
	}
	return f
}
