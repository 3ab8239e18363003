// Package period calcula rangos de fechas en la zona horaria de la tienda.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Range intervalo cerrado [From, To].
type Range struct {
	From time.Time
	To   time.Time
}

// Days cantidad de días calendario cubiertos (mínimo 1).
func (r Range) Days() int {
	d := int(r.To.Sub(r.From).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

// Tipos de periodo del tablero.
const (
	Today       = "TODAY"
	Yesterday   = "YESTERDAY"
	ThisWeek    = "THIS_WEEK"
	ThisMonth   = "THIS_MONTH"
	LastMonth   = "LAST_MONTH"
	ThisQuarter = "THIS_QUARTER"
	ThisYear    = "THIS_YEAR"
	Custom      = "CUSTOM"
)

// allSince inicio del filtro "all" de los listados.
var allSince = [3]int{2020, 1, 1}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOf devuelve el último instante antes de next.
func endOf(next time.Time) time.Time {
	return next.Add(-time.Nanosecond)
}

func day(t time.Time) Range {
	s := startOfDay(t)
	return Range{From: s, To: endOf(s.AddDate(0, 0, 1))}
}

// week inicia en domingo.
func week(t time.Time) Range {
	s := startOfDay(t)
	s = s.AddDate(0, 0, -int(s.Weekday()))
	return Range{From: s, To: endOf(s.AddDate(0, 0, 7))}
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func month(t time.Time) Range {
	s := monthStart(t)
	return Range{From: s, To: endOf(s.AddDate(0, 1, 0))}
}

func quarter(t time.Time) Range {
	y, m, _ := t.Date()
	qm := time.Month((int(m)-1)/3*3 + 1)
	s := time.Date(y, qm, 1, 0, 0, 0, 0, t.Location())
	return Range{From: s, To: endOf(s.AddDate(0, 3, 0))}
}

func year(t time.Time) Range {
	s := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	return Range{From: s, To: endOf(s.AddDate(1, 0, 0))}
}

// Year rango completo de un año calendario en loc.
func Year(y int, loc *time.Location) Range {
	return year(time.Date(y, 6, 1, 0, 0, 0, 0, loc))
}

// ForListing resuelve el timeType de los listados (minúsculas). ok=false si no aplica filtro.
func ForListing(timeType string, now time.Time) (Range, bool) {
	switch strings.ToLower(strings.TrimSpace(timeType)) {
	case "today":
		return day(now), true
	case "yesterday":
		return day(now.AddDate(0, 0, -1)), true
	case "this_week":
		return week(now), true
	case "last_week":
		return week(now.AddDate(0, 0, -7)), true
	case "this_month":
		return month(now), true
	case "last_month":
		return month(monthStart(now).AddDate(0, -1, 0)), true
	case "last_3_months":
		return Range{From: monthStart(now).AddDate(0, -3, 0), To: month(now).To}, true
	case "last_6_months":
		return Range{From: monthStart(now).AddDate(0, -6, 0), To: month(now).To}, true
	case "this_year":
		return year(now), true
	case "last_year":
		return year(now.AddDate(-1, 0, 0)), true
	case "all":
		from := time.Date(allSince[0], time.Month(allSince[1]), allSince[2], 0, 0, 0, 0, now.Location())
		return Range{From: from, To: day(now).To}, true
	}
	return Range{}, false
}

// ForDashboard resuelve el timeType del tablero (mayúsculas, por defecto TODAY).
// CUSTOM usa customFrom/customTo; si alguno falta se toma el día actual.
func ForDashboard(timeType string, now time.Time, customFrom, customTo *time.Time) (Range, error) {
	switch strings.ToUpper(strings.TrimSpace(timeType)) {
	case "", Today:
		return day(now), nil
	case Yesterday:
		return day(now.AddDate(0, 0, -1)), nil
	case ThisWeek:
		return week(now), nil
	case ThisMonth:
		return month(now), nil
	case LastMonth:
		return month(monthStart(now).AddDate(0, -1, 0)), nil
	case ThisQuarter:
		return quarter(now), nil
	case ThisYear:
		return year(now), nil
	case Custom:
		r := day(now)
		if customFrom != nil {
			r.From = customFrom.In(now.Location())
		}
		if customTo != nil {
			r.To = customTo.In(now.Location())
		}
		if r.To.Before(r.From) {
			return Range{}, fmt.Errorf("%w: customTo anterior a customFrom", domain.ErrInvalidInput)
		}
		return r, nil
	}
	return Range{}, fmt.Errorf("%w: timeType desconocido %q", domain.ErrInvalidInput, timeType)
}

// Previous devuelve el periodo anterior equivalente: mismo tipo desplazado una unidad,
// o para CUSTOM la misma cantidad de días inmediatamente antes.
func Previous(timeType string, now time.Time, current Range) Range {
	switch strings.ToUpper(strings.TrimSpace(timeType)) {
	case Yesterday:
		return day(now.AddDate(0, 0, -2))
	case ThisWeek:
		return week(now.AddDate(0, 0, -7))
	case ThisMonth:
		return month(monthStart(now).AddDate(0, -1, 0))
	case LastMonth:
		return month(monthStart(now).AddDate(0, -2, 0))
	case ThisQuarter:
		return quarter(quarter(now).From.AddDate(0, -3, 0))
	case ThisYear:
		return year(now.AddDate(-1, 0, 0))
	case Custom:
		days := current.Days()
		from := startOfDay(current.From).AddDate(0, 0, -days)
		return Range{From: from, To: endOf(startOfDay(current.From))}
	}
	return day(now.AddDate(0, 0, -1))
}
