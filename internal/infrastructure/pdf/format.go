package pdf

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Las fuentes base del PDF (helvetica, cp1252) no cubren el alfabeto vietnamita:
// los textos libres se pliegan a ASCII antes de dibujarlos.
var foldMap = runes.Map(func(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
})

// fold quita tildes y diacríticos: "Nguyễn Văn Đức" → "Nguyen Van Duc".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), foldMap, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// moneyFormatter formatea montos con separador de miles según el idioma de la tienda.
type moneyFormatter struct {
	p        *message.Printer
	currency string
}

func newMoneyFormatter(lang language.Tag, currency string) moneyFormatter {
	return moneyFormatter{p: message.NewPrinter(lang), currency: strings.TrimSpace(currency)}
}

// amount "1.250.000" (vi) o "1,250,000" (en); hasta dos decimales si los hay.
func (f moneyFormatter) amount(d decimal.Decimal) string {
	return f.p.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}

// money monto con la etiqueta de moneda.
func (f moneyFormatter) money(d decimal.Decimal) string {
	if f.currency == "" {
		return f.amount(d)
	}
	return f.amount(d) + " " + f.currency
}
