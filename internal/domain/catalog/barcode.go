// Package catalog reúne reglas del catálogo: códigos de barras y agregados de variantes.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BarcodePrefix y BarcodeDigits definen el formato generado SP00001.
const (
	BarcodePrefix = "SP"
	BarcodeDigits = 5
	BarcodeFormat = "SP00001"
)

var spPattern = regexp.MustCompile(`^SP(\d{5,})$`)

// ValidBarcode sólo exige un código no vacío; el formato SP es una sugerencia, no una obligación.
func ValidBarcode(barcode string) bool {
	return strings.TrimSpace(barcode) != ""
}

// FormatBarcode arma el código SP con relleno de ceros.
func FormatBarcode(n int) string {
	return fmt.Sprintf("%s%0*d", BarcodePrefix, BarcodeDigits, n)
}

// ParseBarcode extrae el número de un código SP; ok=false si no tiene ese formato.
func ParseBarcode(barcode string) (int, bool) {
	m := spPattern.FindStringSubmatch(strings.TrimSpace(barcode))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextBarcodeNumber devuelve max(número SP existente) + 1, o 1 si no hay ninguno.
func NextBarcodeNumber(existing []string) int {
	max := 0
	for _, b := range existing {
		if n, ok := ParseBarcode(b); ok && n > max {
			max = n
		}
	}
	return max + 1
}

// BarcodeCandidates genera candidatos alternativos para un código ocupado, en orden de preferencia.
// Para códigos SP avanza la numeración; para el resto agrega sufijos -1, -2, ...
func BarcodeCandidates(barcode string, count int) []string {
	barcode = strings.TrimSpace(barcode)
	out := make([]string, 0, count)
	if n, ok := ParseBarcode(barcode); ok {
		for i := 1; len(out) < count; i++ {
			out = append(out, FormatBarcode(n+i))
		}
		return out
	}
	for i := 1; len(out) < count; i++ {
		out = append(out, fmt.Sprintf("%s-%d", barcode, i))
	}
	return out
}
