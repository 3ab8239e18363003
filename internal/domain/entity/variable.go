package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxVariableAttributes límite de atributos por variante (ej. color + talla).
const MaxVariableAttributes = 2

// Attribute par clave/valor que distingue una variante.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Variable es una variante (sub-SKU) de un producto con precio y stock propios.
type Variable struct {
	ID          string
	ProductID   string // vacío mientras no se asocia a un producto
	Attributes  []Attribute
	CostPrice   decimal.Decimal
	SellPrice   decimal.Decimal
	Stock       int
	Description string
	MainImage   string
	ListImage   []string
	IsSerial    bool
	Serials     []string
	IsDelete    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSerial indica si el serial está disponible en la variante.
func (v *Variable) HasSerial(serial string) bool {
	return containsSerial(v.Serials, serial)
}

// TakeSerial retira un serial disponible; false si no existía.
func (v *Variable) TakeSerial(serial string) bool {
	var ok bool
	v.Serials, ok = removeSerial(v.Serials, serial)
	return ok
}

// PutSerial devuelve un serial a la variante.
func (v *Variable) PutSerial(serial string) {
	v.Serials = addSerial(v.Serials, serial)
}
