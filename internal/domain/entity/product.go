package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType clasifica una línea de venta según variante y serial.
type ProductType int

const (
	ProductTypeSimple         ProductType = 100 // sin variante, sin serial
	ProductTypeSerial         ProductType = 200 // sin variante, con seriales
	ProductTypeVariable       ProductType = 300 // con variante, sin serial
	ProductTypeVariableSerial ProductType = 400 // con variante y seriales
)

// Valid indica si el tipo es uno de los cuatro conocidos.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeSimple, ProductTypeSerial, ProductTypeVariable, ProductTypeVariableSerial:
		return true
	}
	return false
}

// HasVariant indica si el tipo opera sobre una variante.
func (t ProductType) HasVariant() bool {
	return t == ProductTypeVariable || t == ProductTypeVariableSerial
}

// HasSerial indica si el tipo se vende por serial.
func (t ProductType) HasSerial() bool {
	return t == ProductTypeSerial || t == ProductTypeVariableSerial
}

// Product representa un producto del catálogo. Si IsVariable, precios y stock son agregados de sus variantes.
type Product struct {
	ID          string
	Name        string
	Barcode     string
	CostPrice   decimal.Decimal
	SellPrice   decimal.Decimal
	Stock       int
	Description string
	BrandID     string
	CategoryID  string
	IsVariable  bool
	MainImage   string
	ListImage   []string
	Serials     []string
	IsSerial    bool
	IsDelete    bool
	Variables   []*Variable // sólo se llena en el detalle
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Type deriva el tipo de venta del producto (para una variante concreta usar Variable.IsSerial).
func (p *Product) Type() ProductType {
	if p.IsVariable {
		for _, v := range p.Variables {
			if v.IsSerial {
				return ProductTypeVariableSerial
			}
		}
		return ProductTypeVariable
	}
	if p.IsSerial {
		return ProductTypeSerial
	}
	return ProductTypeSimple
}

// HasSerial indica si el serial está disponible en el producto.
func (p *Product) HasSerial(serial string) bool {
	return containsSerial(p.Serials, serial)
}

// TakeSerial retira un serial disponible; false si no existía.
func (p *Product) TakeSerial(serial string) bool {
	var ok bool
	p.Serials, ok = removeSerial(p.Serials, serial)
	return ok
}

// PutSerial devuelve un serial al producto.
func (p *Product) PutSerial(serial string) {
	p.Serials = addSerial(p.Serials, serial)
}

// ActiveVariables devuelve las variantes no eliminadas.
func (p *Product) ActiveVariables() []*Variable {
	out := make([]*Variable, 0, len(p.Variables))
	for _, v := range p.Variables {
		if !v.IsDelete {
			out = append(out, v)
		}
	}
	return out
}
