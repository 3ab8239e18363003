package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ApplyVariantAggregates recalcula precios, stock e imagen de un producto con variantes.
// costo/venta = promedio de las variantes; stock = suma. El producto no maneja seriales propios.
func ApplyVariantAggregates(p *entity.Product, variants []*entity.Variable) {
	p.IsVariable = true
	p.IsSerial = false
	p.Serials = []string{}
	if len(variants) == 0 {
		p.CostPrice = decimal.Zero
		p.SellPrice = decimal.Zero
		p.Stock = 0
		return
	}
	cost, sell := decimal.Zero, decimal.Zero
	stock := 0
	for _, v := range variants {
		cost = cost.Add(v.CostPrice)
		sell = sell.Add(v.SellPrice)
		stock += v.Stock
	}
	n := decimal.NewFromInt(int64(len(variants)))
	p.CostPrice = cost.Div(n).Round(2)
	p.SellPrice = sell.Div(n).Round(2)
	p.Stock = stock
	p.MainImage = pickMainImage(p.MainImage, variants)
}

// pickMainImage: primera variante con stock e imagen; si no, la del producto; si no, la de la primera variante.
func pickMainImage(current string, variants []*entity.Variable) string {
	for _, v := range variants {
		if v.Stock > 0 && v.MainImage != "" {
			return v.MainImage
		}
	}
	if current != "" {
		return current
	}
	return variants[0].MainImage
}

// ValidateSerials comprueba la coherencia entre stock y seriales de una unidad serializada o no.
func ValidateSerials(isSerial bool, stock int, serials []string) error {
	if !isSerial {
		if len(serials) > 0 {
			return fmt.Errorf("%w: un producto sin serial no puede tener seriales", domain.ErrInvalidInput)
		}
		return nil
	}
	if len(serials) != stock {
		return fmt.Errorf("%w: la cantidad de seriales (%d) debe coincidir con el stock (%d)", domain.ErrInvalidInput, len(serials), stock)
	}
	seen := make(map[string]struct{}, len(serials))
	for _, s := range serials {
		if s == "" {
			return fmt.Errorf("%w: serial vacío", domain.ErrInvalidInput)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: serial repetido %q", domain.ErrInvalidInput, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// ValidateAttributes exige entre 1 y 2 pares clave/valor no vacíos.
func ValidateAttributes(attrs []entity.Attribute) error {
	if len(attrs) == 0 || len(attrs) > entity.MaxVariableAttributes {
		return fmt.Errorf("%w: la variante debe tener entre 1 y %d atributos", domain.ErrInvalidInput, entity.MaxVariableAttributes)
	}
	for _, a := range attrs {
		if a.Key == "" || a.Value == "" {
			return fmt.Errorf("%w: atributo con clave o valor vacío", domain.ErrInvalidInput)
		}
	}
	return nil
}
