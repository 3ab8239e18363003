package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el costo promedio ponderado tras una entrada de mercancía.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock actual negativo se trata como cero.
func WeightedAverageCost(currentStock int, currentCost decimal.Decimal, inQty int, inCost decimal.Decimal) decimal.Decimal {
	if currentStock < 0 {
		currentStock = 0
	}
	sum := currentStock + inQty
	if sum <= 0 {
		return decimal.Zero
	}
	stock := decimal.NewFromInt(int64(currentStock))
	qty := decimal.NewFromInt(int64(inQty))
	num := stock.Mul(currentCost).Add(qty.Mul(inCost))
	return num.Div(decimal.NewFromInt(int64(sum))).Round(2)
}
