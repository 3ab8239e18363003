package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto simple o con variantes.
type CreateProductRequest struct {
	Name        string            `json:"name"`
	Barcode     string            `json:"barcode"`
	CostPrice   *decimal.Decimal  `json:"costPrice,omitempty"`
	SellPrice   *decimal.Decimal  `json:"sellPrice,omitempty"`
	Stock       *int              `json:"stock,omitempty"`
	Description string            `json:"description"`
	BrandID     string            `json:"brandId"`
	CategoryID  string            `json:"categoryId"`
	MainImage   string            `json:"mainImage"`
	ListImage   []string          `json:"listImage"`
	IsVariable  bool              `json:"isVariable"`
	Variables   []VariableRequest `json:"variablesProduct"`
	IsSerial    bool              `json:"isSerial"`
	Serials     []string          `json:"serials"`
}

// UpdateProductRequest actualización parcial; campos nil no se tocan.
type UpdateProductRequest struct {
	Name        *string           `json:"name,omitempty"`
	Barcode     *string           `json:"barcode,omitempty"`
	CostPrice   *decimal.Decimal  `json:"costPrice,omitempty"`
	SellPrice   *decimal.Decimal  `json:"sellPrice,omitempty"`
	Stock       *int              `json:"stock,omitempty"`
	Description *string           `json:"description,omitempty"`
	BrandID     *string           `json:"brandId,omitempty"`
	CategoryID  *string           `json:"categoryId,omitempty"`
	MainImage   *string           `json:"mainImage,omitempty"`
	ListImage   []string          `json:"listImage,omitempty"`
	IsVariable  *bool             `json:"isVariable,omitempty"`
	Variables   []VariableRequest `json:"variablesProduct,omitempty"`
	IsSerial    *bool             `json:"isSerial,omitempty"`
	Serials     []string          `json:"serials,omitempty"`
}

// ProductResponse salida de un producto (con variantes vigentes en el detalle).
type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Barcode     string             `json:"barcode"`
	CostPrice   decimal.Decimal    `json:"costPrice"`
	SellPrice   decimal.Decimal    `json:"sellPrice"`
	Stock       int                `json:"stock"`
	Description string             `json:"description"`
	BrandID     string             `json:"brandId"`
	CategoryID  string             `json:"categoryId"`
	IsVariable  bool               `json:"isVariable"`
	MainImage   string             `json:"mainImage"`
	ListImage   []string           `json:"listImage"`
	IsSerial    bool               `json:"isSerial"`
	Serials     []string           `json:"serials"`
	IsDelete    bool               `json:"isDelete"`
	Variables   []VariableResponse `json:"variables,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// DeleteListRequest eliminación masiva de productos.
type DeleteListRequest struct {
	IDs []string `json:"ids"`
}

// DeleteListResponse resultado de la eliminación masiva.
type DeleteListResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// SerialsRequest consulta de seriales disponibles de un producto o variante.
type SerialsRequest struct {
	ProductID  string `json:"productId"`
	VariableID string `json:"variableId,omitempty"`
}

// SerialsResponse seriales disponibles.
type SerialsResponse struct {
	Serials []string `json:"serials"`
}

// NextBarcodeResponse siguiente código de barras libre en formato SP00001.
type NextBarcodeResponse struct {
	NextBarcode string `json:"nextBarcode"`
	NextNumber  int    `json:"nextNumber"`
	Format      string `json:"format"`
	Suggestion  string `json:"suggestion"`
}

// CheckBarcodeRequest consulta de disponibilidad de un código de barras.
type CheckBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

// CheckBarcodeResponse disponibilidad y alternativas.
type CheckBarcodeResponse struct {
	Available   bool     `json:"available"`
	ValidFormat bool     `json:"validFormat"`
	Suggestions []string `json:"suggestions"`
	Message     string   `json:"message"`
}

// BarcodeConflictResponse error 409 de código repetido con sugerencias.
type BarcodeConflictResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}
