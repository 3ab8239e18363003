package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NameRequest alta o renombrado de marca/categoría.
type NameRequest struct {
	Name string `json:"name"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AttributeDTO par clave/valor de una variante (ej. color: rojo).
type AttributeDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// VariableRequest alta o actualización de una variante. En la actualización de un
// producto, ID vacío significa variante nueva.
type VariableRequest struct {
	ID          string           `json:"id,omitempty"`
	Attributes  []AttributeDTO   `json:"attribute"`
	IsSerial    *bool            `json:"isSerial,omitempty"`
	Serials     []string         `json:"serials,omitempty"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"`
	SellPrice   *decimal.Decimal `json:"sellPrice,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
	MainImage   *string          `json:"mainImage,omitempty"`
	ListImage   []string         `json:"listImage,omitempty"`
}

// VariableResponse salida de una variante.
type VariableResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId,omitempty"`
	Attributes  []AttributeDTO  `json:"attribute"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	SellPrice   decimal.Decimal `json:"sellPrice"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	MainImage   string          `json:"mainImage"`
	ListImage   []string        `json:"listImage"`
	IsSerial    bool            `json:"isSerial"`
	Serials     []string        `json:"serials"`
	IsDelete    bool            `json:"isDelete"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
