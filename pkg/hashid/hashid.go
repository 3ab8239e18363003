// Package hashid codifica números de secuencia como códigos cortos no adivinables.
package hashid

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

const minLength = 8

// alphabet sin caracteres ambiguos (0/O, 1/I/L) para dictar el código por teléfono.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Encoder convierte números de orden en códigos y viceversa.
type Encoder struct {
	h *hashids.HashID
}

// New construye el encoder con la sal de la instalación.
func New(salt string) (*Encoder, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minLength
	hd.Alphabet = alphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("hashid: %w", err)
	}
	return &Encoder{h: h}, nil
}

// Encode devuelve el código de un número de orden.
func (e *Encoder) Encode(n int64) (string, error) {
	return e.h.EncodeInt64([]int64{n})
}

// Decode devuelve el número de orden de un código.
func (e *Encoder) Decode(code string) (int64, error) {
	nums, err := e.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, err
	}
	if len(nums) != 1 {
		return 0, fmt.Errorf("hashid: código inválido %q", code)
	}
	return nums[0], nil
}
