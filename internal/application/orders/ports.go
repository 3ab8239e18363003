package orders

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CodeEncoder convierte el número de secuencia de una orden en su código legible.
type CodeEncoder interface {
	Encode(n int64) (string, error)
}

// InvoiceRenderer genera la factura imprimible (PDF) de una orden.
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, order *entity.Order) ([]byte, error)
}
