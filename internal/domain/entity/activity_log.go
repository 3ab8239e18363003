package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en la bitácora.
const (
	ActionCreateOrder     = "CREATE_ORDER"
	ActionReturnOrderItem = "RETURN_ORDER_ITEM"
	ActionDeleteOrder     = "DELETE_ORDER"
	ActionPayDebt         = "PAY_ORDER_DEBT"
	ActionCreateProduct   = "CREATE_PRODUCT"
	ActionUpdateProduct   = "UPDATE_PRODUCT"
	ActionDeleteProduct   = "DELETE_PRODUCT"
	ActionImportProduct   = "IMPORT_PRODUCT"
	ActionCreateBrand     = "CREATE_BRAND"
	ActionCreateCategory  = "CREATE_CATEGORY"
)

// Tipos de referencia de la bitácora.
const (
	RefTypeOrder    = "Order"
	RefTypeProduct  = "Product"
	RefTypeBrand    = "Brand"
	RefTypeCategory = "Category"
)

// ActivityLog entrada de auditoría de una acción del personal.
type ActivityLog struct {
	ID        string
	UserID    string
	UserName  string // sólo lectura (join con users)
	Action    string
	Message   string
	RefID     string
	RefType   string
	Metadata  json.RawMessage
	CreatedAt time.Time
}
