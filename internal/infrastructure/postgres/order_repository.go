package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `o.id, o.number, o.code, o.staff_id, o.customer_id, o.customer_name, o.customer_phone, o.customer_address,
	o.discount_type, o.discount_value, o.total_amount, o.total_amount_discount, o.total_cost_price, o.estimated_revenue,
	o.customer_paid, o.customer_debt, o.payment_status, o.is_return_order, o.reason_refund, o.is_delete, o.created_at, o.updated_at`

const orderItemColumns = `id, order_id, product_id, variable_id, name, barcode, serial, quantity, sell_price, real_sell_price, type_product, position`

var orderListSpec = listSpec{
	alias: "o",
	search: []string{
		"o.customer_name ILIKE %[1]s", "o.customer_phone ILIKE %[1]s", "o.code ILIKE %[1]s",
		"EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND (oi.name ILIKE %[1]s OR oi.barcode ILIKE %[1]s OR oi.serial ILIKE %[1]s))",
	},
	statusCol: "payment_status",
	sortColumns: map[string]string{
		"createdAt":           "o.created_at",
		"totalAmount":         "o.total_amount",
		"totalAmountDiscount": "o.total_amount_discount",
		"customerDebt":        "o.customer_debt",
		"customerName":        "o.customer_name",
		"paymentStatus":       "o.payment_status",
	},
}

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// NextNumber reserva el siguiente número de la secuencia de órdenes.
func (r *OrderRepo) NextNumber() (int64, error) {
	var n int64
	if err := r.q.QueryRow(context.Background(), `SELECT nextval('orders_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera y sus líneas. Debe ejecutarse dentro de una transacción.
func (r *OrderRepo) Create(o *entity.Order) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (id, number, code, staff_id, customer_id, customer_name, customer_phone, customer_address,
			discount_type, discount_value, total_amount, total_amount_discount, total_cost_price, estimated_revenue,
			customer_paid, customer_debt, payment_status, is_return_order, reason_refund, is_delete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Number, o.Code, o.StaffID, nullable(o.CustomerID), o.CustomerName, o.CustomerPhone, o.CustomerAddress,
		o.DiscountType, o.DiscountValue, o.TotalAmount, o.TotalAmountDiscount, o.TotalCostPrice, o.EstimatedRevenue,
		o.CustomerPaid, o.CustomerDebt, o.PaymentStatus, o.IsReturnOrder, o.ReasonRefund, o.IsDelete, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i, it := range o.Items {
		it.OrderID = o.ID
		it.Position = i
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (`+orderItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, it.OrderID, it.ProductID, nullable(it.VariableID), it.Name, it.Barcode, nullable(it.Serial),
			it.Quantity, it.SellPrice, it.RealSellPrice, int(it.TypeProduct), it.Position,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var customerID *string
	err := row.Scan(&o.ID, &o.Number, &o.Code, &o.StaffID, &customerID, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerAddress, &o.DiscountType, &o.DiscountValue, &o.TotalAmount, &o.TotalAmountDiscount,
		&o.TotalCostPrice, &o.EstimatedRevenue, &o.CustomerPaid, &o.CustomerDebt, &o.PaymentStatus,
		&o.IsReturnOrder, &o.ReasonRefund, &o.IsDelete, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.CustomerID = deref(customerID)
	return &o, nil
}

func (r *OrderRepo) findOne(query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachItems([]*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID obtiene una orden con sus líneas (incluso eliminada).
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.findOne(`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)
}

// GetForUpdate bloquea la cabecera de la orden dentro de la tx.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.findOne(`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 FOR UPDATE`, id)
}

// attachItems carga las líneas de varias órdenes en una sola consulta.
func (r *OrderRepo) attachItems(orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return loadOrderItems(context.Background(), r.q, orders)
}

func loadOrderItems(ctx context.Context, q Querier, orders []*entity.Order) error {
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
		o.Items = nil
	}
	rows, err := q.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id::text = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		var variableID, serial *string
		var typeProduct int
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &variableID, &it.Name, &it.Barcode, &serial,
			&it.Quantity, &it.SellPrice, &it.RealSellPrice, &typeProduct, &it.Position); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		it.VariableID = deref(variableID)
		it.Serial = deref(serial)
		it.TypeProduct = entity.ProductType(typeProduct)
		if o := byID[it.OrderID]; o != nil {
			o.Items = append(o.Items, &it)
		}
	}
	return rows.Err()
}

// UpdateSettlement actualiza montos, estado de pago y banderas de devolución/eliminación.
func (r *OrderRepo) UpdateSettlement(o *entity.Order) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE orders SET total_cost_price = $2, estimated_revenue = $3, customer_paid = $4, customer_debt = $5,
			payment_status = $6, is_return_order = $7, reason_refund = $8, is_delete = $9, updated_at = $10
		WHERE id = $1`,
		o.ID, o.TotalCostPrice, o.EstimatedRevenue, o.CustomerPaid, o.CustomerDebt, o.PaymentStatus,
		o.IsReturnOrder, o.ReasonRefund, o.IsDelete, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes vigentes con filtro, total y líneas.
func (r *OrderRepo) List(f repository.ListFilter) ([]*entity.Order, int, error) {
	var w whereBuilder
	w.add("NOT o.is_delete")
	orderListSpec.apply(&w, f)

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM orders o`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	query := `SELECT ` + orderColumns + ` FROM orders o` + w.sql() + orderListSpec.orderAndPage(&w, f)
	rows, err := r.q.Query(context.Background(), query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
