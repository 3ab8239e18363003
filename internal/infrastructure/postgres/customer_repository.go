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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `c.id, c.name, c.phone, c.address, c.email, c.is_active, c.is_delete, c.created_at, c.updated_at`

var customerListSpec = listSpec{
	alias:  "c",
	search: []string{"c.name ILIKE %[1]s", "c.phone ILIKE %[1]s", "c.email ILIKE %[1]s", "c.address ILIKE %[1]s"},
	sortColumns: map[string]string{
		"createdAt": "c.created_at",
		"name":      "c.name",
		"phone":     "c.phone",
	},
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente; teléfono repetido -> ErrDuplicate.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, address, email, is_active, is_delete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.Phone, c.Address, c.Email, c.IsActive, c.IsDelete, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente vigente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.findOne(`SELECT `+customerColumns+` FROM customers c WHERE c.id = $1 AND NOT c.is_delete`, id)
}

// GetByPhone obtiene un cliente vigente por teléfono.
func (r *CustomerRepo) GetByPhone(phone string) (*entity.Customer, error) {
	return r.findOne(`SELECT `+customerColumns+` FROM customers c WHERE c.phone = $1 AND NOT c.is_delete`, phone)
}

func (r *CustomerRepo) findOne(query string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email, &c.IsActive, &c.IsDelete, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

// Update actualiza datos de contacto.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE customers SET name = $2, phone = $3, address = $4, email = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND NOT is_delete`,
		c.ID, c.Name, c.Phone, c.Address, c.Email, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el cliente como eliminado.
func (r *CustomerRepo) SoftDelete(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE customers SET is_delete = true, updated_at = now() WHERE id = $1 AND NOT is_delete`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes vigentes con filtro y total.
func (r *CustomerRepo) List(f repository.ListFilter) ([]*entity.Customer, int, error) {
	var w whereBuilder
	w.add("NOT c.is_delete")
	customerListSpec.apply(&w, f)

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM customers c`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	query := `SELECT ` + customerColumns + ` FROM customers c` + w.sql() + customerListSpec.orderAndPage(&w, f)
	rows, err := r.q.Query(context.Background(), query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}
