package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.VariableRepository = (*VariableRepo)(nil)

const variableColumns = `id, product_id, attributes, cost_price, sell_price, stock, description, main_image, list_image,
	is_serial, serials, is_delete, created_at, updated_at`

// VariableRepo implementación de VariableRepository (usable con pool o tx).
type VariableRepo struct {
	q Querier
}

// NewVariableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariableRepository(q Querier) *VariableRepo {
	return &VariableRepo{q: q}
}

// Create persiste una variante. Los atributos se guardan como JSONB.
func (r *VariableRepo) Create(v *entity.Variable) error {
	attrs, err := json.Marshal(v.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	_, err = r.q.Exec(context.Background(), `
		INSERT INTO variables (`+variableColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		v.ID, nullable(v.ProductID), attrs, v.CostPrice, v.SellPrice, v.Stock, v.Description, v.MainImage,
		emptyIfNil(v.ListImage), v.IsSerial, emptyIfNil(v.Serials), v.IsDelete, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert variable: %w", err)
	}
	return nil
}

func scanVariable(row pgx.Row) (*entity.Variable, error) {
	var v entity.Variable
	var productID *string
	var attrs []byte
	err := row.Scan(&v.ID, &productID, &attrs, &v.CostPrice, &v.SellPrice, &v.Stock, &v.Description,
		&v.MainImage, &v.ListImage, &v.IsSerial, &v.Serials, &v.IsDelete, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ProductID = deref(productID)
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &v.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}
	return &v, nil
}

func (r *VariableRepo) findOne(query, id string) (*entity.Variable, error) {
	v, err := scanVariable(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variable: %w", err)
	}
	return v, nil
}

// GetByID obtiene una variante por ID (incluso eliminada).
func (r *VariableRepo) GetByID(id string) (*entity.Variable, error) {
	return r.findOne(`SELECT `+variableColumns+` FROM variables WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la variante dentro de la tx.
func (r *VariableRepo) GetForUpdate(id string) (*entity.Variable, error) {
	return r.findOne(`SELECT `+variableColumns+` FROM variables WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza todos los campos editables de la variante.
func (r *VariableRepo) Update(v *entity.Variable) error {
	attrs, err := json.Marshal(v.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE variables SET product_id = $2, attributes = $3, cost_price = $4, sell_price = $5, stock = $6,
			description = $7, main_image = $8, list_image = $9, is_serial = $10, serials = $11, updated_at = $12
		WHERE id = $1`,
		v.ID, nullable(v.ProductID), attrs, v.CostPrice, v.SellPrice, v.Stock, v.Description, v.MainImage,
		emptyIfNil(v.ListImage), v.IsSerial, emptyIfNil(v.Serials), v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update variable: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija stock y seriales de la variante.
func (r *VariableRepo) UpdateStock(id string, stock int, serials []string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE variables SET stock = $2, serials = $3, updated_at = now() WHERE id = $1`, id, stock, emptyIfNil(serials))
	if err != nil {
		return fmt.Errorf("update variable stock: %w", err)
	}
	return nil
}

// UpdateCost actualiza el costo de la variante.
func (r *VariableRepo) UpdateCost(id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE variables SET cost_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update variable cost: %w", err)
	}
	return nil
}

// SetDeleted marca o desmarca la eliminación lógica.
func (r *VariableRepo) SetDeleted(id string, deleted bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE variables SET is_delete = $2, updated_at = now() WHERE id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("set variable deleted: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct lista las variantes de un producto en orden de creación.
func (r *VariableRepo) ListByProduct(productID string) ([]*entity.Variable, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+variableColumns+` FROM variables WHERE product_id = $1 ORDER BY created_at, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variable
	for rows.Next() {
		v, err := scanVariable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
