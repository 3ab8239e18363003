package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.name, p.barcode, p.cost_price, p.sell_price, p.stock, p.description, p.brand_id, p.category_id,
	p.is_variable, p.main_image, p.list_image, p.serials, p.is_serial, p.is_delete, p.created_at, p.updated_at`

var productListSpec = listSpec{
	alias: "p",
	search: []string{
		"p.name ILIKE %[1]s", "p.description ILIKE %[1]s", "p.barcode ILIKE %[1]s",
		"array_to_string(p.serials, ' ') ILIKE %[1]s",
	},
	sortColumns: map[string]string{
		"createdAt": "p.created_at",
		"updatedAt": "p.updated_at",
		"name":      "p.name",
		"barcode":   "p.barcode",
		"stock":     "p.stock",
		"sellPrice": "p.sell_price",
		"costPrice": "p.cost_price",
	},
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto (sin variantes; éstas se guardan aparte).
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, barcode, cost_price, sell_price, stock, description, brand_id, category_id,
			is_variable, main_image, list_image, serials, is_serial, is_delete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Barcode, p.CostPrice, p.SellPrice, p.Stock, p.Description, p.BrandID, p.CategoryID,
		p.IsVariable, p.MainImage, emptyIfNil(p.ListImage), emptyIfNil(p.Serials), p.IsSerial, p.IsDelete,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBarcodeTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.CostPrice, &p.SellPrice, &p.Stock, &p.Description,
		&p.BrandID, &p.CategoryID, &p.IsVariable, &p.MainImage, &p.ListImage, &p.Serials, &p.IsSerial,
		&p.IsDelete, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *ProductRepo) findOne(query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.findOne(`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); usar sólo dentro de una tx.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.findOne(`SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
}

// GetActiveByBarcode busca un producto vigente por código de barras, excluyendo excludeID.
func (r *ProductRepo) GetActiveByBarcode(barcode, excludeID string) (*entity.Product, error) {
	return r.findOne(`SELECT `+productColumns+` FROM products p
		WHERE p.barcode = $1 AND NOT p.is_delete AND ($2 = '' OR p.id::text <> $2) LIMIT 1`, barcode, excludeID)
}

// ListBarcodes devuelve los códigos de barras de productos vigentes.
func (r *ProductRepo) ListBarcodes() ([]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT barcode FROM products WHERE NOT is_delete`)
	if err != nil {
		return nil, fmt.Errorf("list barcodes: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ExistingIDs devuelve cuáles de los IDs existen (eliminados o no).
func (r *ProductRepo) ExistingIDs(ids []string) ([]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT id::text FROM products WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("existing products: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Update actualiza los datos editables del producto, incluidos agregados de precio y stock.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, cost_price = $4, sell_price = $5, stock = $6, description = $7,
			brand_id = $8, category_id = $9, is_variable = $10, main_image = $11, list_image = $12, serials = $13,
			is_serial = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Barcode, p.CostPrice, p.SellPrice, p.Stock, p.Description, p.BrandID, p.CategoryID,
		p.IsVariable, p.MainImage, emptyIfNil(p.ListImage), emptyIfNil(p.Serials), p.IsSerial, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBarcodeTaken
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija stock y seriales (usado por el motor de inventario).
func (r *ProductRepo) UpdateStock(id string, stock int, serials []string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, serials = $3, updated_at = now() WHERE id = $1`,
		id, stock, emptyIfNil(serials),
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (entrada de mercancía).
func (r *ProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// SetDeleted marca o desmarca la eliminación lógica de varios productos.
func (r *ProductRepo) SetDeleted(ids []string, deleted bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET is_delete = $2, updated_at = now() WHERE id::text = ANY($1)`, ids, deleted)
	if err != nil {
		if isUniqueViolation(err) {
			// restaurar un producto cuyo barcode ya usa otro vigente
			return domain.ErrBarcodeTaken
		}
		return fmt.Errorf("set product deleted: %w", err)
	}
	return nil
}

// List lista productos vigentes con filtro y total.
func (r *ProductRepo) List(f repository.ListFilter) ([]*entity.Product, int, error) {
	var w whereBuilder
	w.add("NOT p.is_delete")
	productListSpec.apply(&w, f)

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM products p`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	query := `SELECT ` + productColumns + ` FROM products p` + w.sql() + productListSpec.orderAndPage(&w, f)
	rows, err := r.q.Query(context.Background(), query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
