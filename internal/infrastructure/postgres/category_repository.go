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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría; nombre repetido -> ErrDuplicate.
func (r *CategoryRepo) Create(b *entity.Category) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO categories (id, name, is_delete, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.IsDelete, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría no eliminada.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	return r.findOne(`SELECT id, name, is_delete, created_at, updated_at FROM categories WHERE id = $1 AND NOT is_delete`, id)
}

// GetByName busca por nombre exacto (incluye eliminadas: el nombre sigue siendo único).
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	return r.findOne(`SELECT id, name, is_delete, created_at, updated_at FROM categories WHERE name = $1`, name)
}

func (r *CategoryRepo) findOne(query string, arg any) (*entity.Category, error) {
	var b entity.Category
	err := r.q.QueryRow(context.Background(), query, arg).Scan(&b.ID, &b.Name, &b.IsDelete, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &b, nil
}

// Update renombra una categoría.
func (r *CategoryRepo) Update(b *entity.Category) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1 AND NOT is_delete`, b.ID, b.Name, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista categorías vigentes, más recientes primero.
func (r *CategoryRepo) List() ([]*entity.Category, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, is_delete, created_at, updated_at FROM categories WHERE NOT is_delete ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var b entity.Category
		if err := rows.Scan(&b.ID, &b.Name, &b.IsDelete, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// SoftDelete marca la categoría como eliminada.
func (r *CategoryRepo) SoftDelete(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE categories SET is_delete = true, updated_at = now() WHERE id = $1 AND NOT is_delete`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
