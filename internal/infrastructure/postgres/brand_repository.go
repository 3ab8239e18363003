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

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo implementación de BrandRepository (usable con pool o tx).
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

// Create persiste una marca; nombre repetido -> ErrDuplicate.
func (r *BrandRepo) Create(b *entity.Brand) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO brands (id, name, is_delete, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.IsDelete, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

// GetByID obtiene una marca no eliminada.
func (r *BrandRepo) GetByID(id string) (*entity.Brand, error) {
	return r.findOne(`SELECT id, name, is_delete, created_at, updated_at FROM brands WHERE id = $1 AND NOT is_delete`, id)
}

// GetByName busca por nombre exacto (incluye eliminadas: el nombre sigue siendo único).
func (r *BrandRepo) GetByName(name string) (*entity.Brand, error) {
	return r.findOne(`SELECT id, name, is_delete, created_at, updated_at FROM brands WHERE name = $1`, name)
}

func (r *BrandRepo) findOne(query string, arg any) (*entity.Brand, error) {
	var b entity.Brand
	err := r.q.QueryRow(context.Background(), query, arg).Scan(&b.ID, &b.Name, &b.IsDelete, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

// Update renombra una marca.
func (r *BrandRepo) Update(b *entity.Brand) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE brands SET name = $2, updated_at = $3 WHERE id = $1 AND NOT is_delete`, b.ID, b.Name, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista marcas vigentes, más recientes primero.
func (r *BrandRepo) List() ([]*entity.Brand, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, is_delete, created_at, updated_at FROM brands WHERE NOT is_delete ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.IsDelete, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// SoftDelete marca la marca como eliminada.
func (r *BrandRepo) SoftDelete(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE brands SET is_delete = true, updated_at = now() WHERE id = $1 AND NOT is_delete`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
