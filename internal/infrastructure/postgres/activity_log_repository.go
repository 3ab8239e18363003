package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

const activityLogColumns = `a.id, a.user_id, COALESCE(u.name, ''), a.action, a.message, a.ref_id, a.ref_type, a.metadata, a.created_at`

// ActivityLogRepo implementación de ActivityLogRepository (usable con pool o tx).
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create registra una entrada en la bitácora.
func (r *ActivityLogRepo) Create(l *entity.ActivityLog) error {
	metadata := l.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO activity_logs (id, user_id, action, message, ref_id, ref_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.UserID, l.Action, l.Message, nullable(l.RefID), l.RefType, string(metadata), l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func scanActivityLog(row pgx.Row) (*entity.ActivityLog, error) {
	var l entity.ActivityLog
	var refID *string
	var metadata []byte
	if err := row.Scan(&l.ID, &l.UserID, &l.UserName, &l.Action, &l.Message, &refID, &l.RefType, &metadata, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.RefID = deref(refID)
	l.Metadata = metadata
	return &l, nil
}

// GetByID obtiene una entrada con el nombre del usuario.
func (r *ActivityLogRepo) GetByID(id string) (*entity.ActivityLog, error) {
	l, err := scanActivityLog(r.q.QueryRow(context.Background(),
		`SELECT `+activityLogColumns+` FROM activity_logs a LEFT JOIN users u ON u.id = a.user_id WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity log: %w", err)
	}
	return l, nil
}

// List devuelve la bitácora más reciente primero y el total de entradas.
func (r *ActivityLogRepo) List(limit, offset int) ([]*entity.ActivityLog, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+activityLogColumns+`
		FROM activity_logs a LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		l, err := scanActivityLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}
