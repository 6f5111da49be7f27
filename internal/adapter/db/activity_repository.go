package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

type ActivityRepository struct {
	db *sqlx.DB
}

type activityRow struct {
	ID          string         `db:"id"`
	ActorID     string         `db:"actor_id"`
	TaskID      string         `db:"task_id"`
	TaskNo      string         `db:"task_no"`
	Kind        string         `db:"kind"`
	Description string         `db:"description"`
	Metadata    sql.NullString `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
}

var (
	_ ports.ActivityLogger = (*ActivityRepository)(nil)
	_ ports.ActivityReader = (*ActivityRepository)(nil)
)

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Log(ctx context.Context, a domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	meta, err := encodeMetadata(a.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO task_activities (id, actor_id, task_id, task_no, kind, description, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ActorID, a.TaskID, a.TaskNo, string(a.Kind), a.Description, meta, dbTime(a.CreatedAt),
	)
	return err
}

func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	var rows []activityRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, actor_id, task_id, task_no, kind, description, metadata, created_at
		 FROM task_activities WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Activity{
			ID:          row.ID,
			ActorID:     row.ActorID,
			TaskID:      row.TaskID,
			TaskNo:      row.TaskNo,
			Kind:        domain.ActivityKind(row.Kind),
			Description: row.Description,
			Metadata:    decodeMetadata(row.Metadata),
			CreatedAt:   row.CreatedAt.UTC(),
		})
	}
	return out, nil
}
