package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

type AcceptanceRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type acceptanceRow struct {
	ID        string    `db:"id"`
	TaskID    string    `db:"task_id"`
	UserID    string    `db:"user_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var _ ports.AcceptanceLedger = (*AcceptanceRepository)(nil)

func NewAcceptanceRepository(db *sqlx.DB) *AcceptanceRepository {
	return &AcceptanceRepository{db: db, now: time.Now}
}

func (r *AcceptanceRepository) CreatePending(ctx context.Context, taskID string, userIDs []string) error {
	now := r.now()
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return insertPendingAcceptances(ctx, tx, taskID, userIDs, now)
	})
}

// insertPendingAcceptances adds a PENDING row per user. Rows that already exist
// are left alone.
func insertPendingAcceptances(ctx context.Context, exec sqlx.ExecerContext, taskID string, userIDs []string, at time.Time) error {
	now := dbTime(at)
	for _, userID := range userIDs {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO task_acceptances (id, task_id, user_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), taskID, userID, string(domain.AcceptancePending), now, now,
		)
		if err != nil && !isUniqueViolation(err) {
			return err
		}
	}
	return nil
}

func (r *AcceptanceRepository) Get(ctx context.Context, id string) (domain.Acceptance, error) {
	var row acceptanceRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, task_id, user_id, status, created_at, updated_at FROM task_acceptances WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Acceptance{}, domain.ErrAcceptanceNotFound
		}
		return domain.Acceptance{}, err
	}
	return mapAcceptanceRow(row), nil
}

func (r *AcceptanceRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Acceptance, error) {
	var rows []acceptanceRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, task_id, user_id, status, created_at, updated_at
		 FROM task_acceptances WHERE task_id = ? ORDER BY created_at, user_id`, taskID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Acceptance, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAcceptanceRow(row))
	}
	return out, nil
}

// Claim is a compare-and-swap on assigned_to: the first member to commit wins
// and every later claim observes a foreign assignee.
func (r *AcceptanceRepository) Claim(ctx context.Context, acc domain.Acceptance) error {
	now := dbTime(r.now())
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE pending_tasks SET assigned_to = ?, working_by = NULL, updated_at = ?
			 WHERE id = ? AND (assigned_to IS NULL OR assigned_to = ?)`,
			acc.UserID, now, acc.TaskID, acc.UserID,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			var assignee sql.NullString
			err := tx.GetContext(ctx, &assignee, `SELECT assigned_to FROM pending_tasks WHERE id = ?`, acc.TaskID)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrTaskNotFound
			}
			if err != nil {
				return err
			}
			if !assignee.Valid || assignee.String != acc.UserID {
				return domain.ErrTaskAlreadyClaimed
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE task_acceptances SET status = ?, updated_at = ? WHERE id = ?`,
			string(domain.AcceptanceAccepted), now, acc.ID,
		); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE task_acceptances SET status = ?, updated_at = ?
			 WHERE task_id = ? AND id <> ? AND status = ?`,
			string(domain.AcceptanceRejected), now, acc.TaskID, acc.ID, string(domain.AcceptancePending),
		)
		return err
	})
}

func (r *AcceptanceRepository) Release(ctx context.Context, acc domain.Acceptance) (domain.ReleaseResult, error) {
	now := dbTime(r.now())
	var result domain.ReleaseResult
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE task_acceptances SET status = ?, updated_at = ? WHERE id = ?`,
			string(domain.AcceptanceRejected), now, acc.ID,
		); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE pending_tasks SET assigned_to = NULL, working_by = NULL, status = ?, updated_at = ?
			 WHERE id = ? AND assigned_to = ?`,
			string(domain.TaskStatusPending), now, acc.TaskID, acc.UserID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		result.WasAssignee = n > 0
		return nil
	})
	return result, err
}

// Reopen puts each member's row back to PENDING, inserting rows that are missing.
func (r *AcceptanceRepository) Reopen(ctx context.Context, taskID string, userIDs []string) error {
	now := r.now()
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return reopenAcceptances(ctx, tx, taskID, userIDs, now)
	})
}

func reopenAcceptances(ctx context.Context, exec sqlx.ExecerContext, taskID string, userIDs []string, at time.Time) error {
	now := dbTime(at)
	var missing []string
	for _, userID := range userIDs {
		res, err := exec.ExecContext(ctx,
			`UPDATE task_acceptances SET status = ?, updated_at = ? WHERE task_id = ? AND user_id = ?`,
			string(domain.AcceptancePending), now, taskID, userID,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			continue
		}
		missing = append(missing, userID)
	}
	return insertPendingAcceptances(ctx, exec, taskID, missing, at)
}

const pendingForUserQuery = `
SELECT
  a.id AS acceptance_id, a.user_id AS acceptance_user_id, a.status AS acceptance_status,
  a.created_at AS acceptance_created_at, a.updated_at AS acceptance_updated_at,
  t.id, t.task_no, t.title, t.priority, t.note, t.status, t.deadline, t.documents, t.remark,
  t.is_self_task, t.project_id, t.created_by, t.assigned_to, t.working_by, t.target_team_id,
  t.target_group_id, t.created_at, t.updated_at, t.completed_at, t.edit_times, t.reminder_times,
  t.review_times,
  uc.name AS creator_name,
  ua.name AS assignee_name,
  p.name AS project_name,
  p.code AS project_code
FROM task_acceptances a
JOIN pending_tasks t ON t.id = a.task_id
LEFT JOIN users uc ON uc.id = t.created_by
LEFT JOIN users ua ON ua.id = t.assigned_to
LEFT JOIN projects p ON p.id = t.project_id
WHERE a.user_id = ? AND a.status = ?
ORDER BY a.created_at DESC, a.id`

type pendingAcceptanceRow struct {
	taskRow
	AcceptanceID        string    `db:"acceptance_id"`
	AcceptanceUserID    string    `db:"acceptance_user_id"`
	AcceptanceStatus    string    `db:"acceptance_status"`
	AcceptanceCreatedAt time.Time `db:"acceptance_created_at"`
	AcceptanceUpdatedAt time.Time `db:"acceptance_updated_at"`
}

// ListPendingForUser returns the open claim prompts of userID together with
// their tasks. Prompts of tasks that left the pending table are skipped.
func (r *AcceptanceRepository) ListPendingForUser(ctx context.Context, userID string) ([]domain.PendingAcceptance, error) {
	var rows []pendingAcceptanceRow
	if err := r.db.SelectContext(ctx, &rows, pendingForUserQuery, userID, string(domain.AcceptancePending)); err != nil {
		return nil, err
	}

	out := make([]domain.PendingAcceptance, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row.taskRow)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PendingAcceptance{
			Acceptance: mapAcceptanceRow(acceptanceRow{
				ID:        row.AcceptanceID,
				TaskID:    row.ID,
				UserID:    row.AcceptanceUserID,
				Status:    row.AcceptanceStatus,
				CreatedAt: row.AcceptanceCreatedAt,
				UpdatedAt: row.AcceptanceUpdatedAt,
			}),
			Task: task,
		})
	}
	return out, nil
}

func mapAcceptanceRow(row acceptanceRow) domain.Acceptance {
	return domain.Acceptance{
		ID:        row.ID,
		TaskID:    row.TaskID,
		UserID:    row.UserID,
		Status:    domain.AcceptanceStatus(row.Status),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
