package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

const (
	taskSequence = "task"
	taskNoFormat = "TASK-%06d"
)

// SequenceRepository hands out task numbers from a counter row. The row lock
// taken by the UPDATE serialises concurrent callers until commit.
type SequenceRepository struct {
	db *sqlx.DB
}

var _ ports.NumberGenerator = (*SequenceRepository)(nil)

func NewSequenceRepository(db *sqlx.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

func (r *SequenceRepository) NextTaskNo(ctx context.Context) (string, error) {
	var value int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE task_sequences SET value = value + 1 WHERE name = ?`, taskSequence)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			_, err := tx.ExecContext(ctx, `INSERT INTO task_sequences (name, value) VALUES (?, 1)`, taskSequence)
			if isUniqueViolation(err) {
				_, err = tx.ExecContext(ctx, `UPDATE task_sequences SET value = value + 1 WHERE name = ?`, taskSequence)
			}
			if err != nil {
				return err
			}
		}
		return tx.GetContext(ctx, &value, `SELECT value FROM task_sequences WHERE name = ?`, taskSequence)
	})
	if err != nil {
		return "", fmt.Errorf("next task number: %w", err)
	}
	return fmt.Sprintf(taskNoFormat, value), nil
}
