package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ordering"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

const (
	pendingTable   = "pending_tasks"
	completedTable = "completed_tasks"
)

const taskColumns = `id, task_no, title, priority, note, status, deadline, documents, remark,
  is_self_task, project_id, created_by, assigned_to, working_by, target_team_id, target_group_id,
  created_at, updated_at, completed_at, edit_times, reminder_times, review_times`

const selectTaskQuery = `
SELECT
  t.id, t.task_no, t.title, t.priority, t.note, t.status, t.deadline, t.documents, t.remark,
  t.is_self_task, t.project_id, t.created_by, t.assigned_to, t.working_by, t.target_team_id,
  t.target_group_id, t.created_at, t.updated_at, t.completed_at, t.edit_times, t.reminder_times,
  t.review_times,
  uc.name AS creator_name,
  ua.name AS assignee_name,
  p.name AS project_name,
  p.code AS project_code
FROM %s t
LEFT JOIN users uc ON uc.id = t.created_by
LEFT JOIN users ua ON ua.id = t.assigned_to
LEFT JOIN projects p ON p.id = t.project_id`

const fromTaskQuery = `
FROM %s t
LEFT JOIN users uc ON uc.id = t.created_by
LEFT JOIN users ua ON ua.id = t.assigned_to
LEFT JOIN projects p ON p.id = t.project_id`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID            string         `db:"id"`
	TaskNo        string         `db:"task_no"`
	Title         string         `db:"title"`
	Priority      string         `db:"priority"`
	Note          sql.NullString `db:"note"`
	Status        string         `db:"status"`
	Deadline      sql.NullTime   `db:"deadline"`
	Documents     sql.NullString `db:"documents"`
	Remark        sql.NullString `db:"remark"`
	IsSelfTask    bool           `db:"is_self_task"`
	ProjectID     sql.NullString `db:"project_id"`
	CreatedBy     string         `db:"created_by"`
	AssignedTo    sql.NullString `db:"assigned_to"`
	WorkingBy     sql.NullString `db:"working_by"`
	TargetTeamID  sql.NullString `db:"target_team_id"`
	TargetGroupID sql.NullString `db:"target_group_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	CompletedAt   sql.NullTime   `db:"completed_at"`
	EditTimes     sql.NullString `db:"edit_times"`
	ReminderTimes sql.NullString `db:"reminder_times"`
	ReviewTimes   sql.NullString `db:"review_times"`
	CreatorName   sql.NullString `db:"creator_name"`
	AssigneeName  sql.NullString `db:"assignee_name"`
	ProjectName   sql.NullString `db:"project_name"`
	ProjectCode   sql.NullString `db:"project_code"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func tableOf(bucket domain.Bucket) string {
	if bucket == domain.BucketCompleted {
		return completedTable
	}
	return pendingTable
}

// Create inserts task into the pending table together with a PENDING
// acceptance row per acceptor. Either both land or neither does.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task, acceptors ...string) error {
	if len(acceptors) == 0 {
		return insertTask(ctx, r.db, pendingTable, task)
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertTask(ctx, tx, pendingTable, task); err != nil {
			return err
		}
		return insertPendingAcceptances(ctx, tx, task.ID, acceptors, task.CreatedAt)
	})
}

func insertTask(ctx context.Context, exec sqlx.ExecerContext, table string, task domain.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, taskColumns, strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", "),
	)
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTaskNo
		}
		return err
	}
	return nil
}

func taskArgs(task domain.Task) ([]any, error) {
	editTimes, err := encodeTimestamps(task.EditTimes)
	if err != nil {
		return nil, err
	}
	reminderTimes, err := encodeTimestamps(task.ReminderTimes)
	if err != nil {
		return nil, err
	}
	reviewTimes, err := encodeTimestamps(task.ReviewTimes)
	if err != nil {
		return nil, err
	}

	documents, err := encodeDocuments(task.Documents)
	if err != nil {
		return nil, err
	}

	return []any{
		task.ID,
		task.TaskNo,
		task.Title,
		string(task.Priority),
		nullString(task.Note),
		string(task.Status),
		nullTime(task.Deadline),
		documents,
		nullString(task.Remark),
		task.IsSelfTask,
		nullString(task.ProjectID),
		task.CreatedBy,
		nullString(task.AssignedTo),
		nullString(task.WorkingBy),
		nullString(task.TargetTeamID),
		nullString(task.TargetGroupID),
		dbTime(task.CreatedAt),
		dbTime(task.UpdatedAt),
		nullTime(task.CompletedAt),
		editTimes,
		reminderTimes,
		reviewTimes,
	}, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (domain.Task, domain.Bucket, error) {
	task, err := r.GetIn(ctx, domain.BucketPending, id)
	if err == nil {
		return task, domain.BucketPending, nil
	}
	if !errors.Is(err, domain.ErrTaskNotFound) {
		return domain.Task{}, "", err
	}

	task, err = r.GetIn(ctx, domain.BucketCompleted, id)
	if err != nil {
		return domain.Task{}, "", err
	}
	return task, domain.BucketCompleted, nil
}

func (r *TaskRepository) GetIn(ctx context.Context, bucket domain.Bucket, id string) (domain.Task, error) {
	return r.getOne(ctx, bucket, "t.id = ?", id)
}

func (r *TaskRepository) GetByTaskNo(ctx context.Context, bucket domain.Bucket, taskNo string) (domain.Task, error) {
	return r.getOne(ctx, bucket, "t.task_no = ?", taskNo)
}

func (r *TaskRepository) getOne(ctx context.Context, bucket domain.Bucket, cond string, arg any) (domain.Task, error) {
	query := fmt.Sprintf(selectTaskQuery, tableOf(bucket)) + " WHERE " + cond

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRowToDomainTask(row)
}

const updateTaskQuery = `
UPDATE pending_tasks SET
  title = ?, priority = ?, note = ?, status = ?, deadline = ?, documents = ?, remark = ?,
  project_id = ?, assigned_to = ?, working_by = ?, target_team_id = ?, target_group_id = ?,
  updated_at = ?, edit_times = ?, reminder_times = ?, review_times = ?
WHERE id = ?`

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	return updateTask(ctx, r.db, task)
}

// Remind rewrites task and reopens the acceptance rows of members in one
// transaction.
func (r *TaskRepository) Remind(ctx context.Context, task domain.Task, members []string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := reopenAcceptances(ctx, tx, task.ID, members, task.UpdatedAt); err != nil {
			return err
		}
		return updateTask(ctx, tx, task)
	})
}

func updateTask(ctx context.Context, ext sqlx.ExtContext, task domain.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	// taskArgs follows taskColumns; pick the mutable ones.
	res, err := ext.ExecContext(ctx, updateTaskQuery,
		args[2], args[3], args[4], args[5], args[6], args[7], args[8],
		args[10], args[12], args[13], args[14], args[15],
		args[17], args[19], args[20], args[21],
		task.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	// MySQL reports 0 for rows matched but unchanged.
	var exists int
	if err := sqlx.GetContext(ctx, ext, &exists, "SELECT COUNT(*) FROM pending_tasks WHERE id = ?", task.ID); err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Query(ctx context.Context, bucket domain.Bucket, q ports.TaskQuery) ([]domain.Task, int, error) {
	where, args, err := sqlWhere(q.Where)
	if err != nil {
		return nil, 0, err
	}
	from := fmt.Sprintf(fromTaskQuery, tableOf(bucket))
	if q.Skip < 0 {
		q.Skip = 0
	}

	if q.Sort.Field == domain.SortTitle {
		return r.queryByCollation(ctx, bucket, from, where, args, q)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+from+" WHERE "+where, args...); err != nil {
		return nil, 0, err
	}
	if total == 0 || q.Skip >= total {
		return []domain.Task{}, total, nil
	}

	query := fmt.Sprintf(selectTaskQuery, tableOf(bucket)) +
		" WHERE " + where +
		" ORDER BY " + orderClause(q.Sort) +
		" LIMIT ? OFFSET ?"
	pageArgs := append(slices.Clone(args), q.Limit, q.Skip)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, pageArgs...); err != nil {
		return nil, 0, err
	}
	tasks, err := mapTaskRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// queryByCollation orders titles with the natural collation used by the merge,
// which SQL collations cannot express portably: keys are sorted in process and
// only the requested window is loaded in full.
func (r *TaskRepository) queryByCollation(
	ctx context.Context,
	bucket domain.Bucket,
	from, where string,
	args []any,
	q ports.TaskQuery,
) ([]domain.Task, int, error) {
	var keys []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}
	if err := r.db.SelectContext(ctx, &keys, "SELECT t.id, t.title"+from+" WHERE "+where, args...); err != nil {
		return nil, 0, err
	}

	stubs := make([]domain.Task, 0, len(keys))
	for _, k := range keys {
		stubs = append(stubs, domain.Task{ID: k.ID, Title: k.Title})
	}
	window := ordering.Merge(q.Sort, q.Skip, q.Limit, stubs)
	if len(window) == 0 {
		return []domain.Task{}, len(keys), nil
	}

	ids := make([]any, 0, len(window))
	position := make(map[string]int, len(window))
	for i, t := range window {
		ids = append(ids, t.ID)
		position[t.ID] = i
	}
	query := fmt.Sprintf(selectTaskQuery, tableOf(bucket)) +
		" WHERE t.id IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ") + ")"

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, ids...); err != nil {
		return nil, 0, err
	}
	tasks, err := mapTaskRows(rows)
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(tasks, func(a, b domain.Task) int { return position[a.ID] - position[b.ID] })
	return tasks, len(keys), nil
}

func orderClause(order domain.SortOrder) string {
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}

	var expr string
	switch order.Field {
	case domain.SortDeadline:
		return "(t.deadline IS NULL) ASC, t.deadline " + dir + ", t.id ASC"
	case domain.SortCompletedAt:
		return "(t.completed_at IS NULL) ASC, t.completed_at " + dir + ", t.id ASC"
	case domain.SortTaskNo:
		expr = "t.task_no"
	case domain.SortStatus:
		expr = "t.status"
	case domain.SortPriority:
		expr = "CASE t.priority WHEN 'LOW' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'HIGH' THEN 3 WHEN 'URGENT' THEN 4 ELSE 0 END"
	default:
		expr = "t.created_at"
	}
	return expr + " " + dir + ", t.id ASC"
}

func (r *TaskRepository) Relocate(ctx context.Context, task domain.Task, to domain.Bucket) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertTask(ctx, tx, tableOf(to), task); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM "+tableOf(to.Other())+" WHERE id = ?", task.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrTaskNotFound
		}
		return nil
	})
}

func (r *TaskRepository) Delete(ctx context.Context, bucket domain.Bucket, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+tableOf(bucket)+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrTaskNotFound
		}
		// Acceptances belong to the pending row; keep them while it exists.
		_, err = tx.ExecContext(ctx,
			"DELETE FROM task_acceptances WHERE task_id = ? AND NOT EXISTS (SELECT 1 FROM pending_tasks WHERE id = ?)",
			id, id)
		return err
	})
}

func mapTaskRows(rows []taskRow) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func mapTaskRowToDomainTask(row taskRow) (domain.Task, error) {
	task := domain.Task{
		ID:            row.ID,
		TaskNo:        row.TaskNo,
		Title:         row.Title,
		Priority:      domain.TaskPriority(row.Priority),
		Note:          stringPtr(row.Note),
		Status:        domain.TaskStatus(row.Status),
		Deadline:      timePtr(row.Deadline),
		Remark:        stringPtr(row.Remark),
		IsSelfTask:    row.IsSelfTask,
		ProjectID:     stringPtr(row.ProjectID),
		CreatedBy:     row.CreatedBy,
		AssignedTo:    stringPtr(row.AssignedTo),
		WorkingBy:     stringPtr(row.WorkingBy),
		TargetTeamID:  stringPtr(row.TargetTeamID),
		TargetGroupID: stringPtr(row.TargetGroupID),
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
		CompletedAt:   timePtr(row.CompletedAt),
		CreatorName:   stringPtr(row.CreatorName),
		AssigneeName:  stringPtr(row.AssigneeName),
		ProjectName:   stringPtr(row.ProjectName),
		ProjectCode:   stringPtr(row.ProjectCode),
	}
	var err error
	if task.Documents, err = decodeDocuments(row.Documents); err != nil {
		return domain.Task{}, fmt.Errorf("task %s documents: %w", row.ID, err)
	}
	if task.EditTimes, err = decodeTimestamps(row.EditTimes); err != nil {
		return domain.Task{}, fmt.Errorf("task %s edit_times: %w", row.ID, err)
	}
	if task.ReminderTimes, err = decodeTimestamps(row.ReminderTimes); err != nil {
		return domain.Task{}, fmt.Errorf("task %s reminder_times: %w", row.ID, err)
	}
	if task.ReviewTimes, err = decodeTimestamps(row.ReviewTimes); err != nil {
		return domain.Task{}, fmt.Errorf("task %s review_times: %w", row.ID, err)
	}
	return task, nil
}

// withTx runs fn in a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
