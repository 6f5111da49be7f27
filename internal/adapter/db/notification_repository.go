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

// NotificationRepository is the in-app inbox channel.
type NotificationRepository struct {
	db *sqlx.DB
}

type notificationRow struct {
	ID          string         `db:"id"`
	RecipientID string         `db:"recipient_id"`
	Type        string         `db:"type"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Metadata    sql.NullString `db:"metadata"`
	IsRead      bool           `db:"is_read"`
	CreatedAt   time.Time      `db:"created_at"`
}

var _ ports.Inbox = (*NotificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Notify(ctx context.Context, n domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	meta, err := encodeMetadata(n.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, recipient_id, type, title, description, metadata, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, string(n.Type), n.Title, n.Description, meta, false, dbTime(n.CreatedAt),
	)
	return err
}

func (r *NotificationRepository) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > domain.MaxPageLimit {
		limit = domain.DefaultPageLimit
	}
	query := `SELECT id, recipient_id, type, title, description, metadata, is_read, created_at
		FROM notifications WHERE recipient_id = ?`
	args := []any{recipientID}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Notification{
			ID:          row.ID,
			RecipientID: row.RecipientID,
			Type:        domain.NotificationType(row.Type),
			Title:       row.Title,
			Description: row.Description,
			Metadata:    decodeMetadata(row.Metadata),
			Read:        row.IsRead,
			CreatedAt:   row.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = ? WHERE id = ? AND recipient_id = ?`, true, id, recipientID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM notifications WHERE id = ? AND recipient_id = ?`, id, recipientID); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFound("notification %s not found", id)
		}
	}
	return nil
}
