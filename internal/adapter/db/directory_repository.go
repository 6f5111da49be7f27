package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

// DirectoryRepository reads the user, group and device tables maintained by
// the organisation modules.
type DirectoryRepository struct {
	db *sqlx.DB
}

var _ ports.Directory = (*DirectoryRepository)(nil)

func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GroupMembers(ctx context.Context, groupID string) ([]string, error) {
	members := []string{}
	err := r.db.SelectContext(ctx, &members,
		`SELECT user_id FROM user_group_members WHERE group_id = ? ORDER BY user_id`, groupID)
	return members, err
}

func (r *DirectoryRepository) GroupsOf(ctx context.Context, userID string) ([]string, error) {
	groups := []string{}
	err := r.db.SelectContext(ctx, &groups,
		`SELECT group_id FROM user_group_members WHERE user_id = ? ORDER BY group_id`, userID)
	return groups, err
}

type contactRow struct {
	ID    string         `db:"id"`
	Name  string         `db:"name"`
	Email sql.NullString `db:"email"`
}

func (r *DirectoryRepository) Contacts(ctx context.Context, userIDs []string) (map[string]domain.UserContact, error) {
	out := make(map[string]domain.UserContact, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		args = append(args, id)
	}
	query := `SELECT id, name, email FROM users WHERE id IN (` +
		strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ") + `)`

	var rows []contactRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = domain.UserContact{ID: row.ID, Name: row.Name, Email: stringPtr(row.Email)}
	}
	return out, nil
}

func (r *DirectoryRepository) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	tokens := []string{}
	err := r.db.SelectContext(ctx, &tokens,
		`SELECT token FROM user_devices WHERE user_id = ? ORDER BY created_at DESC`, userID)
	return tokens, err
}

func (r *DirectoryRepository) RegisterDevice(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_devices (user_id, token, created_at) VALUES (?, ?, ?)`,
		userID, token, dbTime(time.Now()))
	if isUniqueViolation(err) {
		return nil
	}
	return err
}
