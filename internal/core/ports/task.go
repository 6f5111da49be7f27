package ports

import (
	"context"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/predicate"
)

// TaskQuery is one bounded read against a single table.
type TaskQuery struct {
	Where predicate.Expr
	Sort  domain.SortOrder
	Skip  int
	Limit int
}

// TaskRepository persists tasks in two tables sharing one identity space.
type TaskRepository interface {
	// Create inserts a pending task and a PENDING acceptance row per acceptor
	// atomically.
	Create(ctx context.Context, task domain.Task, acceptors ...string) error
	// Get looks a task up by id in both tables.
	Get(ctx context.Context, id string) (domain.Task, domain.Bucket, error)
	GetIn(ctx context.Context, bucket domain.Bucket, id string) (domain.Task, error)
	GetByTaskNo(ctx context.Context, bucket domain.Bucket, taskNo string) (domain.Task, error)
	// Update rewrites a pending-table row in place.
	Update(ctx context.Context, task domain.Task) error
	// Remind is Update plus reopening the acceptance rows of members, in one
	// transaction.
	Remind(ctx context.Context, task domain.Task, members []string) error
	Query(ctx context.Context, bucket domain.Bucket, q TaskQuery) ([]domain.Task, int, error)
	// Relocate inserts task into the destination table and deletes it from the
	// other one in a single transaction. A taskNo collision in the destination
	// returns domain.ErrDuplicateTaskNo.
	Relocate(ctx context.Context, task domain.Task, to domain.Bucket) error
	// Delete removes the row from bucket together with its acceptance rows.
	Delete(ctx context.Context, bucket domain.Bucket, id string) error
}

// AcceptanceLedger tracks group members' claims on group-targeted tasks.
type AcceptanceLedger interface {
	CreatePending(ctx context.Context, taskID string, userIDs []string) error
	Get(ctx context.Context, id string) (domain.Acceptance, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Acceptance, error)
	// Claim assigns the task to the acceptance owner when nobody else holds it,
	// marks the row ACCEPTED and rejects every sibling PENDING row. It returns
	// domain.ErrTaskAlreadyClaimed when another member won.
	Claim(ctx context.Context, acc domain.Acceptance) error
	// Release marks the row REJECTED and, when the owner currently holds the
	// task, clears assignee and worker and puts the task back to PENDING.
	Release(ctx context.Context, acc domain.Acceptance) (domain.ReleaseResult, error)
	// Reopen upserts the rows of userIDs back to PENDING.
	Reopen(ctx context.Context, taskID string, userIDs []string) error
	ListPendingForUser(ctx context.Context, userID string) ([]domain.PendingAcceptance, error)
}

type NumberGenerator interface {
	NextTaskNo(ctx context.Context) (string, error)
}

// Directory resolves people and groups owned by the organisation modules.
type Directory interface {
	GroupMembers(ctx context.Context, groupID string) ([]string, error)
	GroupsOf(ctx context.Context, userID string) ([]string, error)
	Contacts(ctx context.Context, userIDs []string) (map[string]domain.UserContact, error)
	DeviceTokens(ctx context.Context, userID string) ([]string, error)
	RegisterDevice(ctx context.Context, userID, token string) error
}

type TaskService interface {
	Create(ctx context.Context, actor domain.Actor, in domain.CreateTaskInput) (domain.Task, error)
	FindAll(ctx context.Context, actor domain.Actor, page domain.Pagination, filter domain.TaskFilter) (domain.TaskPage, error)
	FindByID(ctx context.Context, actor domain.Actor, id string) (domain.Task, error)
	Update(ctx context.Context, actor domain.Actor, id string, in domain.UpdateTaskInput) (domain.Task, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	SubmitForReview(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error)
	Reject(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error)
	Finalize(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error)
	Revert(ctx context.Context, actor domain.Actor, id string) (domain.Task, error)
	SendReminder(ctx context.Context, actor domain.Actor, id string) (domain.Task, error)
	UpdateAcceptance(ctx context.Context, actor domain.Actor, acceptanceID string, status domain.AcceptanceStatus) (domain.Task, error)
	PendingAcceptances(ctx context.Context, actor domain.Actor) ([]domain.PendingAcceptance, error)
	Activity(ctx context.Context, actor domain.Actor, id string) ([]domain.Activity, error)
}
