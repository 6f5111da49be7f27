package ports

import (
	"context"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

// NotificationSink delivers one notification on one channel.
type NotificationSink interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type ActivityLogger interface {
	Log(ctx context.Context, a domain.Activity) error
}

type ActivityReader interface {
	ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error)
}

// Inbox is the persisted notification list of each user.
type Inbox interface {
	NotificationSink
	List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

// EventDispatcher delivers transition events without blocking the caller.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []domain.Event)
}

// Cache invalidation contract; Get/Set serve read-through listings.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, pattern string) error
}

// NotificationService backs the inbox and device endpoints.
type NotificationService interface {
	List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
	RegisterDevice(ctx context.Context, actor domain.Actor, token string) error
}
