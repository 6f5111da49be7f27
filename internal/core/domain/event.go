package domain

import "time"

type EventKind string

const (
	EventNotify   EventKind = "notify"
	EventActivity EventKind = "activity"
)

type NotificationType string

const (
	NotifyTaskAssigned       NotificationType = "TASK_ASSIGNED"
	NotifyTaskSubmitted      NotificationType = "TASK_SUBMITTED"
	NotifyTaskRejected       NotificationType = "TASK_REJECTED"
	NotifyTaskCompleted      NotificationType = "TASK_COMPLETED"
	NotifyTaskReverted       NotificationType = "TASK_REVERTED"
	NotifyTaskReminder       NotificationType = "TASK_REMINDER"
	NotifyTaskUpdated        NotificationType = "TASK_UPDATED"
	NotifyTaskStatusChanged  NotificationType = "TASK_STATUS_CHANGED"
	NotifyTaskRemarkAdded    NotificationType = "TASK_REMARK_ADDED"
	NotifyAcceptanceAccepted NotificationType = "ACCEPTANCE_ACCEPTED"
	NotifyAcceptanceRejected NotificationType = "ACCEPTANCE_REJECTED"
	NotifyGroupSlotClosed    NotificationType = "GROUP_SLOT_CLOSED"
	NotifyGroupTaskAvailable NotificationType = "GROUP_TASK_AVAILABLE"
	NotifyTaskDeleted        NotificationType = "TASK_DELETED"
)

type ActivityKind string

const (
	ActivityTaskCreated        ActivityKind = "TASK_CREATED"
	ActivityTaskUpdated        ActivityKind = "TASK_UPDATED"
	ActivityTaskSubmitted      ActivityKind = "TASK_SUBMITTED"
	ActivityTaskRejected       ActivityKind = "TASK_REJECTED"
	ActivityTaskCompleted      ActivityKind = "TASK_COMPLETED"
	ActivityTaskReverted       ActivityKind = "TASK_REVERTED"
	ActivityTaskReminded       ActivityKind = "TASK_REMINDED"
	ActivityTaskDeleted        ActivityKind = "TASK_DELETED"
	ActivityAcceptanceAccepted ActivityKind = "ACCEPTANCE_ACCEPTED"
	ActivityAcceptanceRejected ActivityKind = "ACCEPTANCE_REJECTED"
)

// Notification is addressed to one recipient.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Description string
	Metadata    map[string]string
	Read        bool
	CreatedAt   time.Time
}

type Activity struct {
	ID          string
	ActorID     string
	TaskID      string
	TaskNo      string
	Kind        ActivityKind
	Description string
	Metadata    map[string]string
	CreatedAt   time.Time
}

// Event is a side effect requested by a transition. Exactly one payload is set,
// matching Kind.
type Event struct {
	Kind         EventKind
	Notification *Notification
	Activity     *Activity
}

func NotifyEvent(n Notification) Event {
	return Event{Kind: EventNotify, Notification: &n}
}

func ActivityEvent(a Activity) Event {
	return Event{Kind: EventActivity, Activity: &a}
}

// Outcome is what every lifecycle transition returns.
type Outcome struct {
	Task   Task
	Events []Event
}

// Notifications returns the notification payloads among the events.
func (o Outcome) Notifications() []Notification {
	var out []Notification
	for _, ev := range o.Events {
		if ev.Kind == EventNotify && ev.Notification != nil {
			out = append(out, *ev.Notification)
		}
	}
	return out
}

func (o Outcome) Activities() []Activity {
	var out []Activity
	for _, ev := range o.Events {
		if ev.Kind == EventActivity && ev.Activity != nil {
			out = append(out, *ev.Activity)
		}
	}
	return out
}
