package domain

import "time"

type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "PENDING"
	AcceptanceAccepted AcceptanceStatus = "ACCEPTED"
	AcceptanceRejected AcceptanceStatus = "REJECTED"
)

func (s AcceptanceStatus) Valid() bool {
	switch s {
	case AcceptancePending, AcceptanceAccepted, AcceptanceRejected:
		return true
	}
	return false
}

// Acceptance is one group member's claim record against a group-targeted task.
type Acceptance struct {
	ID        string
	TaskID    string
	UserID    string
	Status    AcceptanceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingAcceptance is an open claim prompt together with the task it refers to.
type PendingAcceptance struct {
	Acceptance Acceptance
	Task       Task
}

// ReleaseResult reports what a rejection changed on the task.
type ReleaseResult struct {
	WasAssignee bool
}
