package domain

import (
	"math"
	"time"
)

type ViewMode string

const (
	ViewAll                 ViewMode = "ALL"
	ViewMyPending           ViewMode = "MY_PENDING"
	ViewTeamPending         ViewMode = "TEAM_PENDING"
	ViewMyCompleted         ViewMode = "MY_COMPLETED"
	ViewTeamCompleted       ViewMode = "TEAM_COMPLETED"
	ViewReviewPendingByMe   ViewMode = "REVIEW_PENDING_BY_ME"
	ViewReviewPendingByTeam ViewMode = "REVIEW_PENDING_BY_TEAM"
)

func (v ViewMode) Valid() bool {
	switch v {
	case "", ViewAll, ViewMyPending, ViewTeamPending, ViewMyCompleted, ViewTeamCompleted,
		ViewReviewPendingByMe, ViewReviewPendingByTeam:
		return true
	}
	return false
}

// Scope says which tables a listing must read.
type Scope string

const (
	ScopePending   Scope = "pending"
	ScopeCompleted Scope = "completed"
	ScopeMixed     Scope = "mixed"
)

type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortDeadline    SortField = "deadline"
	SortTaskNo      SortField = "taskNo"
	SortTitle       SortField = "title"
	SortPriority    SortField = "priority"
	SortStatus      SortField = "status"
	SortCompletedAt SortField = "completedAt"
)

func (f SortField) Valid() bool {
	switch f {
	case SortCreatedAt, SortDeadline, SortTaskNo, SortTitle, SortPriority, SortStatus, SortCompletedAt:
		return true
	}
	return false
}

type SortOrder struct {
	Field SortField
	Desc  bool
}

// DefaultSort lists the newest tasks first.
var DefaultSort = SortOrder{Field: SortCreatedAt, Desc: true}

type Pagination struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 200
	// MaxPage keeps (Page-1)*Limit+Limit within int.
	MaxPage = math.MaxInt / MaxPageLimit
)

// Normalize clamps page and limit into usable values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Skip() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type TaskFilter struct {
	ViewMode     ViewMode
	Statuses     []TaskStatus
	Search       string
	Priority     *TaskPriority
	ProjectID    *string
	CreatedBy    *string
	AssignedTo   *string
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	Sort         SortOrder
}

type TaskPage struct {
	Items []Task
	Total int
	Page  int
	Limit int
}
