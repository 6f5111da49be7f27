package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending       TaskStatus = "PENDING"
	TaskStatusReviewPending TaskStatus = "REVIEW_PENDING"
	TaskStatusCompleted     TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusReviewPending, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities for sorting; unknown values rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	case TaskPriorityUrgent:
		return 4
	}
	return 0
}

// Bucket names the physical table a task currently lives in.
type Bucket string

const (
	BucketPending   Bucket = "pending"
	BucketCompleted Bucket = "completed"
)

func (b Bucket) Other() Bucket {
	if b == BucketPending {
		return BucketCompleted
	}
	return BucketPending
}

type Task struct {
	ID            string
	TaskNo        string
	Title         string
	Priority      TaskPriority
	Note          *string
	Status        TaskStatus
	Deadline      *time.Time
	Documents     []string
	Remark        *string
	IsSelfTask    bool
	ProjectID     *string
	CreatedBy     string
	AssignedTo    *string
	WorkingBy     *string
	TargetTeamID  *string
	TargetGroupID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	EditTimes     Timestamps
	ReminderTimes Timestamps
	ReviewTimes   Timestamps

	// Read-only joined columns, filled by the store on reads.
	CreatorName  *string
	AssigneeName *string
	ProjectName  *string
	ProjectCode  *string
}

// IsUnclaimedGroupWork reports whether the task still waits for a group member to accept it.
func (t Task) IsUnclaimedGroupWork() bool {
	return t.TargetGroupID != nil && t.AssignedTo == nil
}

func (t Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// CanSubmit reports whether userID may hand the task in for review.
func (t Task) CanSubmit(userID string) bool {
	if t.IsAssignedTo(userID) {
		return true
	}
	if t.IsSelfTask && t.CreatedBy == userID {
		return true
	}
	return t.AssignedTo == nil && t.TargetTeamID != nil && *t.TargetTeamID == userID
}

// Bucket returns the table the task belongs in given its status.
func (t Task) Bucket() Bucket {
	if t.Status == TaskStatusCompleted {
		return BucketCompleted
	}
	return BucketPending
}

type CreateTaskInput struct {
	Title         string
	Priority      TaskPriority
	Note          *string
	Deadline      *time.Time
	Documents     []string
	IsSelfTask    bool
	ProjectID     *string
	AssignedTo    *string
	TargetTeamID  *string
	TargetGroupID *string
	ReminderTimes []time.Time
}

// UpdateTaskInput carries a partial edit; nil fields are left untouched and the
// *Set flags allow clearing nullable columns.
type UpdateTaskInput struct {
	Title           *string
	Priority        *TaskPriority
	Note            *string
	NoteSet         bool
	Deadline        *time.Time
	DeadlineSet     bool
	Remark          *string
	Documents       []string
	Status          *TaskStatus
	ProjectID       *string
	ProjectIDSet    bool
	AssignedTo      *string
	AssignedToSet   bool
	TargetTeamID    *string
	TargetTeamIDSet bool
}

func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && in.Priority == nil && !in.NoteSet && !in.DeadlineSet &&
		in.Remark == nil && len(in.Documents) == 0 && in.Status == nil &&
		!in.ProjectIDSet && !in.AssignedToSet && !in.TargetTeamIDSet
}

// WorkInput is the payload of submit / reject / finalize.
type WorkInput struct {
	Remark    string
	Documents []string
}
