package dto

type TaskItem struct {
	ID            string   `json:"id"`
	TaskNo        string   `json:"task_no"`
	Title         string   `json:"title"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	Note          *string  `json:"note,omitempty"`
	Remark        *string  `json:"remark,omitempty"`
	Documents     []string `json:"documents,omitempty"`
	Deadline      *string  `json:"deadline,omitempty"`
	IsSelfTask    bool     `json:"is_self_task"`
	ProjectID     *string  `json:"project_id,omitempty"`
	ProjectName   *string  `json:"project_name,omitempty"`
	ProjectCode   *string  `json:"project_code,omitempty"`
	CreatedBy     string   `json:"created_by"`
	CreatorName   *string  `json:"creator_name,omitempty"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	AssigneeName  *string  `json:"assignee_name,omitempty"`
	WorkingBy     *string  `json:"working_by,omitempty"`
	TargetTeamID  *string  `json:"target_team_id,omitempty"`
	TargetGroupID *string  `json:"target_group_id,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	CompletedAt   *string  `json:"completed_at,omitempty"`
	EditTimes     []string `json:"edit_times"`
	ReminderTimes []string `json:"reminder_times"`
	ReviewTimes   []string `json:"review_times"`
}

type TaskPage struct {
	Items      []TaskItem `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

type CreateTaskRequest struct {
	Title         string   `json:"title" binding:"required,max=255"`
	Priority      *string  `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Note          *string  `json:"note" binding:"omitempty,max=65535"`
	Deadline      *string  `json:"deadline"`
	Documents     []string `json:"documents" binding:"omitempty,dive,max=1024"`
	IsSelfTask    bool     `json:"is_self_task"`
	ProjectID     *string  `json:"project_id" binding:"omitempty,max=64"`
	AssignedTo    *string  `json:"assigned_to" binding:"omitempty,max=64"`
	TargetTeamID  *string  `json:"target_team_id" binding:"omitempty,max=64"`
	TargetGroupID *string  `json:"target_group_id" binding:"omitempty,max=64"`
	ReminderTimes []string `json:"reminder_times"`
}

// UpdateTaskRequest is decoded alongside the raw body so explicit nulls can
// clear nullable columns.
type UpdateTaskRequest struct {
	Title        *string  `json:"title" binding:"omitempty,max=255"`
	Priority     *string  `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Note         *string  `json:"note" binding:"omitempty,max=65535"`
	Deadline     *string  `json:"deadline"`
	Remark       *string  `json:"remark" binding:"omitempty,max=65535"`
	Documents    []string `json:"documents" binding:"omitempty,dive,max=1024"`
	Status       *string  `json:"status" binding:"omitempty,oneof=PENDING REVIEW_PENDING COMPLETED"`
	ProjectID    *string  `json:"project_id" binding:"omitempty,max=64"`
	AssignedTo   *string  `json:"assigned_to" binding:"omitempty,max=64"`
	TargetTeamID *string  `json:"target_team_id" binding:"omitempty,max=64"`
}

// WorkRequest is the body of submit, reject and complete.
type WorkRequest struct {
	Remark    string   `json:"remark" binding:"max=65535"`
	Documents []string `json:"documents" binding:"omitempty,dive,max=1024"`
}

type ListTasksQuery struct {
	Page         int    `form:"page" binding:"omitempty,gte=1"`
	Limit        int    `form:"limit" binding:"omitempty,gte=1,lte=200"`
	ViewMode     string `form:"view_mode" binding:"omitempty,oneof=ALL MY_PENDING TEAM_PENDING MY_COMPLETED TEAM_COMPLETED REVIEW_PENDING_BY_ME REVIEW_PENDING_BY_TEAM"`
	Status       string `form:"status"`
	Search       string `form:"search" binding:"max=255"`
	Priority     string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	ProjectID    string `form:"project_id"`
	CreatedBy    string `form:"created_by"`
	AssignedTo   string `form:"assigned_to"`
	DeadlineFrom string `form:"deadline_from"`
	DeadlineTo   string `form:"deadline_to"`
	SortBy       string `form:"sort_by" binding:"omitempty,oneof=createdAt deadline taskNo title priority status completedAt"`
	SortOrder    string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}
