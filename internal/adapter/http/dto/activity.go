package dto

type ActivityItem struct {
	ID          string            `json:"id"`
	ActorID     string            `json:"actor_id"`
	TaskID      string            `json:"task_id"`
	TaskNo      string            `json:"task_no"`
	Kind        string            `json:"kind"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

type AcceptanceItem struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type PendingAcceptanceItem struct {
	Acceptance AcceptanceItem `json:"acceptance"`
	Task       TaskItem       `json:"task"`
}

type UpdateAcceptanceRequest struct {
	Status string `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

type NotificationItem struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Read        bool              `json:"read"`
	CreatedAt   string            `json:"created_at"`
}

type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread"`
	Limit      int  `form:"limit" binding:"omitempty,gte=1,lte=200"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token" binding:"required,max=4096"`
}
