package mapper

import (
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

func ToActivityItems(entries []domain.Activity) []dto.ActivityItem {
	items := make([]dto.ActivityItem, 0, len(entries))
	for _, a := range entries {
		items = append(items, dto.ActivityItem{
			ID:          a.ID,
			ActorID:     a.ActorID,
			TaskID:      a.TaskID,
			TaskNo:      a.TaskNo,
			Kind:        string(a.Kind),
			Description: a.Description,
			Metadata:    a.Metadata,
			CreatedAt:   a.CreatedAt.UTC().Format(timeLayout),
		})
	}
	return items
}

func ToAcceptanceItem(acc domain.Acceptance) dto.AcceptanceItem {
	return dto.AcceptanceItem{
		ID:        acc.ID,
		TaskID:    acc.TaskID,
		UserID:    acc.UserID,
		Status:    string(acc.Status),
		CreatedAt: acc.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: acc.UpdatedAt.UTC().Format(timeLayout),
	}
}

func ToPendingAcceptanceItems(pending []domain.PendingAcceptance) []dto.PendingAcceptanceItem {
	items := make([]dto.PendingAcceptanceItem, 0, len(pending))
	for _, p := range pending {
		items = append(items, dto.PendingAcceptanceItem{
			Acceptance: ToAcceptanceItem(p.Acceptance),
			Task:       ToTaskItem(p.Task),
		})
	}
	return items
}

func ToNotificationItems(notifications []domain.Notification) []dto.NotificationItem {
	items := make([]dto.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationItem{
			ID:          n.ID,
			Type:        string(n.Type),
			Title:       n.Title,
			Description: n.Description,
			Metadata:    n.Metadata,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt.UTC().Format(timeLayout),
		})
	}
	return items
}
