package mapper

import (
	"time"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

const timeLayout = time.RFC3339Nano

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:            task.ID,
		TaskNo:        task.TaskNo,
		Title:         task.Title,
		Priority:      string(task.Priority),
		Status:        string(task.Status),
		Note:          copyString(task.Note),
		Remark:        copyString(task.Remark),
		Documents:     task.Documents,
		Deadline:      formatTime(task.Deadline),
		IsSelfTask:    task.IsSelfTask,
		ProjectID:     copyString(task.ProjectID),
		ProjectName:   copyString(task.ProjectName),
		ProjectCode:   copyString(task.ProjectCode),
		CreatedBy:     task.CreatedBy,
		CreatorName:   copyString(task.CreatorName),
		AssignedTo:    copyString(task.AssignedTo),
		AssigneeName:  copyString(task.AssigneeName),
		WorkingBy:     copyString(task.WorkingBy),
		TargetTeamID:  copyString(task.TargetTeamID),
		TargetGroupID: copyString(task.TargetGroupID),
		CreatedAt:     task.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:     task.UpdatedAt.UTC().Format(timeLayout),
		CompletedAt:   formatTime(task.CompletedAt),
		EditTimes:     formatTimes(task.EditTimes),
		ReminderTimes: formatTimes(task.ReminderTimes),
		ReviewTimes:   formatTimes(task.ReviewTimes),
	}
	return item
}

func ToTaskPage(page domain.TaskPage) dto.TaskPage {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = (page.Total + page.Limit - 1) / page.Limit
	}
	return dto.TaskPage{
		Items:      ToTaskItems(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	value := *s
	return &value
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.UTC().Format(timeLayout)
	return &value
}

func formatTimes(ts domain.Timestamps) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.UTC().Format(timeLayout))
	}
	return out
}
