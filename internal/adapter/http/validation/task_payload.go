package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidQuery       = errors.New("invalid query")
)

const dateLayout = "2006-01-02"

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	var priority domain.TaskPriority
	if req.Priority != nil {
		priority = domain.TaskPriority(*req.Priority)
	}

	var deadline *time.Time
	if req.Deadline != nil {
		parsed, err := ParseTime(*req.Deadline)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		deadline = &parsed
	}

	reminders := make([]time.Time, 0, len(req.ReminderTimes))
	for _, raw := range req.ReminderTimes {
		parsed, err := ParseTime(raw)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		reminders = append(reminders, parsed)
	}

	return domain.CreateTaskInput{
		Title:         title,
		Priority:      priority,
		Note:          req.Note,
		Deadline:      deadline,
		Documents:     req.Documents,
		IsSelfTask:    req.IsSelfTask,
		ProjectID:     req.ProjectID,
		AssignedTo:    req.AssignedTo,
		TargetTeamID:  req.TargetTeamID,
		TargetGroupID: req.TargetGroupID,
		ReminderTimes: reminders,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var title *string
	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		title = &value
	}

	var status *domain.TaskStatus
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Status != nil {
		value := domain.TaskStatus(*req.Status)
		status = &value
	}

	var priority *domain.TaskPriority
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Priority != nil {
		value := domain.TaskPriority(*req.Priority)
		priority = &value
	}

	noteSet := hasJSONField(raw, "note")
	if noteSet && !isJSONNull(raw["note"]) && req.Note == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var deadline *time.Time
	deadlineSet := hasJSONField(raw, "deadline")
	if deadlineSet && !isJSONNull(raw["deadline"]) {
		if req.Deadline == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		parsed, err := ParseTime(*req.Deadline)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		deadline = &parsed
	}

	projectIDSet := hasJSONField(raw, "project_id")
	assignedToSet := hasJSONField(raw, "assigned_to")
	targetTeamIDSet := hasJSONField(raw, "target_team_id")

	return domain.UpdateTaskInput{
		Title:           title,
		Priority:        priority,
		Note:            req.Note,
		NoteSet:         noteSet,
		Deadline:        deadline,
		DeadlineSet:     deadlineSet,
		Remark:          req.Remark,
		Documents:       req.Documents,
		Status:          status,
		ProjectID:       req.ProjectID,
		ProjectIDSet:    projectIDSet,
		AssignedTo:      req.AssignedTo,
		AssignedToSet:   assignedToSet,
		TargetTeamID:    req.TargetTeamID,
		TargetTeamIDSet: targetTeamIDSet,
	}, nil
}

// BuildTaskFilter turns list query parameters into paging and filter values.
// Status accepts a comma separated list.
func BuildTaskFilter(q dto.ListTasksQuery) (domain.Pagination, domain.TaskFilter, error) {
	page := domain.Pagination{Page: q.Page, Limit: q.Limit}
	filter := domain.TaskFilter{
		ViewMode: domain.ViewMode(q.ViewMode),
		Search:   strings.TrimSpace(q.Search),
	}

	for _, part := range strings.Split(q.Status, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		status := domain.TaskStatus(part)
		if !status.Valid() {
			return page, domain.TaskFilter{}, ErrInvalidQuery
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if q.Priority != "" {
		priority := domain.TaskPriority(q.Priority)
		filter.Priority = &priority
	}
	filter.ProjectID = nonEmpty(q.ProjectID)
	filter.CreatedBy = nonEmpty(q.CreatedBy)
	filter.AssignedTo = nonEmpty(q.AssignedTo)

	if q.DeadlineFrom != "" {
		from, err := ParseTime(q.DeadlineFrom)
		if err != nil {
			return page, domain.TaskFilter{}, ErrInvalidQuery
		}
		filter.DeadlineFrom = &from
	}
	if q.DeadlineTo != "" {
		to, err := ParseTime(q.DeadlineTo)
		if err != nil {
			return page, domain.TaskFilter{}, ErrInvalidQuery
		}
		// A bare date covers the whole day.
		if len(q.DeadlineTo) == len(dateLayout) {
			to = to.Add(24*time.Hour - time.Millisecond)
		}
		filter.DeadlineTo = &to
	}
	if filter.DeadlineFrom != nil && filter.DeadlineTo != nil && filter.DeadlineTo.Before(*filter.DeadlineFrom) {
		return page, domain.TaskFilter{}, ErrInvalidQuery
	}

	if q.SortBy != "" {
		filter.Sort = domain.SortOrder{
			Field: domain.SortField(q.SortBy),
			Desc:  strings.EqualFold(q.SortOrder, "desc"),
		}
	} else if q.SortOrder != "" {
		filter.Sort = domain.SortOrder{
			Field: domain.DefaultSort.Field,
			Desc:  strings.EqualFold(q.SortOrder, "desc"),
		}
	}

	return page, filter, nil
}

// ParseTime accepts RFC 3339 timestamps or plain dates, read as UTC midnight.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	for _, field := range []string{
		"title", "priority", "note", "deadline", "remark", "documents",
		"status", "project_id", "assigned_to", "target_team_id",
	} {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
