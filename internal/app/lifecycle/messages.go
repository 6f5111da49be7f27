package lifecycle

import (
	"fmt"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

type template struct {
	title string
	body  string
}

// Bodies receive the task number and title, in that order.
var templates = map[domain.NotificationType]template{
	domain.NotifyTaskAssigned:       {"New task assigned", "Task %s %q has been assigned to you."},
	domain.NotifyGroupTaskAvailable: {"New group task", "Task %s %q is open for your group. Accept it to start working."},
	domain.NotifyTaskSubmitted:      {"Task submitted for review", "Task %s %q is waiting for your review."},
	domain.NotifyTaskRemarkAdded:    {"New remark on task", "A new remark was added to task %s %q."},
	domain.NotifyTaskRejected:       {"Task sent back", "Task %s %q was rejected and moved back to pending."},
	domain.NotifyTaskCompleted:      {"Task completed", "Task %s %q was approved and completed."},
	domain.NotifyTaskReverted:       {"Task reopened", "Task %s %q was moved back to pending."},
	domain.NotifyTaskReminder:       {"Task reminder", "Reminder: task %s %q still needs your attention."},
	domain.NotifyTaskUpdated:        {"Task updated", "Task %s %q was updated."},
	domain.NotifyTaskStatusChanged:  {"Task status changed", "The status of task %s %q changed."},
	domain.NotifyAcceptanceAccepted: {"Group task accepted", "Task %s %q was accepted by a group member."},
	domain.NotifyAcceptanceRejected: {"Group task declined", "A group member declined task %s %q."},
	domain.NotifyGroupSlotClosed:    {"Group task taken", "Task %s %q was accepted by another member and is no longer open."},
	domain.NotifyTaskDeleted:        {"Task deleted", "Task %s %q was deleted."},
}

func render(kind domain.NotificationType, task domain.Task) (string, string) {
	tpl, ok := templates[kind]
	if !ok {
		return string(kind), fmt.Sprintf("Task %s %q", task.TaskNo, task.Title)
	}
	return tpl.title, fmt.Sprintf(tpl.body, task.TaskNo, task.Title)
}
