// Package lifecycle moves tasks through Pending → ReviewPending → Completed.
// Transitions mutate the stores and return the side effects they request as
// events; they never deliver notifications themselves.
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/textnorm"
)

type Engine struct {
	tasks     ports.TaskRepository
	ledger    ports.AcceptanceLedger
	numbers   ports.NumberGenerator
	directory ports.Directory
	now       func() time.Time
}

func NewEngine(
	tasks ports.TaskRepository,
	ledger ports.AcceptanceLedger,
	numbers ports.NumberGenerator,
	directory ports.Directory,
) *Engine {
	return &Engine{
		tasks:     tasks,
		ledger:    ledger,
		numbers:   numbers,
		directory: directory,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) Create(ctx context.Context, actor domain.Actor, in domain.CreateTaskInput) (domain.Outcome, error) {
	title := textnorm.TitleCase(in.Title)
	if title == "" {
		return domain.Outcome{}, domain.Validation("title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.Valid() {
		return domain.Outcome{}, domain.Validation("unknown priority %q", priority)
	}

	assignedTo := blankToNil(in.AssignedTo)
	targetTeam := blankToNil(in.TargetTeamID)
	targetGroup := blankToNil(in.TargetGroupID)
	if in.IsSelfTask {
		self := actor.ID
		assignedTo, targetTeam, targetGroup = &self, nil, nil
	}

	taskNo, err := e.numbers.NextTaskNo(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}

	now := e.now()
	task := domain.Task{
		ID:            uuid.NewString(),
		TaskNo:        taskNo,
		Title:         title,
		Priority:      priority,
		Note:          textnorm.TitleCasePtr(in.Note),
		Status:        domain.TaskStatusPending,
		Deadline:      in.Deadline,
		Documents:     domain.MergeDocuments(nil, in.Documents...),
		IsSelfTask:    in.IsSelfTask,
		ProjectID:     blankToNil(in.ProjectID),
		CreatedBy:     actor.ID,
		AssignedTo:    assignedTo,
		TargetTeamID:  targetTeam,
		TargetGroupID: targetGroup,
		CreatedAt:     now,
		UpdatedAt:     now,
		ReminderTimes: domain.NewTimestamps(in.ReminderTimes...),
	}

	members, err := e.groupMembers(ctx, task)
	if err != nil {
		return domain.Outcome{}, err
	}

	if err := e.tasks.Create(ctx, task, members...); err != nil {
		return domain.Outcome{}, err
	}

	events := e.assignmentEvents(task, members, actor.ID, domain.NotifyTaskAssigned)
	events = append(events, e.activity(actor, task, domain.ActivityTaskCreated, "task created", nil))

	created, err := e.tasks.GetIn(ctx, domain.BucketPending, task.ID)
	if err != nil {
		return domain.Outcome{}, err
	}
	return domain.Outcome{Task: created, Events: events}, nil
}

// SubmitForReview hands work in. Calling it again while the task already waits
// for review only records the new remark.
func (e *Engine) SubmitForReview(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Outcome, error) {
	remark := strings.TrimSpace(in.Remark)
	if remark == "" {
		return domain.Outcome{}, domain.ErrRemarkRequired
	}

	task, err := e.pendingTask(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	if task.Status != domain.TaskStatusPending && task.Status != domain.TaskStatusReviewPending {
		return domain.Outcome{}, domain.InvalidState("task %s cannot be submitted from %s", task.TaskNo, task.Status)
	}
	if !task.CanSubmit(actor.ID) {
		return domain.Outcome{}, domain.Forbidden("only the assignee can submit task %s", task.TaskNo)
	}

	followUp := task.Status == domain.TaskStatusReviewPending
	now := e.now()
	worker := actor.ID
	task.Status = domain.TaskStatusReviewPending
	task.WorkingBy = &worker
	task.Remark = &remark
	task.ReviewTimes = task.ReviewTimes.Append(now)
	task.Documents = domain.MergeDocuments(task.Documents, in.Documents...)
	task.UpdatedAt = now

	if err := e.tasks.Update(ctx, task); err != nil {
		return domain.Outcome{}, err
	}

	kind := domain.NotifyTaskSubmitted
	if followUp {
		kind = domain.NotifyTaskRemarkAdded
	}
	var events []domain.Event
	if task.CreatedBy != actor.ID {
		events = append(events, e.notify(task, task.CreatedBy, kind))
	}
	events = append(events, e.activity(actor, task, domain.ActivityTaskSubmitted, remark, nil))
	return e.reload(ctx, domain.BucketPending, task, events)
}

func (e *Engine) Reject(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Outcome, error) {
	remark := strings.TrimSpace(in.Remark)
	if remark == "" {
		return domain.Outcome{}, domain.ErrRemarkRequired
	}

	task, err := e.pendingTask(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	if task.CreatedBy != actor.ID {
		return domain.Outcome{}, domain.Forbidden("only the creator can reject task %s", task.TaskNo)
	}
	if task.Status != domain.TaskStatusReviewPending {
		return domain.Outcome{}, domain.InvalidState("task %s is not waiting for review", task.TaskNo)
	}

	now := e.now()
	task.Status = domain.TaskStatusPending
	task.Remark = &remark
	task.ReviewTimes = task.ReviewTimes.Append(now)
	task.Documents = domain.MergeDocuments(task.Documents, in.Documents...)
	task.UpdatedAt = now

	if err := e.tasks.Update(ctx, task); err != nil {
		return domain.Outcome{}, err
	}

	events := e.stakeholderEvents(task, actor.ID, domain.NotifyTaskRejected)
	events = append(events, e.activity(actor, task, domain.ActivityTaskRejected, remark, nil))
	return e.reload(ctx, domain.BucketPending, task, events)
}

// Finalize relocates a reviewed task into the completed table. A retry after a
// partially applied move returns the completed record that already exists.
func (e *Engine) Finalize(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Outcome, error) {
	task, bucket, err := e.tasks.Get(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	if task.CreatedBy != actor.ID {
		return domain.Outcome{}, domain.Forbidden("only the creator can complete task %s", task.TaskNo)
	}
	if bucket == domain.BucketCompleted {
		return domain.Outcome{Task: task}, nil
	}
	if task.Status != domain.TaskStatusReviewPending {
		return domain.Outcome{}, domain.InvalidState("task %s must be reviewed before completion", task.TaskNo)
	}

	now := e.now()
	completed := task
	completed.Status = domain.TaskStatusCompleted
	completed.CompletedAt = &now
	completed.ReviewTimes = task.ReviewTimes.Append(now)
	completed.Documents = domain.MergeDocuments(task.Documents, in.Documents...)
	if remark := strings.TrimSpace(in.Remark); remark != "" {
		completed.Remark = &remark
	}
	completed.UpdatedAt = now

	moved, err := e.relocate(ctx, completed, domain.BucketCompleted)
	if err != nil {
		return domain.Outcome{}, err
	}

	events := e.stakeholderEvents(moved, actor.ID, domain.NotifyTaskCompleted)
	events = append(events, e.activity(actor, moved, domain.ActivityTaskCompleted, "task completed", nil))
	return domain.Outcome{Task: moved, Events: events}, nil
}

// Revert moves a completed task back to the pending table.
func (e *Engine) Revert(ctx context.Context, actor domain.Actor, id string) (domain.Outcome, error) {
	task, err := e.tasks.GetIn(ctx, domain.BucketCompleted, id)
	if errors.Is(err, domain.ErrNotFound) {
		if _, pendingErr := e.tasks.GetIn(ctx, domain.BucketPending, id); pendingErr == nil {
			return domain.Outcome{}, domain.InvalidState("task %s is not completed", id)
		}
	}
	if err != nil {
		return domain.Outcome{}, err
	}
	if task.CreatedBy != actor.ID {
		return domain.Outcome{}, domain.Forbidden("only the creator can reopen task %s", task.TaskNo)
	}

	restored := task
	restored.Status = domain.TaskStatusPending
	restored.CompletedAt = nil
	restored.UpdatedAt = e.now()

	moved, err := e.relocate(ctx, restored, domain.BucketPending)
	if err != nil {
		return domain.Outcome{}, err
	}

	events := e.stakeholderEvents(moved, actor.ID, domain.NotifyTaskReverted)
	events = append(events, e.activity(actor, moved, domain.ActivityTaskReverted, "task reopened", nil))
	return domain.Outcome{Task: moved, Events: events}, nil
}

// relocate performs the move and, on a taskNo collision, reconciles with the
// record already present in the destination. This is replay safe rather than
// fully transactional when the stores cannot share a transaction.
func (e *Engine) relocate(ctx context.Context, task domain.Task, to domain.Bucket) (domain.Task, error) {
	err := e.tasks.Relocate(ctx, task, to)
	if err == nil {
		return e.tasks.GetIn(ctx, to, task.ID)
	}
	if !errors.Is(err, domain.ErrDuplicateTaskNo) {
		return domain.Task{}, err
	}

	existing, lookupErr := e.tasks.GetByTaskNo(ctx, to, task.TaskNo)
	if lookupErr != nil {
		return domain.Task{}, err
	}

	from := to.Other()
	if existing.ID != task.ID || existing.Title != task.Title {
		// The stale source row is dropped even though it differs from the
		// destination; log it so a lost edit can be traced.
		zap.L().Warn("relocation reconciled with diverging record",
			zap.String("task_no", task.TaskNo),
			zap.String("source_id", task.ID),
			zap.String("destination_id", existing.ID),
			zap.String("destination", string(to)))
	}
	if delErr := e.tasks.Delete(ctx, from, task.ID); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
		return domain.Task{}, delErr
	}
	zap.L().Info("relocation already applied, stale source removed",
		zap.String("task_no", task.TaskNo), zap.String("destination", string(to)))
	return existing, nil
}

func (e *Engine) UpdateAcceptance(ctx context.Context, actor domain.Actor, acceptanceID string, status domain.AcceptanceStatus) (domain.Outcome, error) {
	if status != domain.AcceptanceAccepted && status != domain.AcceptanceRejected {
		return domain.Outcome{}, domain.Validation("acceptance status must be %s or %s", domain.AcceptanceAccepted, domain.AcceptanceRejected)
	}

	acc, err := e.ledger.Get(ctx, acceptanceID)
	if err != nil {
		return domain.Outcome{}, err
	}
	if acc.UserID != actor.ID {
		return domain.Outcome{}, domain.Forbidden("acceptance %s belongs to another user", acceptanceID)
	}

	task, err := e.tasks.GetIn(ctx, domain.BucketPending, acc.TaskID)
	if errors.Is(err, domain.ErrNotFound) {
		if _, completedErr := e.tasks.GetIn(ctx, domain.BucketCompleted, acc.TaskID); completedErr == nil {
			return domain.Outcome{}, domain.InvalidState("task is already completed")
		}
	}
	if err != nil {
		return domain.Outcome{}, err
	}

	var events []domain.Event
	switch status {
	case domain.AcceptanceAccepted:
		if task.AssignedTo != nil && *task.AssignedTo != actor.ID {
			return domain.Outcome{}, domain.ErrTaskAlreadyClaimed
		}
		if err := e.ledger.Claim(ctx, acc); err != nil {
			return domain.Outcome{}, err
		}
		if task, err = e.tasks.GetIn(ctx, domain.BucketPending, acc.TaskID); err != nil {
			return domain.Outcome{}, err
		}
		if task.CreatedBy != actor.ID {
			events = append(events, e.notify(task, task.CreatedBy, domain.NotifyAcceptanceAccepted))
		}
		siblings, err := e.ledger.ListByTask(ctx, task.ID)
		if err != nil {
			return domain.Outcome{}, err
		}
		for _, s := range siblings {
			if s.UserID == actor.ID || s.UserID == task.CreatedBy {
				continue
			}
			events = append(events, e.notify(task, s.UserID, domain.NotifyGroupSlotClosed))
		}
		events = append(events, e.activity(actor, task, domain.ActivityAcceptanceAccepted, "group task accepted", nil))

	case domain.AcceptanceRejected:
		res, err := e.ledger.Release(ctx, acc)
		if err != nil {
			return domain.Outcome{}, err
		}
		if task, err = e.tasks.GetIn(ctx, domain.BucketPending, acc.TaskID); err != nil {
			return domain.Outcome{}, err
		}
		if task.CreatedBy != actor.ID {
			events = append(events, e.notify(task, task.CreatedBy, domain.NotifyAcceptanceRejected))
		}
		meta := map[string]string{"released": boolString(res.WasAssignee)}
		events = append(events, e.activity(actor, task, domain.ActivityAcceptanceRejected, "group task declined", meta))
	}

	return domain.Outcome{Task: task, Events: events}, nil
}

func (e *Engine) SendReminder(ctx context.Context, actor domain.Actor, id string) (domain.Outcome, error) {
	task, bucket, err := e.tasks.Get(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	if task.CreatedBy != actor.ID {
		return domain.Outcome{}, domain.Forbidden("only the creator can send reminders for task %s", task.TaskNo)
	}
	if bucket == domain.BucketCompleted {
		return domain.Outcome{}, domain.InvalidState("task %s is already completed", task.TaskNo)
	}

	members, err := e.groupMembers(ctx, task)
	if err != nil {
		return domain.Outcome{}, err
	}
	var reopen []string
	if task.IsUnclaimedGroupWork() {
		reopen = members
	}

	now := e.now()
	task.ReminderTimes = task.ReminderTimes.Append(now)
	task.UpdatedAt = now
	if err := e.tasks.Remind(ctx, task, reopen); err != nil {
		return domain.Outcome{}, err
	}

	events := e.assignmentEvents(task, members, actor.ID, domain.NotifyTaskReminder)
	events = append(events, e.activity(actor, task, domain.ActivityTaskReminded, "reminder sent", nil))
	return e.reload(ctx, domain.BucketPending, task, events)
}

// Update edits arbitrary fields. It emits one notification template, chosen by
// the most significant kind of change, and exactly one activity entry.
func (e *Engine) Update(ctx context.Context, actor domain.Actor, id string, in domain.UpdateTaskInput) (domain.Outcome, error) {
	if !actor.Role.Privileged() {
		return domain.Outcome{}, domain.Forbidden("role %s cannot edit tasks", actor.Role)
	}
	if in.Empty() {
		return domain.Outcome{}, domain.Validation("no fields to update")
	}

	task, err := e.pendingTask(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}

	var statusChanged, remarkChanged bool
	var changed []string

	if in.Title != nil {
		title := textnorm.TitleCase(*in.Title)
		if title == "" {
			return domain.Outcome{}, domain.Validation("title cannot be empty")
		}
		task.Title = title
		changed = append(changed, "title")
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return domain.Outcome{}, domain.Validation("unknown priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
		changed = append(changed, "priority")
	}
	if in.NoteSet {
		task.Note = textnorm.TitleCasePtr(in.Note)
		changed = append(changed, "note")
	}
	if in.DeadlineSet {
		task.Deadline = in.Deadline
		changed = append(changed, "deadline")
	}
	if in.ProjectIDSet {
		task.ProjectID = blankToNil(in.ProjectID)
		changed = append(changed, "project")
	}
	if in.AssignedToSet {
		task.AssignedTo = blankToNil(in.AssignedTo)
		changed = append(changed, "assignee")
	}
	if in.TargetTeamIDSet {
		task.TargetTeamID = blankToNil(in.TargetTeamID)
		changed = append(changed, "team")
	}
	if len(in.Documents) > 0 {
		task.Documents = domain.MergeDocuments(task.Documents, in.Documents...)
		changed = append(changed, "documents")
	}
	if in.Remark != nil {
		remark := strings.TrimSpace(*in.Remark)
		if remark != "" && (task.Remark == nil || *task.Remark != remark) {
			task.Remark = &remark
			remarkChanged = true
			changed = append(changed, "remark")
		}
	}
	if in.Status != nil && *in.Status != task.Status {
		switch *in.Status {
		case domain.TaskStatusPending, domain.TaskStatusReviewPending:
			task.Status = *in.Status
			statusChanged = true
			changed = append(changed, "status")
		case domain.TaskStatusCompleted:
			return domain.Outcome{}, domain.InvalidState("use completion to finish task %s", task.TaskNo)
		default:
			return domain.Outcome{}, domain.Validation("unknown status %q", *in.Status)
		}
	}

	now := e.now()
	task.EditTimes = task.EditTimes.Append(now)
	task.UpdatedAt = now
	if err := e.tasks.Update(ctx, task); err != nil {
		return domain.Outcome{}, err
	}

	kind := domain.NotifyTaskUpdated
	switch {
	case statusChanged:
		kind = domain.NotifyTaskStatusChanged
	case remarkChanged:
		kind = domain.NotifyTaskRemarkAdded
	}

	recipients := uniqueExcept([]*string{&task.CreatedBy, task.AssignedTo, task.WorkingBy, task.TargetTeamID}, actor.ID)
	events := make([]domain.Event, 0, len(recipients)+1)
	for _, r := range recipients {
		events = append(events, e.notify(task, r, kind))
	}
	meta := map[string]string{"fields": strings.Join(changed, ",")}
	events = append(events, e.activity(actor, task, domain.ActivityTaskUpdated, "task updated", meta))
	return e.reload(ctx, domain.BucketPending, task, events)
}

// Delete removes a task from whichever table holds it.
func (e *Engine) Delete(ctx context.Context, actor domain.Actor, id string) (domain.Outcome, error) {
	if !actor.Role.Privileged() {
		return domain.Outcome{}, domain.Forbidden("role %s cannot delete tasks", actor.Role)
	}
	task, bucket, err := e.tasks.Get(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	if err := e.tasks.Delete(ctx, bucket, id); err != nil {
		return domain.Outcome{}, err
	}

	events := e.stakeholderEvents(task, actor.ID, domain.NotifyTaskDeleted)
	events = append(events, e.activity(actor, task, domain.ActivityTaskDeleted, "task deleted", nil))
	return domain.Outcome{Task: task, Events: events}, nil
}

func (e *Engine) pendingTask(ctx context.Context, id string) (domain.Task, error) {
	task, bucket, err := e.tasks.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if bucket == domain.BucketCompleted {
		return domain.Task{}, domain.InvalidState("task %s is already completed", task.TaskNo)
	}
	return task, nil
}

func (e *Engine) reload(ctx context.Context, bucket domain.Bucket, task domain.Task, events []domain.Event) (domain.Outcome, error) {
	fresh, err := e.tasks.GetIn(ctx, bucket, task.ID)
	if err != nil {
		return domain.Outcome{}, err
	}
	return domain.Outcome{Task: fresh, Events: events}, nil
}

// groupMembers lists the members a group task is broadcast to, creator excluded.
func (e *Engine) groupMembers(ctx context.Context, task domain.Task) ([]string, error) {
	if task.TargetGroupID == nil {
		return nil, nil
	}
	members, err := e.directory.GroupMembers(ctx, *task.TargetGroupID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m != task.CreatedBy {
			out = append(out, m)
		}
	}
	return out, nil
}

// assignmentEvents fans a notification out to assignee, team and group members.
func (e *Engine) assignmentEvents(task domain.Task, members []string, actorID string, kind domain.NotificationType) []domain.Event {
	direct := uniqueExcept([]*string{task.AssignedTo, task.TargetTeamID}, actorID)
	events := make([]domain.Event, 0, len(direct)+len(members)+1)
	seen := make(map[string]struct{}, len(direct))
	for _, r := range direct {
		seen[r] = struct{}{}
		events = append(events, e.notify(task, r, kind))
	}

	groupKind := kind
	if kind == domain.NotifyTaskAssigned {
		groupKind = domain.NotifyGroupTaskAvailable
	}
	for _, m := range members {
		if _, ok := seen[m]; ok || m == actorID {
			continue
		}
		seen[m] = struct{}{}
		events = append(events, e.notify(task, m, groupKind))
	}
	return events
}

// stakeholderEvents notifies worker, assignee and team.
func (e *Engine) stakeholderEvents(task domain.Task, actorID string, kind domain.NotificationType) []domain.Event {
	recipients := uniqueExcept([]*string{task.WorkingBy, task.AssignedTo, task.TargetTeamID}, actorID)
	events := make([]domain.Event, 0, len(recipients)+1)
	for _, r := range recipients {
		events = append(events, e.notify(task, r, kind))
	}
	return events
}

func (e *Engine) notify(task domain.Task, recipient string, kind domain.NotificationType) domain.Event {
	title, body := render(kind, task)
	return domain.NotifyEvent(domain.Notification{
		RecipientID: recipient,
		Type:        kind,
		Title:       title,
		Description: body,
		Metadata: map[string]string{
			"taskId": task.ID,
			"taskNo": task.TaskNo,
			"status": string(task.Status),
		},
		CreatedAt: e.now(),
	})
}

func (e *Engine) activity(actor domain.Actor, task domain.Task, kind domain.ActivityKind, description string, meta map[string]string) domain.Event {
	return domain.ActivityEvent(domain.Activity{
		ActorID:     actor.ID,
		TaskID:      task.ID,
		TaskNo:      task.TaskNo,
		Kind:        kind,
		Description: description,
		Metadata:    meta,
		CreatedAt:   e.now(),
	})
}

func uniqueExcept(candidates []*string, exclude string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || *c == "" || *c == exclude {
			continue
		}
		if _, ok := seen[*c]; ok {
			continue
		}
		seen[*c] = struct{}{}
		out = append(out, *c)
	}
	return out
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
