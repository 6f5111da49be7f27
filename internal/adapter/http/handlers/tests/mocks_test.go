package tests

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) task(args mock.Arguments) (domain.Task, error) {
	var task domain.Task
	if value := args.Get(0); value != nil {
		task = value.(domain.Task)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) Create(ctx context.Context, actor domain.Actor, in domain.CreateTaskInput) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, in))
}

func (m *taskServiceMock) FindAll(ctx context.Context, actor domain.Actor, page domain.Pagination, filter domain.TaskFilter) (domain.TaskPage, error) {
	args := m.Called(ctx, actor, page, filter)

	var result domain.TaskPage
	if value := args.Get(0); value != nil {
		result = value.(domain.TaskPage)
	}
	return result, args.Error(1)
}

func (m *taskServiceMock) FindByID(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id))
}

func (m *taskServiceMock) Update(ctx context.Context, actor domain.Actor, id string, in domain.UpdateTaskInput) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id, in))
}

func (m *taskServiceMock) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *taskServiceMock) SubmitForReview(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id, in))
}

func (m *taskServiceMock) Reject(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id, in))
}

func (m *taskServiceMock) Finalize(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id, in))
}

func (m *taskServiceMock) Revert(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id))
}

func (m *taskServiceMock) SendReminder(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, id))
}

func (m *taskServiceMock) UpdateAcceptance(ctx context.Context, actor domain.Actor, acceptanceID string, status domain.AcceptanceStatus) (domain.Task, error) {
	return m.task(m.Called(ctx, actor, acceptanceID, status))
}

func (m *taskServiceMock) PendingAcceptances(ctx context.Context, actor domain.Actor) ([]domain.PendingAcceptance, error) {
	args := m.Called(ctx, actor)

	var pending []domain.PendingAcceptance
	if value := args.Get(0); value != nil {
		pending = value.([]domain.PendingAcceptance)
	}
	return pending, args.Error(1)
}

func (m *taskServiceMock) Activity(ctx context.Context, actor domain.Actor, id string) ([]domain.Activity, error) {
	args := m.Called(ctx, actor, id)

	var entries []domain.Activity
	if value := args.Get(0); value != nil {
		entries = value.([]domain.Activity)
	}
	return entries, args.Error(1)
}

type notificationServiceMock struct {
	mock.Mock
}

func (m *notificationServiceMock) List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, actor, unreadOnly, limit)

	var items []domain.Notification
	if value := args.Get(0); value != nil {
		items = value.([]domain.Notification)
	}
	return items, args.Error(1)
}

func (m *notificationServiceMock) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *notificationServiceMock) RegisterDevice(ctx context.Context, actor domain.Actor, token string) error {
	return m.Called(ctx, actor, token).Error(0)
}
