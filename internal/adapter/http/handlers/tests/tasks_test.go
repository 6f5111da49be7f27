package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/handlers"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/translator"
)

const (
	taskID       = "6f1c2a0e-4b7d-4c2f-9a51-3d2e8b7c9f10"
	acceptanceID = "0b9d6c1e-2f3a-4e5b-8c7d-6a5f4e3d2c1b"
)

var (
	alice     = domain.Actor{ID: "alice", Role: domain.RoleEmployee}
	createdAt = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
)

func withActor(actor domain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
}

func newTaskRouter(serviceMock *taskServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(serviceMock)

	router := gin.New()
	api := router.Group("/api", middleware.LanguageMiddleware(), withActor(alice))
	api.POST("/tasks", handler.CreateTask)
	api.GET("/tasks", handler.ListTasks)
	api.GET("/tasks/:id", handler.GetTask)
	api.PATCH("/tasks/:id", handler.UpdateTask)
	api.DELETE("/tasks/:id", handler.DeleteTask)
	api.POST("/tasks/:id/submit", handler.SubmitTask)
	api.POST("/tasks/:id/complete", handler.CompleteTask)
	api.POST("/tasks/:id/remind", handler.RemindTask)
	api.GET("/tasks/:id/activity", handler.ListActivity)
	api.GET("/acceptances/pending", handler.ListPendingAcceptances)
	api.PATCH("/acceptances/:id", handler.UpdateAcceptance)
	return router
}

func serve(router *gin.Engine, method, target, body string, lang string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", lang)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rec.Code, got.ErrDetails.Code)
	return got.ErrDetails
}

func sampleTask() domain.Task {
	assignee := "alice"
	return domain.Task{
		ID:         taskID,
		TaskNo:     "TASK-000042",
		Title:      "Prepare Payroll Report",
		Priority:   domain.TaskPriorityHigh,
		Status:     domain.TaskStatusPending,
		CreatedBy:  "mona",
		AssignedTo: &assignee,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
		EditTimes:  domain.NewTimestamps(createdAt),
	}
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("FindAll", mock.Anything, alice, domain.Pagination{Page: 2, Limit: 1},
		mock.MatchedBy(func(f domain.TaskFilter) bool {
			return f.ViewMode == domain.ViewMyPending &&
				len(f.Statuses) == 1 && f.Statuses[0] == domain.TaskStatusPending &&
				f.Search == "payroll"
		}),
	).Return(domain.TaskPage{Items: []domain.Task{sampleTask()}, Total: 3, Page: 2, Limit: 1}, nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodGet,
		"/api/tasks?page=2&limit=1&view_mode=MY_PENDING&status=PENDING&search=payroll", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 3, got.Total)
	require.Equal(t, 3, got.TotalPages)
	require.Len(t, got.Items, 1)
	require.Equal(t, "TASK-000042", got.Items[0].TaskNo)
	require.Equal(t, "HIGH", got.Items[0].Priority)
	require.Equal(t, "alice", *got.Items[0].AssignedTo)
	require.Equal(t, "2026-03-02T09:30:00Z", got.Items[0].CreatedAt)
	require.Equal(t, []string{"2026-03-02T09:30:00Z"}, got.Items[0].EditTimes)
	require.Empty(t, got.Items[0].ReviewTimes)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_InvalidQuery(t *testing.T) {
	serviceMock := new(taskServiceMock)

	for _, target := range []string{
		"/api/tasks?status=DONE",
		"/api/tasks?view_mode=EVERYTHING",
		"/api/tasks?sort_by=colour",
		"/api/tasks?deadline_from=tomorrow",
	} {
		rec := serve(newTaskRouter(serviceMock), http.MethodGet, target, "", translator.LanguageEn)

		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.Equal(t, "Invalid query parameters", decodeError(t, rec).Message)
	}
	serviceMock.AssertNotCalled(t, "FindAll")
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("FindAll", mock.Anything, alice, mock.Anything, mock.Anything).
		Return(nil, errors.New("db is down")).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "Error fetching the tasks", got.Message)
	require.Empty(t, got.Detail)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_InvalidID(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := serve(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/42", "", translator.LanguageEn)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid id", decodeError(t, rec).Message)
}

func TestTaskHandler_GetTask_DomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		lang    string
		code    int
		message string
	}{
		{"not found", domain.ErrTaskNotFound, translator.LanguageEn, http.StatusNotFound, "Task not found"},
		{"forbidden", domain.Forbidden("task is not visible"), translator.LanguageEn, http.StatusForbidden, "You are not allowed to perform this action"},
		{"forbidden in french", domain.Forbidden("task is not visible"), "fr-FR", http.StatusForbidden, "Vous n'êtes pas autorisé à effectuer cette action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(taskServiceMock)
			serviceMock.On("FindByID", mock.Anything, alice, taskID).Return(nil, tt.err).Once()

			rec := serve(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/"+taskID, "", tt.lang)

			require.Equal(t, tt.code, rec.Code)
			got := decodeError(t, rec)
			require.Equal(t, tt.message, got.Message)
			require.Equal(t, tt.err.Error(), got.Detail)
			serviceMock.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Create", mock.Anything, alice, mock.MatchedBy(func(in domain.CreateTaskInput) bool {
		return in.Title == "prepare payroll report" &&
			in.TargetGroupID != nil && *in.TargetGroupID == "g-ops" &&
			in.Deadline != nil && in.Deadline.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	})).Return(sampleTask(), nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", `{
		"title": " prepare payroll report ",
		"priority": "HIGH",
		"deadline": "2026-03-31",
		"target_group_id": "g-ops"
	}`, translator.LanguageEn)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, taskID, got.ID)
	require.Equal(t, "Prepare Payroll Report", got.Title)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	serviceMock := new(taskServiceMock)

	for _, body := range []string{
		`{}`,
		`{"title": "x", "priority": "CRITICAL"}`,
		`{"title": "x", "deadline": "end of month"}`,
		`not json`,
	} {
		rec := serve(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body, translator.LanguageEn)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, "Invalid task payload", decodeError(t, rec).Message)
	}
	serviceMock.AssertNotCalled(t, "Create")
}

func TestTaskHandler_UpdateTask_ExplicitNull(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Update", mock.Anything, alice, taskID, mock.MatchedBy(func(in domain.UpdateTaskInput) bool {
		return in.NoteSet && in.Note == nil && in.Title == nil && !in.DeadlineSet
	})).Return(sampleTask(), nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/"+taskID, `{"note": null}`, translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_EmptyPayload(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := serve(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/"+taskID, `{}`, translator.LanguageEn)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid task payload", decodeError(t, rec).Message)
	serviceMock.AssertNotCalled(t, "Update")
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Delete", mock.Anything, alice, taskID).Return(nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodDelete, "/api/tasks/"+taskID, "", translator.LanguageEn)

	require.Equal(t, http.StatusNoContent, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_SubmitTask_RemarkRequired(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("SubmitForReview", mock.Anything, alice, taskID, domain.WorkInput{}).
		Return(nil, domain.ErrRemarkRequired).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/"+taskID+"/submit", "", translator.LanguageEn)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "A remark is required", decodeError(t, rec).Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_SubmitTask_Success(t *testing.T) {
	submitted := sampleTask()
	submitted.Status = domain.TaskStatusReviewPending
	submitted.ReviewTimes = domain.NewTimestamps(createdAt.Add(time.Hour))

	serviceMock := new(taskServiceMock)
	serviceMock.On("SubmitForReview", mock.Anything, alice, taskID, domain.WorkInput{
		Remark:    "figures attached",
		Documents: []string{"payroll.xlsx"},
	}).Return(submitted, nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/"+taskID+"/submit",
		`{"remark": "figures attached", "documents": ["payroll.xlsx"]}`, translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "REVIEW_PENDING", got.Status)
	require.Equal(t, []string{"2026-03-02T10:30:00Z"}, got.ReviewTimes)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CompleteTask_InvalidState(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Finalize", mock.Anything, alice, taskID, domain.WorkInput{Remark: "done"}).
		Return(nil, domain.InvalidState("task must be under review")).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/"+taskID+"/complete",
		`{"remark": "done"}`, translator.LanguageEn)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "The task is not in a state that allows this action", got.Message)
	require.Equal(t, "task must be under review", got.Detail)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_RemindTask_Forbidden(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("SendReminder", mock.Anything, alice, taskID).
		Return(nil, domain.Forbidden("only the creator can send reminders")).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/"+taskID+"/remind", "", translator.LanguageEn)

	require.Equal(t, http.StatusForbidden, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListActivity(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Activity", mock.Anything, alice, taskID).Return([]domain.Activity{{
		ID:          "a-1",
		ActorID:     "mona",
		TaskID:      taskID,
		TaskNo:      "TASK-000042",
		Kind:        domain.ActivityTaskCreated,
		Description: "Task created",
		CreatedAt:   createdAt,
	}}, nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/"+taskID+"/activity", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.ActivityItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "mona", got[0].ActorID)
	require.Equal(t, string(domain.ActivityTaskCreated), got[0].Kind)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateAcceptance_AlreadyClaimed(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateAcceptance", mock.Anything, alice, acceptanceID, domain.AcceptanceAccepted).
		Return(nil, domain.ErrTaskAlreadyClaimed).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodPatch, "/api/acceptances/"+acceptanceID,
		`{"status": "ACCEPTED"}`, translator.LanguageEn)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "This task has already been accepted by another member", decodeError(t, rec).Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateAcceptance_InvalidRequest(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock)

	rec := serve(router, http.MethodPatch, "/api/acceptances/nope", `{"status": "ACCEPTED"}`, translator.LanguageEn)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid acceptance id", decodeError(t, rec).Message)

	rec = serve(router, http.MethodPatch, "/api/acceptances/"+acceptanceID, `{"status": "PENDING"}`, translator.LanguageEn)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	serviceMock.AssertNotCalled(t, "UpdateAcceptance")
}

func TestTaskHandler_ListPendingAcceptances(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("PendingAcceptances", mock.Anything, alice).Return([]domain.PendingAcceptance{{
		Acceptance: domain.Acceptance{
			ID:        acceptanceID,
			TaskID:    taskID,
			UserID:    "alice",
			Status:    domain.AcceptancePending,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		Task: sampleTask(),
	}}, nil).Once()

	rec := serve(newTaskRouter(serviceMock), http.MethodGet, "/api/acceptances/pending", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.PendingAcceptanceItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, acceptanceID, got[0].Acceptance.ID)
	require.Equal(t, "PENDING", got[0].Acceptance.Status)
	require.Equal(t, "TASK-000042", got[0].Task.TaskNo)
	serviceMock.AssertExpectations(t)
}
