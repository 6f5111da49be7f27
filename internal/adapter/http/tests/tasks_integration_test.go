//go:build integration
// +build integration

package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/cache"
	dbadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db"
	httpadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/handlers"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/notify"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/app/lifecycle"
	appservice "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/app/service"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
)

var jwtSecret = []byte("integration-secret")

type TasksIntegrationSuite struct {
	IntegrationSuiteBase
	router     *gin.Engine
	dispatcher *notify.Dispatcher
}

func TestTasksIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TasksIntegrationSuite))
}

func (s *TasksIntegrationSuite) SetupTest() {
	s.ResetDatabase()
	s.SeedUser("mona", "Mona", "MANAGER")
	s.SeedUser("alice", "Alice", "EMPLOYEE")
	s.SeedUser("bob", "Bob", "EMPLOYEE")
	s.SeedGroup("g-ops", "alice", "bob")

	tasks := dbadapter.NewTaskRepository(s.DB)
	ledger := dbadapter.NewAcceptanceRepository(s.DB)
	directory := dbadapter.NewDirectoryRepository(s.DB)
	activities := dbadapter.NewActivityRepository(s.DB)
	inbox := dbadapter.NewNotificationRepository(s.DB)
	hub := notify.NewHub()

	s.dispatcher = notify.NewDispatcher(notify.NewFanout(inbox, hub), activities, 5*time.Second)
	engine := lifecycle.NewEngine(tasks, ledger, dbadapter.NewSequenceRepository(s.DB), directory)
	taskService := appservice.NewTaskService(appservice.Dependencies{
		Engine:     engine,
		Tasks:      tasks,
		Ledger:     ledger,
		Directory:  directory,
		Activities: activities,
		Dispatcher: s.dispatcher,
		Cache:      cache.Noop{},
	})

	router := gin.New()
	httpadapter.RegisterRoutes(router, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(s.DB, nil),
		Tasks:         handlers.NewTaskHandler(taskService),
		Notifications: handlers.NewNotificationHandler(appservice.NewNotificationService(inbox, directory), hub),
	}, jwtSecret)
	s.router = router
}

func (s *TasksIntegrationSuite) do(user string, role domain.Role, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		token, err := middleware.IssueToken(jwtSecret, user, role, time.Minute)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *TasksIntegrationSuite) decode(rec *httptest.ResponseRecorder, dest any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func (s *TasksIntegrationSuite) waitForEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.dispatcher.Wait(ctx))
}

func (s *TasksIntegrationSuite) createGroupTask() dto.TaskItem {
	rec := s.do("mona", domain.RoleManager, http.MethodPost, "/api/tasks", `{
		"title": "quarterly payroll audit",
		"priority": "HIGH",
		"deadline": "2026-06-30",
		"target_group_id": "g-ops"
	}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var task dto.TaskItem
	s.decode(rec, &task)
	return task
}

func (s *TasksIntegrationSuite) pendingAcceptance(user string) dto.PendingAcceptanceItem {
	rec := s.do(user, domain.RoleEmployee, http.MethodGet, "/api/acceptances/pending", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var pending []dto.PendingAcceptanceItem
	s.decode(rec, &pending)
	s.Require().Len(pending, 1)
	return pending[0]
}

func (s *TasksIntegrationSuite) TestHealth_IsPublic() {
	rec := s.do("", "", http.MethodGet, "/api/health/report", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got handlers.HealthAdvanced
	s.decode(rec, &got)
	s.Require().Equal(handlers.StatusOk, got.Status.Database)
	s.Require().Equal(handlers.StatusDisabled, got.Status.Cache)
}

func (s *TasksIntegrationSuite) TestTasks_RequireAuthentication() {
	rec := s.do("", "", http.MethodGet, "/api/tasks", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	var got apierrors.JsonErr
	s.decode(rec, &got)
	s.Require().Equal("Authentication required", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestGroupTask_FullLifecycle() {
	created := s.createGroupTask()
	s.Require().Equal("TASK-000001", created.TaskNo)
	s.Require().Equal("Quarterly Payroll Audit", created.Title)
	s.Require().Equal("PENDING", created.Status)
	s.Require().Nil(created.AssignedTo)

	aliceSlot := s.pendingAcceptance("alice")
	bobSlot := s.pendingAcceptance("bob")
	s.Require().Equal(created.ID, aliceSlot.Task.ID)

	rec := s.do("alice", domain.RoleEmployee, http.MethodPatch, "/api/acceptances/"+aliceSlot.Acceptance.ID, `{"status":"ACCEPTED"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var claimed dto.TaskItem
	s.decode(rec, &claimed)
	s.Require().Equal("alice", *claimed.AssignedTo)

	rec = s.do("bob", domain.RoleEmployee, http.MethodPatch, "/api/acceptances/"+bobSlot.Acceptance.ID, `{"status":"ACCEPTED"}`)
	s.Require().Equal(http.StatusConflict, rec.Code)

	rec = s.do("alice", domain.RoleEmployee, http.MethodPost, "/api/tasks/"+created.ID+"/submit", `{}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do("alice", domain.RoleEmployee, http.MethodPost, "/api/tasks/"+created.ID+"/submit", `{"remark":"audit attached"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do("mona", domain.RoleManager, http.MethodPost, "/api/tasks/"+created.ID+"/complete", `{"remark":"approved"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var completed dto.TaskItem
	s.decode(rec, &completed)
	s.Require().Equal("COMPLETED", completed.Status)
	s.Require().NotNil(completed.CompletedAt)

	var inCompleted int
	s.Require().NoError(s.DB.Get(&inCompleted, "SELECT COUNT(*) FROM completed_tasks WHERE id = ?", created.ID))
	s.Require().Equal(1, inCompleted)

	rec = s.do("mona", domain.RoleManager, http.MethodGet, "/api/tasks?status=COMPLETED", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var page dto.TaskPage
	s.decode(rec, &page)
	s.Require().Equal(1, page.Total)

	rec = s.do("mona", domain.RoleManager, http.MethodPost, "/api/tasks/"+created.ID+"/revert", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var reverted dto.TaskItem
	s.decode(rec, &reverted)
	s.Require().Equal("PENDING", reverted.Status)

	s.waitForEvents()
	rec = s.do("alice", domain.RoleEmployee, http.MethodGet, "/api/tasks/"+created.ID+"/activity", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var activity []dto.ActivityItem
	s.decode(rec, &activity)
	s.Require().NotEmpty(activity)
}

func (s *TasksIntegrationSuite) TestGroupTask_NotifiesMembers() {
	s.createGroupTask()
	s.waitForEvents()

	rec := s.do("bob", domain.RoleEmployee, http.MethodGet, "/api/notifications?unread=true", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var items []dto.NotificationItem
	s.decode(rec, &items)
	s.Require().NotEmpty(items)
	s.Require().Equal(string(domain.NotifyGroupTaskAvailable), items[0].Type)

	rec = s.do("bob", domain.RoleEmployee, http.MethodPatch, "/api/notifications/"+items[0].ID+"/read", "")
	s.Require().Equal(http.StatusNoContent, rec.Code)
}

func (s *TasksIntegrationSuite) TestUpdateAndDelete_RequirePrivilegedRole() {
	created := s.createGroupTask()

	rec := s.do("alice", domain.RoleEmployee, http.MethodPatch, "/api/tasks/"+created.ID, `{"priority":"LOW"}`)
	s.Require().Equal(http.StatusForbidden, rec.Code)

	rec = s.do("alice", domain.RoleEmployee, http.MethodDelete, "/api/tasks/"+created.ID, "")
	s.Require().Equal(http.StatusForbidden, rec.Code)

	rec = s.do("mona", domain.RoleManager, http.MethodPatch, "/api/tasks/"+created.ID, `{"priority":"LOW","note":null}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated dto.TaskItem
	s.decode(rec, &updated)
	s.Require().Equal("LOW", updated.Priority)

	rec = s.do("mona", domain.RoleManager, http.MethodDelete, "/api/tasks/"+created.ID, "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do("mona", domain.RoleManager, http.MethodGet, "/api/tasks/"+created.ID, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	var acceptances int
	s.Require().NoError(s.DB.Get(&acceptances, "SELECT COUNT(*) FROM task_acceptances WHERE task_id = ?", created.ID))
	s.Require().Zero(acceptances)
}
