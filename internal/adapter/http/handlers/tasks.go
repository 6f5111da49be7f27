package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/mapper"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/validation"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	in, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.GetActor(c), in)
	if err != nil {
		respondError(c, err, apierrors.MsgFailCreateTask, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	var q dto.ListTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, apierrors.MsgInvalidQuery)
		return
	}

	page, filter, err := validation.BuildTaskFilter(q)
	if err != nil {
		badRequest(c, apierrors.MsgInvalidQuery)
		return
	}

	result, err := h.taskService.FindAll(c.Request.Context(), middleware.GetActor(c), page, filter)
	if err != nil {
		respondError(c, err, apierrors.MsgFailListTask, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskPage(result))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.FindByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to load task", zap.String("task_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

// UpdateTask applies a partial update. The body is read twice so that an
// explicit null can be told apart from an absent field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	in, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.GetActor(c), id, in)
	if err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to update task", zap.String("task_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to delete task", zap.String("task_id", id))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) SubmitTask(c *gin.Context) {
	h.work(c, "failed to submit task", h.taskService.SubmitForReview)
}

func (h *TaskHandler) RejectTask(c *gin.Context) {
	h.work(c, "failed to reject task", h.taskService.Reject)
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.work(c, "failed to complete task", h.taskService.Finalize)
}

type workFunc func(ctx context.Context, actor domain.Actor, id string, in domain.WorkInput) (domain.Task, error)

func (h *TaskHandler) work(c *gin.Context, logMsg string, fn workFunc) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req dto.WorkRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, apierrors.MsgInvalidTaskPayload)
			return
		}
	}

	task, err := fn(c.Request.Context(), middleware.GetActor(c), id, domain.WorkInput{
		Remark:    req.Remark,
		Documents: req.Documents,
	})
	if err != nil {
		respondError(c, err, apierrors.MsgInternal, logMsg, zap.String("task_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) RevertTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Revert(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to revert task", zap.String("task_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) RemindTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.SendReminder(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to send reminder", zap.String("task_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ListActivity(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	entries, err := h.taskService.Activity(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, apierrors.MsgFailListActivity, "failed to list task activity", zap.String("task_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToActivityItems(entries))
}

func taskID(c *gin.Context) (string, bool) {
	return uuidParam(c, apierrors.MsgInvalidTaskID)
}

func uuidParam(c *gin.Context, msgKey string) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, msgKey)
		return "", false
	}
	return id, true
}
