package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/mapper"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
)

func (h *TaskHandler) ListPendingAcceptances(c *gin.Context) {
	pending, err := h.taskService.PendingAcceptances(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err, apierrors.MsgFailListTask, "failed to list pending acceptances")
		return
	}

	c.JSON(http.StatusOK, mapper.ToPendingAcceptanceItems(pending))
}

// UpdateAcceptance claims (ACCEPTED) or declines (REJECTED) a group task.
func (h *TaskHandler) UpdateAcceptance(c *gin.Context) {
	id, ok := uuidParam(c, apierrors.MsgInvalidAcceptanceID)
	if !ok {
		return
	}

	var req dto.UpdateAcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	task, err := h.taskService.UpdateAcceptance(
		c.Request.Context(), middleware.GetActor(c), id, domain.AcceptanceStatus(req.Status),
	)
	if err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to update acceptance", zap.String("acceptance_id", id))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}
