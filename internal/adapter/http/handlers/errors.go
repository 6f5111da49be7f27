package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
)

// respondError maps a service error to its HTTP status. Unclassified errors
// are logged and answered with fallbackKey.
func respondError(c *gin.Context, err error, fallbackKey string, logMsg string, fields ...zap.Field) {
	lang := middleware.GetLang(c)

	code, key := http.StatusInternalServerError, fallbackKey
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		code, key = http.StatusNotFound, apierrors.MsgNotFound
		if errors.Is(err, domain.ErrTaskNotFound) {
			key = apierrors.MsgTaskNotFound
		}
	case domain.KindForbidden:
		code, key = http.StatusForbidden, apierrors.MsgForbidden
	case domain.KindInvalidState:
		code, key = http.StatusUnprocessableEntity, apierrors.MsgInvalidState
	case domain.KindConflict:
		code, key = http.StatusConflict, apierrors.MsgConflict
		if errors.Is(err, domain.ErrTaskAlreadyClaimed) {
			key = apierrors.MsgTaskAlreadyClaimed
		}
	case domain.KindValidation:
		code, key = http.StatusBadRequest, apierrors.MsgValidationFailed
		if errors.Is(err, domain.ErrRemarkRequired) {
			key = apierrors.MsgRemarkRequired
		}
	default:
		zap.L().Error(logMsg, append(fields, zap.Error(err))...)
		c.JSON(code, apierrors.CreateError(code, key, lang))
		return
	}

	c.JSON(code, apierrors.CreateError(code, key, lang).WithDetail(err.Error()))
}

func badRequest(c *gin.Context, key string) {
	c.JSON(
		http.StatusBadRequest,
		apierrors.CreateError(http.StatusBadRequest, key, middleware.GetLang(c)),
	)
}
