package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/dto"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/mapper"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/pkg/apierrors"
)

const defaultKeepAlive = 25 * time.Second

// Subscriber opens live notification streams.
type Subscriber interface {
	Subscribe(userID string) (<-chan []byte, func())
}

type NotificationHandler struct {
	notifications ports.NotificationService
	streams       Subscriber
	keepAlive     time.Duration
}

func NewNotificationHandler(notifications ports.NotificationService, streams Subscriber) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		streams:       streams,
		keepAlive:     defaultKeepAlive,
	}
}

// WithKeepAlive overrides the interval of stream ping events.
func (h *NotificationHandler) WithKeepAlive(d time.Duration) *NotificationHandler {
	h.keepAlive = d
	return h
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var q dto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, apierrors.MsgInvalidQuery)
		return
	}

	items, err := h.notifications.List(c.Request.Context(), middleware.GetActor(c), q.UnreadOnly, q.Limit)
	if err != nil {
		respondError(c, err, apierrors.MsgFailListInbox, "failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, mapper.ToNotificationItems(items))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.notifications.MarkRead(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err, apierrors.MsgInternal, "failed to mark notification read", zap.String("notification_id", id))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidTaskPayload)
		return
	}

	if err := h.notifications.RegisterDevice(c.Request.Context(), middleware.GetActor(c), req.Token); err != nil {
		respondError(c, err, apierrors.MsgFailRegisterDevice, "failed to register device")
		return
	}

	c.Status(http.StatusNoContent)
}

// Stream relays the caller's notifications as Server-Sent Events until the
// client disconnects or the hub shuts down.
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.streams == nil {
		c.JSON(
			http.StatusServiceUnavailable,
			apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgStreamUnavailable, middleware.GetLang(c)),
		)
		return
	}

	actor := middleware.GetActor(c)
	messages, unsubscribe := h.streams.Subscribe(actor.ID)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.SSEvent("ready", actor.ID)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-messages:
			if !ok {
				return
			}
			c.SSEvent("notification", string(payload))
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
		}
		c.Writer.Flush()
	}
}
