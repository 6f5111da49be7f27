package http

import (
	"github.com/gin-gonic/gin"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/handlers"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/http/middleware"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Tasks         *handlers.TaskHandler
	Notifications *handlers.NotificationHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret []byte) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.POST("/tasks", h.Tasks.CreateTask)
		authed.GET("/tasks", h.Tasks.ListTasks)
		authed.GET("/tasks/:id", h.Tasks.GetTask)
		authed.PATCH("/tasks/:id", middleware.RequirePrivileged(), h.Tasks.UpdateTask)
		authed.DELETE("/tasks/:id", middleware.RequirePrivileged(), h.Tasks.DeleteTask)
		authed.POST("/tasks/:id/submit", h.Tasks.SubmitTask)
		authed.POST("/tasks/:id/reject", h.Tasks.RejectTask)
		authed.POST("/tasks/:id/complete", h.Tasks.CompleteTask)
		authed.POST("/tasks/:id/revert", h.Tasks.RevertTask)
		authed.POST("/tasks/:id/remind", h.Tasks.RemindTask)
		authed.GET("/tasks/:id/activity", h.Tasks.ListActivity)

		authed.GET("/acceptances/pending", h.Tasks.ListPendingAcceptances)
		authed.PATCH("/acceptances/:id", h.Tasks.UpdateAcceptance)

		authed.GET("/notifications", h.Notifications.ListNotifications)
		authed.GET("/notifications/stream", h.Notifications.Stream)
		authed.PATCH("/notifications/:id/read", h.Notifications.MarkRead)
		authed.POST("/devices", h.Notifications.RegisterDevice)
	}
}
