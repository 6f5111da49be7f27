package service

import (
	"context"
	"strings"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

type NotificationService struct {
	inbox     ports.Inbox
	directory ports.Directory
}

var _ ports.NotificationService = (*NotificationService)(nil)

func NewNotificationService(inbox ports.Inbox, directory ports.Directory) *NotificationService {
	return &NotificationService{inbox: inbox, directory: directory}
}

func (s *NotificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]domain.Notification, error) {
	return s.inbox.List(ctx, actor.ID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	return s.inbox.MarkRead(ctx, actor.ID, id)
}

func (s *NotificationService) RegisterDevice(ctx context.Context, actor domain.Actor, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Validation("device token is required")
	}
	return s.directory.RegisterDevice(ctx, actor.ID, token)
}
