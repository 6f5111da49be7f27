package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

type multicaster interface {
	SendMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushSink sends notifications to the registered devices of the recipient
// through Firebase Cloud Messaging.
type PushSink struct {
	client    multicaster
	directory ports.Directory
}

var _ ports.NotificationSink = (*PushSink)(nil)

// NewPushSink initialises the Firebase app from a service account file.
func NewPushSink(ctx context.Context, credentialsFile string, directory ports.Directory) (*PushSink, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &PushSink{client: client, directory: directory}, nil
}

func (s *PushSink) Notify(ctx context.Context, n domain.Notification) error {
	tokens, err := s.directory.DeviceTokens(ctx, n.RecipientID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	data := make(map[string]string, len(n.Metadata)+2)
	for k, v := range n.Metadata {
		data[k] = v
	}
	data["type"] = string(n.Type)
	data["notificationId"] = n.ID

	resp, err := s.client.SendMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Description,
		},
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("push to %s: %w", n.RecipientID, err)
	}
	if resp.FailureCount > 0 {
		zap.L().Warn("push partially failed",
			zap.String("recipient", n.RecipientID),
			zap.Int("failed", resp.FailureCount),
			zap.Int("sent", resp.SuccessCount))
	}
	return nil
}
