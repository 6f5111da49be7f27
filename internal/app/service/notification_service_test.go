package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db/dbtest"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/app/service"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

func TestNotificationService_InboxAndDevices(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedUser(t, db, "bob", "Bob")
	ctx := context.Background()

	inbox := dbadapter.NewNotificationRepository(db)
	directory := dbadapter.NewDirectoryRepository(db)
	svc := service.NewNotificationService(inbox, directory)

	require.NoError(t, inbox.Notify(ctx, domain.Notification{
		ID:          "n-1",
		RecipientID: "bob",
		Type:        domain.NotifyTaskAssigned,
		Title:       "New task assigned",
		CreatedAt:   time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}))

	items, err := svc.List(ctx, bob, true, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.ErrorIs(t, svc.MarkRead(ctx, carol, "n-1"), domain.ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, bob, "n-1"))

	items, err = svc.List(ctx, bob, true, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, svc.RegisterDevice(ctx, bob, "  "), domain.ErrValidation)
	require.NoError(t, svc.RegisterDevice(ctx, bob, "fcm-token-1"))
	tokens, err := directory.DeviceTokens(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"fcm-token-1"}, tokens)
}
