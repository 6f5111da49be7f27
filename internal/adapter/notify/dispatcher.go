// Package notify delivers lifecycle events to their channels.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

// Dispatcher delivers events in the background. Delivery failures are logged
// and never reach the caller of Dispatch.
type Dispatcher struct {
	sink     ports.NotificationSink
	activity ports.ActivityLogger
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

var _ ports.EventDispatcher = (*Dispatcher)(nil)

func NewDispatcher(sink ports.NotificationSink, activity ports.ActivityLogger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		sink:     sink,
		activity: activity,
		timeout:  timeout,
		logger:   zap.L().Named("dispatcher"),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	// Delivery outlives the request that triggered it.
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("event delivery panicked", zap.Any("panic", r))
			}
		}()

		for _, ev := range events {
			d.deliver(base, ev)
		}
	}()
}

func (d *Dispatcher) deliver(base context.Context, ev domain.Event) {
	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	switch ev.Kind {
	case domain.EventNotify:
		if ev.Notification == nil || d.sink == nil {
			return
		}
		if err := d.sink.Notify(ctx, *ev.Notification); err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("recipient", ev.Notification.RecipientID),
				zap.String("type", string(ev.Notification.Type)),
				zap.Error(err))
		}
	case domain.EventActivity:
		if ev.Activity == nil || d.activity == nil {
			return
		}
		if err := d.activity.Log(ctx, *ev.Activity); err != nil {
			d.logger.Warn("activity log failed",
				zap.String("task_no", ev.Activity.TaskNo),
				zap.String("kind", string(ev.Activity.Kind)),
				zap.Error(err))
		}
	}
}

// Wait blocks until every dispatched batch finished or ctx expires.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fanout sends a notification to every channel. The inbox is usually first so
// the record exists before any live channel points at it.
type Fanout struct {
	sinks []ports.NotificationSink
}

var _ ports.NotificationSink = (*Fanout)(nil)

func NewFanout(sinks ...ports.NotificationSink) *Fanout {
	kept := make([]ports.NotificationSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept}
}

func (f *Fanout) Notify(ctx context.Context, n domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	var errs []error
	for _, s := range f.sinks {
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
