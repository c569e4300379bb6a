package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fundis/models"

	"github.com/hibiken/asynq"
)

// TypeSendPaymentReminder is the asynq task type for nudging a client
// who has a confirmed but unpaid booking.
const TypeSendPaymentReminder = "payment:reminder"

// NewPaymentReminderTask builds the delayed reminder task.
func NewPaymentReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(3),
	}
	return asynq.NewTask(TypeSendPaymentReminder, data), opts, nil
}

// AsynqScheduler enqueues reminder tasks on the shared asynq client.
type AsynqScheduler struct {
	Client *asynq.Client
}

func (s *AsynqScheduler) SchedulePaymentReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewPaymentReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue payment reminder: %w", err)
	}
	return nil
}
