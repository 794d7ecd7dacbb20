package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telecare/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.AppointmentID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ParseReminderTask decodes a reminder task body.
func ParseReminderTask(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	if p.AppointmentID == "" {
		return p, fmt.Errorf("invalid reminder payload: missing appointmentId")
	}
	return p, nil
}

// Enqueuer is the slice of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReminderScheduler queues reminders on Redis via asynq.
type AsynqReminderScheduler struct {
	Client Enqueuer
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder for %s: %w", payload.AppointmentID, err)
	}
	return nil
}
