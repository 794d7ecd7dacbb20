package cron

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "telecare/database/repository/appointment"
	"telecare/models"
	"telecare/services/notification"
	"telecare/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker starts the asynq worker that delivers appointment reminders.
// The caller owns the returned server and must Shutdown it.
func InitReminderWorker(
	redisOpts asynq.RedisClientOpt,
	repo appointmentRepo.AppointmentRepository,
	notifSvc notification.NotificationService,
	logger *zap.Logger,
) (*asynq.Server, error) {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(repo, notifSvc, logger))

	logger.Info("starting reminder worker", zap.String("redis", redisOpts.Addr))
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start reminder worker: %w", err)
	}
	return srv, nil
}

// HandleReminderTask sends the reminder only if the appointment is still scheduled.
func HandleReminderTask(
	repo appointmentRepo.AppointmentRepository,
	notifSvc notification.NotificationService,
	logger *zap.Logger,
) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminderTask(task)
		if err != nil {
			logger.Error("dropping reminder task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		appt, err := repo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				logger.Warn("reminder for unknown appointment", zap.String("appointmentID", p.AppointmentID))
				return nil
			}
			return err
		}
		if appt.Status != models.StatusScheduled {
			logger.Debug("skipping reminder", zap.String("appointmentID", appt.ID), zap.String("status", string(appt.Status)))
			return nil
		}

		if err := notifSvc.SendAppointmentReminder(ctx, *appt); err != nil {
			logger.Error("failed to send reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
			return err
		}
		return nil
	}
}
