package repository

import (
	"context"
	"fmt"

	appointmentRepo "telecare/database/repository/appointment"
	scheduleRepo "telecare/database/repository/schedule"
)

// Re-export the ScheduleRepository interface and constructor.
type ScheduleRepository = scheduleRepo.ScheduleRepository

var NewMongoScheduleRepo = scheduleRepo.NewMongoScheduleRepo

// Re-export the AppointmentRepository interface and constructor.
type AppointmentRepository = appointmentRepo.AppointmentRepository

var NewMongoAppointmentRepo = appointmentRepo.NewMongoAppointmentRepo

// Indexed is any repository that owns collection indexes.
type Indexed interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every given repository, stopping at the first failure.
func EnsureIndexes(ctx context.Context, repos ...Indexed) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}
