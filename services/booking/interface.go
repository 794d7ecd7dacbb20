package booking

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "telecare/database/repository/appointment"
	"telecare/models"
	"telecare/services/availability"

	"go.uber.org/zap"
)

// BookingService creates appointments and moves them through their lifecycle.
type BookingService interface {
	BookAppointment(ctx context.Context, caller models.Identity, req models.BookAppointmentRequest) (*models.Appointment, error)
	GetAppointment(ctx context.Context, caller models.Identity, id string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, caller models.Identity, filter models.AppointmentFilter) ([]models.Appointment, error)
	CancelAppointment(ctx context.Context, caller models.Identity, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, caller models.Identity, id string, status models.AppointmentStatus) (*models.Appointment, error)
}

// ReminderScheduler queues a reminder for an upcoming appointment.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         appointmentRepo.AppointmentRepository
	Availability availability.AvailabilityService
	Reminders    ReminderScheduler
	SlotMinutes  int
	ReminderLead time.Duration
	Location     *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
}

func NewDefaultBookingService(
	repo appointmentRepo.AppointmentRepository,
	avail availability.AvailabilityService,
	reminders ReminderScheduler,
	slotMinutes int,
	reminderLead time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) (*DefaultBookingService, error) {
	if repo == nil || avail == nil {
		return nil, fmt.Errorf("booking service initialization error: one or more dependencies are nil")
	}
	if slotMinutes <= 0 {
		slotMinutes = availability.DefaultSlotDuration
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:         repo,
		Availability: avail,
		Reminders:    reminders,
		SlotMinutes:  slotMinutes,
		ReminderLead: reminderLead,
		Location:     loc,
		Now:          time.Now,
		Logger:       logger,
	}, nil
}
