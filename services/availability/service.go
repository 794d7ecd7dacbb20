package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "telecare/database/repository/appointment"
	scheduleRepo "telecare/database/repository/schedule"
	"telecare/models"

	"go.uber.org/zap"
)

// ErrStoreUnavailable wraps any repository failure during an availability read.
// Callers must not treat it as "no availability".
var ErrStoreUnavailable = errors.New("availability store unavailable")

// AvailabilityService answers slot queries for the booking UI.
type AvailabilityService interface {
	GetDoctorSlots(ctx context.Context, doctorID string, startDate time.Time, days int) ([]models.DaySlots, error)
	GetAvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error)
}

// DefaultAvailabilityService reads a fresh snapshot per call and runs ComputeAvailability.
type DefaultAvailabilityService struct {
	Schedules     scheduleRepo.ScheduleRepository
	Appointments  appointmentRepo.AppointmentRepository
	SlotMinutes   int
	MaxWindowDays int
	Location      *time.Location
	Now           func() time.Time
	Logger        *zap.Logger
}

func NewDefaultAvailabilityService(
	schedules scheduleRepo.ScheduleRepository,
	appointments appointmentRepo.AppointmentRepository,
	slotMinutes, maxWindowDays int,
	loc *time.Location,
	logger *zap.Logger,
) (*DefaultAvailabilityService, error) {
	if schedules == nil || appointments == nil {
		return nil, fmt.Errorf("availability service initialization error: one or more repositories are nil")
	}
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotDuration
	}
	if maxWindowDays <= 0 {
		maxWindowDays = 60
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAvailabilityService{
		Schedules:     schedules,
		Appointments:  appointments,
		SlotMinutes:   slotMinutes,
		MaxWindowDays: maxWindowDays,
		Location:      loc,
		Now:           time.Now,
		Logger:        logger,
	}, nil
}

// GetDoctorSlots returns per-day slots for [startDate, startDate+days).
func (s *DefaultAvailabilityService) GetDoctorSlots(ctx context.Context, doctorID string, startDate time.Time, days int) ([]models.DaySlots, error) {
	if doctorID == "" {
		return nil, models.NewValidationError("doctorId", "is required")
	}
	if days <= 0 || days > s.MaxWindowDays {
		return nil, models.NewValidationError("days", "must be between 1 and %d, got %d", s.MaxWindowDays, days)
	}
	y, m, d := startDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.Location)
	end := start.AddDate(0, 0, days)

	entries, err := s.Schedules.GetEnabledByDoctor(ctx, doctorID)
	if err != nil {
		if isMalformed(err) {
			return nil, err
		}
		s.Logger.Error("failed to load schedule", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("%w: schedule: %v", ErrStoreUnavailable, err)
	}
	if len(entries) == 0 {
		return []models.DaySlots{}, nil
	}

	booked, err := s.bookedSlots(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	return ComputeAvailability(entries, booked, start, days, s.SlotMinutes, s.Now())
}

// GetAvailableSlots returns the slots of a single date; empty when the doctor
// does not work that weekday.
func (s *DefaultAvailabilityService) GetAvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]models.Slot, error) {
	days, err := s.GetDoctorSlots(ctx, doctorID, date, 1)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return []models.Slot{}, nil
	}
	return days[0].Slots, nil
}

func (s *DefaultAvailabilityService) bookedSlots(ctx context.Context, doctorID string, start, end time.Time) (models.BookedSlots, error) {
	appts, err := s.Appointments.ListActiveInRange(ctx, doctorID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		s.Logger.Error("failed to load appointments", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("%w: appointments: %v", ErrStoreUnavailable, err)
	}
	booked := make(models.BookedSlots, len(appts))
	for _, a := range appts {
		if a.Status == models.StatusCancelled {
			continue
		}
		t, err := models.ParseClock(a.StartTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		booked.Add(a.Date, t)
	}
	return booked, nil
}

// isMalformed separates bad stored data from store outages.
func isMalformed(err error) bool {
	var ve *models.ValidationError
	return errors.Is(err, models.ErrInvalidTime) || errors.As(err, &ve)
}
