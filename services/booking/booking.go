package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telecare/models"
)

const dateLayout = "2006-01-02"

// BookAppointment books one slot for the caller.
//
// The availability read only rejects obviously bad requests; the store's
// uniqueness constraint is what decides a race between two bookings.
func (s *DefaultBookingService) BookAppointment(ctx context.Context, caller models.Identity, req models.BookAppointmentRequest) (*models.Appointment, error) {
	patientID := caller.UserID
	switch caller.Role {
	case models.RolePatient:
	case models.RoleAdmin:
		if req.PatientID == "" {
			return nil, models.NewValidationError("patientId", "is required when booking on behalf of a patient")
		}
		patientID = req.PatientID
	default:
		return nil, models.ErrForbidden
	}
	if req.DoctorID == "" {
		return nil, models.NewValidationError("doctorId", "is required")
	}

	day, err := time.ParseInLocation(dateLayout, req.Date, s.Location)
	if err != nil {
		return nil, models.NewValidationError("date", "must be YYYY-MM-DD, got %q", req.Date)
	}
	start, err := models.ParseClock(req.Time)
	if err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}
	if start.On(day).Before(s.Now()) {
		return nil, ErrSlotInPast
	}

	slots, err := s.Availability.GetAvailableSlots(ctx, req.DoctorID, day)
	if err != nil {
		return nil, err
	}
	slot, ok := findSlot(slots, start)
	if !ok {
		return nil, ErrNotBookable
	}
	if !slot.Available {
		return nil, ErrSlotTaken
	}

	now := s.Now().UTC()
	appt := &models.Appointment{
		ID:        uuid.New().String(),
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Date:      req.Date,
		StartTime: start.String(),
		EndTime:   start.Add(time.Duration(s.SlotMinutes) * time.Minute).String(),
		Status:    models.StatusScheduled,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.Logger.Info("slot lost to concurrent booking",
				zap.String("doctorID", appt.DoctorID), zap.String("date", appt.Date), zap.String("startTime", appt.StartTime))
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.Logger.Info("appointment booked",
		zap.String("appointmentID", appt.ID), zap.String("doctorID", appt.DoctorID), zap.String("patientID", appt.PatientID))
	s.scheduleReminder(ctx, appt, start.On(day))
	return appt, nil
}

func findSlot(slots []models.Slot, start models.ClockTime) (models.Slot, bool) {
	if start%60 != 0 {
		return models.Slot{}, false
	}
	want := start.HourMinute()
	for _, sl := range slots {
		if sl.Time == want {
			return sl, true
		}
	}
	return models.Slot{}, false
}

// scheduleReminder is best effort: a queue failure never fails the booking.
func (s *DefaultBookingService) scheduleReminder(ctx context.Context, appt *models.Appointment, startsAt time.Time) {
	if s.Reminders == nil || s.ReminderLead <= 0 {
		return
	}
	fireAt := startsAt.Add(-s.ReminderLead)
	if !fireAt.After(s.Now()) {
		return
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Date:          appt.Date,
		StartTime:     appt.StartTime,
	}
	if err := s.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		s.Logger.Warn("failed to schedule reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) GetAppointment(ctx context.Context, caller models.Identity, id string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !caller.Owns(*appt) {
		return nil, models.ErrForbidden
	}
	return appt, nil
}

// ListAppointments scopes patients and doctors to their own rows; admins use the filter as given.
func (s *DefaultBookingService) ListAppointments(ctx context.Context, caller models.Identity, filter models.AppointmentFilter) ([]models.Appointment, error) {
	switch caller.Role {
	case models.RolePatient:
		filter.PatientID = caller.UserID
	case models.RoleDoctor:
		filter.DoctorID = caller.UserID
	case models.RoleAdmin:
	default:
		return nil, models.ErrForbidden
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.NewValidationError("status", "unknown status %q", filter.Status)
	}
	if filter.From != "" {
		if _, err := time.ParseInLocation(dateLayout, filter.From, s.Location); err != nil {
			return nil, models.NewValidationError("from", "must be YYYY-MM-DD, got %q", filter.From)
		}
	}
	if filter.To != "" {
		if _, err := time.ParseInLocation(dateLayout, filter.To, s.Location); err != nil {
			return nil, models.NewValidationError("to", "must be YYYY-MM-DD, got %q", filter.To)
		}
	}
	appts, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// CancelAppointment frees the slot. Patients and doctors may cancel their own appointments.
func (s *DefaultBookingService) CancelAppointment(ctx context.Context, caller models.Identity, id string) (*models.Appointment, error) {
	appt, err := s.GetAppointment(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, models.StatusCancelled)
}

// UpdateStatus is reserved for the appointment's doctor and admins.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, caller models.Identity, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown status %q", status)
	}
	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !(caller.Role == models.RoleDoctor && caller.Owns(*appt)) {
		return nil, models.ErrForbidden
	}
	return s.transition(ctx, appt, status)
}

func (s *DefaultBookingService) transition(ctx context.Context, appt *models.Appointment, to models.AppointmentStatus) (*models.Appointment, error) {
	if !CanTransition(appt.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}
	updated, err := s.Repo.UpdateStatus(ctx, appt.ID, appt.Status, to)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("appointment status changed",
		zap.String("appointmentID", appt.ID), zap.String("from", string(appt.Status)), zap.String("to", string(to)))
	return updated, nil
}
