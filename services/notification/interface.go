package notification

import (
	"context"

	"telecare/models"

	"go.uber.org/zap"
)

// NotificationService delivers appointment reminders to the participants.
type NotificationService interface {
	SendAppointmentReminder(ctx context.Context, appt models.Appointment) error
}

// LogNotificationService records reminders in the structured log. It stands in
// for a real delivery channel (email or push) in deployments without one.
type LogNotificationService struct {
	Logger *zap.Logger
}

func NewLogNotificationService(logger *zap.Logger) *LogNotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotificationService{Logger: logger}
}

func (s *LogNotificationService) SendAppointmentReminder(_ context.Context, appt models.Appointment) error {
	s.Logger.Info("appointment reminder",
		zap.String("appointmentID", appt.ID),
		zap.String("doctorID", appt.DoctorID),
		zap.String("patientID", appt.PatientID),
		zap.String("date", appt.Date),
		zap.String("startTime", appt.StartTime),
	)
	return nil
}
