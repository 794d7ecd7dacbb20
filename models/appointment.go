package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked consultation. Active is false once cancelled; the
// store's uniqueness constraint only covers active rows.
type Appointment struct {
	ID        string            `bson:"id" json:"id"`
	DoctorID  string            `bson:"doctorId" json:"doctorId"`
	PatientID string            `bson:"patientId" json:"patientId"`
	Date      string            `bson:"date" json:"date"`           // "YYYY-MM-DD"
	StartTime string            `bson:"startTime" json:"startTime"` // "HH:mm:ss"
	EndTime   string            `bson:"endTime" json:"endTime"`     // "HH:mm:ss"
	Status    AppointmentStatus `bson:"status" json:"status"`
	Active    bool              `bson:"active" json:"-"`
	Notes     string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// BookAppointmentRequest is what the booking UI submits for a chosen slot.
type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Notes    string `json:"notes"`
	// PatientID is only honoured for admins booking on a patient's behalf.
	PatientID string `json:"patientId,omitempty"`
}

// UpdateStatusRequest moves an appointment to a new status.
type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Status    AppointmentStatus
	From      string // inclusive "YYYY-MM-DD"
	To        string // exclusive "YYYY-MM-DD"
}

// ReminderPayload is the task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	DoctorID      string `json:"doctorId"`
	PatientID     string `json:"patientId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
}
