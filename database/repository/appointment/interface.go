// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"

	"telecare/database"
	"telecare/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrSlotTaken is returned when an active appointment already holds the
	// same (doctorId, date, startTime).
	ErrSlotTaken = errors.New("slot already booked")
	// ErrNotFound is returned when no appointment matches.
	ErrNotFound = errors.New("appointment not found")
	// ErrStatusChanged is returned when a conditional status update lost a race.
	ErrStatusChanged = errors.New("appointment status changed concurrently")
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListActiveInRange(ctx context.Context, doctorID, fromDate, toDate string) ([]models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs an AppointmentRepository over the "appointments" collection.
func NewMongoAppointmentRepo() AppointmentRepository {
	return NewMongoAppointmentRepoWithDB(database.Database())
}

func NewMongoAppointmentRepoWithDB(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
