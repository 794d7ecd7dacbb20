// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telecare/models"
)

const opTimeout = 5 * time.Second

// Create inserts the appointment. The unique partial index on active rows makes
// this an insert-if-free: a concurrent booking of the same slot gets ErrSlotTaken.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.Active = appt.Status != models.StatusCancelled

	_, err := r.coll.InsertOne(ctx, appt)
	return insertError(err)
}

// insertError maps a duplicate on the active-slot index to ErrSlotTaken.
func insertError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	return fmt.Errorf("error creating appointment: %w", err)
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

// ListActiveInRange returns non-cancelled appointments with fromDate <= date < toDate.
func (r *mongoAppointmentRepo) ListActiveInRange(ctx context.Context, doctorID, fromDate, toDate string) ([]models.Appointment, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"active":   true,
		"date":     bson.M{"$gte": fromDate, "$lt": toDate},
	}
	return r.find(ctx, filter)
}

func (r *mongoAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	return r.find(ctx, BuildFilter(filter))
}

func (r *mongoAppointmentRepo) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatus moves an appointment from one status to another only if it is
// still in the expected status.
func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"active":    to != models.StatusCancelled,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	return nil, updateError(ctx, id, err, r.GetByID)
}

// updateError tells a missing row (ErrNotFound) from a row whose status moved
// underneath the caller (ErrStatusChanged).
func updateError(
	ctx context.Context,
	id string,
	err error,
	lookup func(context.Context, string) (*models.Appointment, error),
) error {
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("error updating appointment %s: %w", id, err)
	}
	if _, getErr := lookup(ctx, id); getErr != nil {
		return getErr
	}
	return ErrStatusChanged
}

// BuildFilter translates an AppointmentFilter into a Mongo query.
func BuildFilter(f models.AppointmentFilter) bson.M {
	filter := bson.M{}
	if f.DoctorID != "" {
		filter["doctorId"] = f.DoctorID
	}
	if f.PatientID != "" {
		filter["patientId"] = f.PatientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	dateRange := bson.M{}
	if f.From != "" {
		dateRange["$gte"] = f.From
	}
	if f.To != "" {
		dateRange["$lt"] = f.To
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	return filter
}
