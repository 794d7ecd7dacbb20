// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telecare/models"
)

const opTimeout = 5 * time.Second

func (r *mongoScheduleRepo) GetByDoctor(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error) {
	return r.find(ctx, bson.M{"doctorId": doctorID})
}

// GetEnabledByDoctor returns the doctor's enabled windows. Every row is
// validated here so malformed times never reach slot generation.
func (r *mongoScheduleRepo) GetEnabledByDoctor(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error) {
	entries, err := r.find(ctx, bson.M{"doctorId": doctorID, "isAvailable": true})
	if err != nil {
		return nil, err
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoScheduleRepo) find(ctx context.Context, filter bson.M) ([]models.WeeklyScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching schedule: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.WeeklyScheduleEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding schedule: %w", err)
	}
	return entries, nil
}

// ReplaceForDoctor swaps the doctor's whole schedule inside one transaction,
// so readers see either the old rows or the new ones.
func (r *mongoScheduleRepo) ReplaceForDoctor(ctx context.Context, doctorID string, entries []models.WeeklyScheduleEntry) error {
	docs := prepareDocs(doctorID, entries)

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.DeleteMany(sc, bson.M{"doctorId": doctorID}); err != nil {
			return fmt.Errorf("delete schedule failed: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := r.coll.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert schedule failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("schedule replace transaction failed: %w", err)
	}
	return nil
}

// prepareDocs stamps every entry with the doctor and a fresh ID when missing.
func prepareDocs(doctorID string, entries []models.WeeklyScheduleEntry) []interface{} {
	docs := make([]interface{}, len(entries))
	for i := range entries {
		entries[i].DoctorID = doctorID
		if entries[i].ID == "" {
			entries[i].ID = uuid.New().String()
		}
		docs[i] = entries[i]
	}
	return docs
}

// ValidateEntries checks every row's weekday and times.
func ValidateEntries(entries []models.WeeklyScheduleEntry) error {
	for _, e := range entries {
		if _, err := e.Range(); err != nil {
			return fmt.Errorf("schedule row %s: %w", e.ID, err)
		}
	}
	return nil
}
