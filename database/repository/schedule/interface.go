// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"telecare/database"
	"telecare/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ScheduleRepository interface {
	GetByDoctor(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error)
	GetEnabledByDoctor(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error)
	ReplaceForDoctor(ctx context.Context, doctorID string, entries []models.WeeklyScheduleEntry) error
	EnsureIndexes(ctx context.Context) error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a ScheduleRepository over the "weekly_schedules" collection.
func NewMongoScheduleRepo() ScheduleRepository {
	return NewMongoScheduleRepoWithDB(database.Database())
}

func NewMongoScheduleRepoWithDB(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{
		coll: db.Collection("weekly_schedules"),
	}
}
