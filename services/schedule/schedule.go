package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	scheduleRepo "telecare/database/repository/schedule"
	"telecare/models"

	"go.uber.org/zap"
)

// ScheduleService manages a doctor's recurring weekly schedule.
type ScheduleService interface {
	GetSchedule(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error)
	ReplaceSchedule(ctx context.Context, caller models.Identity, doctorID string, req models.ReplaceScheduleRequest) ([]models.WeeklyScheduleEntry, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo   scheduleRepo.ScheduleRepository
	Logger *zap.Logger
}

func NewDefaultScheduleService(repo scheduleRepo.ScheduleRepository, logger *zap.Logger) (*DefaultScheduleService, error) {
	if repo == nil {
		return nil, fmt.Errorf("schedule service initialization error: repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultScheduleService{Repo: repo, Logger: logger}, nil
}

// GetSchedule returns every entry, enabled or not, ordered by weekday then start.
func (s *DefaultScheduleService) GetSchedule(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error) {
	entries, err := s.Repo.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

// ReplaceSchedule validates the editor payload and swaps the doctor's schedule
// in one atomic write. Only the doctor or an admin may do this.
func (s *DefaultScheduleService) ReplaceSchedule(
	ctx context.Context,
	caller models.Identity,
	doctorID string,
	req models.ReplaceScheduleRequest,
) ([]models.WeeklyScheduleEntry, error) {
	if !caller.IsAdmin() && !(caller.Role == models.RoleDoctor && caller.UserID == doctorID) {
		return nil, models.ErrForbidden
	}

	entries, err := NormalizeEntries(doctorID, req.Entries)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.ReplaceForDoctor(ctx, doctorID, entries); err != nil {
		s.Logger.Error("failed to replace schedule", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("failed to replace schedule: %w", err)
	}

	s.Logger.Info("schedule replaced", zap.String("doctorID", doctorID), zap.Int("entries", len(entries)))
	return entries, nil
}

// NormalizeEntries validates editor input and converts times to "HH:mm:ss".
func NormalizeEntries(doctorID string, inputs []models.ScheduleEntryInput) ([]models.WeeklyScheduleEntry, error) {
	entries := make([]models.WeeklyScheduleEntry, 0, len(inputs))
	for i, in := range inputs {
		if in.DayOfWeek == nil {
			return nil, models.NewValidationError(fmt.Sprintf("entries[%d].dayOfWeek", i), "is required")
		}
		start, err := models.ParseClock(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("entries[%d].startTime: %w", i, err)
		}
		end, err := models.ParseClock(in.EndTime)
		if err != nil {
			return nil, fmt.Errorf("entries[%d].endTime: %w", i, err)
		}
		enabled := true
		if in.IsAvailable != nil {
			enabled = *in.IsAvailable
		}
		e := models.WeeklyScheduleEntry{
			DoctorID:    doctorID,
			DayOfWeek:   time.Weekday(*in.DayOfWeek),
			StartTime:   start.String(),
			EndTime:     end.String(),
			IsAvailable: enabled,
		}
		if _, err := e.Range(); err != nil {
			return nil, fmt.Errorf("entries[%d]: %w", i, err)
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []models.WeeklyScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DayOfWeek != entries[j].DayOfWeek {
			return entries[i].DayOfWeek < entries[j].DayOfWeek
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}
