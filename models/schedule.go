package models

import (
	"fmt"
	"time"
)

// WeeklyScheduleEntry is one recurring availability window for a single weekday.
type WeeklyScheduleEntry struct {
	ID          string       `bson:"id" json:"id"`
	DoctorID    string       `bson:"doctorId" json:"doctorId"`
	DayOfWeek   time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime   string       `bson:"startTime" json:"startTime"` // "HH:mm:ss"
	EndTime     string       `bson:"endTime" json:"endTime"`     // "HH:mm:ss"
	IsAvailable bool         `bson:"isAvailable" json:"isAvailable"`
}

// ScheduleRange is the parsed, validated form of a WeeklyScheduleEntry.
type ScheduleRange struct {
	DayOfWeek time.Weekday
	Start     ClockTime
	End       ClockTime
}

// Range parses and checks the entry's times.
func (e WeeklyScheduleEntry) Range() (ScheduleRange, error) {
	if e.DayOfWeek < time.Sunday || e.DayOfWeek > time.Saturday {
		return ScheduleRange{}, &ValidationError{Field: "dayOfWeek", Message: fmt.Sprintf("must be 0..6, got %d", e.DayOfWeek)}
	}
	start, err := ParseClock(e.StartTime)
	if err != nil {
		return ScheduleRange{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := ParseClock(e.EndTime)
	if err != nil {
		return ScheduleRange{}, fmt.Errorf("endTime: %w", err)
	}
	if start >= end {
		return ScheduleRange{}, &ValidationError{Field: "endTime", Message: fmt.Sprintf("%s must be after %s", e.EndTime, e.StartTime)}
	}
	return ScheduleRange{DayOfWeek: e.DayOfWeek, Start: start, End: end}, nil
}

// ScheduleEntryInput is the editor payload for one weekly window. Times may be
// "HH:mm" or "HH:mm:ss"; they are stored canonically.
type ScheduleEntryInput struct {
	DayOfWeek   *int   `json:"dayOfWeek" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	IsAvailable *bool  `json:"isAvailable"`
}

// ReplaceScheduleRequest replaces a doctor's whole weekly schedule.
type ReplaceScheduleRequest struct {
	Entries []ScheduleEntryInput `json:"entries"`
}
