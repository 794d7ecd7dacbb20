package availability

import (
	"fmt"
	"sort"
	"time"

	"telecare/models"
)

const (
	DefaultWindowDays   = 7
	DefaultSlotDuration = 30
	dateLayout          = "2006-01-02"
)

// ComputeAvailability expands a doctor's weekly schedule into per-day slot lists.
//
// Days without an enabled entry are omitted. Slots start at each range's start
// and step by slotMinutes while the slot start is before the range end. A slot
// is unavailable when it starts before now or its (date, start) is booked.
// Multiple enabled entries on one weekday are merged first.
func ComputeAvailability(
	schedule []models.WeeklyScheduleEntry,
	booked models.BookedSlots,
	startDate time.Time,
	days, slotMinutes int,
	now time.Time,
) ([]models.DaySlots, error) {
	if days <= 0 {
		return nil, models.NewValidationError("days", "must be positive, got %d", days)
	}
	if slotMinutes <= 0 {
		return nil, models.NewValidationError("slotDuration", "must be positive, got %d", slotMinutes)
	}

	byDay, err := mergeByWeekday(schedule)
	if err != nil {
		return nil, err
	}

	step := time.Duration(slotMinutes) * time.Minute
	y, m, d := startDate.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, startDate.Location())

	result := []models.DaySlots{}
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		ranges := byDay[day.Weekday()]
		if len(ranges) == 0 {
			continue
		}
		date := day.Format(dateLayout)

		var slots []models.Slot
		for _, r := range ranges {
			for t := r.Start; t < r.End; t = t.Add(step) {
				available := !t.On(day).Before(now) && !booked.Has(date, t)
				slots = append(slots, models.Slot{Time: t.HourMinute(), Available: available})
			}
		}
		result = append(result, models.DaySlots{
			Date:    date,
			DayName: day.Weekday().String(),
			Slots:   slots,
		})
	}
	return result, nil
}

// mergeByWeekday validates enabled entries and folds overlapping or touching
// ranges of the same weekday together, sorted by start.
func mergeByWeekday(schedule []models.WeeklyScheduleEntry) (map[time.Weekday][]models.ScheduleRange, error) {
	byDay := make(map[time.Weekday][]models.ScheduleRange)
	for i, e := range schedule {
		if !e.IsAvailable {
			continue
		}
		r, err := e.Range()
		if err != nil {
			return nil, fmt.Errorf("schedule entry %d (%s): %w", i, e.DayOfWeek, err)
		}
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r)
	}

	for wd, ranges := range byDay {
		sort.Slice(ranges, func(a, b int) bool { return ranges[a].Start < ranges[b].Start })
		merged := ranges[:1]
		for _, r := range ranges[1:] {
			last := &merged[len(merged)-1]
			if r.Start <= last.End {
				if r.End > last.End {
					last.End = r.End
				}
				continue
			}
			merged = append(merged, r)
		}
		byDay[wd] = merged
	}
	return byDay, nil
}
