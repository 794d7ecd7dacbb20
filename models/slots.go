package models

// Slot is a derived, non-persisted bookable unit. Time is "HH:mm" (24-hour).
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySlots groups the slots of one calendar date.
type DaySlots struct {
	Date    string `json:"date"` // "YYYY-MM-DD"
	DayName string `json:"dayName"`
	Slots   []Slot `json:"slots"`
}

// BookedSlots is the set of claimed (date, start time) pairs.
type BookedSlots map[string]struct{}

// BookedKey builds the composite "date_time" key used by BookedSlots.
func BookedKey(date string, start ClockTime) string {
	return date + "_" + start.String()
}

// Add records a claimed slot.
func (b BookedSlots) Add(date string, start ClockTime) {
	b[BookedKey(date, start)] = struct{}{}
}

// Has reports whether the slot is claimed.
func (b BookedSlots) Has(date string, start ClockTime) bool {
	_, ok := b[BookedKey(date, start)]
	return ok
}
