package booking

import (
	"errors"

	appointmentRepo "telecare/database/repository/appointment"
	"telecare/models"
)

var (
	ErrSlotTaken         = appointmentRepo.ErrSlotTaken
	ErrNotFound          = appointmentRepo.ErrNotFound
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotInPast        = errors.New("slot is in the past")
	ErrNotBookable       = errors.New("time is not a bookable slot for this doctor")
)

// transitions lists the allowed next statuses for each status.
var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusScheduled:  {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
