package handlers

import (
	"errors"
	"net/http"

	appointmentRepo "telecare/database/repository/appointment"
	"telecare/models"
	"telecare/services/availability"
	"telecare/services/booking"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a service error onto an HTTP status and a short public message.
func statusFor(err error) (int, string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, models.ErrInvalidTime):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, booking.ErrSlotInPast), errors.Is(err, booking.ErrNotBookable):
		return http.StatusBadRequest, "Slot cannot be booked"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict, "Slot already booked"
	case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, appointmentRepo.ErrStatusChanged):
		return http.StatusConflict, "Invalid status transition"
	case errors.Is(err, availability.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Availability temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// respondError logs and writes the JSON error envelope for err.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status, public := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		// Internal details stay in the log.
		utils.JSONError(c, status, public, msg)
		return
	}
	utils.JSONError(c, status, public, err.Error())
}

// callerFrom returns the authenticated identity or writes a 401.
func callerFrom(c *gin.Context) (models.Identity, bool) {
	id, ok := c.Get("identity")
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return models.Identity{}, false
	}
	identity, ok := id.(models.Identity)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "invalid identity")
		return models.Identity{}, false
	}
	return identity, true
}
