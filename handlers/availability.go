package handlers

import (
	"net/http"
	"strconv"
	"time"

	"telecare/models"
	"telecare/services/availability"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// AvailabilityHandler serves the read-only slot endpoints.
type AvailabilityHandler struct {
	Service     availability.AvailabilityService
	DefaultDays int
	Location    *time.Location
	Now         func() time.Time
	Logger      *zap.Logger
}

func NewAvailabilityHandler(svc availability.AvailabilityService, defaultDays int, loc *time.Location, logger *zap.Logger) *AvailabilityHandler {
	if defaultDays <= 0 {
		defaultDays = availability.DefaultWindowDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityHandler{Service: svc, DefaultDays: defaultDays, Location: loc, Now: time.Now, Logger: logger}
}

// GetDoctorSlotsHandler handles GET /api/doctors/:doctorID/slots?start=&days=&format=.
func (h *AvailabilityHandler) GetDoctorSlotsHandler(c *gin.Context) {
	doctorID := c.Param("doctorID")

	start := h.Now().In(h.Location)
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, h.Location)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", "start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}

	days := h.DefaultDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", "days must be an integer")
			return
		}
		days = n
	}

	result, err := h.Service.GetDoctorSlots(c.Request.Context(), doctorID, start, days)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("doctorID", doctorID)), "Failed to compute availability", err)
		return
	}

	if c.Query("format") == "12h" {
		for i := range result {
			result[i].Slots = to12h(result[i].Slots)
		}
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "days": result})
}

// GetAvailableSlotsHandler handles GET /api/doctors/:doctorID/slots/:date.
func (h *AvailabilityHandler) GetAvailableSlotsHandler(c *gin.Context) {
	doctorID := c.Param("doctorID")
	date, err := time.ParseInLocation(dateLayout, c.Param("date"), h.Location)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.Service.GetAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("doctorID", doctorID)), "Failed to compute availability", err)
		return
	}
	if c.Query("format") == "12h" {
		slots = to12h(slots)
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "date": date.Format(dateLayout), "slots": slots})
}

// to12h re-renders slot labels as "hh:mm AM".
func to12h(slots []models.Slot) []models.Slot {
	out := make([]models.Slot, len(slots))
	for i, s := range slots {
		out[i] = s
		if t, err := models.ParseClock(s.Time); err == nil {
			out[i].Time = t.Kitchen()
		}
	}
	return out
}
