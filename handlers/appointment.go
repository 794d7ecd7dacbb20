package handlers

import (
	"net/http"

	"telecare/models"
	"telecare/services/booking"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes booking and the appointment lifecycle.
type AppointmentHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewAppointmentHandler(svc booking.BookingService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Logger: logger}
}

// BookAppointmentHandler handles POST /api/appointments.
func (h *AppointmentHandler) BookAppointmentHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req models.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Warn("Invalid booking request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	appt, err := h.Service.BookAppointment(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("doctorID", req.DoctorID)), "Failed to book appointment", err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListAppointmentsHandler handles GET /api/appointments?status=&doctorId=&patientId=&from=&to=.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	filter := models.AppointmentFilter{
		DoctorID:  c.Query("doctorId"),
		PatientID: c.Query("patientId"),
		Status:    models.AppointmentStatus(c.Query("status")),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}

	appts, err := h.Service.ListAppointments(c.Request.Context(), caller, filter)
	if err != nil {
		respondError(c, h.Logger, "Failed to list appointments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *AppointmentHandler) GetAppointmentHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id := c.Param("id")
	appt, err := h.Service.GetAppointment(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("appointmentID", id)), "Failed to fetch appointment", err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id := c.Param("id")
	appt, err := h.Service.CancelAppointment(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("appointmentID", id)), "Failed to cancel appointment", err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) UpdateStatusHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	appt, err := h.Service.UpdateStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("appointmentID", id)), "Failed to update appointment status", err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
