package handlers

import (
	"net/http"

	"telecare/models"
	"telecare/services/schedule"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	Service schedule.ScheduleService
	Logger  *zap.Logger
}

func NewScheduleHandler(svc schedule.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Logger: logger}
}

func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	doctorID := c.Param("doctorID")
	entries, err := h.Service.GetSchedule(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("doctorID", doctorID)), "Failed to fetch schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "entries": entries})
}

func (h *ScheduleHandler) ReplaceScheduleHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	doctorID := c.Param("doctorID")

	var req models.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Warn("Invalid schedule payload", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	entries, err := h.Service.ReplaceSchedule(c.Request.Context(), caller, doctorID, req)
	if err != nil {
		respondError(c, h.Logger.With(zap.String("doctorID", doctorID)), "Failed to replace schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated", "doctorId": doctorID, "entries": entries})
}
