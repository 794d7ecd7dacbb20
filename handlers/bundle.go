// File: telecare/handlers/bundle.go
package handlers

import (
	"telecare/utils"

	"go.uber.org/zap"
)

// HandlerBundle groups all endpoint handlers plus what the router needs to protect them.
type HandlerBundle struct {
	Issuer   *utils.TokenIssuer
	Denylist utils.TokenDenylist
	Health   *utils.HealthMonitor

	MaxRequestsPerMin int
	Logger            *zap.Logger

	Availability *AvailabilityHandler
	Schedule     *ScheduleHandler
	Appointments *AppointmentHandler
	Auth         *AuthHandler
}
