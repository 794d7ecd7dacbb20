package routes

import (
	"time"

	"telecare/handlers"
	"telecare/middleware"
	"telecare/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDoctorRoutes registers the public availability reads and the schedule editor.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctors/:doctorID")
	{
		api.GET("/slots", hb.Availability.GetDoctorSlotsHandler)
		api.GET("/slots/:date", hb.Availability.GetAvailableSlotsHandler)
		api.GET("/schedule", hb.Schedule.GetScheduleHandler)

		// Protected routes (Require Authentication)
		api.PUT("/schedule",
			middleware.JWTAuthMiddleware(hb.Issuer, hb.Denylist, hb.Logger),
			middleware.RequireRole(models.RoleDoctor, models.RoleAdmin),
			hb.Schedule.ReplaceScheduleHandler,
		)
	}
}

// RegisterAppointmentRoutes registers booking and appointment lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Issuer, hb.Denylist, hb.Logger))
		api.POST("", middleware.RequireRole(models.RolePatient, models.RoleAdmin), hb.Appointments.BookAppointmentHandler)
		api.GET("", hb.Appointments.ListAppointmentsHandler)
		api.GET("/:id", hb.Appointments.GetAppointmentHandler)
		api.POST("/:id/cancel", hb.Appointments.CancelAppointmentHandler)
		api.PATCH("/:id/status", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), hb.Appointments.UpdateStatusHandler)
	}
}

// RegisterAuthRoutes registers token management endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Issuer, hb.Denylist, hb.Logger))
		api.POST("/revoke", hb.Auth.RevokeTokenHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.HealthHandler(hb.Health))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin, hb.Logger))

	RegisterHealthRoute(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
}
