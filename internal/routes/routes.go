package routes

import (
	"net/http"

	handler "rental-payments-backend/internal/handlers"
	"rental-payments-backend/internal/middleware"
	"rental-payments-backend/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, h *handler.Handler, jwtSecret string) {
	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := api.Group("", middleware.AuthRequired(jwtSecret))
	authed.GET("/schedules/tenant/:tenantId",
		middleware.RoleRequired(models.RoleOwner, models.RoleTenant),
		h.ListTenantSchedules)

	owner := authed.Group("", middleware.RoleRequired(models.RoleOwner))

	// Schedule routes
	schedules := owner.Group("/schedules")
	schedules.POST("", h.CreateSchedule)
	schedules.GET("", h.ListSchedules)
	schedules.GET("/property/:propertyId", h.ListPropertySchedules)
	schedules.GET("/:id", h.GetSchedule)
	schedules.PUT("/:id/amount", h.UpdateScheduleAmount)
	schedules.PUT("/:id/deactivate", h.DeactivateSchedule)
	schedules.DELETE("/:id", h.DeleteSchedule)
	schedules.GET("/:id/statistics", h.GetScheduleStatistics)

	// Payment routes
	payments := owner.Group("/payments")
	payments.GET("/late", h.ListLatePayments)
	payments.POST("/late/refresh", h.RefreshLatePayments)
	payments.POST("/late/notify", h.NotifyLatePayments)
	payments.GET("/archived", h.ListArchivedPayments)
	payments.POST("/archive", h.ArchivePayments)
	payments.POST("/import", h.ImportPayments)
	payments.GET("/:id", h.GetPayment)
	payments.POST("/:id/record", h.RecordPayment)
	payments.PUT("/:id/cancel", h.CancelPayment)
	payments.PUT("/:id/archive", h.ArchivePayment)
	payments.PUT("/:id/unarchive", h.UnarchivePayment)
	payments.GET("/:id/history", h.PaymentHistory)
	payments.GET("/:id/receipt", h.PaymentReceipt)
}
