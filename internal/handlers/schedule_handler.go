package handler

import (
	"net/http"

	"rental-payments-backend/internal/middleware"
	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	params := req.ToParams()

	if err := h.service.AuthorizeRental(c.Request.Context(), params.RentalID, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	sched, err := h.service.CreateSchedule(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "schedule created", "schedule": sched})
}

func (h *Handler) ListSchedules(c *gin.Context) {
	schedules, err := h.service.FindAll(c.Request.Context(), repository.ScheduleFilter{OwnerID: caller(c)})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": schedules})
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizeSchedule(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	sched, err := h.service.FindOne(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sched})
}

func (h *Handler) ListPropertySchedules(c *gin.Context) {
	propertyID, ok := paramID(c, "propertyId")
	if !ok {
		return
	}
	if err := h.service.AuthorizeProperty(c.Request.Context(), propertyID, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	schedules, err := h.service.FindByProperty(c.Request.Context(), propertyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": schedules})
}

// ListTenantSchedules serves tenants their own schedules and owners the
// tenant's schedules on their properties.
func (h *Handler) ListTenantSchedules(c *gin.Context) {
	tenantID, ok := paramID(c, "tenantId")
	if !ok {
		return
	}

	userID, role, _ := middleware.CurrentUser(c)
	filter := repository.ScheduleFilter{TenantID: tenantID}
	switch role {
	case models.RoleTenant:
		if userID != tenantID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	default:
		filter.OwnerID = userID
	}

	schedules, err := h.service.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": schedules})
}

func (h *Handler) UpdateScheduleAmount(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateAmountRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.AuthorizeSchedule(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	rev, err := h.service.UpdatePaymentAmount(c.Request.Context(), id, req.MonthlyAmount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "monthly amount updated",
		"monthly_amount":   rev.MonthlyAmount,
		"payments_updated": rev.UpdatedPayments,
	})
}

func (h *Handler) DeactivateSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizeSchedule(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.service.DeactivateSchedule(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule deactivated"})
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizeSchedule(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.service.RemoveSchedule(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule removed"})
}

func (h *Handler) GetScheduleStatistics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizeSchedule(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	stats, err := h.service.GetPaymentStatistics(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
