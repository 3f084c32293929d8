package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.service.FindPayment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.service.RecordPayment(c.Request.Context(), id, req.ToInput(caller(c)))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment recorded", "payment": p})
}

func (h *Handler) CancelPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.service.CancelPayment(c.Request.Context(), id, caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment cancelled", "payment": p})
}

func (h *Handler) ArchivePayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.service.ArchivePayment(c.Request.Context(), id, caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment archived", "payment": p})
}

func (h *Handler) UnarchivePayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.service.UnarchivePayment(c.Request.Context(), id, caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment unarchived", "payment": p})
}

func (h *Handler) ArchivePayments(c *gin.Context) {
	var req ArchivePaymentsRequest
	if !bindJSON(c, &req) {
		return
	}
	ids := req.IDs()
	if err := h.service.AuthorizePayments(c.Request.Context(), ids, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.service.ArchiveMultiplePayments(c.Request.Context(), ids)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "bulk archive completed",
		"archived":  res.Archived,
		"not_found": res.NotFound,
	})
}

// ListLatePayments lists PENDING payments past due that the sweep has not
// moved yet. ?include_swept=true adds payments already stored as LATE.
func (h *Handler) ListLatePayments(c *gin.Context) {
	includeSwept, err := strconv.ParseBool(c.DefaultQuery("include_swept", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid include_swept"})
		return
	}

	list := h.service.GetLatePayments
	if includeSwept {
		list = h.service.GetAllLatePayments
	}
	items, err := list(c.Request.Context(), caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) RefreshLatePayments(c *gin.Context) {
	n, err := h.service.UpdateLatePaymentsStatus(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "late sweep completed", "payments_updated": n})
}

func (h *Handler) NotifyLatePayments(c *gin.Context) {
	run, err := h.service.NotifyLatePayments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) ListArchivedPayments(c *gin.Context) {
	items, err := h.service.GetArchivedPayments(c.Request.Context(), caller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	entries, err := h.service.PaymentHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *Handler) PaymentReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.AuthorizePayment(c.Request.Context(), id, caller(c)); err != nil {
		h.respondError(c, err)
		return
	}

	receipt, err := h.service.Receipt(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
