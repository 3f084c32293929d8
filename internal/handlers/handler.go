package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"rental-payments-backend/internal/middleware"
	"rental-payments-backend/internal/services/payments"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service *payments.Service
	log     *logrus.Logger
}

func NewHandler(service *payments.Service, log *logrus.Logger) *Handler {
	useJSONFieldNames()
	return &Handler{service: service, log: log}
}

// useJSONFieldNames makes validation errors report json field names.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func caller(c *gin.Context) uuid.UUID {
	id, _, _ := middleware.CurrentUser(c)
	return id
}

// bindJSON decodes the body into req and reports binding failures.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		validationError(c, err)
		return false
	}
	return true
}

func validationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

// respondError maps service errors to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		ve *payments.ValidationError
		nf *payments.NotFoundError
		is *payments.InvalidStateError
		ce *payments.ConflictError
		fe *payments.ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &is):
		c.JSON(http.StatusConflict, gin.H{"error": is.Error(), "status": is.Status})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Error()})
	case errors.As(err, &fe):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, payments.ErrNotificationsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
