package handler

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"rental-payments-backend/internal/services/payments"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ImportRow is the outcome of one CSV line.
type ImportRow struct {
	Row       int    `json:"row"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// importColumns are the expected CSV columns, in order. transaction_id and
// notes may be left empty.
var importColumns = []string{"payment_id", "amount", "payment_method", "transaction_id", "notes"}

// ImportPayments records payments from an uploaded CSV bank export. Each row
// is recorded on its own; a bad row is reported and skipped.
func (h *Handler) ImportPayments(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read CSV header"})
		return
	}
	if len(headerRow) < 3 || !strings.EqualFold(strings.TrimSpace(headerRow[0]), importColumns[0]) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected columns: " + strings.Join(importColumns, ",")})
		return
	}

	owner := caller(c)
	var (
		results  []ImportRow
		recorded int
	)
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			results = append(results, ImportRow{Row: rowNum, Error: "unreadable row"})
			continue
		}

		row := h.importRow(c, owner, rowNum, record)
		if row.Error == "" {
			recorded++
		}
		results = append(results, row)
	}

	h.log.WithFields(logrus.Fields{
		"file":     header.Filename,
		"rows":     len(results),
		"recorded": recorded,
	}).Info("payment import processed")

	c.JSON(http.StatusOK, gin.H{
		"message":  "import completed",
		"recorded": recorded,
		"failed":   len(results) - recorded,
		"rows":     results,
	})
}

func (h *Handler) importRow(c *gin.Context, owner uuid.UUID, rowNum int, record []string) ImportRow {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	row := ImportRow{Row: rowNum, PaymentID: field(0)}

	id, err := uuid.Parse(row.PaymentID)
	if err != nil {
		row.Error = "invalid payment_id"
		return row
	}
	amount, err := decimal.NewFromString(field(1))
	if err != nil {
		row.Error = "invalid amount"
		return row
	}

	in := payments.RecordPaymentInput{Amount: amount, Method: field(2), PerformedBy: owner}
	if ref := field(3); ref != "" {
		in.TransactionID = &ref
	}
	if notes := field(4); notes != "" {
		in.Notes = &notes
	}

	ctx := c.Request.Context()
	if err := h.service.AuthorizePayment(ctx, id, owner); err != nil {
		row.Error = importError(err)
		return row
	}
	p, err := h.service.RecordPayment(ctx, id, in)
	if err != nil {
		row.Error = importError(err)
		return row
	}
	row.Status = string(p.Status)
	return row
}

func importError(err error) string {
	var fe *payments.ForbiddenError
	if errors.As(err, &fe) {
		return "forbidden"
	}
	var pe *payments.PersistenceError
	if errors.As(err, &pe) {
		return "internal error"
	}
	return err.Error()
}
