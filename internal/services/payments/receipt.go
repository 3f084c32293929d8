package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentForReceipt returns a paid payment with the whole
// schedule -> rental -> property -> owner and rental -> tenant chain resolved.
func (s *Service) PaymentForReceipt(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.FindPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PaidAt == nil {
		return nil, &InvalidStateError{Op: "issue a receipt for", Status: p.Status}
	}

	sched := p.PaymentSchedule
	switch {
	case sched == nil:
		return nil, &NotFoundError{Resource: "schedule", ID: p.PaymentScheduleID}
	case sched.Rental == nil:
		return nil, &NotFoundError{Resource: "rental", ID: sched.RentalID}
	case sched.Rental.Property == nil:
		return nil, &NotFoundError{Resource: "property", ID: sched.Rental.PropertyID}
	case sched.Rental.Tenant == nil:
		return nil, &NotFoundError{Resource: "tenant", ID: sched.Rental.TenantID}
	case sched.Rental.Property.Owner == nil:
		return nil, &NotFoundError{Resource: "owner", ID: sched.Rental.Property.OwnerID}
	}
	return p, nil
}

type ReceiptParty struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Receipt is the data a rent receipt document is rendered from.
type Receipt struct {
	PaymentID       uuid.UUID       `json:"payment_id"`
	FileName        string          `json:"file_name"`
	Period          string          `json:"period"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	DueDate         time.Time       `json:"due_date"`
	PaidAt          time.Time       `json:"paid_at"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	Owner           ReceiptParty    `json:"owner"`
	Tenant          ReceiptParty    `json:"tenant"`
	PropertyTitle   string          `json:"property_title"`
	PropertyAddress string          `json:"property_address"`
}

// BuildReceipt turns a payment from PaymentForReceipt into receipt data. The
// billed period is the calendar month of the due date.
func BuildReceipt(p *models.Payment) *Receipt {
	rental := p.PaymentSchedule.Rental
	property := rental.Property
	owner := property.Owner
	tenant := rental.Tenant

	y, m, _ := p.DueDate.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	r := &Receipt{
		PaymentID:   p.ID,
		FileName:    fmt.Sprintf("receipt_%s_%d.pdf", strings.ToLower(m.String()), y),
		Period:      fmt.Sprintf("%s %d", m.String(), y),
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
		DueDate:     p.DueDate,
		PaidAt:      *p.PaidAt,
		Status:      string(p.Status),
		Amount:      p.Amount,
		PaidAmount:  p.PaidAmount.Decimal,
		Owner: ReceiptParty{
			Name:    owner.FullName(),
			Email:   owner.Email,
			Address: owner.Address,
		},
		Tenant: ReceiptParty{
			Name:    tenant.FullName(),
			Email:   tenant.Email,
			Address: tenant.Address,
		},
		PropertyTitle:   property.Title,
		PropertyAddress: strings.TrimSpace(fmt.Sprintf("%s, %s %s", property.Address, property.ZipCode, property.City)),
	}
	if owner.CompanyName != nil && *owner.CompanyName != "" {
		r.Owner.Name = *owner.CompanyName
	}
	if p.PaymentMethod != nil {
		r.PaymentMethod = *p.PaymentMethod
	}
	if p.TransactionID != nil {
		r.TransactionID = *p.TransactionID
	}
	return r
}

func (s *Service) Receipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	p, err := s.PaymentForReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(p), nil
}
