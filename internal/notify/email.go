package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"rental-payments-backend/internal/clock"
	"rental-payments-backend/internal/config"
	"rental-payments-backend/internal/models"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

var ErrNoRecipient = errors.New("tenant has no email address")

// sendFunc delivers e through the SMTP relay at addr.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func smtpSend(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// Sender mails late payment notices to tenants.
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, logger: logger, send: smtpSend}
}

// NotifyLate sends the late notice for p. The payment must come with its
// schedule, rental, property and tenant loaded.
func (s *Sender) NotifyLate(ctx context.Context, p *models.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	notice, err := NoticeFor(p)
	if err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{notice.To}
	e.Subject = notice.Subject()
	e.Text = []byte(notice.Body())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send late notice to %s: %v", notice.To, err)
		return fmt.Errorf("failed to send late notice: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", notice.To, e.Subject)
	return nil
}

// LateNotice is the content of one reminder.
type LateNotice struct {
	To            string
	TenantName    string
	PropertyTitle string
	Period        string
	DueDate       string
	Amount        string
	Outstanding   string
}

// NoticeFor builds the notice for a LATE or partially paid payment.
func NoticeFor(p *models.Payment) (*LateNotice, error) {
	if p.PaymentSchedule == nil || p.PaymentSchedule.Rental == nil || p.PaymentSchedule.Rental.Tenant == nil {
		return nil, fmt.Errorf("payment %s: tenant not loaded", p.ID)
	}
	rental := p.PaymentSchedule.Rental
	tenant := rental.Tenant
	if tenant.Email == "" {
		return nil, ErrNoRecipient
	}

	outstanding := p.Amount
	if p.PaidAmount.Valid {
		outstanding = outstanding.Sub(p.PaidAmount.Decimal)
	}

	n := &LateNotice{
		To:          tenant.Email,
		TenantName:  tenant.FullName(),
		Period:      p.DueDate.Format("January 2006"),
		DueDate:     p.DueDate.Format(clock.DateLayout),
		Amount:      p.Amount.StringFixed(2),
		Outstanding: outstanding.StringFixed(2),
	}
	if rental.Property != nil {
		n.PropertyTitle = rental.Property.Title
	}
	return n, nil
}

func (n *LateNotice) Subject() string {
	return fmt.Sprintf("Overdue rent for %s", n.Period)
}

func (n *LateNotice) Body() string {
	body := fmt.Sprintf("Dear %s,\n\n", n.TenantName)
	if n.PropertyTitle != "" {
		body += fmt.Sprintf("Your rent for %s (%s) was due on %s and has not been settled.\n", n.PropertyTitle, n.Period, n.DueDate)
	} else {
		body += fmt.Sprintf("Your rent for %s was due on %s and has not been settled.\n", n.Period, n.DueDate)
	}
	body += fmt.Sprintf("Amount due: %s\nOutstanding: %s\n", n.Amount, n.Outstanding)
	body += "Please make the payment as soon as possible or contact your landlord.\n"
	body += "\nBest regards,\nRental Payments"
	return body
}
