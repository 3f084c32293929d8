package payments

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rental-payments-backend/internal/clock"
	"rental-payments-backend/internal/events"
	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OwnershipChecker answers ownership questions for the owner-scoped API.
type OwnershipChecker interface {
	PropertyOwnedBy(ctx context.Context, propertyID, ownerID uuid.UUID) (bool, error)
	RentalOwnedBy(ctx context.Context, rentalID, ownerID uuid.UUID) (bool, error)
	ScheduleOwnedBy(ctx context.Context, scheduleID, ownerID uuid.UUID) (bool, error)
	PaymentOwnedBy(ctx context.Context, paymentID, ownerID uuid.UUID) (bool, error)
}

// LateNotifier delivers a reminder for one LATE payment. The payment comes
// with its schedule, rental, property and tenant loaded.
type LateNotifier interface {
	NotifyLate(ctx context.Context, p *models.Payment) error
}

type Service struct {
	db        *gorm.DB
	schedules *repository.ScheduleRepository
	payments  *repository.PaymentRepository
	ownership OwnershipChecker
	events    events.Publisher
	notifier  LateNotifier
	clock     clock.Clock
	loc       *time.Location
	log       *logrus.Logger

	noticeBatch int
}

type Option func(*Service)

func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

// WithLocation sets the timezone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }

func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.events = p } }

func WithLateNotifier(n LateNotifier) Option { return func(s *Service) { s.notifier = n } }

func WithLogger(l *logrus.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(
	schedules *repository.ScheduleRepository,
	payments *repository.PaymentRepository,
	ownership OwnershipChecker,
	opts ...Option,
) *Service {
	s := &Service{
		db:        schedules.DB(),
		schedules: schedules,
		payments:  payments,
		ownership: ownership,
		events:    events.NopPublisher{},
		clock:     clock.System(),
		loc:       time.UTC,
		log:       logrus.StandardLogger(),

		noticeBatch: noticeBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return clock.Today(s.clock, s.loc)
}

// now is the current instant truncated to microseconds, the precision
// Postgres keeps for timestamps.
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

// publish sends an event after the write committed. Delivery failures are
// logged and never fail the operation.
func (s *Service) publish(ctx context.Context, eventType, key string, data interface{}) {
	err := s.events.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: s.now(),
		Data:       data,
	})
	if err != nil {
		s.log.WithError(err).WithField("event_type", eventType).Warn("event publish failed")
	}
}

func (s *Service) audit(ctx context.Context, repo *repository.PaymentRepository, p *models.Payment, action models.AuditAction, to models.PaymentStatus, by uuid.UUID, details map[string]interface{}) error {
	entry := &models.PaymentAuditLog{
		ID:         uuid.New(),
		PaymentID:  p.ID,
		Action:     action,
		FromStatus: p.Status,
		ToStatus:   to,
	}
	if by != uuid.Nil {
		entry.PerformedBy = &by
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = datatypes.JSON(raw)
	}
	return repo.CreateAudit(ctx, entry)
}

// persistence wraps a storage failure unless it already carries a service error.
func persistence(op string, err error) error {
	if err == nil || passthrough(err) {
		return err
	}
	if errors.Is(err, repository.ErrConstraint) {
		return &ValidationError{Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}

func (s *Service) loadPayment(ctx context.Context, repo *repository.PaymentRepository, id uuid.UUID) (*models.Payment, error) {
	p, err := repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "payment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) loadSchedule(ctx context.Context, repo *repository.ScheduleRepository, id uuid.UUID) (*models.PaymentSchedule, error) {
	sched, err := repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "schedule", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return sched, nil
}
