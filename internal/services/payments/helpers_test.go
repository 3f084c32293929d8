package payments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rental-payments-backend/internal/clock"
	"rental-payments-backend/internal/events"
	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"
	"rental-payments-backend/internal/services/schedule"
	"rental-payments-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	ctx        = context.Background()
	feb10      = time.Date(2024, time.February, 10, 9, 30, 0, 0, time.UTC)
	date       = testutil.Date
	thousand   = decimal.NewFromInt(1000)
	errNoRoute = errors.New("mail relay unreachable")
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeNotifier struct {
	err         error
	undelivered map[uuid.UUID]bool
	sent        []uuid.UUID
}

func (n *fakeNotifier) NotifyLate(_ context.Context, p *models.Payment) error {
	if n.err != nil {
		return n.err
	}
	if n.undelivered[p.ID] {
		return errNoRoute
	}
	n.sent = append(n.sent, p.ID)
	return nil
}

type env struct {
	db      *gorm.DB
	fx      *testutil.Fixture
	svc     *Service
	events  *recordingPublisher
	payRepo *repository.PaymentRepository
}

func newEnv(t *testing.T, now time.Time, opts ...Option) *env {
	t.Helper()

	db := testutil.NewDB(t)
	e := &env{
		db:      db,
		fx:      testutil.Seed(t, db),
		events:  &recordingPublisher{},
		payRepo: repository.NewPaymentRepository(db),
	}
	e.svc = e.serviceAt(now, opts...)
	return e
}

// serviceAt returns a service over the same database with a different clock.
func (e *env) serviceAt(now time.Time, opts ...Option) *Service {
	base := []Option{
		WithClock(clock.Fixed{T: now}),
		WithPublisher(e.events),
		WithLogger(testutil.QuietLogger()),
	}
	return NewService(
		repository.NewScheduleRepository(e.db),
		e.payRepo,
		repository.NewOwnershipRepository(e.db),
		append(base, opts...)...,
	)
}

func (e *env) createSchedule(t *testing.T, start, end time.Time, dom int) *models.PaymentSchedule {
	t.Helper()
	sched, err := e.svc.CreateSchedule(ctx, schedule.Params{
		RentalID:      e.fx.Rental.ID,
		StartDate:     start,
		EndDate:       end,
		MonthlyAmount: thousand,
		DayOfMonth:    dom,
	})
	require.NoError(t, err)
	return sched
}

func (e *env) reload(t *testing.T, id uuid.UUID) *models.Payment {
	t.Helper()
	p, err := e.payRepo.GetByID(ctx, id)
	require.NoError(t, err)
	return p
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func day(t time.Time) string { return t.Format(clock.DateLayout) }

func record(amount int64) RecordPaymentInput {
	return RecordPaymentInput{Amount: decimal.NewFromInt(amount), Method: "bank_transfer"}
}
