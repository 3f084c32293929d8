package repository

import (
	"context"
	"time"

	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const createBatchSize = 100

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func withPaymentRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PaymentSchedule.Rental.Property.Owner").
		Preload("PaymentSchedule.Rental.Tenant")
}

// CreateBatch inserts generated payments in chunks.
func (r *PaymentRepository) CreateBatch(ctx context.Context, payments []models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit("PaymentSchedule").CreateInBatches(payments, createBatchSize).Error)
}

// GetByID fetches a single payment without relations.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// GetWithRelations resolves schedule -> rental -> property -> owner and rental -> tenant.
func (r *PaymentRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := withPaymentRelations(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_schedule_id = ?", scheduleID).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, translate(err)
}

// UpdateVersioned applies fields to the payment only if it still carries
// version, bumping the version in the same statement.
func (r *PaymentRepository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, fields map[string]interface{}) error {
	fields["version"] = version + 1
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// MarkLate moves every PENDING payment due before today to LATE in one statement.
func (r *PaymentRepository) MarkLate(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ? AND due_date < ?", models.PaymentStatusPending, today).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusLate,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, translate(res.Error)
}

// ArchiveMany archives the listed payments that are not archived yet.
func (r *PaymentRepository) ArchiveMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id IN ? AND is_archived = ?", ids, false).
		Updates(map[string]interface{}{
			"is_archived": true,
			"version":     gorm.Expr("version + 1"),
		})
	return res.RowsAffected, translate(res.Error)
}

// ExistingIDs returns the subset of ids that exist.
func (r *PaymentRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, translate(err)
}

// RevisePendingAmounts sets amount on PENDING payments of a schedule due in [from, to].
func (r *PaymentRepository) RevisePendingAmounts(ctx context.Context, scheduleID uuid.UUID, from, to time.Time, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payment_schedule_id = ? AND status = ?", scheduleID, models.PaymentStatusPending).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Updates(map[string]interface{}{
			"amount":  amount,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, translate(res.Error)
}

// ListOverdue returns PENDING payments due before today regardless of whether
// the late sweep has run. With includeSwept, payments already stored as LATE
// are listed too. A non-zero ownerID restricts to that owner's properties.
func (r *PaymentRepository) ListOverdue(ctx context.Context, today time.Time, ownerID uuid.UUID, includeSwept bool) ([]models.Payment, error) {
	db := r.db.WithContext(ctx)
	query := withPaymentRelations(db).Order("due_date ASC")
	if includeSwept {
		query = query.Where("(status = ? AND due_date < ?) OR status = ?",
			models.PaymentStatusPending, today, models.PaymentStatusLate)
	} else {
		query = query.Where("status = ? AND due_date < ?", models.PaymentStatusPending, today)
	}
	if ownerID != uuid.Nil {
		query = query.Where("payment_schedule_id IN (?)", ownedSchedules(db, ownerID))
	}

	var payments []models.Payment
	err := query.Find(&payments).Error
	return payments, translate(err)
}

func (r *PaymentRepository) ListArchived(ctx context.Context, ownerID uuid.UUID) ([]models.Payment, error) {
	db := r.db.WithContext(ctx)
	query := withPaymentRelations(db).
		Where("is_archived = ?", true).
		Order("due_date DESC")
	if ownerID != uuid.Nil {
		query = query.Where("payment_schedule_id IN (?)", ownedSchedules(db, ownerID))
	}

	var payments []models.Payment
	err := query.Find(&payments).Error
	return payments, translate(err)
}

// NoticeCursor marks the last payment handed out by ListLateWithoutNotice.
// The zero value starts from the beginning.
type NoticeCursor struct {
	DueDate time.Time
	ID      uuid.UUID
}

// ListLateWithoutNotice returns the next page of LATE payments whose tenant
// has not been mailed yet, ordered by due date then id, strictly after cursor.
func (r *PaymentRepository) ListLateWithoutNotice(ctx context.Context, after NoticeCursor, limit int) ([]models.Payment, error) {
	query := withPaymentRelations(r.db.WithContext(ctx)).
		Where("status = ? AND late_notice_sent_at IS NULL", models.PaymentStatusLate)
	if after.ID != uuid.Nil {
		query = query.Where("due_date > ? OR (due_date = ? AND id > ?)", after.DueDate, after.DueDate, after.ID)
	}

	var payments []models.Payment
	err := query.
		Order("due_date ASC").
		Order("id ASC").
		Limit(limit).
		Find(&payments).Error
	return payments, translate(err)
}

// MarkLateNoticeSent stamps the payment unless another run already did.
func (r *PaymentRepository) MarkLateNoticeSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND late_notice_sent_at IS NULL", id).
		Update("late_notice_sent_at", at)
	return res.RowsAffected > 0, translate(res.Error)
}

func (r *PaymentRepository) CreateAudit(ctx context.Context, entry *models.PaymentAuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *PaymentRepository) ListAudit(ctx context.Context, paymentID uuid.UUID) ([]models.PaymentAuditLog, error) {
	var entries []models.PaymentAuditLog
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, translate(err)
}

func ownedSchedules(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	return db.Model(&models.PaymentSchedule{}).
		Select("id").
		Where("rental_id IN (?)", ownedRentals(db, ownerID))
}
