package repository

import (
	"context"

	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a repository bound to tx.
func (r *ScheduleRepository) WithTx(tx *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: tx}
}

// ScheduleFilter narrows schedule listings. Zero values mean no filter.
type ScheduleFilter struct {
	OwnerID    uuid.UUID
	TenantID   uuid.UUID
	PropertyID uuid.UUID
}

func withScheduleRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rental.Property.Owner").
		Preload("Rental.Tenant").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		})
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.PaymentSchedule) error {
	return translate(r.db.WithContext(ctx).Omit("Rental", "Payments").Create(s).Error)
}

// GetByID fetches a schedule without relations.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	var s models.PaymentSchedule
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// GetWithRelations fetches a schedule with rental, property, owner, tenant and payments.
func (r *ScheduleRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	var s models.PaymentSchedule
	if err := withScheduleRelations(r.db.WithContext(ctx)).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ScheduleRepository) List(ctx context.Context, f ScheduleFilter) ([]models.PaymentSchedule, error) {
	db := r.db.WithContext(ctx)
	query := withScheduleRelations(db.Model(&models.PaymentSchedule{})).Order("start_date ASC")

	if f.TenantID != uuid.Nil {
		query = query.Where("rental_id IN (?)",
			db.Model(&models.Rental{}).Select("id").Where("tenant_id = ?", f.TenantID))
	}
	if f.PropertyID != uuid.Nil {
		query = query.Where("rental_id IN (?)",
			db.Model(&models.Rental{}).Select("id").Where("property_id = ?", f.PropertyID))
	}
	if f.OwnerID != uuid.Nil {
		query = query.Where("rental_id IN (?)", ownedRentals(db, f.OwnerID))
	}

	var schedules []models.PaymentSchedule
	err := query.Find(&schedules).Error
	return schedules, translate(err)
}

func (r *ScheduleRepository) UpdateMonthlyAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentSchedule{}).
		Where("id = ?", id).
		Update("monthly_amount", amount)
	return res.RowsAffected, translate(res.Error)
}

func (r *ScheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentSchedule{}).
		Where("id = ?", id).
		Update("is_active", false)
	return res.RowsAffected, translate(res.Error)
}

// Delete removes the schedule, its payments and their audit rows. Callers run
// it inside a transaction.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)

	paymentIDs := db.Model(&models.Payment{}).Select("id").Where("payment_schedule_id = ?", id)
	if err := db.Where("payment_id IN (?)", paymentIDs).Delete(&models.PaymentAuditLog{}).Error; err != nil {
		return 0, translate(err)
	}
	if err := db.Where("payment_schedule_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
		return 0, translate(err)
	}
	res := db.Where("id = ?", id).Delete(&models.PaymentSchedule{})
	return res.RowsAffected, translate(res.Error)
}

func (r *ScheduleRepository) RentalExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rental{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate(err)
}

// ownedRentals selects the ids of rentals on properties owned by ownerID.
func ownedRentals(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	return db.Model(&models.Rental{}).
		Select("rentals.id").
		Joins("JOIN properties ON properties.id = rentals.property_id").
		Where("properties.owner_id = ?", ownerID)
}
