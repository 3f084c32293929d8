package repository

import (
	"context"

	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnershipRepository answers "does this owner own X" through the
// payment -> schedule -> rental -> property chain.
type OwnershipRepository struct {
	db *gorm.DB
}

func NewOwnershipRepository(db *gorm.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

func (r *OwnershipRepository) PropertyOwnedBy(ctx context.Context, propertyID, ownerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ? AND owner_id = ?", propertyID, ownerID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *OwnershipRepository) RentalOwnedBy(ctx context.Context, rentalID, ownerID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	err := db.Model(&models.Rental{}).
		Where("id = ?", rentalID).
		Where("id IN (?)", ownedRentals(db, ownerID)).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *OwnershipRepository) ScheduleOwnedBy(ctx context.Context, scheduleID, ownerID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	err := db.Model(&models.PaymentSchedule{}).
		Where("id = ?", scheduleID).
		Where("rental_id IN (?)", ownedRentals(db, ownerID)).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *OwnershipRepository) PaymentOwnedBy(ctx context.Context, paymentID, ownerID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	err := db.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Where("payment_schedule_id IN (?)", ownedSchedules(db, ownerID)).
		Count(&count).Error
	return count > 0, translate(err)
}
