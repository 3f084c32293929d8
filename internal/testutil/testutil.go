// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"io"
	"testing"
	"time"

	"rental-payments-backend/internal/config"
	"rental-payments-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixture is one owner renting one property to one tenant.
type Fixture struct {
	Owner    models.User
	Tenant   models.User
	Property models.Property
	Rental   models.Rental
}

// Seed inserts a fresh owner, tenant, property and rental.
func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()

	company := "Dupont Immobilier"
	f := &Fixture{
		Owner: models.User{
			ID:          uuid.New(),
			Role:        models.RoleOwner,
			FirstName:   "Claire",
			LastName:    "Dupont",
			Email:       "claire.dupont@example.com",
			Address:     "1 rue de Rivoli, 75001 Paris",
			CompanyName: &company,
		},
		Tenant: models.User{
			ID:        uuid.New(),
			Role:      models.RoleTenant,
			FirstName: "Marc",
			LastName:  "Leroy",
			Email:     "marc.leroy@example.com",
			Address:   "12 avenue Jean Jaures, 69007 Lyon",
		},
	}
	require.NoError(t, db.Create(&f.Owner).Error)
	require.NoError(t, db.Create(&f.Tenant).Error)

	f.Property = models.Property{
		ID:      uuid.New(),
		OwnerID: f.Owner.ID,
		Title:   "T2 Croix-Rousse",
		Address: "12 avenue Jean Jaures",
		City:    "Lyon",
		ZipCode: "69007",
		Type:    "apartment",
		Surface: decimal.NewFromInt(48),
	}
	require.NoError(t, db.Omit("Owner").Create(&f.Property).Error)

	f.Rental = models.Rental{
		ID:         uuid.New(),
		Identifier: "RENT-" + uuid.NewString()[:8],
		PropertyID: f.Property.ID,
		TenantID:   f.Tenant.ID,
		StartDate:  Date(2024, time.January, 1),
		Rent:       decimal.NewFromInt(1000),
		IsActive:   true,
	}
	require.NoError(t, db.Omit("Property", "Tenant").Create(&f.Rental).Error)
	return f
}
