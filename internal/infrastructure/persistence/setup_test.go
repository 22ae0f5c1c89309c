package persistence

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLiteTestDB opens an in-memory SQLite database with every table the
// engine touches. One connection keeps the in-memory database shared.
func setupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.DocumentTemplateModel{},
		&models.DocumentCounterModel{},
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderLineModel{},
		&models.GoodsReceiptLineModel{},
		&models.AmortizationRowModel{},
	)
	require.NoError(t, err)
	return db
}

// setupMockDB opens a postgres-dialect gorm DB backed by sqlmock
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedPurchase(t *testing.T, db *gorm.DB, total, vendor *decimal.Decimal) uuid.UUID {
	t.Helper()
	po := models.PurchaseOrderModel{
		ID:          uuid.New(),
		OrderNumber: "PO-" + uuid.NewString()[:8],
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if total != nil {
		po.TotalAmount = decimal.NewNullDecimal(*total)
	}
	if vendor != nil {
		po.VendorAmount = decimal.NewNullDecimal(*vendor)
	}
	require.NoError(t, db.Create(&po).Error)
	return po.ID
}

func seedOrderLine(t *testing.T, db *gorm.DB, purchaseID uuid.UUID, amount int64, active bool) {
	t.Helper()
	line := models.PurchaseOrderLineModel{
		ID:         uuid.New(),
		PurchaseID: purchaseID,
		Amount:     decimal.NewFromInt(amount),
		IsActive:   active,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&line).Error)
}

func seedReceiptLine(t *testing.T, db *gorm.DB, purchaseID uuid.UUID, amount int64, active bool) {
	t.Helper()
	line := models.GoodsReceiptLineModel{
		ID:         uuid.New(),
		ReceiptID:  uuid.New(),
		PurchaseID: purchaseID,
		Amount:     decimal.NewFromInt(amount),
		IsActive:   active,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&line).Error)
}

func newScheduleRow(purchaseID uuid.UUID, kind amortization.Kind, number int, weight int64) amortization.Row {
	return amortization.Row{
		ID:         uuid.New(),
		PurchaseID: purchaseID,
		Kind:       kind,
		Number:     number,
		TermWeight: decimal.NewFromInt(weight),
	}
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sqlmockResult(rowsAffected int64) driver.Result {
	return sqlmock.NewResult(0, rowsAffected)
}
