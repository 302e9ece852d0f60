package database

import (
	"testing"
	"time"

	"budget-buddy/internal/config"
	"budget-buddy/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.StubConfig{
			DatabaseDriver: config.DriverSQLite,
			DatabaseDSN:    ":memory:",
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = testDB.Close()
	})

	return testDB
}

// TestEntry describes a ledger row for fixtures; empty optional strings are stored as NULL
type TestEntry struct {
	Date        string
	Description string
	Category    string
	Amount      string
	Account     string
}

func CreateTestEntry(t *testing.T, db *DB, fixture TestEntry) *models.LedgerEntry {
	t.Helper()

	date, err := time.Parse(models.DateLayout, fixture.Date)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", fixture.Date, err)
	}

	entry := &models.LedgerEntry{
		Date:        date,
		Amount:      decimal.RequireFromString(fixture.Amount),
		AccountName: fixture.Account,
	}
	if fixture.Description != "" {
		entry.Description = &fixture.Description
	}
	if fixture.Category != "" {
		entry.CategoryName = &fixture.Category
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}

	return entry
}
