package database

import (
	"fmt"
	"time"

	"budget-buddy/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	seedWindowDays  = 90
	seedBatchSize   = 100
	incomeCategory  = "Salary"
	fallbackAccount = "Checking"
)

// SeedIfEmpty fills an empty ledger with count generated entries and reports how many were written
func SeedIfEmpty(db *gorm.DB, count int, categories, accounts []models.Option, now time.Time) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	var existing int64
	if err := db.Model(&models.LedgerEntry{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	entries := GenerateEntries(gofakeit.New(0), count, categories, accounts, now)
	if err := db.CreateInBatches(&entries, seedBatchSize).Error; err != nil {
		return 0, fmt.Errorf("failed to seed transactions: %w", err)
	}

	return len(entries), nil
}

// GenerateEntries builds count ledger entries dated within the 90 days before now.
// Income categories get positive amounts, everything else is spending.
func GenerateEntries(faker *gofakeit.Faker, count int, categories, accounts []models.Option, now time.Time) []models.LedgerEntry {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	entries := make([]models.LedgerEntry, 0, count)

	for i := 0; i < count; i++ {
		entry := models.LedgerEntry{
			Date:        today.AddDate(0, 0, -faker.Number(0, seedWindowDays-1)),
			AccountName: fallbackAccount,
		}

		if len(accounts) > 0 {
			entry.AccountName = accounts[faker.Number(0, len(accounts)-1)].Label
		}

		// roughly one in ten entries is left uncategorized, one in twelve has no description
		if len(categories) > 0 && faker.Number(1, 10) > 1 {
			category := categories[faker.Number(0, len(categories)-1)].Label
			entry.CategoryName = &category
		}
		if faker.Number(1, 12) > 1 {
			description := faker.Company()
			entry.Description = &description
		}

		if entry.CategoryName != nil && *entry.CategoryName == incomeCategory {
			entry.Amount = decimal.NewFromFloat(faker.Price(1500, 4000)).Round(2)
		} else {
			entry.Amount = decimal.NewFromFloat(faker.Price(3, 250)).Round(2).Neg()
		}

		entries = append(entries, entry)
	}

	return entries
}
