package transactions

import (
	"testing"
	"time"

	"budget-buddy/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildRows_PreservesOrderAndCount(t *testing.T) {
	faker := gofakeit.New(7)

	records := make([]models.Transaction, 25)
	for i := range records {
		date := faker.DateRange(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
		records[i] = models.Transaction{
			ID:          faker.UUID(),
			Date:        &date,
			Description: strPtr(faker.Sentence(3)),
			Category:    strPtr(faker.RandomString([]string{"Groceries", "Rent", "Salary"})),
			Amount:      decimal.NewFromFloat(faker.Float64Range(-500, 500)).Round(2),
			Account:     strPtr("Checking"),
		}
	}

	rows := BuildRows(records)

	require.Len(t, rows, len(records))
	for i, row := range rows {
		assert.Equal(t, records[i].ID, row.ID)
		assert.Equal(t, *records[i].Category, row.Category)
	}
}

func TestBuildRows_Empty(t *testing.T) {
	assert.Empty(t, BuildRows(nil))
}

func TestBuildRows_PlaceholdersAndStyle(t *testing.T) {
	rows := BuildRows([]models.Transaction{
		{ID: "1", Amount: decimal.RequireFromString("-5.5")},
		{ID: "2", Amount: decimal.Zero},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		ID:          "1",
		Date:        "N/A",
		Description: "-",
		Category:    "Uncategorized",
		Amount:      "-$5.50",
		AmountStyle: AmountNegative,
		Account:     "N/A",
	}, rows[0])
	assert.Equal(t, AmountPositive, rows[1].AmountStyle)
	assert.Equal(t, "$0.00", rows[1].Amount)
}

func TestLoadOutcome(t *testing.T) {
	assert.Equal(t, TableEmpty, loadOutcome(0, nil))
	assert.Equal(t, TableRendered, loadOutcome(3, nil))
	assert.Equal(t, TableError, loadOutcome(3, assert.AnError))
}
