package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validLedgerEntry() LedgerEntry {
	return LedgerEntry{
		ID:           42,
		Date:         time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC),
		Description:  strPtr("Bus pass"),
		CategoryName: strPtr("Transportation"),
		Amount:       decimal.RequireFromString("-30.00"),
		AccountName:  "Checking",
	}
}

func TestLedgerEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LedgerEntry)
		wantErr error
	}{
		{name: "valid", mutate: func(*LedgerEntry) {}},
		{name: "missing date", mutate: func(e *LedgerEntry) { e.Date = time.Time{} }, wantErr: ErrLedgerDateRequired},
		{name: "missing account", mutate: func(e *LedgerEntry) { e.AccountName = "" }, wantErr: ErrLedgerAccountRequired},
		{name: "long category", mutate: func(e *LedgerEntry) { e.CategoryName = strPtr(strings.Repeat("x", 101)) }, wantErr: ErrLedgerCategoryTooLong},
		{name: "three decimals", mutate: func(e *LedgerEntry) { e.Amount = decimal.RequireFromString("1.234") }, wantErr: ErrLedgerAmountPrecision},
		{name: "nil category allowed", mutate: func(e *LedgerEntry) { e.CategoryName = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validLedgerEntry()
			tt.mutate(&entry)

			err := entry.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLedgerEntry_ToTransaction(t *testing.T) {
	entry := validLedgerEntry()

	txn := entry.ToTransaction()

	assert.Equal(t, "42", txn.ID)
	assert.Equal(t, "2024-05-04", txn.DisplayDate())
	assert.Equal(t, "Bus pass", txn.DisplayDescription())
	assert.Equal(t, "Transportation", txn.DisplayCategory())
	assert.Equal(t, "Checking", txn.DisplayAccount())
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("-30")))
	assert.Equal(t, "transactions", entry.TableName())
}
