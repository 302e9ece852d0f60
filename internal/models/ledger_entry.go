package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrLedgerDateRequired    = errors.New("transaction date is required")
	ErrLedgerAccountRequired = errors.New("account is required")
	ErrLedgerCategoryTooLong = errors.New("category name too long")
	ErrLedgerAmountPrecision = errors.New("amount must have at most 2 decimal places")
)

// LedgerEntry is the stand-in backend's persisted transaction row
type LedgerEntry struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	Description  *string         `gorm:"type:text"`
	CategoryName *string         `gorm:"type:varchar(100);index"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AccountName  string          `gorm:"type:varchar(100);not null;index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName keeps the table name stable regardless of the struct name
func (LedgerEntry) TableName() string {
	return "transactions"
}

// BeforeSave hook for LedgerEntry
func (e *LedgerEntry) BeforeSave(tx *gorm.DB) error {
	return e.Validate()
}

// Validate validates the ledger entry fields
func (e *LedgerEntry) Validate() error {
	if e.Date.IsZero() {
		return ErrLedgerDateRequired
	}

	if e.AccountName == "" {
		return ErrLedgerAccountRequired
	}

	if e.CategoryName != nil && len(*e.CategoryName) > 100 {
		return ErrLedgerCategoryTooLong
	}

	if !e.Amount.Equal(e.Amount.Round(2)) {
		return ErrLedgerAmountPrecision
	}

	return nil
}

// ToTransaction converts the stored row into the client-side record shape
func (e *LedgerEntry) ToTransaction() Transaction {
	date := e.Date
	return Transaction{
		ID:          strconv.FormatUint(e.ID, 10),
		Date:        &date,
		Description: e.Description,
		Category:    e.CategoryName,
		Amount:      e.Amount,
		Account:     &e.AccountName,
	}
}

// LedgerQuery is the parsed, typed form of the listing filters on the backend side
type LedgerQuery struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Category    string
	Account     string
	Description string
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Sort        SortOrder
	Limit       int
}
