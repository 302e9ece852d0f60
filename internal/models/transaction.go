package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date layout used on the wire and on screen
const DateLayout = "2006-01-02"

// Display placeholders for absent fields
const (
	PlaceholderDate        = "N/A"
	PlaceholderDescription = "-"
	PlaceholderCategory    = "Uncategorized"
	PlaceholderAccount     = "N/A"
)

var (
	ErrMissingTransactionID = errors.New("transaction id is required")
)

// Transaction is a server-owned record as the client sees it.
// Optional fields are nil when the backend omitted them.
type Transaction struct {
	ID          string
	Date        *time.Time
	RawDate     string // date text that could not be parsed; Date is nil then
	Description *string
	Category    *string
	Amount      decimal.Decimal
	Account     *string
}

// Validate checks the only invariant the client relies on: a usable row key
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return ErrMissingTransactionID
	}
	return nil
}

// DisplayDate returns the date as YYYY-MM-DD, the unparsed text as sent, or the date placeholder
func (t *Transaction) DisplayDate() string {
	if t.Date == nil || t.Date.IsZero() {
		if t.RawDate != "" {
			return t.RawDate
		}
		return PlaceholderDate
	}
	return t.Date.Format(DateLayout)
}

func (t *Transaction) DisplayDescription() string {
	if t.Description == nil || *t.Description == "" {
		return PlaceholderDescription
	}
	return *t.Description
}

func (t *Transaction) DisplayCategory() string {
	if t.Category == nil || *t.Category == "" {
		return PlaceholderCategory
	}
	return *t.Category
}

func (t *Transaction) DisplayAccount() string {
	if t.Account == nil || *t.Account == "" {
		return PlaceholderAccount
	}
	return *t.Account
}

// IsNegative reports whether the amount should use the negative style
func (t *Transaction) IsNegative() bool {
	return t.Amount.IsNegative()
}

// EditableDescription is the description as it belongs in an edit form
func (t *Transaction) EditableDescription() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// EditableDate is the date as it belongs in an edit form
func (t *Transaction) EditableDate() string {
	if t.Date == nil || t.Date.IsZero() {
		return t.RawDate
	}
	return t.Date.Format(DateLayout)
}
