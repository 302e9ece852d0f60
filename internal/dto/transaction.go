package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"budget-buddy/internal/models"

	"github.com/shopspring/decimal"
)

// acceptedDateLayouts lists the date encodings the listing endpoint is known to emit
var acceptedDateLayouts = []string{
	models.DateLayout,
	time.RFC1123,
	time.RFC3339,
}

// OpaqueID accepts a JSON string or number and keeps its textual form
type OpaqueID string

func (id *OpaqueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid transaction id: %w", err)
		}
		*id = OpaqueID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid transaction id: %w", err)
	}
	*id = OpaqueID(n.String())
	return nil
}

// TransactionRecord is one element of the listing response
type TransactionRecord struct {
	ID          OpaqueID        `json:"Transaction_ID"`
	Date        *string         `json:"Transaction_Date"`
	Description *string         `json:"Transaction_Description"`
	Category    *string         `json:"Category_Name"`
	Amount      decimal.Decimal `json:"Transaction_Amount"`
	Account     *string         `json:"Account_Name"`
}

// ToModel converts the wire record, rejecting records the table cannot key or date
func (r TransactionRecord) ToModel() (models.Transaction, error) {
	txn := models.Transaction{
		ID:          string(r.ID),
		Description: r.Description,
		Category:    r.Category,
		Amount:      r.Amount,
		Account:     r.Account,
	}

	if err := txn.Validate(); err != nil {
		return models.Transaction{}, err
	}

	if r.Date != nil && strings.TrimSpace(*r.Date) != "" {
		if date, err := ParseRecordDate(*r.Date); err == nil {
			txn.Date = &date
		} else {
			txn.RawDate = strings.TrimSpace(*r.Date)
		}
	}

	return txn, nil
}

// NewTransactionRecord builds the wire form of a record
func NewTransactionRecord(txn models.Transaction) TransactionRecord {
	record := TransactionRecord{
		ID:          OpaqueID(txn.ID),
		Description: txn.Description,
		Category:    txn.Category,
		Amount:      txn.Amount,
		Account:     txn.Account,
	}
	if txn.Date != nil {
		date := txn.Date.Format(models.DateLayout)
		record.Date = &date
	}
	return record
}

// ParseRecordDate parses a record date in any accepted layout, truncated to the calendar day
func ParseRecordDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range acceptedDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid transaction date %q", value)
}

// UpdateTransactionRequest is the body of POST /api/transactions/update.
// Values travel as the strings entered in the edit form.
type UpdateTransactionRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Amount        string `json:"amount" validate:"required,decimal_amount"`
	Description   string `json:"description"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Category      string `json:"category" validate:"required"`
	Account       string `json:"account" validate:"required"`
}

// ListQuery holds the listing parameters the stand-in backend validates
type ListQuery struct {
	Sort string `json:"sort" validate:"sort_order"`
}

// MutationResponse is the reply to update and delete calls
type MutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the error object returned on a non-success response
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Reason returns the server-provided reason, preferring error over message
func (b ErrorBody) Reason() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// Reason returns the server-provided reason, preferring error over message
func (r MutationResponse) Reason() string {
	return ErrorBody{Error: r.Error, Message: r.Message}.Reason()
}
