package validation

import (
	"testing"

	"budget-buddy/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUpdate() dto.UpdateTransactionRequest {
	return dto.UpdateTransactionRequest{
		TransactionID: "42",
		Amount:        "-12.50",
		Description:   "",
		Date:          "2024-03-01",
		Category:      "Groceries",
		Account:       "1",
	}
}

func TestValidator_UpdateRequest(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		mutate  func(*dto.UpdateTransactionRequest)
		wantErr bool
		field   string
		tag     string
	}{
		{name: "valid with empty description", mutate: func(*dto.UpdateTransactionRequest) {}},
		{name: "missing amount", mutate: func(r *dto.UpdateTransactionRequest) { r.Amount = "" }, wantErr: true, field: "amount", tag: "required"},
		{name: "missing id", mutate: func(r *dto.UpdateTransactionRequest) { r.TransactionID = "" }, wantErr: true, field: "transaction_id", tag: "required"},
		{name: "missing category", mutate: func(r *dto.UpdateTransactionRequest) { r.Category = "" }, wantErr: true, field: "category", tag: "required"},
		{name: "missing account", mutate: func(r *dto.UpdateTransactionRequest) { r.Account = "" }, wantErr: true, field: "account", tag: "required"},
		{name: "non numeric amount", mutate: func(r *dto.UpdateTransactionRequest) { r.Amount = "12,50" }, wantErr: true, field: "amount", tag: "decimal_amount"},
		{name: "too precise amount", mutate: func(r *dto.UpdateTransactionRequest) { r.Amount = "1.005" }, wantErr: true, field: "amount", tag: "decimal_amount"},
		{name: "bad date", mutate: func(r *dto.UpdateTransactionRequest) { r.Date = "03/01/2024" }, wantErr: true, field: "date", tag: "datetime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdate()
			tt.mutate(&req)

			err := v.Validate(req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			fields := FieldErrors(err)
			assert.Contains(t, fields, tt.field)
			assert.True(t, HasTag(err, tt.tag))
		})
	}
}

func TestValidator_ListQuerySort(t *testing.T) {
	v := GetValidator()

	for _, order := range []string{"", "date_desc", "date_asc", "amount_desc", "amount_asc"} {
		assert.NoError(t, v.Validate(&dto.ListQuery{Sort: order}), order)
	}

	err := v.Validate(&dto.ListQuery{Sort: "newest"})
	require.Error(t, err)
	assert.True(t, HasTag(err, "sort_order"))
	assert.Equal(t, map[string]string{"sort": "sort must be one of date_desc, date_asc, amount_desc, amount_asc"}, FieldErrors(err))
}

func TestSummary_StableOrder(t *testing.T) {
	summary := Summary(map[string]string{
		"date":   "date is required",
		"amount": "amount is required",
	})
	assert.Equal(t, "amount is required; date is required", summary)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
	assert.False(t, HasTag(assert.AnError, "required"))
}
