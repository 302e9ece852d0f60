package transactions

import (
	"budget-buddy/internal/models"
)

// AmountStyle distinguishes non-negative from negative amounts
type AmountStyle string

const (
	AmountPositive AmountStyle = "amount-positive"
	AmountNegative AmountStyle = "amount-negative"
)

// Row is one rendered table row. ID keys the row's edit and delete actions.
type Row struct {
	ID          string
	Date        string
	Description string
	Category    string
	Amount      string
	AmountStyle AmountStyle
	Account     string
}

// BuildRows maps records to rows one-to-one, keeping their order
func BuildRows(records []models.Transaction) []Row {
	rows := make([]Row, 0, len(records))
	for i := range records {
		record := &records[i]

		style := AmountPositive
		if record.IsNegative() {
			style = AmountNegative
		}

		rows = append(rows, Row{
			ID:          record.ID,
			Date:        record.DisplayDate(),
			Description: record.DisplayDescription(),
			Category:    record.DisplayCategory(),
			Amount:      FormatCurrency(record.Amount),
			AmountStyle: style,
			Account:     record.DisplayAccount(),
		})
	}
	return rows
}
