package models

import (
	"net/url"
	"strings"
)

// SortOrder is the server-side ordering requested for a listing
type SortOrder string

const (
	SortDateDesc   SortOrder = "date_desc"
	SortDateAsc    SortOrder = "date_asc"
	SortAmountDesc SortOrder = "amount_desc"
	SortAmountAsc  SortOrder = "amount_asc"

	DefaultSortOrder = SortDateDesc
)

// AllSortOrders returns every sort order in display order
func AllSortOrders() []SortOrder {
	return []SortOrder{SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc}
}

// IsValidSortOrder checks if a sort order string is recognised
func IsValidSortOrder(order string) bool {
	for _, valid := range AllSortOrders() {
		if SortOrder(order) == valid {
			return true
		}
	}
	return false
}

// FilterField names a single filter control
type FilterField string

const (
	FilterStartDate   FilterField = "start_date"
	FilterEndDate     FilterField = "end_date"
	FilterCategory    FilterField = "category"
	FilterAccount     FilterField = "account"
	FilterDescription FilterField = "description"
	FilterMinAmount   FilterField = "min_amount"
	FilterMaxAmount   FilterField = "max_amount"
	FilterSort        FilterField = "sort"
)

// AllFilterFields returns the filter fields in query order
func AllFilterFields() []FilterField {
	return []FilterField{
		FilterStartDate,
		FilterEndDate,
		FilterCategory,
		FilterAccount,
		FilterDescription,
		FilterMinAmount,
		FilterMaxAmount,
		FilterSort,
	}
}

// IsDebounced reports whether edits to the field are collapsed by a timer
// instead of triggering an immediate reload
func (f FilterField) IsDebounced() bool {
	switch f {
	case FilterDescription, FilterMinAmount, FilterMaxAmount:
		return true
	default:
		return false
	}
}

// TransactionFilters holds the raw values of the filter controls.
// Values are kept as entered; the backend interprets them.
type TransactionFilters struct {
	StartDate   string
	EndDate     string
	Category    string
	Account     string
	Description string
	MinAmount   string
	MaxAmount   string
	Sort        SortOrder
}

// DefaultTransactionFilters returns the state of freshly cleared controls
func DefaultTransactionFilters() TransactionFilters {
	return TransactionFilters{Sort: DefaultSortOrder}
}

// Get returns the value held for a field
func (f TransactionFilters) Get(field FilterField) string {
	switch field {
	case FilterStartDate:
		return f.StartDate
	case FilterEndDate:
		return f.EndDate
	case FilterCategory:
		return f.Category
	case FilterAccount:
		return f.Account
	case FilterDescription:
		return f.Description
	case FilterMinAmount:
		return f.MinAmount
	case FilterMaxAmount:
		return f.MaxAmount
	case FilterSort:
		return string(f.Sort)
	}
	return ""
}

// Set stores a value for a field
func (f *TransactionFilters) Set(field FilterField, value string) {
	switch field {
	case FilterStartDate:
		f.StartDate = value
	case FilterEndDate:
		f.EndDate = value
	case FilterCategory:
		f.Category = value
	case FilterAccount:
		f.Account = value
	case FilterDescription:
		f.Description = value
	case FilterMinAmount:
		f.MinAmount = value
	case FilterMaxAmount:
		f.MaxAmount = value
	case FilterSort:
		f.Sort = SortOrder(value)
	}
}

// IsEmpty reports whether no filter would be sent, ignoring the sort order
func (f TransactionFilters) IsEmpty() bool {
	for _, field := range AllFilterFields() {
		if field == FilterSort {
			continue
		}
		if strings.TrimSpace(f.Get(field)) != "" {
			return false
		}
	}
	return true
}

// Query serializes the non-empty fields, omitting blank ones entirely
func (f TransactionFilters) Query() url.Values {
	query := url.Values{}
	for _, field := range AllFilterFields() {
		value := strings.TrimSpace(f.Get(field))
		if value == "" {
			continue
		}
		query.Set(string(field), value)
	}
	return query
}
