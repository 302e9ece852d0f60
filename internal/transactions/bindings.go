package transactions

import (
	"budget-buddy/internal/models"
)

// TableView is the rendering surface for the transaction table
type TableView interface {
	ShowLoading(visible bool)
	ShowEmpty(visible bool)
	// Clear removes every row
	Clear()
	// RenderRows replaces the table body with rows, in order
	RenderRows(rows []Row)
	// RenderError replaces the table body with a single error row
	RenderError(message string)
}

// FilterControls exposes the current values of the filter inputs
type FilterControls interface {
	Values() models.TransactionFilters
	Reset(filters models.TransactionFilters)
}

// EditOptions are the choices offered by the edit form's selectors
type EditOptions struct {
	Categories []models.Option
	Accounts   []models.Option
}

// EditFormView is the form used to edit a single transaction
type EditFormView interface {
	Options() EditOptions
	Open(form EditForm)
	Close()
}

// DeleteConfirmView is the prompt shown before a delete is sent
type DeleteConfirmView interface {
	Open(transactionID string)
	Close()
}

// Notifier shows blocking alerts and transient notices
type Notifier interface {
	Alert(message string)
	Notify(message string)
}

// Bindings is the set of views a Controller drives. Any of them may be nil;
// operations that need a missing view fail with a visible message instead of panicking.
type Bindings struct {
	Table         TableView
	Filters       FilterControls
	EditForm      EditFormView
	DeleteConfirm DeleteConfirmView
	Notifier      Notifier
}

// EditForm holds the values of the edit form.
// Category is the selected category's display name; Account is the selected account's value.
type EditForm struct {
	TransactionID string
	Amount        string
	Description   string
	Date          string
	Category      string
	Account       string
}
