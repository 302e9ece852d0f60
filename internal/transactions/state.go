package transactions

// TableState tracks the table through a load: idle -> loading -> {rendered | empty | error}
type TableState string

const (
	TableIdle     TableState = "idle"
	TableLoading  TableState = "loading"
	TableRendered TableState = "rendered"
	TableEmpty    TableState = "empty"
	TableError    TableState = "error"
)

// FormState tracks an edit or delete interaction: idle -> form-open -> submitting -> {idle | form-open}
type FormState string

const (
	FormIdle       FormState = "idle"
	FormOpen       FormState = "form-open"
	FormSubmitting FormState = "submitting"
)

// loadOutcome picks the state a finished load settles in
func loadOutcome(rows int, err error) TableState {
	switch {
	case err != nil:
		return TableError
	case rows == 0:
		return TableEmpty
	default:
		return TableRendered
	}
}
