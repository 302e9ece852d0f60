package tui

import (
	"sync"

	"budget-buddy/internal/models"
	"budget-buddy/internal/transactions"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages delivered from the controller to the model
type (
	loadingMsg      struct{ visible bool }
	emptyMsg        struct{ visible bool }
	clearRowsMsg    struct{}
	rowsMsg         struct{ rows []transactions.Row }
	errorRowMsg     struct{ message string }
	filtersResetMsg struct{ filters models.TransactionFilters }
	editOpenMsg     struct{ form transactions.EditForm }
	editCloseMsg    struct{}
	confirmOpenMsg  struct{ transactionID string }
	confirmCloseMsg struct{}
	alertMsg        struct{ text string }
	noticeMsg       struct{ text string }
)

// Surface implements every controller binding on top of a running tea.Program.
// View calls are turned into messages; filter values are read from a snapshot
// the model keeps current.
type Surface struct {
	options transactions.EditOptions

	mu      sync.Mutex
	filters models.TransactionFilters
	send    func(tea.Msg)
}

// NewSurface creates a surface whose edit form offers options
func NewSurface(options transactions.EditOptions) *Surface {
	return &Surface{
		options: options,
		filters: models.DefaultTransactionFilters(),
		send:    func(tea.Msg) {},
	}
}

// Attach routes view updates into p
func (s *Surface) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = p.Send
}

// Bindings returns the surface as the full set of controller views
func (s *Surface) Bindings() transactions.Bindings {
	return transactions.Bindings{
		Table:         s,
		Filters:       s,
		EditForm:      s,
		DeleteConfirm: editConfirmAdapter{s},
		Notifier:      s,
	}
}

func (s *Surface) dispatch(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	send(msg)
}

// setFilters records the values currently shown in the filter bar
func (s *Surface) setFilters(filters models.TransactionFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
}

func (s *Surface) ShowLoading(visible bool) { s.dispatch(loadingMsg{visible: visible}) }
func (s *Surface) ShowEmpty(visible bool)   { s.dispatch(emptyMsg{visible: visible}) }
func (s *Surface) Clear()                   { s.dispatch(clearRowsMsg{}) }

func (s *Surface) RenderRows(rows []transactions.Row) {
	s.dispatch(rowsMsg{rows: append([]transactions.Row(nil), rows...)})
}

func (s *Surface) RenderError(message string) { s.dispatch(errorRowMsg{message: message}) }

func (s *Surface) Values() models.TransactionFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Surface) Reset(filters models.TransactionFilters) {
	s.setFilters(filters)
	s.dispatch(filtersResetMsg{filters: filters})
}

func (s *Surface) Options() transactions.EditOptions { return s.options }

func (s *Surface) Open(form transactions.EditForm) { s.dispatch(editOpenMsg{form: form}) }
func (s *Surface) Close()                          { s.dispatch(editCloseMsg{}) }

func (s *Surface) Alert(text string)  { s.dispatch(alertMsg{text: text}) }
func (s *Surface) Notify(text string) { s.dispatch(noticeMsg{text: text}) }

// editConfirmAdapter gives the delete prompt its own Open/Close next to the edit form's
type editConfirmAdapter struct {
	s *Surface
}

func (a editConfirmAdapter) Open(transactionID string) {
	a.s.dispatch(confirmOpenMsg{transactionID: transactionID})
}

func (a editConfirmAdapter) Close() {
	a.s.dispatch(confirmCloseMsg{})
}
