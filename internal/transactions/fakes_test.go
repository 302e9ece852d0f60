package transactions

import (
	"sync"

	"budget-buddy/internal/models"
)

type fakeTable struct {
	mu       sync.Mutex
	loading  bool
	empty    bool
	rows     []Row
	errorRow string
	renders  int
}

func (t *fakeTable) ShowLoading(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = visible
}

func (t *fakeTable) ShowEmpty(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.empty = visible
}

func (t *fakeTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	t.errorRow = ""
}

func (t *fakeTable) RenderRows(rows []Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append([]Row(nil), rows...)
	t.errorRow = ""
	t.renders++
}

func (t *fakeTable) RenderError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	t.errorRow = message
	t.renders++
}

func (t *fakeTable) snapshot() (rows []Row, errorRow string, empty, loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Row(nil), t.rows...), t.errorRow, t.empty, t.loading
}

type fakeFilters struct {
	mu     sync.Mutex
	values models.TransactionFilters
	resets int
}

func (f *fakeFilters) Values() models.TransactionFilters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *fakeFilters) Reset(filters models.TransactionFilters) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = filters
	f.resets++
}

func (f *fakeFilters) set(field models.FilterField, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Set(field, value)
}

type fakeEditForm struct {
	options EditOptions
	open    bool
	values  EditForm
	closes  int
}

func (f *fakeEditForm) Options() EditOptions { return f.options }

func (f *fakeEditForm) Open(form EditForm) {
	f.open = true
	f.values = form
}

func (f *fakeEditForm) Close() {
	f.open = false
	f.closes++
}

type fakeConfirm struct {
	open   bool
	target string
}

func (f *fakeConfirm) Open(transactionID string) {
	f.open = true
	f.target = transactionID
}

func (f *fakeConfirm) Close() {
	f.open = false
}

type fakeNotifier struct {
	mu      sync.Mutex
	alerts  []string
	notices []string
}

func (n *fakeNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *fakeNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, message)
}

func (n *fakeNotifier) lastAlert() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.alerts) == 0 {
		return ""
	}
	return n.alerts[len(n.alerts)-1]
}
