package tui

import (
	"context"
	"strings"

	"budget-buddy/internal/models"
	"budget-buddy/internal/transactions"

	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeTable mode = iota
	modeFilters
	modeEdit
	modeConfirm
)

// Actions are the controller operations the screen triggers
type Actions interface {
	Load(ctx context.Context) error
	FilterChanged(ctx context.Context, field models.FilterField) error
	ClearFilters(ctx context.Context) error
	BeginEdit(ctx context.Context, transactionID string) error
	SaveEdit(ctx context.Context, form transactions.EditForm) error
	CancelEdit()
	BeginDelete(ctx context.Context, transactionID string) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
}

type editField int

const (
	editAmount editField = iota
	editDescription
	editDate
	editCategory
	editAccount
	editFieldCount
)

// Model is the transaction screen
type Model struct {
	ctx     context.Context
	actions Actions
	surface *Surface
	styles  styles

	mode mode

	filters      models.TransactionFilters
	committed    models.TransactionFilters // what the controller sees; excludes dates still being typed
	filterCursor int
	options      transactions.EditOptions

	rows     []transactions.Row
	cursor   int
	loading  bool
	empty    bool
	errorRow string

	form       transactions.EditForm
	formCursor editField
	confirmID  string

	status    string
	statusErr bool
	width     int
}

// NewModel creates the screen. Controller operations run as commands with ctx.
func NewModel(ctx context.Context, actions Actions, surface *Surface) Model {
	return Model{
		ctx:       ctx,
		actions:   actions,
		surface:   surface,
		styles:    defaultStyles(),
		mode:      modeTable,
		filters:   surface.Values(),
		committed: surface.Values(),
		options:   surface.Options(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.run(m.actions.Load)
}

// run executes a controller operation off the event loop. Failures reach the
// screen through the surface, so the command itself yields no message.
func (m Model) run(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case loadingMsg:
		m.loading = msg.visible
	case emptyMsg:
		m.empty = msg.visible
	case clearRowsMsg:
		m.rows = nil
		m.errorRow = ""
	case rowsMsg:
		m.rows = msg.rows
		m.errorRow = ""
		m.cursor = clamp(m.cursor, len(m.rows))
	case errorRowMsg:
		m.rows = nil
		m.errorRow = msg.message
		m.cursor = 0
	case filtersResetMsg:
		m.filters = msg.filters
		m.committed = msg.filters
	case editOpenMsg:
		m.mode = modeEdit
		m.form = msg.form
		m.formCursor = editAmount
	case editCloseMsg:
		if m.mode == modeEdit {
			m.mode = modeTable
		}
	case confirmOpenMsg:
		m.mode = modeConfirm
		m.confirmID = msg.transactionID
	case confirmCloseMsg:
		if m.mode == modeConfirm {
			m.mode = modeTable
		}
		m.confirmID = ""
	case alertMsg:
		m.status = msg.text
		m.statusErr = true
	case noticeMsg:
		m.status = msg.text
		m.statusErr = false
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeFilters:
		return m.handleFilterKey(msg)
	case modeEdit:
		return m.handleEditKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	default:
		return m.handleTableKey(msg)
	}
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, len(m.rows))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, len(m.rows))
	case "tab", "/", "f":
		m.mode = modeFilters
	case "r":
		return m, m.run(m.actions.Load)
	case "ctrl+r":
		m.status = ""
		return m, m.run(m.actions.ClearFilters)
	case "e", "enter":
		if row, ok := m.selectedRow(); ok {
			m.status = ""
			return m, m.run(func(ctx context.Context) error { return m.actions.BeginEdit(ctx, row.ID) })
		}
	case "d", "delete":
		if row, ok := m.selectedRow(); ok {
			m.status = ""
			return m, m.run(func(ctx context.Context) error { return m.actions.BeginDelete(ctx, row.ID) })
		}
	}
	return m, nil
}

func (m Model) selectedRow() (transactions.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return transactions.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) focusedFilter() models.FilterField {
	fields := models.AllFilterFields()
	return fields[clamp(m.filterCursor, len(fields))]
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.focusedFilter()
	fieldCount := len(models.AllFilterFields())

	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeTable
		return m, nil
	case tea.KeyTab:
		m.filterCursor = (m.filterCursor + 1) % fieldCount
		return m, nil
	case tea.KeyShiftTab:
		m.filterCursor = (m.filterCursor + fieldCount - 1) % fieldCount
		return m, nil
	case tea.KeyCtrlR:
		return m, m.run(m.actions.ClearFilters)
	}

	if choices := m.filterChoices(field); choices != nil {
		switch msg.Type {
		case tea.KeyLeft:
			return m.changeFilter(field, cycle(choices, m.filters.Get(field), -1))
		case tea.KeyRight, tea.KeySpace:
			return m.changeFilter(field, cycle(choices, m.filters.Get(field), 1))
		case tea.KeyEnter:
			m.mode = modeTable
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		if isDateFilter(field) {
			return m.changeFilter(field, m.filters.Get(field))
		}
		m.mode = modeTable
		return m, nil
	case tea.KeyBackspace:
		value := m.filters.Get(field)
		if value == "" {
			return m, nil
		}
		return m.editFilterText(field, dropLastRune(value))
	case tea.KeyRunes, tea.KeySpace:
		return m.editFilterText(field, m.filters.Get(field)+string(msg.Runes))
	}
	return m, nil
}

// editFilterText updates a typed filter. Dates wait for enter; the rest notify
// the controller on every keystroke and rely on its debounce.
func (m Model) editFilterText(field models.FilterField, value string) (tea.Model, tea.Cmd) {
	if isDateFilter(field) {
		m.filters.Set(field, value)
		return m, nil
	}
	return m.changeFilter(field, value)
}

func (m Model) changeFilter(field models.FilterField, value string) (tea.Model, tea.Cmd) {
	m.filters.Set(field, value)
	m.committed.Set(field, value)
	m.surface.setFilters(m.committed)
	return m, m.run(func(ctx context.Context) error { return m.actions.FilterChanged(ctx, field) })
}

// filterChoices lists the values a selector filter cycles through; nil for typed filters
func (m Model) filterChoices(field models.FilterField) []string {
	switch field {
	case models.FilterCategory:
		return optionValues(m.options.Categories)
	case models.FilterAccount:
		return optionValues(m.options.Accounts)
	case models.FilterSort:
		orders := models.AllSortOrders()
		values := make([]string, 0, len(orders))
		for _, order := range orders {
			values = append(values, string(order))
		}
		return values
	}
	return nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeTable
		return m, m.run(func(context.Context) error {
			m.actions.CancelEdit()
			return nil
		})
	case tea.KeyEnter:
		form := m.form
		return m, m.run(func(ctx context.Context) error { return m.actions.SaveEdit(ctx, form) })
	case tea.KeyTab, tea.KeyDown:
		m.formCursor = (m.formCursor + 1) % editFieldCount
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.formCursor = (m.formCursor + editFieldCount - 1) % editFieldCount
		return m, nil
	}

	switch m.formCursor {
	case editCategory:
		switch msg.Type {
		case tea.KeyLeft:
			m.form.Category = cycle(optionLabels(m.options.Categories), m.form.Category, -1)
		case tea.KeyRight, tea.KeySpace:
			m.form.Category = cycle(optionLabels(m.options.Categories), m.form.Category, 1)
		}
		return m, nil
	case editAccount:
		switch msg.Type {
		case tea.KeyLeft:
			m.form.Account = cycle(optionValues(m.options.Accounts), m.form.Account, -1)
		case tea.KeyRight, tea.KeySpace:
			m.form.Account = cycle(optionValues(m.options.Accounts), m.form.Account, 1)
		}
		return m, nil
	}

	value := m.formText(m.formCursor)
	switch msg.Type {
	case tea.KeyBackspace:
		value = dropLastRune(value)
	case tea.KeyRunes, tea.KeySpace:
		value += string(msg.Runes)
	default:
		return m, nil
	}
	m.setFormText(m.formCursor, value)
	return m, nil
}

func (m Model) formText(field editField) string {
	switch field {
	case editAmount:
		return m.form.Amount
	case editDescription:
		return m.form.Description
	case editDate:
		return m.form.Date
	}
	return ""
}

func (m *Model) setFormText(field editField, value string) {
	switch field {
	case editAmount:
		m.form.Amount = value
	case editDescription:
		m.form.Description = value
	case editDate:
		m.form.Date = value
	}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		return m, m.run(m.actions.ConfirmDelete)
	case "n", "esc":
		m.mode = modeTable
		m.confirmID = ""
		return m, m.run(func(context.Context) error {
			m.actions.CancelDelete()
			return nil
		})
	}
	return m, nil
}

func isDateFilter(field models.FilterField) bool {
	return field == models.FilterStartDate || field == models.FilterEndDate
}

func optionValues(options []models.Option) []string {
	values := make([]string, 0, len(options)+1)
	values = append(values, "")
	for _, option := range options {
		values = append(values, option.Value)
	}
	return values
}

func optionLabels(options []models.Option) []string {
	labels := make([]string, 0, len(options)+1)
	labels = append(labels, "")
	for _, option := range options {
		labels = append(labels, option.Label)
	}
	return labels
}

// cycle steps from current to the next choice, wrapping around
func cycle(choices []string, current string, step int) string {
	if len(choices) == 0 {
		return current
	}
	index := -1
	for i, choice := range choices {
		if choice == current {
			index = i
			break
		}
	}
	if index < 0 {
		return choices[0]
	}
	return choices[(index+step+len(choices))%len(choices)]
}

func dropLastRune(value string) string {
	runes := []rune(value)
	if len(runes) == 0 {
		return value
	}
	return string(runes[:len(runes)-1])
}

func clamp(index, length int) int {
	if length == 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
