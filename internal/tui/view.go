package tui

import (
	"fmt"
	"strings"

	"budget-buddy/internal/models"
	"budget-buddy/internal/transactions"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	errorRow lipgloss.Style
	notice   lipgloss.Style
	panel    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		selected: lipgloss.NewStyle().Background(lipgloss.Color("#313244")),
		positive: lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		negative: lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		errorRow: lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89b4fa")).Padding(0, 1),
	}
}

var columnWidths = []int{10, 28, 16, 14, 14}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Manage Transactions"))
	b.WriteString("\n\n")
	b.WriteString(m.viewFilters())
	b.WriteString("\n\n")
	b.WriteString(m.viewTable())

	switch m.mode {
	case modeEdit:
		b.WriteString("\n\n")
		b.WriteString(m.viewEditForm())
	case modeConfirm:
		b.WriteString("\n\n")
		b.WriteString(m.styles.panel.Render(fmt.Sprintf("Delete transaction %s? This cannot be undone. (y/n)", m.confirmID)))
	}

	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusErr {
			b.WriteString(m.styles.errorRow.Render(m.status))
		} else {
			b.WriteString(m.styles.notice.Render(m.status))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.muted.Render(m.help()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewFilters() string {
	parts := make([]string, 0, len(models.AllFilterFields()))
	for i, field := range models.AllFilterFields() {
		value := m.filterDisplay(field)
		label := m.styles.label.Render(string(field) + ":")
		if m.mode == modeFilters && i == m.filterCursor {
			value = m.styles.focused.Render("[" + value + "]")
		}
		parts = append(parts, label+" "+value)
	}
	return strings.Join(parts, "  ")
}

func (m Model) filterDisplay(field models.FilterField) string {
	value := m.filters.Get(field)
	if field == models.FilterAccount {
		for _, option := range m.options.Accounts {
			if option.Value == value && value != "" {
				return option.Label
			}
		}
	}
	if value == "" {
		return "any"
	}
	return value
}

func (m Model) viewTable() string {
	header := []string{"Date", "Description", "Category", "Amount", "Account"}
	lines := []string{m.styles.header.Render(formatColumns(header))}

	switch {
	case m.loading:
		lines = append(lines, m.styles.muted.Render("Loading transactions..."))
	case m.errorRow != "":
		lines = append(lines, m.styles.errorRow.Render(m.errorRow))
	case m.empty:
		lines = append(lines, m.styles.muted.Render("No transactions found matching your criteria."))
	}

	for i, row := range m.rows {
		line := m.viewRow(row)
		if i == m.cursor && m.mode == modeTable {
			line = m.styles.selected.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewRow(row transactions.Row) string {
	amountStyle := m.styles.positive
	if row.AmountStyle == transactions.AmountNegative {
		amountStyle = m.styles.negative
	}

	cells := []string{
		pad(row.Date, columnWidths[0]),
		pad(row.Description, columnWidths[1]),
		pad(row.Category, columnWidths[2]),
		amountStyle.Render(padLeft(row.Amount, columnWidths[3])),
		pad(row.Account, columnWidths[4]),
	}
	return strings.Join(cells, " ")
}

func (m Model) viewEditForm() string {
	fields := []struct {
		field editField
		label string
		value string
	}{
		{editAmount, "Amount", m.form.Amount},
		{editDescription, "Description", m.form.Description},
		{editDate, "Date", m.form.Date},
		{editCategory, "Category", m.form.Category},
		{editAccount, "Account", m.accountLabel(m.form.Account)},
	}

	lines := []string{m.styles.header.Render(fmt.Sprintf("Edit transaction %s", m.form.TransactionID))}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = m.styles.muted.Render("(none)")
		}
		label := m.styles.label.Render(pad(f.label, 12))
		if f.field == m.formCursor {
			label = m.styles.focused.Render(pad("> "+f.label, 12))
		}
		lines = append(lines, label+" "+value)
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func (m Model) accountLabel(value string) string {
	for _, option := range m.options.Accounts {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}

func (m Model) help() string {
	switch m.mode {
	case modeFilters:
		return "tab/shift+tab field • type to filter • ←/→ choose • enter apply date • ctrl+r clear • esc back"
	case modeEdit:
		return "tab field • type to edit • ←/→ choose category/account • enter save • esc cancel"
	case modeConfirm:
		return "y delete • n cancel"
	default:
		return "↑/↓ move • e edit • d delete • f filters • r reload • ctrl+r clear filters • q quit"
	}
}

func formatColumns(values []string) string {
	cells := make([]string, len(values))
	for i, value := range values {
		if i == 3 {
			cells[i] = padLeft(value, columnWidths[i])
			continue
		}
		cells[i] = pad(value, columnWidths[i])
	}
	return strings.Join(cells, " ")
}

func pad(value string, width int) string {
	runes := []rune(value)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return value + strings.Repeat(" ", width-len(runes))
}

func padLeft(value string, width int) string {
	runes := []rune(value)
	if len(runes) >= width {
		return value
	}
	return strings.Repeat(" ", width-len(runes)) + value
}
