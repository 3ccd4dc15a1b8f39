package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/geoprompt/internal/domain/entity"
)

// OpaqueOriginLabel is shown in place of the empty origin of inline content.
const OpaqueOriginLabel = "(inline content)"

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Cell.
		Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// PermissionTableColumns returns columns for the retained permissions table.
func PermissionTableColumns() []table.Column {
	return []table.Column{
		{Title: "Origin", Width: 36},
		{Title: "Type", Width: 12},
		{Title: "State", Width: 8},
		{Title: "Updated", Width: 20},
	}
}

// PermissionRow converts a record to a table row.
func PermissionRow(r *entity.PermissionRecord) table.Row {
	origin := r.Origin
	if entity.IsOpaqueOrigin(origin) {
		origin = OpaqueOriginLabel
	}
	updated := "-"
	if r.UpdatedAt > 0 {
		updated = time.Unix(r.UpdatedAt, 0).Local().Format("2006-01-02 15:04:05")
	}
	return table.Row{origin, string(r.Type), string(r.State), updated}
}

// RenderPermissionTable renders records as a static table.
func RenderPermissionTable(theme *Theme, records []*entity.PermissionRecord) string {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, PermissionRow(r))
	}

	columns := PermissionTableColumns()
	width := 0
	for _, c := range columns {
		width += c.Width + 2
	}

	// header plus its border take two lines
	t := NewStyledTable(theme, columns, rows, width, len(rows)+2)
	return t.View()
}
