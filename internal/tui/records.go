package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"hallway/internal/model"
	"hallway/internal/report"
)

var recordSetNames = []string{"Consent", "Demographics", "Tasks", "Exit"}

func (m *Model) initRecordsTable() {
	m.recordsTable = table.New()
	m.recordsTable.SetStyles(recordsTableStyles())
	m.applyRecordsTable()
}

func recordsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(true)
	return styles
}

// applyRecordsTable rebuilds the table for the active record set.
func (m *Model) applyRecordsTable() {
	cols, rows := m.recordsTableData()
	m.recordsTable.SetRows(nil)
	m.recordsTable.SetColumns(cols)
	m.recordsTable.SetRows(rows)
	m.recordsTable.GotoTop()
}

func (m *Model) recordsTableData() ([]table.Column, []table.Row) {
	switch m.recordSet {
	case 1:
		cols := []table.Column{
			{Title: "Timestamp", Width: 19},
			{Title: "Name", Width: 18},
			{Title: "Age", Width: 5},
			{Title: "Occupation", Width: 20},
			{Title: "Familiarity", Width: 18},
		}
		rows := make([]table.Row, 0, len(m.data.Demographics))
		for _, rec := range m.data.Demographics {
			rows = append(rows, table.Row{
				rec.Timestamp.Format(model.TimestampLayout),
				rec.Name,
				fmt.Sprintf("%d", rec.Age),
				rec.Occupation,
				string(rec.Familiarity),
			})
		}
		return cols, rows
	case 2:
		cols := []table.Column{
			{Title: "Timestamp", Width: 19},
			{Title: "Task", Width: 30},
			{Title: "Success", Width: 8},
			{Title: "Duration (s)", Width: 12},
			{Title: "Notes", Width: 24},
		}
		rows := make([]table.Row, 0, len(m.data.Tasks))
		for _, rec := range m.data.Tasks {
			rows = append(rows, table.Row{
				rec.Timestamp.Format(model.TimestampLayout),
				rec.TaskName,
				string(rec.Outcome),
				report.FormatDuration(rec.DurationSeconds),
				rec.Notes,
			})
		}
		return cols, rows
	case 3:
		cols := []table.Column{
			{Title: "Timestamp", Width: 19},
			{Title: "Satisfaction", Width: 12},
			{Title: "Difficulty", Width: 10},
			{Title: "Feedback", Width: 32},
		}
		rows := make([]table.Row, 0, len(m.data.Exits))
		for _, rec := range m.data.Exits {
			rows = append(rows, table.Row{
				rec.Timestamp.Format(model.TimestampLayout),
				fmt.Sprintf("%d", rec.Satisfaction),
				fmt.Sprintf("%d", rec.Difficulty),
				rec.OpenFeedback,
			})
		}
		return cols, rows
	default:
		cols := []table.Column{
			{Title: "Timestamp", Width: 19},
			{Title: "Consent Given", Width: 13},
		}
		rows := make([]table.Row, 0, len(m.data.Consents))
		for _, rec := range m.data.Consents {
			consent := "No"
			if rec.ConsentGiven {
				consent = "Yes"
			}
			rows = append(rows, table.Row{
				rec.Timestamp.Format(model.TimestampLayout),
				consent,
			})
		}
		return cols, rows
	}
}

func (m *Model) renderRecords() string {
	title := titleStyle.Render("Collected Records") +
		mutedStyle.Render("  ("+recordSetNames[m.recordSet]+", "+
			fmt.Sprintf("%d rows", len(m.recordsTable.Rows()))+")")
	return title + "\n" + m.recordsTable.View()
}

// refreshData reloads every record set from the store and rebuilds the
// derived views.
func (m *Model) refreshData() {
	data, err := report.Load(context.Background(), m.st, m.reportLimit)
	if err != nil {
		m.errMsg = "failed to load records: " + err.Error()
		logErrf("failed to load records: %v\n", err)
		return
	}
	m.data = data
	m.applyRecordsTable()
	m.renderTabContents()
}

func (m *Model) renderReport(width int) string {
	var buf strings.Builder
	if err := report.Render(&buf, m.data, width, true); err != nil {
		logErrf("failed to render report: %v\n", err)
		return errorStyle.Render("failed to render report: " + err.Error())
	}
	return buf.String()
}
