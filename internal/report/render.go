package report

import (
	"fmt"
	"io"
	"strconv"

	"hallway/internal/model"
)

// Empty-table indicators, one per record set.
const (
	NoConsentData     = "No consent data available yet."
	NoDemographicData = "No demographic data available yet."
	NoTaskData        = "No task data available yet."
	NoExitData        = "No exit questionnaire data available yet."
)

// Render writes the full aggregated report: the four record grids,
// summary metrics, and both bar charts. width <= 0 falls back to the
// terminal width.
func Render(w io.Writer, data Data, width int, forceColor bool) error {
	if err := renderSection(w, "Consent Data", ConsentGrid(data.Consents), NoConsentData); err != nil {
		return err
	}
	if err := renderSection(w, "Demographic Data", DemographicGrid(data.Demographics), NoDemographicData); err != nil {
		return err
	}
	if err := renderSection(w, "Task Performance Data", TaskGrid(data.Tasks), NoTaskData); err != nil {
		return err
	}
	if err := renderSection(w, "Exit Questionnaire Data", ExitGrid(data.Exits), NoExitData); err != nil {
		return err
	}

	if err := renderSummary(w, data); err != nil {
		return err
	}
	if len(data.Tasks) == 0 {
		return nil
	}
	if err := BarChart(w, "Task Success Summary", OutcomeCounts(data.Tasks), width, forceColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return StackedBarChart(w, "Success Rate by Task (%)", TaskShares(data.Tasks), width, forceColor)
}

func renderSection(w io.Writer, title string, lines []string, empty string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(lines) == 0 {
		if _, err := fmt.Fprintln(w, empty); err != nil {
			return err
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderSummary(w io.Writer, data Data) error {
	if len(data.Tasks) == 0 && len(data.Exits) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if avg, ok := AverageDuration(data.Tasks); ok {
		if _, err := fmt.Fprintf(w, "Avg Task Duration: %.2fs\n", avg); err != nil {
			return err
		}
	}
	if sat, diff, ok := AverageRatings(data.Exits); ok {
		if _, err := fmt.Fprintf(w, "Avg Satisfaction: %.1f/5\n", sat); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Avg Difficulty: %.1f/5\n", diff); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ConsentGrid formats consent records as aligned text lines. Empty
// input yields nil.
func ConsentGrid(recs []model.ConsentRecord) []string {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.Timestamp.Format(model.TimestampLayout),
			strconv.FormatBool(rec.ConsentGiven),
		})
	}
	return formatTable([]string{"Timestamp", "Consent Given"}, rows, nil)
}

// DemographicGrid formats demographic records as aligned text lines.
func DemographicGrid(recs []model.DemographicRecord) []string {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.Timestamp.Format(model.TimestampLayout),
			rec.Name,
			strconv.Itoa(rec.Age),
			rec.Occupation,
			string(rec.Familiarity),
		})
	}
	return formatTable([]string{"Timestamp", "Name", "Age", "Occupation", "Familiarity"}, rows, map[int]bool{2: true})
}

// TaskGrid formats task records as aligned text lines. Absent
// durations render as "-".
func TaskGrid(recs []model.TaskRecord) []string {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.Timestamp.Format(model.TimestampLayout),
			rec.TaskName,
			string(rec.Outcome),
			FormatDuration(rec.DurationSeconds),
			rec.Notes,
		})
	}
	return formatTable([]string{"Timestamp", "Task", "Success", "Duration (s)", "Notes"}, rows, map[int]bool{3: true})
}

// ExitGrid formats exit-questionnaire records as aligned text lines.
func ExitGrid(recs []model.ExitRecord) []string {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.Timestamp.Format(model.TimestampLayout),
			strconv.Itoa(rec.Satisfaction),
			strconv.Itoa(rec.Difficulty),
			rec.OpenFeedback,
		})
	}
	return formatTable([]string{"Timestamp", "Satisfaction", "Difficulty", "Feedback"}, rows, map[int]bool{1: true, 2: true})
}

// FormatDuration renders a nullable duration for display.
func FormatDuration(secs *float64) string {
	if secs == nil {
		return "-"
	}
	return strconv.FormatFloat(*secs, 'f', 2, 64)
}
