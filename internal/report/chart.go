package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"hallway/internal/model"
)

type ansiColor struct {
	name string
	code string
}

const (
	minChartWidth       = 20
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
	chartSeparator      = " │ "
)

// One fill rune per outcome so stacked segments stay readable without
// color.
var outcomeFills = map[model.Outcome]rune{
	model.OutcomeNo:      '█',
	model.OutcomeYes:     '▓',
	model.OutcomePartial: '░',
}

var outcomeColors = map[model.Outcome]ansiColor{
	model.OutcomeNo:      {name: "red", code: "\x1b[31m"},
	model.OutcomeYes:     {name: "green", code: "\x1b[32m"},
	model.OutcomePartial: {name: "yellow", code: "\x1b[33m"},
}

// BarChart renders a horizontal bar chart of outcome counts.
func BarChart(w io.Writer, title string, counts []OutcomeCount, width int, forceColor bool) error {
	if len(counts) == 0 {
		return nil
	}
	if width <= 0 {
		width = autoChartWidth()
	}
	if width < minChartWidth {
		width = minChartWidth
	}
	useColor := shouldUseColor(w, forceColor)

	labelWidth := 0
	maxCount := 0
	for _, c := range counts {
		if lw := displayWidth(string(c.Outcome)); lw > labelWidth {
			labelWidth = lw
		}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	valueWidth := len(fmt.Sprintf("%d", maxCount))
	barWidth := width - labelWidth - valueWidth - displayWidth(chartSeparator) - 1
	if barWidth < 1 {
		barWidth = 1
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, c := range counts {
		length := 0
		if maxCount > 0 {
			length = int(math.Round(float64(c.Count) / float64(maxCount) * float64(barWidth)))
		}
		if c.Count > 0 && length == 0 {
			length = 1
		}
		bar := strings.Repeat(string(outcomeFills[c.Outcome]), length)
		if useColor && length > 0 {
			bar = outcomeColors[c.Outcome].code + bar + colorReset
		}
		line := fmt.Sprintf("%s%s%s %*d", padCell(string(c.Outcome), labelWidth, false), chartSeparator, bar, valueWidth, c.Count)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// StackedBarChart renders one 100%-stacked horizontal bar per task,
// segmented by outcome share.
func StackedBarChart(w io.Writer, title string, shares []TaskShare, width int, forceColor bool) error {
	if len(shares) == 0 {
		return nil
	}
	if width <= 0 {
		width = autoChartWidth()
	}
	if width < minChartWidth {
		width = minChartWidth
	}
	useColor := shouldUseColor(w, forceColor)

	labelWidth := 0
	for _, s := range shares {
		if lw := displayWidth(s.TaskName); lw > labelWidth {
			labelWidth = lw
		}
	}
	// Trailing " n=NN" annotation.
	annWidth := 0
	for _, s := range shares {
		if aw := len(fmt.Sprintf(" n=%d", s.Total)); aw > annWidth {
			annWidth = aw
		}
	}
	barWidth := width - labelWidth - displayWidth(chartSeparator) - annWidth
	if barWidth < 10 {
		barWidth = 10
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, s := range shares {
		var bar strings.Builder
		used := 0
		cum := 0.0
		for _, o := range model.Outcomes() {
			cum += s.Shares[o]
			end := int(math.Round(cum / 100 * float64(barWidth)))
			if end > barWidth {
				end = barWidth
			}
			length := end - used
			if length <= 0 {
				continue
			}
			segment := strings.Repeat(string(outcomeFills[o]), length)
			if useColor {
				segment = outcomeColors[o].code + segment + colorReset
			}
			bar.WriteString(segment)
			used = end
		}
		line := fmt.Sprintf("%s%s%s n=%d", padCell(s.TaskName, labelWidth, false), chartSeparator, bar.String(), s.Total)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, stackedLegend(useColor)); err != nil {
		return err
	}
	return nil
}

func stackedLegend(useColor bool) string {
	parts := make([]string, 0, len(model.Outcomes()))
	for _, o := range model.Outcomes() {
		label := fmt.Sprintf("%c %s", outcomeFills[o], o)
		if useColor {
			label = outcomeColors[o].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func autoChartWidth() int {
	return terminalWidth()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
