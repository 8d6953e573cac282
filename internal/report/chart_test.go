package report

import (
	"bytes"
	"strings"
	"testing"

	"hallway/internal/model"
)

func TestBarChartScalesToWidth(t *testing.T) {
	counts := []OutcomeCount{
		{Outcome: model.OutcomeNo, Count: 1},
		{Outcome: model.OutcomeYes, Count: 4},
		{Outcome: model.OutcomePartial, Count: 0},
	}
	var buf bytes.Buffer
	if err := BarChart(&buf, "Task Success Summary", counts, 40, false); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title plus 3 bars, got %d lines", len(lines))
	}
	if lines[0] != "Task Success Summary" {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	yesLine := lines[2]
	if !strings.HasPrefix(yesLine, "Yes") || !strings.HasSuffix(yesLine, "4") {
		t.Fatalf("unexpected yes line: %q", yesLine)
	}
	noBar := strings.Count(lines[1], string(outcomeFills[model.OutcomeNo]))
	yesBar := strings.Count(yesLine, string(outcomeFills[model.OutcomeYes]))
	if yesBar <= noBar {
		t.Fatalf("expected the larger count to draw the longer bar (no=%d yes=%d)", noBar, yesBar)
	}
	partialLine := lines[3]
	if strings.ContainsRune(partialLine, outcomeFills[model.OutcomePartial]) {
		t.Fatalf("expected empty bar for zero count: %q", partialLine)
	}
}

func TestStackedBarChartSegmentsFillBar(t *testing.T) {
	name := model.TaskNames()[0]
	shares := TaskShares([]model.TaskRecord{
		taskRec(name, model.OutcomeYes),
		taskRec(name, model.OutcomeYes),
		taskRec(name, model.OutcomeYes),
		taskRec(name, model.OutcomeNo),
		taskRec(name, model.OutcomePartial),
	})
	var buf bytes.Buffer
	// Label (27) + separator (3) + annotation (4) leaves a 40-cell bar,
	// which the 60/20/20 split divides exactly.
	if err := StackedBarChart(&buf, "Success Rate by Task (%)", shares, 74, false); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected title, one bar, and a legend, got %d lines", len(lines))
	}
	barLine := lines[1]
	if !strings.HasPrefix(barLine, name) || !strings.HasSuffix(barLine, "n=5") {
		t.Fatalf("unexpected bar line: %q", barLine)
	}

	no := strings.Count(barLine, string(outcomeFills[model.OutcomeNo]))
	yes := strings.Count(barLine, string(outcomeFills[model.OutcomeYes]))
	partial := strings.Count(barLine, string(outcomeFills[model.OutcomePartial]))
	total := no + yes + partial
	if total == 0 {
		t.Fatalf("expected a non-empty stacked bar: %q", barLine)
	}
	// 60/20/20 split: the yes segment is three times each minority one.
	if yes != 3*no || yes != 3*partial {
		t.Fatalf("unexpected segment proportions no=%d yes=%d partial=%d", no, yes, partial)
	}
	if !strings.HasPrefix(lines[2], "Legend: ") {
		t.Fatalf("expected legend line, got %q", lines[2])
	}
}

func TestChartsNoOutputForEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	if err := BarChart(&buf, "t", nil, 40, false); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	if err := StackedBarChart(&buf, "t", nil, 40, false); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
