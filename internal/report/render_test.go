package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"hallway/internal/model"
)

func TestRenderEmptyDataShowsIndicators(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Data{}, 80, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, indicator := range []string{NoConsentData, NoDemographicData, NoTaskData, NoExitData} {
		if !strings.Contains(out, indicator) {
			t.Fatalf("missing empty indicator %q in output:\n%s", indicator, out)
		}
	}
	if strings.Contains(out, "Task Success Summary") {
		t.Fatalf("expected no charts without task data")
	}
}

func TestRenderWithDataShowsGridsAndCharts(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	duration := 2.5
	data := Data{
		Consents: []model.ConsentRecord{{Timestamp: ts, ConsentGiven: true}},
		Demographics: []model.DemographicRecord{{
			Timestamp:   ts,
			Name:        "P1",
			Age:         35,
			Occupation:  "Teacher",
			Familiarity: model.FamiliaritySomewhat,
		}},
		Tasks: []model.TaskRecord{
			{Timestamp: ts, TaskName: model.TaskNames()[0], Outcome: model.OutcomeYes, DurationSeconds: &duration},
			{Timestamp: ts, TaskName: model.TaskNames()[0], Outcome: model.OutcomeNo},
		},
		Exits: []model.ExitRecord{{Timestamp: ts, Satisfaction: 4, Difficulty: 2, OpenFeedback: "ok"}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, data, 100, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Consent Data",
		"2024-03-01 10:00:00",
		"Somewhat Familiar",
		"Task Success Summary",
		"Success Rate by Task (%)",
		"Avg Task Duration: 2.50s",
		"Avg Satisfaction: 4.0/5",
		"Legend: ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, NoTaskData) {
		t.Fatalf("unexpected empty indicator with task data present")
	}
}

func TestTaskGridRendersAbsentDurationAsDash(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	lines := TaskGrid([]model.TaskRecord{
		{Timestamp: ts, TaskName: model.TaskNames()[1], Outcome: model.OutcomePartial},
	})
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], " -") {
		t.Fatalf("expected dash for absent duration: %q", lines[1])
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(nil); got != "-" {
		t.Fatalf("expected dash, got %q", got)
	}
	d := 2.5
	if got := FormatDuration(&d); got != "2.50" {
		t.Fatalf("expected 2.50, got %q", got)
	}
}
