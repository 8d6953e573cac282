package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hallway/internal/model"
)

func openTestCSV(t *testing.T) (*CSVStore, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := OpenCSV(dir)
	if err != nil {
		t.Fatalf("open csv store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, dir
}

func TestCSVEmptyReads(t *testing.T) {
	st, _ := openTestCSV(t)
	ctx := context.Background()

	for name, read := range map[string]func() (int, error){
		"consent":      func() (int, error) { recs, err := st.Consents(ctx, 0); return len(recs), err },
		"demographics": func() (int, error) { recs, err := st.Demographics(ctx, 0); return len(recs), err },
		"tasks":        func() (int, error) { recs, err := st.Tasks(ctx, 0); return len(recs), err },
		"exit":         func() (int, error) { recs, err := st.Exits(ctx, 0); return len(recs), err },
	} {
		n, err := read()
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if n != 0 {
			t.Fatalf("expected no %s records, got %d", name, n)
		}
	}
}

func TestCSVTaskRoundTripPreservesOrder(t *testing.T) {
	st, dir := openTestCSV(t)
	ctx := context.Background()

	names := model.TaskNames()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	duration := 2.5
	recs := []model.TaskRecord{
		{Timestamp: base, TaskName: names[2], Outcome: model.OutcomeYes, DurationSeconds: &duration, Notes: "one, two"},
		{Timestamp: base.Add(time.Minute), TaskName: names[3], Outcome: model.OutcomePartial},
	}
	for _, rec := range recs {
		if err := st.AppendTask(ctx, rec); err != nil {
			t.Fatalf("append task: %v", err)
		}
	}

	got, err := st.Tasks(ctx, 0)
	if err != nil {
		t.Fatalf("read tasks: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("expected %d tasks, got %d", len(recs), len(got))
	}
	for i, rec := range recs {
		if got[i].TaskName != rec.TaskName || got[i].Outcome != rec.Outcome || got[i].Notes != rec.Notes {
			t.Fatalf("row %d mismatch: %+v", i, got[i])
		}
	}
	if got[0].DurationSeconds == nil || *got[0].DurationSeconds != 2.5 {
		t.Fatalf("expected duration 2.5, got %v", got[0].DurationSeconds)
	}
	if got[1].DurationSeconds != nil {
		t.Fatalf("expected absent duration stored as empty field")
	}

	raw, err := os.ReadFile(filepath.Join(dir, "tasks.csv"))
	if err != nil {
		t.Fatalf("read raw file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,task_name,success,duration_seconds,notes" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestCSVHeaderWrittenOnce(t *testing.T) {
	st, dir := openTestCSV(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		rec := model.ConsentRecord{Timestamp: base.Add(time.Duration(i) * time.Second), ConsentGiven: true}
		if err := st.AppendConsent(ctx, rec); err != nil {
			t.Fatalf("append consent: %v", err)
		}
	}
	raw, err := os.ReadFile(filepath.Join(dir, "consent.csv"))
	if err != nil {
		t.Fatalf("read raw file: %v", err)
	}
	if n := strings.Count(string(raw), "timestamp,consent_given"); n != 1 {
		t.Fatalf("expected exactly one header line, found %d", n)
	}
}

func TestCSVReadLimit(t *testing.T) {
	st, _ := openTestCSV(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	for i := 0; i < 4; i++ {
		rec := model.ExitRecord{Timestamp: base.Add(time.Duration(i) * time.Second), Satisfaction: 3, Difficulty: 3}
		if err := st.AppendExit(ctx, rec); err != nil {
			t.Fatalf("append exit: %v", err)
		}
	}
	limited, err := st.Exits(ctx, 2)
	if err != nil {
		t.Fatalf("read exits: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 records with limit, got %d", len(limited))
	}
}

func TestCSVMalformedRowPropagates(t *testing.T) {
	st, dir := openTestCSV(t)
	ctx := context.Background()

	content := "timestamp,satisfaction,difficulty,open_feedback\n2024-03-01 10:00:00,not-a-number,3,\n"
	if err := os.WriteFile(filepath.Join(dir, "exit.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write malformed file: %v", err)
	}
	if _, err := st.Exits(ctx, 0); err == nil {
		t.Fatalf("expected malformed row error")
	}
}
