package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hallway/internal/model"
	"hallway/internal/store"
)

func newTestModel(t *testing.T) (*Model, store.Store) {
	t.Helper()
	st, err := store.Open(store.Options{
		Backend: store.BackendSQLite,
		DBPath:  filepath.Join(t.TempDir(), "usability_data.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Errorf("close store: %v", cerr)
		}
	})
	m := NewModel(st, 0)
	m.now = func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, st
}

func pressKey(m *Model, key tea.KeyType) {
	m.Update(tea.KeyMsg{Type: key})
}

func pressRune(m *Model, r rune) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func typeText(m *Model, text string) {
	for _, r := range text {
		pressRune(m, r)
	}
}

func gotoTab(t *testing.T, m *Model, tab int) {
	t.Helper()
	for i := 0; i < len(m.tabs); i++ {
		if m.activeTab == tab {
			return
		}
		pressKey(m, tea.KeyRight)
	}
	t.Fatalf("could not reach tab %d", tab)
}

func TestMoveTabWrapsAround(t *testing.T) {
	m, _ := newTestModel(t)
	pressKey(m, tea.KeyLeft)
	if m.activeTab != tabReport {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	pressKey(m, tea.KeyRight)
	if m.activeTab != tabHome {
		t.Fatalf("expected wrap back to home, got %d", m.activeTab)
	}
}

func TestConsentSubmitStoresRecord(t *testing.T) {
	m, st := newTestModel(t)
	gotoTab(t, m, tabConsent)
	pressKey(m, tea.KeyEnter) // edit mode
	if !m.editMode {
		t.Fatalf("expected edit mode after enter on a form tab")
	}
	pressKey(m, tea.KeySpace) // check the box
	pressKey(m, tea.KeyTab)   // move to submit
	pressKey(m, tea.KeyEnter)

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	if m.statusMsg != consentSavedMsg {
		t.Fatalf("unexpected status: %q", m.statusMsg)
	}
	recs, err := st.Consents(context.Background(), 0)
	if err != nil {
		t.Fatalf("read consents: %v", err)
	}
	if len(recs) != 1 || !recs[0].ConsentGiven {
		t.Fatalf("expected one affirmative consent record, got %+v", recs)
	}
}

func TestConsentSubmitWithoutAgreementStoresNothing(t *testing.T) {
	m, st := newTestModel(t)
	gotoTab(t, m, tabConsent)
	pressKey(m, tea.KeyEnter)
	pressKey(m, tea.KeyTab) // skip the checkbox
	pressKey(m, tea.KeyEnter)

	if m.errMsg == "" {
		t.Fatalf("expected a validation error for missing consent")
	}
	recs, err := st.Consents(context.Background(), 0)
	if err != nil {
		t.Fatalf("read consents: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no consent records, got %d", len(recs))
	}
}

func TestDemographicsRejectsNonNumericAge(t *testing.T) {
	m, st := newTestModel(t)
	gotoTab(t, m, tabDemographics)
	pressKey(m, tea.KeyEnter)
	typeText(m, "P1")
	pressKey(m, tea.KeyTab)
	typeText(m, "abc")
	m.demographics.focus = 4
	pressKey(m, tea.KeyEnter)

	if !strings.Contains(m.errMsg, "age must be a number") {
		t.Fatalf("expected age error, got %q", m.errMsg)
	}
	recs, err := st.Demographics(context.Background(), 0)
	if err != nil {
		t.Fatalf("read demographics: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no demographic records, got %d", len(recs))
	}
}

func TestDemographicsSubmitStoresRecord(t *testing.T) {
	m, st := newTestModel(t)
	gotoTab(t, m, tabDemographics)
	pressKey(m, tea.KeyEnter)
	typeText(m, "P1")
	pressKey(m, tea.KeyTab)
	typeText(m, "35")
	pressKey(m, tea.KeyTab)
	typeText(m, "Teacher")
	pressKey(m, tea.KeyTab)
	pressKey(m, tea.KeyRight) // first familiarity option
	pressKey(m, tea.KeyRight) // second
	pressKey(m, tea.KeyTab)
	pressKey(m, tea.KeyEnter)

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	recs, err := st.Demographics(context.Background(), 0)
	if err != nil {
		t.Fatalf("read demographics: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one demographic record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Name != "P1" || rec.Age != 35 || rec.Occupation != "Teacher" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Familiarity != model.FamiliaritySomewhat {
		t.Fatalf("unexpected familiarity: %q", rec.Familiarity)
	}
	if m.demographics.age.Value() != "" {
		t.Fatalf("expected form reset after save")
	}
}

func TestTaskTimerAndSubmit(t *testing.T) {
	m, st := newTestModel(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	current := base
	m.now = func() time.Time { return current }

	gotoTab(t, m, tabTask)
	pressKey(m, tea.KeyEnter)
	pressKey(m, tea.KeyRight) // select the first task
	pressKey(m, tea.KeyTab)   // timer control
	pressKey(m, tea.KeyEnter) // start
	current = base.Add(2500 * time.Millisecond)
	pressKey(m, tea.KeyEnter) // stop
	pressKey(m, tea.KeyTab)   // outcome
	pressKey(m, tea.KeyRight)
	pressKey(m, tea.KeyRight) // Yes
	pressKey(m, tea.KeyTab)   // notes
	typeText(m, "smooth")
	pressKey(m, tea.KeyTab) // save
	pressKey(m, tea.KeyEnter)

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	recs, err := st.Tasks(context.Background(), 0)
	if err != nil {
		t.Fatalf("read tasks: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one task record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.TaskName != model.TaskNames()[0] {
		t.Fatalf("unexpected task name: %q", rec.TaskName)
	}
	if rec.Outcome != model.OutcomeYes {
		t.Fatalf("unexpected outcome: %q", rec.Outcome)
	}
	if rec.DurationSeconds == nil || *rec.DurationSeconds != 2.5 {
		t.Fatalf("unexpected duration: %v", rec.DurationSeconds)
	}
	if rec.Notes != "smooth" {
		t.Fatalf("unexpected notes: %q", rec.Notes)
	}
}

func TestTaskSubmitWithoutTimerStoresNilDuration(t *testing.T) {
	m, st := newTestModel(t)
	gotoTab(t, m, tabTask)
	pressKey(m, tea.KeyEnter)
	pressKey(m, tea.KeyRight) // select the first task
	m.task.focus = 2
	pressKey(m, tea.KeyRight) // No
	m.task.focus = 4
	pressKey(m, tea.KeyEnter)

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	recs, err := st.Tasks(context.Background(), 0)
	if err != nil {
		t.Fatalf("read tasks: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one task record, got %d", len(recs))
	}
	if recs[0].DurationSeconds != nil {
		t.Fatalf("expected absent duration, got %v", *recs[0].DurationSeconds)
	}
}

func TestTimerRequiresTaskSelection(t *testing.T) {
	m, _ := newTestModel(t)
	gotoTab(t, m, tabTask)
	pressKey(m, tea.KeyEnter)
	m.task.focus = 1
	pressKey(m, tea.KeyEnter)
	if !strings.Contains(m.errMsg, "select a task") {
		t.Fatalf("expected task selection error, got %q", m.errMsg)
	}
}

func TestExitSubmitStoresRecord(t *testing.T) {
	m, st := newTestModel(t)
	gotoTab(t, m, tabExit)
	pressKey(m, tea.KeyEnter)
	pressKey(m, tea.KeyRight) // satisfaction 4
	pressKey(m, tea.KeyTab)
	pressKey(m, tea.KeyLeft) // difficulty 2
	pressKey(m, tea.KeyTab)
	typeText(m, "ok")
	pressKey(m, tea.KeyTab)
	pressKey(m, tea.KeyEnter)

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	recs, err := st.Exits(context.Background(), 0)
	if err != nil {
		t.Fatalf("read exits: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one exit record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Satisfaction != 4 || rec.Difficulty != 2 || rec.OpenFeedback != "ok" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestEscLeavesEditMode(t *testing.T) {
	m, _ := newTestModel(t)
	gotoTab(t, m, tabConsent)
	pressKey(m, tea.KeyEnter)
	if !m.editMode {
		t.Fatalf("expected edit mode")
	}
	pressKey(m, tea.KeyEsc)
	if m.editMode {
		t.Fatalf("expected browse mode after esc")
	}
}

func TestRecordsTabCyclesSets(t *testing.T) {
	m, _ := newTestModel(t)
	gotoTab(t, m, tabRecords)
	if m.recordSet != 0 {
		t.Fatalf("expected consent set first, got %d", m.recordSet)
	}
	pressRune(m, 't')
	if m.recordSet != 1 {
		t.Fatalf("expected demographics set, got %d", m.recordSet)
	}
	for i := 0; i < len(recordSetNames)-1; i++ {
		pressRune(m, 't')
	}
	if m.recordSet != 0 {
		t.Fatalf("expected cycle back to consent set, got %d", m.recordSet)
	}
}

func TestRenderScaleMarksSelection(t *testing.T) {
	out := renderScale(3, 1, 5, false)
	if !strings.Contains(out, "[3]") {
		t.Fatalf("expected selected value marked: %q", out)
	}
	if strings.Contains(out, "[2]") {
		t.Fatalf("expected other values unmarked: %q", out)
	}
}

func TestRenderCheckbox(t *testing.T) {
	if out := renderCheckbox("agree", true, false); !strings.HasPrefix(out, "[x] ") {
		t.Fatalf("expected checked box: %q", out)
	}
	if out := renderCheckbox("agree", false, false); !strings.HasPrefix(out, "[ ] ") {
		t.Fatalf("expected unchecked box: %q", out)
	}
}
