package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hallway/internal/model"
	"hallway/internal/session"
)

// Save confirmations shown in the footer.
const (
	consentSavedMsg     = "Your consent has been recorded. Thank you!"
	demographicSavedMsg = "Demographic data saved."
	taskSavedMsg        = "Task data saved."
	exitSavedMsg        = "Exit questionnaire data saved."
)

type consentForm struct {
	agreed bool
	focus  int // 0 checkbox, 1 submit
}

type demographicForm struct {
	name       textinput.Model
	age        textinput.Model
	occupation textinput.Model
	famIdx     int // index into model.Familiarities(), -1 unselected
	focus      int // 0 name, 1 age, 2 occupation, 3 familiarity, 4 submit
}

type taskForm struct {
	taskIdx    int // index into model.TaskNames(), -1 unselected
	timer      session.Timer
	outcomeIdx int // index into model.Outcomes(), -1 unselected
	notes      textinput.Model
	focus      int // 0 task, 1 timer, 2 outcome, 3 notes, 4 save
}

type exitForm struct {
	satisfaction int
	difficulty   int
	feedback     textinput.Model
	focus        int // 0 satisfaction, 1 difficulty, 2 feedback, 3 submit
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newConsentForm() consentForm {
	return consentForm{}
}

func newDemographicForm() demographicForm {
	return demographicForm{
		name:       newFormInput("Name (optional): "),
		age:        newFormInput("Age: "),
		occupation: newFormInput("Occupation: "),
		famIdx:     -1,
	}
}

func newTaskForm() taskForm {
	return taskForm{
		taskIdx:    -1,
		outcomeIdx: -1,
		notes:      newFormInput("Observer notes: "),
	}
}

func newExitForm() exitForm {
	return exitForm{
		satisfaction: 3,
		difficulty:   3,
		feedback:     newFormInput("Additional feedback: "),
	}
}

// applyFocus focuses the text input under the cursor, if any, and
// blurs the rest.
func (m *Model) applyFocus() {
	m.blurAll()
	if !m.editMode {
		return
	}
	switch m.activeTab {
	case tabDemographics:
		switch m.demographics.focus {
		case 0:
			m.demographics.name.Focus()
		case 1:
			m.demographics.age.Focus()
		case 2:
			m.demographics.occupation.Focus()
		}
	case tabTask:
		if m.task.focus == 3 {
			m.task.notes.Focus()
		}
	case tabExit:
		if m.exit.focus == 2 {
			m.exit.feedback.Focus()
		}
	}
}

func cycleFocus(focus, count, delta int) int {
	focus += delta
	if focus < 0 {
		return count - 1
	}
	if focus >= count {
		return 0
	}
	return focus
}

func (m *Model) updateConsent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.consent.focus = cycleFocus(m.consent.focus, 2, 1)
	case "shift+tab", "up":
		m.consent.focus = cycleFocus(m.consent.focus, 2, -1)
	case " ":
		if m.consent.focus == 0 {
			m.consent.agreed = !m.consent.agreed
		}
	case "enter":
		if m.consent.focus == 0 {
			m.consent.agreed = !m.consent.agreed
		} else {
			m.submitConsent()
		}
	}
	return m, nil
}

func (m *Model) updateDemographics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.demographics
	switch msg.String() {
	case "tab":
		f.focus = cycleFocus(f.focus, 5, 1)
		m.applyFocus()
		return m, nil
	case "shift+tab":
		f.focus = cycleFocus(f.focus, 5, -1)
		m.applyFocus()
		return m, nil
	case "enter":
		if f.focus == 4 {
			m.submitDemographics()
			return m, nil
		}
		f.focus = cycleFocus(f.focus, 5, 1)
		m.applyFocus()
		return m, nil
	}
	if f.focus == 3 {
		switch msg.String() {
		case "left":
			f.famIdx = cycleChoice(f.famIdx, len(model.Familiarities()), -1)
		case "right", " ":
			f.famIdx = cycleChoice(f.famIdx, len(model.Familiarities()), 1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.name, cmd = f.name.Update(msg)
	case 1:
		f.age, cmd = f.age.Update(msg)
	case 2:
		f.occupation, cmd = f.occupation.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.task
	switch msg.String() {
	case "tab":
		f.focus = cycleFocus(f.focus, 5, 1)
		m.applyFocus()
		return m, nil
	case "shift+tab":
		f.focus = cycleFocus(f.focus, 5, -1)
		m.applyFocus()
		return m, nil
	case "enter":
		switch f.focus {
		case 1:
			m.toggleTimer()
		case 4:
			m.submitTask()
		default:
			f.focus = cycleFocus(f.focus, 5, 1)
			m.applyFocus()
		}
		return m, nil
	}
	switch f.focus {
	case 0:
		switch msg.String() {
		case "left":
			m.selectTask(cycleChoice(f.taskIdx, len(model.TaskNames()), -1))
		case "right", " ":
			m.selectTask(cycleChoice(f.taskIdx, len(model.TaskNames()), 1))
		}
		return m, nil
	case 1:
		if msg.String() == " " {
			m.toggleTimer()
		}
		return m, nil
	case 2:
		switch msg.String() {
		case "left":
			f.outcomeIdx = cycleChoice(f.outcomeIdx, len(model.Outcomes()), -1)
		case "right", " ":
			f.outcomeIdx = cycleChoice(f.outcomeIdx, len(model.Outcomes()), 1)
		}
		return m, nil
	case 3:
		var cmd tea.Cmd
		f.notes, cmd = f.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateExit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.exit
	switch msg.String() {
	case "tab":
		f.focus = cycleFocus(f.focus, 4, 1)
		m.applyFocus()
		return m, nil
	case "shift+tab":
		f.focus = cycleFocus(f.focus, 4, -1)
		m.applyFocus()
		return m, nil
	case "enter":
		if f.focus == 3 {
			m.submitExit()
			return m, nil
		}
		f.focus = cycleFocus(f.focus, 4, 1)
		m.applyFocus()
		return m, nil
	}
	switch f.focus {
	case 0:
		f.satisfaction = adjustScale(f.satisfaction, msg.String())
		return m, nil
	case 1:
		f.difficulty = adjustScale(f.difficulty, msg.String())
		return m, nil
	case 2:
		var cmd tea.Cmd
		f.feedback, cmd = f.feedback.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cycleChoice advances through a choice list, entering it at the first
// element when nothing is selected yet.
func cycleChoice(idx, count, delta int) int {
	if count == 0 {
		return -1
	}
	if idx < 0 {
		return 0
	}
	idx += delta
	if idx < 0 {
		return count - 1
	}
	if idx >= count {
		return 0
	}
	return idx
}

func adjustScale(value int, key string) int {
	switch key {
	case "left":
		if value > 1 {
			return value - 1
		}
	case "right", " ":
		if value < 5 {
			return value + 1
		}
	}
	return value
}

// selectTask switches the task selection; the timer resets whenever
// the selected task actually changes.
func (m *Model) selectTask(idx int) {
	m.task.taskIdx = idx
	name := ""
	if idx >= 0 {
		name = model.TaskNames()[idx]
	}
	m.task.timer = m.task.timer.SelectTask(name)
}

func (m *Model) toggleTimer() {
	if m.task.taskIdx < 0 {
		m.errMsg = "select a task before starting the timer"
		return
	}
	m.errMsg = ""
	if m.task.timer.Phase() == session.TimerRunning {
		m.task.timer = m.task.timer.Stop(m.now())
		if secs := m.task.timer.DurationSeconds(); secs != nil {
			m.statusMsg = "Task completed in " + strconv.FormatFloat(*secs, 'f', 2, 64) + " seconds"
		}
		return
	}
	m.task.timer = m.task.timer.Start(m.now())
	m.statusMsg = "Task timer started. Complete the task, then stop the timer."
}

func (m *Model) submitConsent() {
	rec := model.ConsentRecord{
		Timestamp:    m.now(),
		ConsentGiven: m.consent.agreed,
	}
	if err := rec.Validate(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.st.AppendConsent(context.Background(), rec); err != nil {
		m.errMsg = "failed to save consent: " + err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = consentSavedMsg
	m.leaveEditMode()
}

func (m *Model) submitDemographics() {
	f := &m.demographics
	ageText := strings.TrimSpace(f.age.Value())
	age, err := strconv.Atoi(ageText)
	if ageText == "" || err != nil {
		m.errMsg = "age must be a number between 0 and 100"
		return
	}
	rec := model.DemographicRecord{
		Timestamp:  m.now(),
		Name:       strings.TrimSpace(f.name.Value()),
		Age:        age,
		Occupation: strings.TrimSpace(f.occupation.Value()),
	}
	if f.famIdx >= 0 {
		rec.Familiarity = model.Familiarities()[f.famIdx]
	}
	if err := rec.Validate(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.st.AppendDemographic(context.Background(), rec); err != nil {
		m.errMsg = "failed to save demographics: " + err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = demographicSavedMsg
	f.name.SetValue("")
	f.age.SetValue("")
	f.occupation.SetValue("")
	f.famIdx = -1
	f.focus = 0
	m.leaveEditMode()
}

func (m *Model) submitTask() {
	f := &m.task
	rec := model.TaskRecord{
		Timestamp:       m.now(),
		DurationSeconds: f.timer.DurationSeconds(),
		Notes:           strings.TrimSpace(f.notes.Value()),
	}
	if f.taskIdx >= 0 {
		rec.TaskName = model.TaskNames()[f.taskIdx]
	}
	if f.outcomeIdx >= 0 {
		rec.Outcome = model.Outcomes()[f.outcomeIdx]
	}
	if err := rec.Validate(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.st.AppendTask(context.Background(), rec); err != nil {
		m.errMsg = "failed to save task: " + err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = taskSavedMsg
	f.timer = session.Timer{TaskName: rec.TaskName}
	f.outcomeIdx = -1
	f.notes.SetValue("")
	f.focus = 0
	m.leaveEditMode()
}

func (m *Model) submitExit() {
	f := &m.exit
	rec := model.ExitRecord{
		Timestamp:    m.now(),
		Satisfaction: f.satisfaction,
		Difficulty:   f.difficulty,
		OpenFeedback: strings.TrimSpace(f.feedback.Value()),
	}
	if err := rec.Validate(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.st.AppendExit(context.Background(), rec); err != nil {
		m.errMsg = "failed to save exit questionnaire: " + err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = exitSavedMsg
	f.feedback.SetValue("")
	f.focus = 0
	m.leaveEditMode()
}

func (m *Model) renderConsent() string {
	f := m.consent
	lines := []string{
		titleStyle.Render("Consent Form"),
		"",
		"Please read the consent terms and confirm your agreement:",
		"- I understand the purpose of this usability study.",
		"- My data is collected solely for research and improvement purposes.",
		"- I can withdraw at any time.",
		"",
		renderCheckbox("I agree to the terms above", f.agreed, m.editMode && f.focus == 0),
		"",
		renderButton("Submit Consent", m.editMode && f.focus == 1),
	}
	if !m.editMode {
		lines = append(lines, "", mutedStyle.Render("Press enter to edit this form."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderDemographics() string {
	f := m.demographics
	familiarity := "(select)"
	if f.famIdx >= 0 {
		familiarity = string(model.Familiarities()[f.famIdx])
	}
	lines := []string{
		titleStyle.Render("Demographic Questionnaire"),
		"",
		f.name.View(),
		f.age.View(),
		f.occupation.View(),
		labelStyle.Render("Familiarity with similar tools: ") + renderSelector(familiarity, m.editMode && f.focus == 3),
		"",
		renderButton("Submit Demographics", m.editMode && f.focus == 4),
	}
	if !m.editMode {
		lines = append(lines, "", mutedStyle.Render("Press enter to edit this form."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTask() string {
	f := m.task
	taskName := "(select)"
	if f.taskIdx >= 0 {
		taskName = model.TaskNames()[f.taskIdx]
	}
	outcome := "(select)"
	if f.outcomeIdx >= 0 {
		outcome = string(model.Outcomes()[f.outcomeIdx])
	}
	timerLabel := "Start Task Timer"
	if f.timer.Phase() == session.TimerRunning {
		timerLabel = "Stop Task Timer"
	}
	timerLine := renderButton(timerLabel, m.editMode && f.focus == 1)
	switch f.timer.Phase() {
	case session.TimerRunning:
		timerLine += "  " + mutedStyle.Render("running...")
	case session.TimerStopped:
		if secs := f.timer.DurationSeconds(); secs != nil {
			timerLine += "  " + mutedStyle.Render("recorded "+strconv.FormatFloat(*secs, 'f', 2, 64)+"s")
		}
	}
	lines := []string{
		titleStyle.Render("Task Page"),
		"",
		"Select a task and record your experience completing it.",
		"",
		labelStyle.Render("Task: ") + renderSelector(taskName, m.editMode && f.focus == 0),
		timerLine,
		labelStyle.Render("Completed successfully? ") + renderSelector(outcome, m.editMode && f.focus == 2),
		f.notes.View(),
		"",
		renderButton("Save Task Results", m.editMode && f.focus == 4),
	}
	if !m.editMode {
		lines = append(lines, "", mutedStyle.Render("Press enter to edit this form."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderExit() string {
	f := m.exit
	lines := []string{
		titleStyle.Render("Exit Questionnaire"),
		"",
		labelStyle.Render("Overall satisfaction (1=very low, 5=very high):"),
		renderScale(f.satisfaction, 1, 5, m.editMode && f.focus == 0),
		labelStyle.Render("Overall difficulty (1=very easy, 5=very hard):"),
		renderScale(f.difficulty, 1, 5, m.editMode && f.focus == 1),
		f.feedback.View(),
		"",
		renderButton("Submit Exit Questionnaire", m.editMode && f.focus == 3),
	}
	if !m.editMode {
		lines = append(lines, "", mutedStyle.Render("Press enter to edit this form."))
	}
	return strings.Join(lines, "\n")
}
