// Package tui provides the Bubble Tea study interface.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hallway/internal/report"
	"hallway/internal/store"
)

const (
	tabHome = iota
	tabConsent
	tabDemographics
	tabTask
	tabExit
	tabRecords
	tabReport
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FBF73"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Model implements the multi-tab study UI.
type Model struct {
	st          store.Store
	reportLimit int
	now         func() time.Time

	tabs      []string
	activeTab int
	editMode  bool

	width  int
	height int

	viewports map[int]*viewport.Model

	consent      consentForm
	demographics demographicForm
	task         taskForm
	exit         exitForm

	recordsTable table.Model
	recordSet    int
	data         report.Data

	statusMsg string
	errMsg    string
}

// NewModel constructs the study UI model.
func NewModel(st store.Store, reportLimit int) *Model {
	m := &Model{
		st:          st,
		reportLimit: reportLimit,
		now:         time.Now,
		tabs:        []string{"Home", "Consent", "Demographics", "Task", "Exit Questionnaire", "Records", "Report"},
	}
	m.consent = newConsentForm()
	m.demographics = newDemographicForm()
	m.task = newTaskForm()
	m.exit = newExitForm()
	m.initViewports()
	m.initRecordsTable()
	m.refreshData()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editMode {
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "enter", "e":
		if isFormTab(m.activeTab) {
			m.enterEditMode()
		}
		return m, nil
	case "t":
		if m.activeTab == tabRecords {
			m.recordSet = (m.recordSet + 1) % len(recordSetNames)
			m.applyRecordsTable()
		}
		return m, nil
	case "r":
		if m.activeTab == tabRecords || m.activeTab == tabReport {
			m.refreshData()
		}
		return m, nil
	case "g", "home":
		if m.activeTab == tabRecords {
			m.recordsTable.GotoTop()
		} else if vp, ok := m.viewports[m.activeTab]; ok {
			vp.GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabRecords {
			m.recordsTable.GotoBottom()
		} else if vp, ok := m.viewports[m.activeTab]; ok {
			vp.GotoBottom()
		}
		return m, nil
	default:
		if m.activeTab == tabRecords {
			var cmd tea.Cmd
			m.recordsTable, cmd = m.recordsTable.Update(msg)
			return m, cmd
		}
		if vp, ok := m.viewports[m.activeTab]; ok {
			updated, cmd := vp.Update(msg)
			*vp = updated
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.leaveEditMode()
		return m, nil
	}
	switch m.activeTab {
	case tabConsent:
		return m.updateConsent(msg)
	case tabDemographics:
		return m.updateDemographics(msg)
	case tabTask:
		return m.updateTask(msg)
	case tabExit:
		return m.updateExit(msg)
	}
	m.leaveEditMode()
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = map[int]*viewport.Model{}
	for _, tab := range []int{tabHome, tabReport} {
		vp := viewport.New(0, 0)
		m.viewports[tab] = &vp
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	if m.errMsg != "" || m.statusMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for _, vp := range m.viewports {
		vp.Width = m.width
		vp.Height = bodyHeight
	}
	m.recordsTable.SetWidth(m.width)
	m.recordsTable.SetHeight(maxInt(1, bodyHeight-1))
	for _, input := range m.textInputs() {
		promptWidth := lipgloss.Width(input.Prompt)
		input.Width = maxInt(10, minInt(48, m.width-promptWidth-4))
	}
}

func (m *Model) textInputs() []*textinput.Model {
	return []*textinput.Model{
		&m.demographics.name,
		&m.demographics.age,
		&m.demographics.occupation,
		&m.task.notes,
		&m.exit.feedback,
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.statusMsg = ""
	m.errMsg = ""
	if m.activeTab == tabRecords {
		m.recordsTable.Focus()
		m.refreshData()
	} else {
		m.recordsTable.Blur()
	}
	if m.activeTab == tabReport {
		m.refreshData()
	}
}

func isFormTab(tab int) bool {
	switch tab {
	case tabConsent, tabDemographics, tabTask, tabExit:
		return true
	}
	return false
}

func (m *Model) enterEditMode() {
	m.editMode = true
	m.statusMsg = ""
	m.errMsg = ""
	m.applyFocus()
}

func (m *Model) leaveEditMode() {
	m.editMode = false
	m.blurAll()
}

func (m *Model) blurAll() {
	for _, input := range m.textInputs() {
		input.Blur()
	}
}

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabConsent:
		return fitLines(m.renderConsent(), m.width, height)
	case tabDemographics:
		return fitLines(m.renderDemographics(), m.width, height)
	case tabTask:
		return fitLines(m.renderTask(), m.width, height)
	case tabExit:
		return fitLines(m.renderExit(), m.width, height)
	case tabRecords:
		return fitLines(m.renderRecords(), m.width, height)
	default:
		if vp, ok := m.viewports[m.activeTab]; ok {
			return fitLines(vp.View(), m.width, height)
		}
		return fitLines("", m.width, height)
	}
}

func (m *Model) renderFooter() string {
	help := m.renderHelp()
	switch {
	case m.errMsg != "":
		return help + "\n" + errorStyle.Render(m.errMsg)
	case m.statusMsg != "":
		return help + "\n" + successStyle.Render(m.statusMsg)
	default:
		return help
	}
}

func (m *Model) renderHelp() string {
	if m.editMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: activate/submit  space: toggle  left/right: adjust  esc: done")
	}
	help := "Nav: left/right  Scroll: up/down"
	if isFormTab(m.activeTab) {
		help += "  Edit: enter"
	}
	if m.activeTab == tabRecords {
		help += "  Set: t  Refresh: r"
	}
	if m.activeTab == tabReport {
		help += "  Refresh: r"
	}
	help += "  Quit: q"
	return headerStyle.Render(help)
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if vp, ok := m.viewports[tabHome]; ok {
		vp.SetContent(renderHome(width))
	}
	if vp, ok := m.viewports[tabReport]; ok {
		vp.SetContent(m.renderReport(width))
	}
}

func renderHome(width int) string {
	lines := []string{
		titleStyle.Render("Usability Testing Tool"),
		"",
		"Welcome to the usability testing tool for HCI studies.",
		"",
		"In this app, you will:",
		"1. Provide consent for data collection.",
		"2. Fill out a short demographic questionnaire.",
		"3. Perform a specific task (or tasks).",
		"4. Answer an exit questionnaire about your experience.",
		"5. View a summary report.",
		"",
		mutedStyle.Render("Use left/right to move between tabs."),
	}
	return strings.Join(lines, "\n")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// checkbox/button/selector rendering shared by the form tabs.

func renderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	line := box + " " + label
	if focused {
		return focusedStyle.Render(line)
	}
	return line
}

func renderButton(label string, focused bool) string {
	line := "[ " + label + " ]"
	if focused {
		return focusedStyle.Render(line)
	}
	return labelStyle.Render(line)
}

func renderSelector(value string, focused bool) string {
	line := "‹ " + value + " ›"
	if focused {
		return focusedStyle.Render(line)
	}
	return line
}

func renderScale(value, min, max int, focused bool) string {
	parts := make([]string, 0, max-min+1)
	for v := min; v <= max; v++ {
		if v == value {
			parts = append(parts, fmt.Sprintf("[%d]", v))
		} else {
			parts = append(parts, fmt.Sprintf(" %d ", v))
		}
	}
	line := strings.Join(parts, " ")
	if focused {
		return focusedStyle.Render(line)
	}
	return line
}
