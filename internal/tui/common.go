package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
)

// viewState represents the currently active view.
type viewState int

const (
	viewPlan viewState = iota
	viewSubjects
	viewProgress
	viewPomodoro
	viewSettings
)

var viewNames = []string{"Plan", "Subjects", "Progress", "Pomodoro", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// planChangedMsg is sent after subjects, the exam date or the daily budget
// changed, so every view that shows the timetable reloads it.
type planChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

func errStatus(action string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
	}
}

func planChanged() tea.Msg { return planChangedMsg{} }

// --- Helpers ---

// progressBar renders a fixed-width bar for a 0-100 percentage.
func progressBar(percent, width int) string {
	if width < 1 {
		return ""
	}
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func stars(n int) string {
	n = min(max(n, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func tierStyle(p int) lipgloss.Style {
	switch progress.TierFor(p) {
	case progress.TierFinishing:
		return successStyle
	case progress.TierHalfway:
		return highlightStyle
	case progress.TierBuilding:
		return warningStyle
	}
	return accentStyle
}

// subjectColor picks a stable colour for the i-th subject.
func subjectColor(i int) lipgloss.Color {
	return subjectColors[i%len(subjectColors)]
}

// subjectColorMap assigns colours in subject order.
func subjectColorMap(subjects []planner.Subject) map[string]lipgloss.Color {
	m := make(map[string]lipgloss.Color, len(subjects))
	for i, s := range subjects {
		m[s.ID] = subjectColor(i)
	}
	return m
}
