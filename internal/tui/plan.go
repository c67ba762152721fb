package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/timemath"
)

type planModel struct {
	store  *store.Store
	width  int
	height int

	timetable planner.Timetable
	done      progress.CompletedSet
	exam      *time.Time
	colors    map[string]lipgloss.Color
	cursor    int
	err       error
}

func newPlanModel(s *store.Store) planModel {
	return planModel{store: s}
}

func (p planModel) Init() tea.Cmd {
	return p.refresh()
}

func (p *planModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type planDataMsg struct {
	timetable planner.Timetable
	done      progress.CompletedSet
	exam      *time.Time
	subjects  []planner.Subject
	err       error
}

func (p planModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return loadPlanData(p.store, time.Now())
	}
}

func loadPlanData(s *store.Store, now time.Time) planDataMsg {
	timetable, err := s.Plan(now)
	if err != nil {
		return planDataMsg{err: err}
	}
	done, err := s.CompletedSet()
	if err != nil {
		return planDataMsg{err: err}
	}
	exam, err := s.ExamDate()
	if err != nil {
		return planDataMsg{err: err}
	}
	subjects, err := s.ListSubjects()
	if err != nil {
		return planDataMsg{err: err}
	}
	return planDataMsg{timetable: timetable, done: done, exam: exam, subjects: subjects}
}

func (p planModel) update(msg tea.Msg) (planModel, tea.Cmd) {
	switch msg := msg.(type) {
	case planDataMsg:
		p.err = msg.err
		if msg.err != nil {
			return p, errStatus("Load plan", msg.err)
		}
		p.timetable = msg.timetable
		p.done = msg.done
		p.exam = msg.exam
		p.colors = subjectColorMap(msg.subjects)
		if p.cursor >= len(p.timetable) {
			p.cursor = max(0, len(p.timetable)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.timetable)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Toggle):
			return p.toggleSelected()
		}
	}
	return p, nil
}

func (p planModel) toggleSelected() (planModel, tea.Cmd) {
	if len(p.timetable) == 0 {
		return p, nil
	}
	task := p.timetable[p.cursor]
	if _, err := p.store.ToggleCompleted(task.ID); err != nil {
		return p, errStatus("Toggle task", err)
	}
	p.done = p.done.Toggle(task.ID)
	return p, nil
}

func (p planModel) view() string {
	if p.width < 20 {
		return "Terminal too small"
	}
	w := p.width - 4

	header := p.renderHeader(w)
	if p.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", errorStyle.Render(p.err.Error())))
	}
	if len(p.timetable) == 0 {
		hint := mutedStyle.Render("No plan yet. Add subjects in view 2 and set an exam date with x.")
		if p.exam != nil && timemath.IsPast(time.Now(), *p.exam) {
			hint = warningStyle.Render("The exam date has passed. Set a new one in view 2.")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", hint))
	}

	lines, cursorLine := p.renderDays(w - 6)
	avail := p.height - lipgloss.Height(header) - 6
	lines = window(lines, cursorLine, avail)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n")),
	)
}

func (p planModel) renderHeader(w int) string {
	title := titleStyle.Render("Study Plan")

	examInfo := mutedStyle.Render("no exam date")
	if p.exam != nil {
		days := timemath.DaysUntil(time.Now(), *p.exam)
		examInfo = fmt.Sprintf("%s %s", highlightStyle.Render("Exam "+timemath.FormatDate(*p.exam)), mutedStyle.Render(fmt.Sprintf("· %d days left", max(days, 0))))
	}

	pct := progress.Percent(p.timetable, p.done)
	bar := progressBar(pct, min(30, max(w/3, 10)))
	summary := fmt.Sprintf("%s %s  %s", bar, tierStyle(pct).Render(fmt.Sprintf("%d%%", pct)),
		mutedStyle.Render(fmt.Sprintf("%d tasks · %s", len(p.timetable), timemath.FormatDuration(p.timetable.TotalMinutes()))))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", examInfo),
		summary,
	)
}

// renderDays lays out the timetable one line per task under a header per
// day and reports which line holds the cursor.
func (p planModel) renderDays(w int) ([]string, int) {
	var lines []string
	cursorLine := 0
	idx := 0
	for _, day := range p.timetable.Days() {
		doneCount := 0
		for _, t := range day.Tasks {
			if p.done.Has(t.ID) {
				doneCount++
			}
		}
		dayPct := progress.DayPercent(day.Tasks, p.done)
		head := fmt.Sprintf("%s %s",
			dayHeaderStyle.Render(day.Date.Format("Monday, Jan 2")),
			mutedStyle.Render(fmt.Sprintf("%d/%d · %d%% · %s", doneCount, len(day.Tasks), dayPct, timemath.FormatDuration(day.Minutes()))),
		)
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, head)

		for _, t := range day.Tasks {
			if idx == p.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, p.renderTask(t, idx == p.cursor, w))
			idx++
		}
	}
	return lines, cursorLine
}

func (p planModel) renderTask(t planner.Task, selected bool, w int) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}
	check := "[ ]"
	topic := t.Topic
	if p.done.Has(t.ID) {
		check = successStyle.Render("[✓]")
		style = doneTaskStyle
		if selected {
			style = doneTaskStyle.Foreground(colorPrimary)
		}
	}

	color, ok := p.colors[t.SubjectID]
	if !ok {
		color = colorMuted
	}
	dot := lipgloss.NewStyle().Foreground(color).Render("●")

	dur := mutedStyle.Render(fmt.Sprintf("%6s", timemath.FormatDuration(t.Duration)))
	if r := []rune(topic); w > 23 && len(r) > w-20 {
		topic = string(r[:w-21]) + "…"
	}
	return fmt.Sprintf("%s%s %s %s %s", cursor, check, dot, style.Render(topic), dur)
}

// window returns at most n lines around focus.
func window(lines []string, focus, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	start := focus - n/2
	start = max(0, min(start, len(lines)-n))
	return lines[start : start+n]
}
