package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/timemath"
)

type subjectsModel struct {
	store  *store.Store
	width  int
	height int

	subjects []planner.Subject
	exam     *time.Time
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "subject", "exam"

	// Form field pointers (survive value copies)
	formName       *string
	formPriority   *int
	formDifficulty *int
	formExam       *string
}

func newSubjectsModel(s *store.Store) subjectsModel {
	name, exam := "", ""
	priority, difficulty := 5, 3
	return subjectsModel{
		store:          s,
		formName:       &name,
		formPriority:   &priority,
		formDifficulty: &difficulty,
		formExam:       &exam,
	}
}

func (m *subjectsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type subjectsDataMsg struct {
	subjects []planner.Subject
	exam     *time.Time
	err      error
}

func (m subjectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		subjects, err := m.store.ListSubjects()
		if err != nil {
			return subjectsDataMsg{err: err}
		}
		exam, err := m.store.ExamDate()
		return subjectsDataMsg{subjects: subjects, exam: exam, err: err}
	}
}

func (m subjectsModel) update(msg tea.Msg) (subjectsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case subjectsDataMsg:
		if msg.err != nil {
			return m, errStatus("Load subjects", msg.err)
		}
		m.subjects = msg.subjects
		m.exam = msg.exam
		if m.cursor >= len(m.subjects) {
			m.cursor = max(0, len(m.subjects)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.subjects)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showSubjectForm()
		case key.Matches(msg, keys.Exam):
			return m.showExamForm()
		case key.Matches(msg, keys.Delete):
			if len(m.subjects) > 0 {
				sub := m.subjects[m.cursor]
				if err := m.store.DeleteSubject(sub.ID); err != nil {
					return m, errStatus("Delete subject", err)
				}
				return m, m.replan("Removed " + sub.Name)
			}
		}
	}
	return m, nil
}

func (m subjectsModel) showSubjectForm() (subjectsModel, tea.Cmd) {
	*m.formName = ""
	*m.formPriority = 5
	*m.formDifficulty = 3
	m.formType = "subject"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subject").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}).
				Value(m.formName),
			huh.NewSelect[int]().Title("Priority").Options(levelOptions(planner.PriorityLabel)...).Value(m.formPriority),
			huh.NewSelect[int]().Title("Difficulty").Options(levelOptions(planner.DifficultyLabel)...).Value(m.formDifficulty),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func levelOptions(label func(int) string) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, 5)
	for i := 5; i >= 1; i-- {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d · %s", i, label(i)), i))
	}
	return opts
}

func (m subjectsModel) showExamForm() (subjectsModel, tea.Cmd) {
	*m.formExam = ""
	if m.exam != nil {
		*m.formExam = timemath.CalendarDay(*m.exam)
	}
	m.formType = "exam"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Exam date (YYYY-MM-DD, empty to clear)").
				Validate(validateExamDate).
				Value(m.formExam),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validateExamDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := timemath.ParseDate(s)
	if err != nil {
		return err
	}
	if timemath.IsPast(time.Now(), d) {
		return errors.New("exam date is in the past")
	}
	return nil
}

func (m subjectsModel) updateForm(msg tea.Msg) (subjectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "subject":
			sub, err := m.store.CreateSubject(*m.formName, *m.formPriority, *m.formDifficulty)
			if err != nil {
				return m, errStatus("Add subject", err)
			}
			return m, m.replan("Added " + sub.Name)
		case "exam":
			return m.saveExamDate()
		}
	}

	return m, cmd
}

func (m subjectsModel) saveExamDate() (subjectsModel, tea.Cmd) {
	v := strings.TrimSpace(*m.formExam)
	if v == "" {
		if err := m.store.SetExamDate(nil); err != nil {
			return m, errStatus("Clear exam date", err)
		}
		return m, m.replan("Exam date cleared")
	}
	d, err := timemath.ParseDate(v)
	if err != nil {
		return m, errStatus("Exam date", err)
	}
	if err := m.store.SetExamDate(&d); err != nil {
		return m, errStatus("Set exam date", err)
	}
	return m, m.replan("Exam set for " + timemath.FormatDate(d))
}

// replan regenerates the plan after an edit, then reloads every view.
func (m subjectsModel) replan(status string) tea.Cmd {
	s := m.store
	return tea.Batch(
		m.refresh(),
		func() tea.Msg {
			if _, err := s.Replan(time.Now()); err != nil {
				return statusMsg{text: fmt.Sprintf("Replan: %v", err), isError: true}
			}
			return planChangedMsg{}
		},
		func() tea.Msg { return statusMsg{text: status} },
	)
}

func (m subjectsModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Subject")
		if m.formType == "exam" {
			title = titleStyle.Render("Exam Date")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}
	return m.renderList(w)
}

func (m subjectsModel) renderList(w int) string {
	title := titleStyle.Render("Subjects")
	examLine := mutedStyle.Render("Exam date: not set")
	if m.exam != nil {
		days := max(timemath.DaysUntil(time.Now(), *m.exam), 0)
		examLine = highlightStyle.Render(fmt.Sprintf("Exam date: %s (%s, %d days)",
			timemath.FormatDate(*m.exam), timemath.DayName(*m.exam), days))
	}

	rows := []string{title, examLine, ""}

	if len(m.subjects) == 0 {
		rows = append(rows, mutedStyle.Render("No subjects yet. Press n to add one."))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-24s %-16s %-16s", "Name", "Priority", "Difficulty")))
		for i, sub := range m.subjects {
			dot := lipgloss.NewStyle().Foreground(subjectColor(i)).Render("●")
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			line := fmt.Sprintf("%-24s %s  %s", sub.Name, stars(sub.EffectivePriority()), planner.DifficultyLabel(sub.EffectiveDifficulty()))
			rows = append(rows, cursor+dot+" "+style.Render(line))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: delete  x: exam date"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
