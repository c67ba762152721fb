package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studyplan/internal/session"
	"github.com/sadopc/studyplan/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dailyHours        *string
	pomodoroWork      *string
	pomodoroBreak     *string
	pomodoroLongBreak *string
	pomodoroCount     *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dh, pw, pb, plb, pc := "", "", "", "", ""
	return settingsModel{
		store:             s,
		dailyHours:        &dh,
		pomodoroWork:      &pw,
		pomodoroBreak:     &pb,
		pomodoroLongBreak: &plb,
		pomodoroCount:     &pc,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errStatus("Load settings", msg.err)
		}
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	ps, err := s.store.PlanSettings()
	if err != nil {
		return s, errStatus("Load settings", err)
	}
	pom, err := s.store.PomodoroSettings()
	if err != nil {
		return s, errStatus("Load settings", err)
	}

	*s.dailyHours = strconv.FormatFloat(ps.DailyStudyHours, 'f', -1, 64)
	*s.pomodoroWork = strconv.Itoa(pom.WorkMinutes)
	*s.pomodoroBreak = strconv.Itoa(pom.BreakMinutes)
	*s.pomodoroLongBreak = strconv.Itoa(pom.LongBreakMinutes)
	*s.pomodoroCount = strconv.Itoa(pom.SessionsBeforeLongBreak)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily study hours").Validate(validateHours).Value(s.dailyHours),
		).Title("Plan"),
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Validate(validatePositive).Value(s.pomodoroWork),
			huh.NewInput().Title("Break (min)").Validate(validatePositive).Value(s.pomodoroBreak),
			huh.NewInput().Title("Long break (min)").Validate(validatePositive).Value(s.pomodoroLongBreak),
			huh.NewInput().Title("Sessions before long break").Validate(validatePositive).Value(s.pomodoroCount),
		).Title("Pomodoro"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateHours(v string) error {
	h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if h <= 0 || h > 24 {
		return fmt.Errorf("must be between 0 and 24")
	}
	return nil
}

func validatePositive(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	hours, _ := strconv.ParseFloat(strings.TrimSpace(*s.dailyHours), 64)
	pom := session.Settings{
		WorkMinutes:             atoi(*s.pomodoroWork),
		BreakMinutes:            atoi(*s.pomodoroBreak),
		LongBreakMinutes:        atoi(*s.pomodoroLongBreak),
		SessionsBeforeLongBreak: atoi(*s.pomodoroCount),
	}

	cmds := []tea.Cmd{
		s.refresh(),
		func() tea.Msg { return statusMsg{text: "Settings saved"} },
	}

	prevPom, err := s.store.PomodoroSettings()
	if err != nil {
		return errStatus("Save settings", err)
	}
	if pom != prevPom {
		if err := s.store.SetPomodoroSettings(pom); err != nil {
			return errStatus("Save pomodoro settings", err)
		}
		cmds = append(cmds, func() tea.Msg { return pomodoroSettingsMsg{settings: pom} })
	}

	prev, err := s.store.PlanSettings()
	if err != nil {
		return errStatus("Save settings", err)
	}
	if hours != prev.DailyStudyHours {
		if err := s.store.SetPlanSettings(prev.WithDailyStudyHours(hours)); err != nil {
			return errStatus("Save daily hours", err)
		}
		if _, err := s.store.Replan(time.Now()); err != nil {
			return errStatus("Replan", err)
		}
		cmds = append(cmds, planChanged)
	}
	return tea.Batch(cmds...)
}

func atoi(v string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "pomodoro_work", "pomodoro_break", "pomodoro_long_break":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case "daily_study_hours":
		if h, err := strconv.ParseFloat(v, 64); err == nil {
			return fmt.Sprintf("%g hours", h)
		}
	case "exam_date":
		if v == "" {
			return "not set"
		}
	}
	return v
}
