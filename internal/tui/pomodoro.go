package tui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studyplan/internal/session"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/timemath"
)

type pomodoroModel struct {
	store  *store.Store
	width  int
	height int

	tracker   *session.Tracker
	clock     tickClock
	longBreak bool
	stats     session.DailyStats
}

func newPomodoroModel(s *store.Store) pomodoroModel {
	settings, err := s.PomodoroSettings()
	if err != nil {
		slog.Warn("load pomodoro settings", "error", err)
		settings = session.DefaultSettings()
	}
	tracker, err := session.New(settings)
	if err != nil {
		tracker, _ = session.New(session.DefaultSettings())
	}
	return pomodoroModel{store: s, tracker: tracker}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type pomodoroDataMsg struct {
	settings session.Settings
	stats    session.DailyStats
	err      error
}

// pomodoroSettingsMsg carries settings saved in the settings view.
type pomodoroSettingsMsg struct {
	settings session.Settings
}

func (p pomodoroModel) refresh() tea.Cmd {
	return func() tea.Msg {
		stats, err := p.store.LoadStats(time.Now())
		if err != nil {
			return pomodoroDataMsg{err: err}
		}
		settings, err := p.store.PomodoroSettings()
		return pomodoroDataMsg{settings: settings, stats: stats, err: err}
	}
}

func (p pomodoroModel) running() bool {
	return p.tracker.Running()
}

func (p pomodoroModel) remaining() int {
	return p.tracker.State().SecondsRemaining
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return p.advance(time.Time(msg))

	case pomodoroDataMsg:
		if msg.err != nil {
			return p, errStatus("Load pomodoro", msg.err)
		}
		p.stats = msg.stats
		if msg.settings != p.tracker.Settings() {
			if err := p.tracker.SetSettings(msg.settings); err != nil {
				return p, errStatus("Pomodoro settings", err)
			}
		}
		return p, nil

	case pomodoroSettingsMsg:
		if err := p.tracker.SetSettings(msg.settings); err != nil {
			return p, errStatus("Pomodoro settings", err)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle):
			return p.toggle(time.Now())
		case key.Matches(msg, keys.Break):
			p.clock.stop()
			p.longBreak = p.tracker.LongBreakDue()
			p.tracker.StartBreak(p.longBreak)
			return p, nil
		case key.Matches(msg, keys.Work):
			p.clock.stop()
			p.tracker.SkipBreak()
			return p, nil
		case key.Matches(msg, keys.Reset):
			p.clock.stop()
			p.tracker.ResetWork()
			return p, nil
		case key.Matches(msg, keys.PrevPreset):
			return p.cyclePreset(-1)
		case key.Matches(msg, keys.NextPreset):
			return p.cyclePreset(1)
		}
	}
	return p, nil
}

func (p pomodoroModel) toggle(now time.Time) (pomodoroModel, tea.Cmd) {
	if p.tracker.Running() {
		p.tracker.Pause()
		p.clock.stop()
		return p, nil
	}
	p.tracker.Start()
	if p.tracker.Running() {
		p.clock.reset(now)
	}
	return p, nil
}

// advance feeds elapsed wall-clock seconds into the tracker.
func (p pomodoroModel) advance(now time.Time) (pomodoroModel, tea.Cmd) {
	n := p.clock.advance(now)
	for range n {
		ev, done := p.tracker.Tick()
		if done {
			p.clock.stop()
			return p.complete(now, ev)
		}
	}
	return p, nil
}

// complete records a finished countdown and arms the next phase without
// starting it.
func (p pomodoroModel) complete(now time.Time, ev session.Event) (pomodoroModel, tea.Cmd) {
	stats, err := p.store.RecordSession(now, ev)
	if err != nil {
		return p, errStatus("Record session", err)
	}
	p.stats = stats

	if ev.Kind == session.Working {
		p.longBreak = p.tracker.LongBreakDue()
		p.tracker.StartBreak(p.longBreak)
		text := "Session complete! Break ready, press space \a"
		if p.longBreak {
			text = "Cycle complete! Long break ready, press space \a"
		}
		return p, func() tea.Msg { return statusMsg{text: text} }
	}

	p.tracker.SkipBreak()
	return p, func() tea.Msg { return statusMsg{text: "Break over. Back to work \a"} }
}

func (p pomodoroModel) cyclePreset(dir int) (pomodoroModel, tea.Cmd) {
	settings := p.tracker.Settings()
	idx := slices.Index(session.Presets, settings.WorkMinutes)
	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = len(session.Presets) - 1
	default:
		idx = (idx + dir + len(session.Presets)) % len(session.Presets)
	}

	minutes := session.Presets[idx]
	if err := p.tracker.SetWorkDuration(minutes); err != nil {
		return p, errStatus("Work length", err)
	}
	if err := p.store.SetPomodoroSettings(p.tracker.Settings()); err != nil {
		return p, errStatus("Save work length", err)
	}
	return p, func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Work length set to %d min", minutes)}
	}
}

func (p pomodoroModel) phaseLabel() (string, lipgloss.Style) {
	st := p.tracker.State()
	switch {
	case st.Phase == session.OnBreak && p.longBreak:
		return "LONG BREAK", highlightStyle
	case st.Phase == session.OnBreak:
		return "SHORT BREAK", successStyle
	}
	return "WORK", accentStyle
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	st := p.tracker.State()

	title := titleStyle.Render("Pomodoro Timer")

	label, style := p.phaseLabel()
	timeDisplay := countdownStyle.Foreground(style.GetForeground()).Width(max(w-6, 10)).
		Render(timemath.FormatCountdown(st.SecondsRemaining))
	phase := style.Bold(true).Render(label)
	if !st.Running {
		phase += mutedStyle.Render(" · paused")
		if st.SecondsRemaining == p.armedSeconds() {
			phase = style.Bold(true).Render(label) + mutedStyle.Render(" · ready")
		}
	}

	bar := progressBar(int(p.tracker.Fraction()*100), min(40, max(w/2, 10)))

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phase,
		"",
		bar,
		p.renderCycle(),
		"",
		p.renderPresets(),
		"",
		mutedStyle.Render(fmt.Sprintf("Today: %d sessions · %s focused", p.stats.TodayCompleted, timemath.FormatDuration(p.stats.TodayMinutes))),
	)

	controls := mutedStyle.Render("space: start/pause  b: break  w: skip break  r: reset  [/]: work length")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// armedSeconds is the full length of the current phase.
func (p pomodoroModel) armedSeconds() int {
	s := p.tracker.Settings()
	if p.tracker.State().Phase == session.Working {
		return s.WorkMinutes * 60
	}
	if p.longBreak {
		return s.LongBreakMinutes * 60
	}
	return s.BreakMinutes * 60
}

func (p pomodoroModel) renderCycle() string {
	target := p.tracker.Settings().SessionsBeforeLongBreak
	done := p.tracker.State().CompletedSessionsInCycle
	inCycle := done % target
	if done > 0 && inCycle == 0 {
		inCycle = target
	}

	var parts []string
	for i := range target {
		switch {
		case i < inCycle:
			parts = append(parts, successStyle.Render("●"))
		case i == inCycle && p.tracker.Running() && p.tracker.State().Phase == session.Working:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", inCycle, target))
	return strings.Join(parts, " ") + counter
}

func (p pomodoroModel) renderPresets() string {
	current := p.tracker.Settings().WorkMinutes
	var parts []string
	for _, m := range session.Presets {
		label := fmt.Sprintf("%dm", m)
		if m == current {
			parts = append(parts, selectedItemStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

// footer is the compact countdown shown while a phase runs.
func (p pomodoroModel) footer() string {
	if !p.running() {
		return ""
	}
	label, style := p.phaseLabel()
	return style.Render(fmt.Sprintf(" ● %s %s", strings.ToLower(label), timemath.FormatCountdown(p.remaining())))
}
