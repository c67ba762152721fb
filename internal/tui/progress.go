package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
	"github.com/sadopc/studyplan/internal/session"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/timemath"
)

// chartDays caps how many plan days the workload chart shows.
const chartDays = 14

type progressModel struct {
	store  *store.Store
	width  int
	height int

	timetable planner.Timetable
	done      progress.CompletedSet
	exam      *time.Time
	subjects  []planner.Subject
	stats     session.DailyStats

	chart barchart.Model
}

func newProgressModel(s *store.Store) progressModel {
	return progressModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *progressModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

type progressDataMsg struct {
	plan  planDataMsg
	stats session.DailyStats
	err   error
}

func (m progressModel) refresh() tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		data := loadPlanData(m.store, now)
		if data.err != nil {
			return progressDataMsg{err: data.err}
		}
		stats, err := m.store.LoadStats(now)
		return progressDataMsg{plan: data, stats: stats, err: err}
	}
}

func (m progressModel) update(msg tea.Msg) (progressModel, tea.Cmd) {
	if msg, ok := msg.(progressDataMsg); ok {
		if msg.err != nil {
			return m, errStatus("Load progress", msg.err)
		}
		m.timetable = msg.plan.timetable
		m.done = msg.plan.done
		m.exam = msg.plan.exam
		m.subjects = msg.plan.subjects
		m.stats = msg.stats
		m.buildChart()
	}
	return m, nil
}

// buildChart stacks the planned minutes of each day by subject.
func (m *progressModel) buildChart() {
	chartWidth := max(m.width-8, 20)
	chartHeight := 10
	if m.height > 36 {
		chartHeight = 14
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	colors := subjectColorMap(m.subjects)
	days := m.timetable.Days()
	if len(days) > chartDays {
		days = days[:chartDays]
	}

	var bars []barchart.BarData
	for _, day := range days {
		var values []barchart.BarValue
		for _, t := range day.Tasks {
			color, ok := colors[t.SubjectID]
			if !ok {
				color = colorMuted
			}
			values = append(values, barchart.BarValue{
				Name:  t.Subject,
				Value: float64(t.Duration),
				Style: lipgloss.NewStyle().Foreground(color),
			})
		}
		bars = append(bars, barchart.BarData{
			Label:  timemath.ShortDayName(day.Date),
			Values: values,
		})
	}
	if len(bars) == 0 {
		return
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m progressModel) daysLeft() *int {
	if m.exam == nil {
		return nil
	}
	d := max(timemath.DaysUntil(time.Now(), *m.exam), 0)
	return &d
}

func (m progressModel) view() string {
	w := m.width - 4
	sum := progress.Summarize(m.timetable, m.done)

	title := titleStyle.Render("Progress")
	pct := tierStyle(sum.Percent).Render(fmt.Sprintf("%d%%", sum.Percent))
	bar := progressBar(sum.Percent, min(40, max(w/2, 10)))
	header := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", mutedStyle.Render(progress.TierFor(sum.Percent).String())),
		bar+" "+pct,
	)

	figures := []string{
		fmt.Sprintf("  Tasks        %d / %d done, %d remaining", sum.Completed, sum.Total, sum.Remaining),
		fmt.Sprintf("  Study time   %s of %s", timemath.FormatDuration(sum.CompletedMinutes), timemath.FormatDuration(sum.PlannedMinutes)),
		fmt.Sprintf("  Streak       %d days", sum.StreakDays),
		fmt.Sprintf("  Est. left    %d days", sum.EstimatedDaysLeft),
	}
	if d := m.daysLeft(); d != nil {
		figures = append(figures, fmt.Sprintf("  Exam in      %d days", *d))
	}

	focus := fmt.Sprintf("  Today: %d sessions, %s focused  ·  All time: %d sessions, %s",
		m.stats.TodayCompleted, timemath.FormatDuration(m.stats.TodayMinutes),
		m.stats.TotalCompleted, timemath.FormatDuration(m.stats.TotalMinutes))

	var tips []string
	for _, tip := range progress.Tips(sum.Percent, m.daysLeft()) {
		tips = append(tips, "  "+tip)
	}

	sections := []string{
		header, "",
		strings.Join(figures, "\n"), "",
		titleStyle.Render("Focus"), mutedStyle.Render(focus), "",
		titleStyle.Render("Tips"), strings.Join(tips, "\n"),
	}
	if len(m.timetable) > 0 {
		sections = append(sections, "",
			titleStyle.Render("Planned minutes per day"),
			m.chart.View(),
			m.renderLegend(),
		)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m progressModel) renderLegend() string {
	var items []string
	for i, s := range m.subjects {
		dot := lipgloss.NewStyle().Foreground(subjectColor(i)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, s.Name))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
