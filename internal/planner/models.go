package planner

import (
	"math"
	"time"

	"github.com/sadopc/studyplan/internal/timemath"
)

// Subject is something to study. A zero Priority or Difficulty means the
// field was not provided.
type Subject struct {
	ID         string `json:"id" yaml:"id,omitempty"`
	Name       string `json:"name" yaml:"name"`
	Priority   int    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Difficulty int    `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

func (s Subject) EffectivePriority() int {
	if s.Priority == 0 {
		return DefaultPriority
	}
	return s.Priority
}

func (s Subject) EffectiveDifficulty() int {
	if s.Difficulty == 0 {
		return DefaultDifficulty
	}
	return s.Difficulty
}

// Settings are the plan tunables.
type Settings struct {
	DailyStudyHours float64 `json:"dailyStudyHours"`
}

func DefaultSettings() Settings {
	return Settings{DailyStudyHours: DefaultDailyStudyHours}
}

// WithDailyStudyHours returns a copy with the daily budget changed.
func (s Settings) WithDailyStudyHours(hours float64) Settings {
	s.DailyStudyHours = hours
	return s
}

// DailyMinutes is the per-day study budget in whole minutes, rounded down so
// a day never exceeds the configured hours.
func (s Settings) DailyMinutes() int {
	return int(math.Floor(s.hours() * 60))
}

func (s Settings) hours() float64 {
	if s.DailyStudyHours <= 0 {
		return DefaultDailyStudyHours
	}
	return s.DailyStudyHours
}

// Task is one study session on the timetable.
type Task struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Subject   string    `json:"subject"`
	SubjectID string    `json:"subjectId"`
	Topic     string    `json:"topic"`
	Duration  int       `json:"duration"` // minutes
	Priority  int       `json:"priority"`
}

// Timetable is an ordered list of tasks: by day, then by descending priority.
type Timetable []Task

// Day groups the tasks scheduled on one calendar day.
type Day struct {
	Date  time.Time
	Tasks []Task
}

func (d Day) Minutes() int {
	total := 0
	for _, t := range d.Tasks {
		total += t.Duration
	}
	return total
}

func (t Timetable) IDs() []string {
	ids := make([]string, len(t))
	for i, task := range t {
		ids[i] = task.ID
	}
	return ids
}

func (t Timetable) Contains(id string) bool {
	for _, task := range t {
		if task.ID == id {
			return true
		}
	}
	return false
}

func (t Timetable) TotalMinutes() int {
	total := 0
	for _, task := range t {
		total += task.Duration
	}
	return total
}

// Days groups the timetable by calendar day, preserving order.
func (t Timetable) Days() []Day {
	var days []Day
	for _, task := range t {
		if n := len(days); n > 0 && days[n-1].Date.Equal(task.Date) {
			days[n-1].Tasks = append(days[n-1].Tasks, task)
			continue
		}
		days = append(days, Day{Date: task.Date, Tasks: []Task{task}})
	}
	return days
}

// ForDay returns the tasks scheduled on day's calendar day.
func (t Timetable) ForDay(day time.Time) []Task {
	want := timemath.CalendarDay(day)
	var tasks []Task
	for _, task := range t {
		if timemath.CalendarDay(task.Date) == want {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

var (
	priorityLabels   = [...]string{"", "Very Low", "Low", "Medium", "High", "Very High"}
	difficultyLabels = [...]string{"", "Easy", "Medium-Easy", "Medium", "Medium-Hard", "Hard"}
)

// PriorityLabel names a 1-5 priority level. Out of range values give "".
func PriorityLabel(p int) string {
	if p < 1 || p > 5 {
		return ""
	}
	return priorityLabels[p]
}

func DifficultyLabel(d int) string {
	if d < 1 || d > 5 {
		return ""
	}
	return difficultyLabels[d]
}
