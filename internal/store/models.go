package store

import (
	"time"

	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/session"
)

type Setting struct {
	Key   string
	Value string
}

// SessionLog is one finished Pomodoro countdown.
type SessionLog struct {
	ID          int64
	Kind        session.Phase
	Minutes     int
	CompletedAt time.Time
}

// DailyFocus is the work time logged on one day.
type DailyFocus struct {
	Date     string
	Sessions int
	Minutes  int
}

// Snapshot is the whole persisted state in one value.
type Snapshot struct {
	Subjects       []planner.Subject  `json:"subjects"`
	ExamDate       *time.Time         `json:"examDate"`
	Plan           planner.Settings   `json:"settings"`
	Pomodoro       session.Settings   `json:"pomodoroSettings"`
	Timetable      planner.Timetable  `json:"timetable"`
	CompletedTasks []string           `json:"completedTasks"`
	PomodoroStats  session.DailyStats `json:"pomodoroStats"`
}
