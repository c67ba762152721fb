package store

import (
	"log/slog"
	"time"

	"github.com/sadopc/studyplan/internal/planner"
)

// Plan generates the timetable for now from the stored subjects, exam date
// and settings.
func (s *Store) Plan(now time.Time) (planner.Timetable, error) {
	subjects, err := s.ListSubjects()
	if err != nil {
		return nil, err
	}
	exam, err := s.ExamDate()
	if err != nil {
		return nil, err
	}
	ps, err := s.PlanSettings()
	if err != nil {
		return nil, err
	}
	return planner.Generate(now, subjects, exam, ps), nil
}

// Replan regenerates the timetable after its inputs changed and drops
// completion marks that no longer refer to a task in it.
func (s *Store) Replan(now time.Time) (planner.Timetable, error) {
	timetable, err := s.Plan(now)
	if err != nil {
		return nil, err
	}
	removed, err := s.PruneCompleted(timetable)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		slog.Debug("pruned stale completions", "removed", removed, "tasks", len(timetable))
	}
	return timetable, nil
}

// Snapshot gathers everything the planner persists, with the timetable
// generated for now.
func (s *Store) Snapshot(now time.Time) (*Snapshot, error) {
	subjects, err := s.ListSubjects()
	if err != nil {
		return nil, err
	}
	exam, err := s.ExamDate()
	if err != nil {
		return nil, err
	}
	plan, err := s.PlanSettings()
	if err != nil {
		return nil, err
	}
	pomo, err := s.PomodoroSettings()
	if err != nil {
		return nil, err
	}
	done, err := s.CompletedSet()
	if err != nil {
		return nil, err
	}
	stats, err := s.LoadStats(now)
	if err != nil {
		return nil, err
	}

	if subjects == nil {
		subjects = []planner.Subject{}
	}
	return &Snapshot{
		Subjects:       subjects,
		ExamDate:       exam,
		Plan:           plan,
		Pomodoro:       pomo,
		Timetable:      planner.Generate(now, subjects, exam, plan),
		CompletedTasks: append([]string{}, done.IDs()...),
		PomodoroStats:  stats,
	}, nil
}
