package store

import (
	"fmt"
	"time"

	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
)

// ToggleCompleted flips a task's completion and reports the new state.
func (s *Store) ToggleCompleted(taskID string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM completed_tasks WHERE task_id = ?`, taskID).Scan(&n); err != nil {
		return false, fmt.Errorf("lookup completed %s: %w", taskID, err)
	}
	done := n == 0
	return done, s.SetCompleted(taskID, done)
}

func (s *Store) SetCompleted(taskID string, done bool) error {
	var err error
	if done {
		now := time.Now().UTC().Format(time.RFC3339)
		_, err = s.db.Exec(`INSERT OR IGNORE INTO completed_tasks (task_id, completed_at) VALUES (?, ?)`, taskID, now)
	} else {
		_, err = s.db.Exec(`DELETE FROM completed_tasks WHERE task_id = ?`, taskID)
	}
	if err != nil {
		return fmt.Errorf("set completed %s: %w", taskID, err)
	}
	return nil
}

func (s *Store) CompletedSet() (progress.CompletedSet, error) {
	rows, err := s.db.Query(`SELECT task_id FROM completed_tasks`)
	if err != nil {
		return nil, fmt.Errorf("list completed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return progress.NewCompletedSet(ids...), nil
}

func (s *Store) ClearCompleted() error {
	if _, err := s.db.Exec(`DELETE FROM completed_tasks`); err != nil {
		return fmt.Errorf("clear completed: %w", err)
	}
	return nil
}

// PruneCompleted drops completion marks for tasks that are no longer in the
// timetable and returns how many were removed.
func (s *Store) PruneCompleted(timetable planner.Timetable) (int, error) {
	done, err := s.CompletedSet()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer tx.Rollback()

	removed := 0
	for _, id := range done.IDs() {
		if timetable.Contains(id) {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM completed_tasks WHERE task_id = ?`, id); err != nil {
			return 0, fmt.Errorf("prune completed %s: %w", id, err)
		}
		removed++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}
