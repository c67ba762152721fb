package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/studyplan/internal/planner"
)

func validateSubject(name string, priority, difficulty int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSubject)
	}
	if priority < 1 || priority > 5 {
		return fmt.Errorf("%w: priority must be 1-5, got %d", ErrInvalidSubject, priority)
	}
	if difficulty < 1 || difficulty > 5 {
		return fmt.Errorf("%w: difficulty must be 1-5, got %d", ErrInvalidSubject, difficulty)
	}
	return nil
}

// CreateSubject appends a subject after the existing ones.
func (s *Store) CreateSubject(name string, priority, difficulty int) (*planner.Subject, error) {
	name = strings.TrimSpace(name)
	if err := validateSubject(name, priority, difficulty); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO subjects (id, name, priority, difficulty, position)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM subjects))`,
		id, name, priority, difficulty,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	return s.GetSubject(id)
}

func (s *Store) GetSubject(id string) (*planner.Subject, error) {
	sub := &planner.Subject{}
	err := s.db.QueryRow(
		`SELECT id, name, priority, difficulty FROM subjects WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.Name, &sub.Priority, &sub.Difficulty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subject %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subject %s: %w", id, err)
	}
	return sub, nil
}

// ListSubjects returns subjects in the order they were added.
func (s *Store) ListSubjects() ([]planner.Subject, error) {
	rows, err := s.db.Query(`SELECT id, name, priority, difficulty FROM subjects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []planner.Subject
	for rows.Next() {
		var sub planner.Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Priority, &sub.Difficulty); err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

func (s *Store) DeleteSubject(id string) error {
	res, err := s.db.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subject %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete subject %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReplaceSubjects swaps the whole subject list in one transaction. Missing
// priority or difficulty take the planner defaults; missing ids are generated.
func (s *Store) ReplaceSubjects(subjects []planner.Subject) ([]planner.Subject, error) {
	out := make([]planner.Subject, len(subjects))
	for i, sub := range subjects {
		sub.Name = strings.TrimSpace(sub.Name)
		sub.Priority = sub.EffectivePriority()
		sub.Difficulty = sub.EffectiveDifficulty()
		if err := validateSubject(sub.Name, sub.Priority, sub.Difficulty); err != nil {
			return nil, fmt.Errorf("subject %d: %w", i+1, err)
		}
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		out[i] = sub
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin replace subjects: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM subjects`); err != nil {
		return nil, fmt.Errorf("clear subjects: %w", err)
	}
	for i, sub := range out {
		_, err := tx.Exec(
			`INSERT INTO subjects (id, name, priority, difficulty, position) VALUES (?, ?, ?, ?, ?)`,
			sub.ID, sub.Name, sub.Priority, sub.Difficulty, i,
		)
		if err != nil {
			return nil, fmt.Errorf("insert subject %q: %w", sub.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace subjects: %w", err)
	}
	return out, nil
}
