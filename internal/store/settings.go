package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/session"
	"github.com/sadopc/studyplan/internal/timemath"
)

const (
	keyDailyStudyHours   = "daily_study_hours"
	keyExamDate          = "exam_date"
	keyPomodoroWork      = "pomodoro_work"
	keyPomodoroBreak     = "pomodoro_break"
	keyPomodoroLongBreak = "pomodoro_long_break"
	keyPomodoroCount     = "pomodoro_count"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// PlanSettings reads the planner tunables. Unparseable values fall back to
// the defaults.
func (s *Store) PlanSettings() (planner.Settings, error) {
	v, err := s.GetSetting(keyDailyStudyHours)
	if err != nil {
		return planner.Settings{}, err
	}
	hours, err := strconv.ParseFloat(v, 64)
	if err != nil || hours <= 0 {
		return planner.DefaultSettings(), nil
	}
	return planner.Settings{DailyStudyHours: hours}, nil
}

func (s *Store) SetPlanSettings(ps planner.Settings) error {
	if ps.DailyStudyHours <= 0 || ps.DailyStudyHours > 24 {
		return fmt.Errorf("daily study hours must be in (0, 24], got %v", ps.DailyStudyHours)
	}
	return s.SetSetting(keyDailyStudyHours, strconv.FormatFloat(ps.DailyStudyHours, 'f', -1, 64))
}

// PomodoroSettings reads the countdown lengths, stored in seconds.
func (s *Store) PomodoroSettings() (session.Settings, error) {
	def := session.DefaultSettings()
	read := func(key string, fallback int) (int, error) {
		v, err := s.GetSetting(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fallback, nil
		}
		return n, nil
	}

	work, err := read(keyPomodoroWork, def.WorkMinutes*60)
	if err != nil {
		return def, err
	}
	brk, err := read(keyPomodoroBreak, def.BreakMinutes*60)
	if err != nil {
		return def, err
	}
	long, err := read(keyPomodoroLongBreak, def.LongBreakMinutes*60)
	if err != nil {
		return def, err
	}
	count, err := read(keyPomodoroCount, def.SessionsBeforeLongBreak)
	if err != nil {
		return def, err
	}

	ps := session.Settings{
		WorkMinutes:             max(work/60, 1),
		BreakMinutes:            max(brk/60, 1),
		LongBreakMinutes:        max(long/60, 1),
		SessionsBeforeLongBreak: count,
	}
	return ps, nil
}

func (s *Store) SetPomodoroSettings(ps session.Settings) error {
	if err := ps.Validate(); err != nil {
		return err
	}
	values := map[string]int{
		keyPomodoroWork:      ps.WorkMinutes * 60,
		keyPomodoroBreak:     ps.BreakMinutes * 60,
		keyPomodoroLongBreak: ps.LongBreakMinutes * 60,
		keyPomodoroCount:     ps.SessionsBeforeLongBreak,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin pomodoro settings: %w", err)
	}
	defer tx.Rollback()
	for k, v := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, strconv.Itoa(v),
		)
		if err != nil {
			return fmt.Errorf("set setting %q: %w", k, err)
		}
	}
	return tx.Commit()
}

// ExamDate returns nil when no exam date is set.
func (s *Store) ExamDate() (*time.Time, error) {
	v, err := s.GetSetting(keyExamDate)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}
	t, err := timemath.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("stored exam date: %w", err)
	}
	return &t, nil
}

// SetExamDate stores the exam's calendar day; nil clears it.
func (s *Store) SetExamDate(exam *time.Time) error {
	if exam == nil {
		return s.SetSetting(keyExamDate, "")
	}
	return s.SetSetting(keyExamDate, timemath.CalendarDay(*exam))
}
