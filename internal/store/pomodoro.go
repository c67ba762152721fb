package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/studyplan/internal/session"
	"github.com/sadopc/studyplan/internal/timemath"
)

func (s *Store) readStats() (session.DailyStats, error) {
	var d session.DailyStats
	err := s.db.QueryRow(`
		SELECT today_completed, today_minutes, total_completed, total_minutes, last_reset_date
		FROM pomodoro_stats WHERE id = 1`,
	).Scan(&d.TodayCompleted, &d.TodayMinutes, &d.TotalCompleted, &d.TotalMinutes, &d.LastResetDate)
	if err != nil {
		return d, fmt.Errorf("read pomodoro stats: %w", err)
	}
	return d, nil
}

func (s *Store) writeStats(d session.DailyStats) error {
	_, err := s.db.Exec(`
		UPDATE pomodoro_stats
		SET today_completed = ?, today_minutes = ?, total_completed = ?, total_minutes = ?, last_reset_date = ?
		WHERE id = 1`,
		d.TodayCompleted, d.TodayMinutes, d.TotalCompleted, d.TotalMinutes, d.LastResetDate,
	)
	if err != nil {
		return fmt.Errorf("write pomodoro stats: %w", err)
	}
	return nil
}

// LoadStats returns the counters after clearing the today figures if they
// belong to an earlier day. The rollover is persisted.
func (s *Store) LoadStats(now time.Time) (session.DailyStats, error) {
	d, err := s.readStats()
	if err != nil {
		return d, err
	}
	rolled := d.Rollover(timemath.CalendarDay(now))
	if rolled != d {
		slog.Debug("pomodoro day rollover", "from", d.LastResetDate, "to", rolled.LastResetDate)
		if err := s.writeStats(rolled); err != nil {
			return d, err
		}
	}
	return rolled, nil
}

// RecordSession logs a finished countdown and folds it into the counters.
func (s *Store) RecordSession(now time.Time, ev session.Event) (session.DailyStats, error) {
	d, err := s.LoadStats(now)
	if err != nil {
		return d, err
	}

	_, err = s.db.Exec(
		`INSERT INTO pomodoro_sessions (kind, minutes, completed_at) VALUES (?, ?, ?)`,
		ev.Kind.String(), ev.Minutes, now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return d, fmt.Errorf("log pomodoro session: %w", err)
	}

	next := d.Apply(ev)
	if next == d {
		return d, nil
	}
	if err := s.writeStats(next); err != nil {
		return d, err
	}
	slog.Info("pomodoro completed", "minutes", ev.Minutes, "today", next.TodayCompleted)
	return next, nil
}

// ListSessions returns logged countdowns in [from, to), newest first.
func (s *Store) ListSessions(from, to time.Time) ([]SessionLog, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, minutes, completed_at FROM pomodoro_sessions
		WHERE completed_at >= ? AND completed_at < ?
		ORDER BY completed_at DESC, id DESC`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var logs []SessionLog
	for rows.Next() {
		var l SessionLog
		var kind, completedAt string
		if err := rows.Scan(&l.ID, &kind, &l.Minutes, &completedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if kind == session.OnBreak.String() {
			l.Kind = session.OnBreak
		}
		at, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parse session %d time: %w", l.ID, err)
		}
		l.CompletedAt = at
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// GetDailyFocus sums logged work sessions per UTC day in [from, to).
func (s *Store) GetDailyFocus(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at) AS day, COUNT(*), COALESCE(SUM(minutes), 0)
		FROM pomodoro_sessions
		WHERE kind = ?
		  AND completed_at >= ? AND completed_at < ?
		GROUP BY day
		ORDER BY day`,
		session.Working.String(), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var days []DailyFocus
	for rows.Next() {
		var df DailyFocus
		if err := rows.Scan(&df.Date, &df.Sessions, &df.Minutes); err != nil {
			return nil, err
		}
		days = append(days, df)
	}
	return days, rows.Err()
}
