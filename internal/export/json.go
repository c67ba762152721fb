package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/timemath"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Completed  int        `json:"completed"`
	Progress   int        `json:"progress"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Day             string `json:"day"`
	Subject         string `json:"subject"`
	SubjectID       string `json:"subject_id"`
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
	Priority        int    `json:"priority"`
	Completed       bool   `json:"completed"`
}

func ToJSON(timetable planner.Timetable, done progress.CompletedSet, path string) error {
	summary := progress.Summarize(timetable, done)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      summary.Total,
		Completed:  summary.Completed,
		Progress:   summary.Percent,
		Tasks:      []jsonTask{},
	}

	for _, task := range timetable {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:              task.ID,
			Date:            timemath.CalendarDay(task.Date),
			Day:             timemath.DayName(task.Date),
			Subject:         task.Subject,
			SubjectID:       task.SubjectID,
			Topic:           task.Topic,
			DurationMinutes: task.Duration,
			Duration:        timemath.FormatDuration(task.Duration),
			Priority:        task.Priority,
			Completed:       done.Has(task.ID),
		})
	}

	return writeJSON(export, path)
}

// WriteSnapshot writes the full persisted state as a JSON backup.
func WriteSnapshot(snap *store.Snapshot, path string) error {
	return writeJSON(snap, path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
