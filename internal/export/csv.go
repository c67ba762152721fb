package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/studyplan/internal/planner"
	"github.com/sadopc/studyplan/internal/progress"
	"github.com/sadopc/studyplan/internal/timemath"
)

var csvHeader = []string{"ID", "Date", "Day", "Subject", "Topic", "Duration (min)", "Duration", "Priority", "Completed"}

func ToCSV(timetable planner.Timetable, done progress.CompletedSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, task := range timetable {
		row := []string{
			task.ID,
			timemath.CalendarDay(task.Date),
			timemath.DayName(task.Date),
			task.Subject,
			task.Topic,
			strconv.Itoa(task.Duration),
			timemath.FormatClock(task.Duration),
			strconv.Itoa(task.Priority),
			yesNo(done.Has(task.ID)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
