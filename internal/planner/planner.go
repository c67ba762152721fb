// Package planner turns a list of subjects, an exam date and a daily study
// budget into a day-by-day timetable.
//
// Study time is split by a fixed weighting of each subject's priority and
// difficulty. Within a day, subjects are scheduled in input order until the
// day's budget runs out; sessions shorter than MinSessionMinutes are dropped.
// The result is sorted by day and, within a day, by descending priority.
//
// Generate is a pure function of its inputs and is safe for concurrent use.
package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/studyplan/internal/timemath"
)

const (
	DefaultPriority        = 5
	DefaultDifficulty      = 1
	DefaultDailyStudyHours = 4.0

	// MinSessionMinutes is the shortest session ever placed on the timetable.
	MinSessionMinutes = 15

	priorityShare   = 0.6
	difficultyShare = 0.4
)

var topics = []string{
	"Review fundamentals of {subject}",
	"Practice problems in {subject}",
	"Study advanced concepts in {subject}",
	"Complete exercises on {subject}",
	"Review notes and summarize key points",
	"Work on sample questions for {subject}",
	"Deep dive into tricky topics",
	"Group study session for {subject}",
	"Take practice test on {subject}",
	"Review and revise {subject} material",
}

// allocation is a subject together with its share of the study window.
type allocation struct {
	Subject
	minutesAllocated int
	dailyMinutes     int
}

// GeneratePlan builds a timetable starting today.
func GeneratePlan(subjects []Subject, examDate *time.Time, settings Settings) Timetable {
	return Generate(time.Now(), subjects, examDate, settings)
}

// Generate builds a timetable whose first day is now's calendar day.
func Generate(now time.Time, subjects []Subject, examDate *time.Time, settings Settings) Timetable {
	if len(subjects) == 0 || examDate == nil {
		return Timetable{}
	}

	daysAvailable := timemath.DaysAvailable(now, *examDate)
	hours := settings.hours()
	totalStudyMinutes := float64(daysAvailable) * hours * 60

	dist := distribute(subjects, totalStudyMinutes, daysAvailable)
	dayBudget := settings.DailyMinutes()

	var timetable Timetable
	for day, date := range timemath.DateRange(now, daysAvailable) {
		remaining := dayBudget

		for i, a := range dist {
			if remaining <= 0 {
				break
			}
			duration := min(a.dailyMinutes, remaining)
			if duration < MinSessionMinutes {
				continue
			}

			timetable = append(timetable, Task{
				ID:        fmt.Sprintf("%s-%d-%d", a.ID, day, i),
				Date:      date,
				Subject:   a.Name,
				SubjectID: a.ID,
				Topic:     topicFor(day+i, a.Name),
				Duration:  duration,
				Priority:  a.EffectivePriority(),
			})
			remaining -= duration
		}
	}

	sort.SliceStable(timetable, func(i, j int) bool {
		a, b := timetable[i], timetable[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Priority > b.Priority
	})

	if timetable == nil {
		return Timetable{}
	}
	return timetable
}

func distribute(subjects []Subject, totalStudyMinutes float64, days int) []allocation {
	totalPriority, totalDifficulty := 0, 0
	for _, s := range subjects {
		totalPriority += s.EffectivePriority()
		totalDifficulty += s.EffectiveDifficulty()
	}
	// Malformed input can make the sums vanish; keep the division defined.
	if totalPriority <= 0 {
		totalPriority = 1
	}
	if totalDifficulty <= 0 {
		totalDifficulty = 1
	}

	dist := make([]allocation, len(subjects))
	for i, s := range subjects {
		weight := priorityShare*float64(s.EffectivePriority())/float64(totalPriority) +
			difficultyShare*float64(s.EffectiveDifficulty())/float64(totalDifficulty)
		allocated := roundHalfUp(totalStudyMinutes * weight)
		dist[i] = allocation{
			Subject:          s,
			minutesAllocated: allocated,
			dailyMinutes:     int(math.Ceil(float64(allocated) / float64(days))),
		}
	}
	return dist
}

func topicFor(n int, subject string) string {
	return strings.ReplaceAll(topics[n%len(topics)], "{subject}", subject)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
