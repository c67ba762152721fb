// Package progress derives completion figures and study advice from a
// timetable and the set of task ids the learner has ticked off.
package progress

import (
	"math"
	"sort"

	"github.com/sadopc/studyplan/internal/planner"
)

// tasksPerDay is the pace assumed when estimating how long the remaining
// tasks will take.
const tasksPerDay = 3

// CompletedSet is the set of completed task ids. Methods that change the set
// return a new one.
type CompletedSet map[string]struct{}

func NewCompletedSet(ids ...string) CompletedSet {
	s := make(CompletedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s CompletedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s CompletedSet) Len() int { return len(s) }

// IDs returns the ids in sorted order.
func (s CompletedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s CompletedSet) With(id string) CompletedSet {
	out := s.clone()
	out[id] = struct{}{}
	return out
}

func (s CompletedSet) Without(id string) CompletedSet {
	out := s.clone()
	delete(out, id)
	return out
}

func (s CompletedSet) Toggle(id string) CompletedSet {
	if s.Has(id) {
		return s.Without(id)
	}
	return s.With(id)
}

func (s CompletedSet) clone() CompletedSet {
	out := make(CompletedSet, len(s)+1)
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Percent returns the share of timetable tasks that are completed, rounded to
// a whole percent. Ids that are not on the timetable are ignored.
func Percent(timetable planner.Timetable, done CompletedSet) int {
	if len(timetable) == 0 {
		return 0
	}
	return percentOf(countDone(timetable, done), len(timetable))
}

// DayPercent is Percent for the tasks of a single day.
func DayPercent(tasks []planner.Task, done CompletedSet) int {
	return Percent(planner.Timetable(tasks), done)
}

// Summary collects the progress figures shown next to the timetable.
type Summary struct {
	Total             int
	Completed         int
	Remaining         int
	Percent           int
	PlannedMinutes    int
	CompletedMinutes  int
	StreakDays        int
	EstimatedDaysLeft int
}

func Summarize(timetable planner.Timetable, done CompletedSet) Summary {
	s := Summary{Total: len(timetable)}
	for _, task := range timetable {
		s.PlannedMinutes += task.Duration
		if done.Has(task.ID) {
			s.Completed++
			s.CompletedMinutes += task.Duration
		}
	}
	s.Remaining = s.Total - s.Completed
	if s.Total > 0 {
		s.Percent = percentOf(s.Completed, s.Total)
	}
	s.StreakDays = s.Completed / tasksPerDay
	s.EstimatedDaysLeft = int(math.Ceil(float64(s.Remaining) / tasksPerDay))
	return s
}

func countDone(timetable planner.Timetable, done CompletedSet) int {
	n := 0
	for _, task := range timetable {
		if done.Has(task.ID) {
			n++
		}
	}
	return n
}

func percentOf(n, total int) int {
	return int(math.Floor(100*float64(n)/float64(total) + 0.5))
}
