package progress

import (
	"testing"
	"time"

	"github.com/sadopc/studyplan/internal/planner"
)

func sampleTimetable() planner.Timetable {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	return planner.Timetable{
		{ID: "a-0-0", Date: day, Duration: 60, Priority: 5},
		{ID: "b-0-1", Date: day, Duration: 30, Priority: 3},
		{ID: "a-1-0", Date: day.AddDate(0, 0, 1), Duration: 60, Priority: 5},
		{ID: "b-1-1", Date: day.AddDate(0, 0, 1), Duration: 30, Priority: 3},
		{ID: "a-2-0", Date: day.AddDate(0, 0, 2), Duration: 45, Priority: 5},
		{ID: "b-2-1", Date: day.AddDate(0, 0, 2), Duration: 15, Priority: 3},
	}
}

// ============================================================
// CompletedSet
// ============================================================

func TestCompletedSetOperations(t *testing.T) {
	s := NewCompletedSet("x", "y")
	if !s.Has("x") || s.Has("z") || s.Len() != 2 {
		t.Fatalf("unexpected set %v", s)
	}

	added := s.With("z")
	if s.Has("z") {
		t.Fatal("With mutated the receiver")
	}
	if !added.Has("z") {
		t.Fatal("With should add the id")
	}

	removed := added.Without("x")
	if removed.Has("x") || !added.Has("x") {
		t.Fatal("Without should return a copy without the id")
	}

	toggled := removed.Toggle("y").Toggle("q")
	if toggled.Has("y") || !toggled.Has("q") {
		t.Fatalf("Toggle gave %v", toggled.IDs())
	}

	ids := NewCompletedSet("c", "a", "b").IDs()
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("IDs not sorted: %v", ids)
	}
}

func TestNilCompletedSetReads(t *testing.T) {
	var s CompletedSet
	if s.Has("x") || s.Len() != 0 {
		t.Fatal("nil set should be empty")
	}
	if !s.With("x").Has("x") {
		t.Fatal("With on nil set should work")
	}
}

// ============================================================
// Percent
// ============================================================

func TestPercentEmptyTimetable(t *testing.T) {
	if got := Percent(nil, NewCompletedSet("a-0-0")); got != 0 {
		t.Fatalf("empty timetable = %d%%, want 0", got)
	}
}

func TestPercentIgnoresStaleIDs(t *testing.T) {
	tt := sampleTimetable()
	if got := Percent(tt, NewCompletedSet("old-0-0", "old-1-0")); got != 0 {
		t.Fatalf("stale ids gave %d%%", got)
	}
	if got := Percent(tt, NewCompletedSet("a-0-0", "gone-9-9")); got != 17 {
		t.Fatalf("one of six with a stale id = %d%%, want 17", got)
	}
}

func TestPercentAllAndRounding(t *testing.T) {
	tt := sampleTimetable()
	if got := Percent(tt, NewCompletedSet(tt.IDs()...)); got != 100 {
		t.Fatalf("all done = %d%%", got)
	}

	tests := []struct {
		done []string
		want int
	}{
		{nil, 0},
		{[]string{"a-0-0"}, 17},
		{[]string{"a-0-0", "b-0-1"}, 33},
		{[]string{"a-0-0", "b-0-1", "a-1-0"}, 50},
		{[]string{"a-0-0", "b-0-1", "a-1-0", "b-1-1"}, 67},
		{[]string{"a-0-0", "b-0-1", "a-1-0", "b-1-1", "a-2-0"}, 83},
	}
	for _, tt2 := range tests {
		if got := Percent(tt, NewCompletedSet(tt2.done...)); got != tt2.want {
			t.Errorf("Percent(%v) = %d, want %d", tt2.done, got, tt2.want)
		}
	}
}

func TestPercentHalfRoundsUp(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var tt planner.Timetable
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		tt = append(tt, planner.Task{ID: id, Date: day, Duration: 15})
	}
	// 1/8 = 12.5%
	if got := Percent(tt, NewCompletedSet("1")); got != 13 {
		t.Fatalf("12.5%% should round to 13, got %d", got)
	}
}

func TestDayPercent(t *testing.T) {
	tt := sampleTimetable()
	day := tt.Days()[0]
	if got := DayPercent(day.Tasks, NewCompletedSet("a-0-0")); got != 50 {
		t.Fatalf("DayPercent = %d, want 50", got)
	}
	if got := DayPercent(nil, nil); got != 0 {
		t.Fatalf("DayPercent(nil) = %d", got)
	}
}

// ============================================================
// Summary
// ============================================================

func TestSummarize(t *testing.T) {
	tt := sampleTimetable()
	s := Summarize(tt, NewCompletedSet("a-0-0", "b-0-1", "a-1-0", "stale"))

	want := Summary{
		Total:             6,
		Completed:         3,
		Remaining:         3,
		Percent:           50,
		PlannedMinutes:    240,
		CompletedMinutes:  150,
		StreakDays:        1,
		EstimatedDaysLeft: 1,
	}
	if s != want {
		t.Fatalf("Summarize = %+v, want %+v", s, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil, nil); s != (Summary{}) {
		t.Fatalf("empty summary = %+v", s)
	}
}

// ============================================================
// Tips
// ============================================================

func TestTipsTiers(t *testing.T) {
	tests := []struct {
		progress int
		first    string
		tier     Tier
	}{
		{0, "🚀 Start strong! Every minute counts", TierStarting},
		{24, "🚀 Start strong! Every minute counts", TierStarting},
		{25, "💪 Good start! Try to increase study time", TierBuilding},
		{49, "💪 Good start! Try to increase study time", TierBuilding},
		{50, "🔥 Halfway there! Maintain your pace", TierHalfway},
		{79, "🔥 Halfway there! Maintain your pace", TierHalfway},
		{80, "🎉 Great progress! Focus on revision now", TierFinishing},
		{100, "🎉 Great progress! Focus on revision now", TierFinishing},
	}
	for _, tt := range tests {
		got := Tips(tt.progress, nil)
		if got[0] != tt.first {
			t.Errorf("Tips(%d)[0] = %q, want %q", tt.progress, got[0], tt.first)
		}
		if TierFor(tt.progress) != tt.tier {
			t.Errorf("TierFor(%d) = %v, want %v", tt.progress, TierFor(tt.progress), tt.tier)
		}
	}
}

func TestTipsAlwaysThree(t *testing.T) {
	days := 3
	for p := 0; p <= 100; p++ {
		if n := len(Tips(p, &days)); n != 3 {
			t.Fatalf("Tips(%d) returned %d items", p, n)
		}
	}
}

func TestTipsIgnoreDaysUntilExam(t *testing.T) {
	one, many := 1, 90
	a := Tips(60, &one)
	b := Tips(60, &many)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tips differ by exam distance: %q vs %q", a[i], b[i])
		}
	}
}

func TestTipsReturnsCopy(t *testing.T) {
	got := Tips(10, nil)
	got[0] = "changed"
	if Tips(10, nil)[0] == "changed" {
		t.Fatal("Tips should return a fresh slice")
	}
}

func TestTierNames(t *testing.T) {
	for _, tier := range []Tier{TierStarting, TierBuilding, TierHalfway, TierFinishing} {
		if tier.String() == "" {
			t.Fatalf("tier %d has no name", tier)
		}
	}
}
