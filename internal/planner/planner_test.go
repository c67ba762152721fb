package planner

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func daysFromNow(n int) *time.Time {
	t := time.Date(2026, 10, 19+n, 0, 0, 0, 0, time.UTC)
	return &t
}

// ============================================================
// Empty input
// ============================================================

func TestGenerateEmptySubjects(t *testing.T) {
	tt := Generate(testNow, nil, daysFromNow(3), DefaultSettings())
	if tt == nil || len(tt) != 0 {
		t.Fatalf("expected empty non-nil timetable, got %v", tt)
	}
}

func TestGenerateNoExamDate(t *testing.T) {
	subjects := []Subject{{ID: "s1", Name: "Math", Priority: 3, Difficulty: 3}}
	tt := Generate(testNow, subjects, nil, DefaultSettings())
	if len(tt) != 0 {
		t.Fatalf("expected empty timetable without exam date, got %d tasks", len(tt))
	}
}

// ============================================================
// Allocation
// ============================================================

func TestGenerateWorkedExample(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Physics", Priority: 5, Difficulty: 3},
		{ID: "s2", Name: "History", Priority: 1, Difficulty: 1},
	}
	tt := Generate(testNow, subjects, daysFromNow(2), Settings{DailyStudyHours: 4})

	if len(tt) != 4 {
		t.Fatalf("expected 4 tasks, got %d: %+v", len(tt), tt)
	}

	day0 := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	day1 := day0.AddDate(0, 0, 1)
	want := []struct {
		id       string
		date     time.Time
		duration int
		priority int
	}{
		{"s1-0-0", day0, 192, 5},
		{"s2-0-1", day0, 48, 1},
		{"s1-1-0", day1, 192, 5},
		{"s2-1-1", day1, 48, 1},
	}
	for i, w := range want {
		got := tt[i]
		if got.ID != w.id || !got.Date.Equal(w.date) || got.Duration != w.duration || got.Priority != w.priority {
			t.Errorf("task %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestGenerateTopicsRotate(t *testing.T) {
	subjects := []Subject{
		{ID: "a", Name: "Chemistry", Priority: 3, Difficulty: 3},
		{ID: "b", Name: "Biology", Priority: 3, Difficulty: 3},
	}
	tt := Generate(testNow, subjects, daysFromNow(3), Settings{DailyStudyHours: 2})

	byID := make(map[string]Task)
	for _, task := range tt {
		byID[task.ID] = task
	}
	checks := map[string]string{
		"a-0-0": "Review fundamentals of Chemistry",
		"b-0-1": "Practice problems in Biology",
		"a-1-0": "Practice problems in Chemistry",
		"b-1-1": "Study advanced concepts in Biology",
		"a-2-0": "Study advanced concepts in Chemistry",
		"b-2-1": "Complete exercises on Biology",
	}
	for id, topic := range checks {
		task, ok := byID[id]
		if !ok {
			t.Fatalf("missing task %s", id)
		}
		if task.Topic != topic {
			t.Errorf("task %s topic = %q, want %q", id, task.Topic, topic)
		}
	}
}

func TestTopicsWithoutPlaceholder(t *testing.T) {
	if got := topicFor(4, "Art"); got != "Review notes and summarize key points" {
		t.Fatalf("topic 4 = %q", got)
	}
	if got := topicFor(16, "Art"); got != "Deep dive into tricky topics" {
		t.Fatalf("topic 16 = %q", got)
	}
	if got := topicFor(19, "Art"); got != "Review and revise Art material" {
		t.Fatalf("topic 19 = %q", got)
	}
	if len(topics) != 10 {
		t.Fatalf("expected 10 topic templates, got %d", len(topics))
	}
}

func TestGenerateDefaultsMissingFields(t *testing.T) {
	subjects := []Subject{
		{ID: "x", Name: "Latin"},
		{ID: "y", Name: "Greek", Priority: 5, Difficulty: 1},
	}
	tt := Generate(testNow, subjects, daysFromNow(1), Settings{DailyStudyHours: 2})
	if len(tt) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tt))
	}
	// Both subjects are 5/1 once defaults apply, so they split the day evenly.
	for _, task := range tt {
		if task.Duration != 60 {
			t.Errorf("task %s duration = %d, want 60", task.ID, task.Duration)
		}
		if task.Priority != DefaultPriority {
			t.Errorf("task %s priority = %d, want default %d", task.ID, task.Priority, DefaultPriority)
		}
	}
}

func TestGenerateZeroSumWeightsDoNotPanic(t *testing.T) {
	subjects := []Subject{
		{ID: "p", Name: "P", Priority: 2, Difficulty: 1},
		{ID: "q", Name: "Q", Priority: -2, Difficulty: -1},
	}
	tt := Generate(testNow, subjects, daysFromNow(2), DefaultSettings())
	for _, task := range tt {
		if task.Duration < MinSessionMinutes {
			t.Fatalf("task %s shorter than minimum: %d", task.ID, task.Duration)
		}
	}
}

func TestGenerateSkipsShortSessions(t *testing.T) {
	subjects := []Subject{
		{ID: "big", Name: "Big", Priority: 5, Difficulty: 5},
		{ID: "tiny", Name: "Tiny", Priority: 1, Difficulty: 1},
		{ID: "mid", Name: "Mid", Priority: 2, Difficulty: 2},
	}
	// 1h/day: big ~ 0.6*5/8+0.4*5/8 = 0.625 -> 38m, tiny 0.125 -> 8m, mid 0.25 -> 15m.
	tt := Generate(testNow, subjects, daysFromNow(1), Settings{DailyStudyHours: 1})
	for _, task := range tt {
		if task.SubjectID == "tiny" {
			t.Fatalf("tiny subject should be skipped, got %+v", task)
		}
	}
	if len(tt) != 2 {
		t.Fatalf("expected big and mid tasks, got %d", len(tt))
	}
}

func TestGeneratePastExamYieldsOneDay(t *testing.T) {
	subjects := []Subject{{ID: "s", Name: "Stats", Priority: 4, Difficulty: 2}}
	tt := Generate(testNow, subjects, daysFromNow(-5), Settings{DailyStudyHours: 3})
	if len(tt) != 1 {
		t.Fatalf("expected one task for past exam, got %d", len(tt))
	}
	if tt[0].Duration != 180 {
		t.Fatalf("single subject should fill the day, got %d", tt[0].Duration)
	}
}

func TestGenerateNonPositiveHoursUsesDefault(t *testing.T) {
	subjects := []Subject{{ID: "s", Name: "Stats", Priority: 4, Difficulty: 2}}
	tt := Generate(testNow, subjects, daysFromNow(1), Settings{})
	if len(tt) != 1 || tt[0].Duration != int(DefaultDailyStudyHours*60) {
		t.Fatalf("expected default daily budget, got %+v", tt)
	}
}

// ============================================================
// Properties
// ============================================================

func sampleSubjects() []Subject {
	return []Subject{
		{ID: "m", Name: "Maths", Priority: 2, Difficulty: 5},
		{ID: "e", Name: "English", Priority: 5, Difficulty: 1},
		{ID: "c", Name: "Chemistry", Priority: 4, Difficulty: 4},
		{ID: "g", Name: "Geography", Priority: 1, Difficulty: 2},
		{ID: "h", Name: "History", Priority: 3, Difficulty: 3},
	}
}

func TestGenerateProperties(t *testing.T) {
	for _, hours := range []float64{0.259, 0.5, 1, 1.26, 2.5, 2.51, 4, 7} {
		for _, days := range []int{1, 3, 10, 30} {
			settings := Settings{DailyStudyHours: hours}
			tt := Generate(testNow, sampleSubjects(), daysFromNow(days), settings)

			perDay := make(map[time.Time]int)
			seen := make(map[string]bool)
			for i, task := range tt {
				if task.Duration < MinSessionMinutes {
					t.Fatalf("hours=%v days=%d: task %s duration %d below minimum", hours, days, task.ID, task.Duration)
				}
				if seen[task.ID] {
					t.Fatalf("hours=%v days=%d: duplicate id %s", hours, days, task.ID)
				}
				seen[task.ID] = true
				perDay[task.Date] += task.Duration

				if i > 0 {
					prev := tt[i-1]
					if task.Date.Before(prev.Date) {
						t.Fatalf("hours=%v days=%d: dates out of order at %d", hours, days, i)
					}
					if task.Date.Equal(prev.Date) && task.Priority > prev.Priority {
						t.Fatalf("hours=%v days=%d: priority not descending at %d", hours, days, i)
					}
				}
			}
			for d, total := range perDay {
				if float64(total) > hours*60 {
					t.Fatalf("hours=%v days=%d: %v has %d minutes, budget %.2f", hours, days, d, total, hours*60)
				}
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	settings := Settings{DailyStudyHours: 3}
	a := Generate(testNow, sampleSubjects(), daysFromNow(6), settings)
	b := Generate(testNow, sampleSubjects(), daysFromNow(6), settings)

	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatal("same inputs should produce byte-identical timetables")
	}
}

func TestGenerateStableWithinPriority(t *testing.T) {
	subjects := []Subject{
		{ID: "first", Name: "First", Priority: 3, Difficulty: 2},
		{ID: "second", Name: "Second", Priority: 3, Difficulty: 2},
	}
	tt := Generate(testNow, subjects, daysFromNow(1), Settings{DailyStudyHours: 2})
	if len(tt) != 2 || tt[0].SubjectID != "first" || tt[1].SubjectID != "second" {
		t.Fatalf("equal priorities should keep emission order, got %+v", tt)
	}
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	subjects := sampleSubjects()
	before := make([]Subject, len(subjects))
	copy(before, subjects)
	Generate(testNow, subjects, daysFromNow(4), DefaultSettings())
	if !reflect.DeepEqual(before, subjects) {
		t.Fatal("Generate mutated its input")
	}
}

func TestTaskJSONFieldNames(t *testing.T) {
	tt := Generate(testNow, sampleSubjects()[:1], daysFromNow(1), DefaultSettings())
	data, err := json.Marshal(tt[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"id"`, `"date"`, `"subject"`, `"subjectId"`, `"topic"`, `"duration"`, `"priority"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON %s missing field %s", data, field)
		}
	}
}

// ============================================================
// Timetable helpers
// ============================================================

func TestTimetableHelpers(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Physics", Priority: 5, Difficulty: 3},
		{ID: "s2", Name: "History", Priority: 1, Difficulty: 1},
	}
	tt := Generate(testNow, subjects, daysFromNow(2), Settings{DailyStudyHours: 4})

	if got := tt.TotalMinutes(); got != 480 {
		t.Fatalf("TotalMinutes = %d, want 480", got)
	}
	if !tt.Contains("s2-1-1") || tt.Contains("s2-2-1") {
		t.Fatal("Contains returned wrong result")
	}
	if ids := tt.IDs(); len(ids) != 4 || ids[0] != "s1-0-0" {
		t.Fatalf("IDs = %v", ids)
	}

	days := tt.Days()
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Minutes() != 240 || len(days[1].Tasks) != 2 {
		t.Fatalf("unexpected day grouping: %+v", days)
	}
	if got := tt.ForDay(testNow.AddDate(0, 0, 1)); len(got) != 2 || got[0].ID != "s1-1-0" {
		t.Fatalf("ForDay = %+v", got)
	}
}

func TestSettingsCopyWith(t *testing.T) {
	base := DefaultSettings()
	changed := base.WithDailyStudyHours(6)
	if base.DailyStudyHours != DefaultDailyStudyHours {
		t.Fatal("WithDailyStudyHours mutated the receiver")
	}
	if changed.DailyMinutes() != 360 {
		t.Fatalf("DailyMinutes = %d, want 360", changed.DailyMinutes())
	}
}

func TestDailyMinutesRoundsDown(t *testing.T) {
	cases := map[float64]int{2.51: 150, 1.26: 75, 0.259: 15, 4: 240, 0: 240}
	for hours, want := range cases {
		if got := (Settings{DailyStudyHours: hours}).DailyMinutes(); got != want {
			t.Fatalf("hours=%v: DailyMinutes = %d, want %d", hours, got, want)
		}
	}
}

func TestGenerateFractionalMinuteBudget(t *testing.T) {
	subjects := []Subject{{ID: "a", Name: "A", Priority: 5, Difficulty: 5}}
	for _, hours := range []float64{2.51, 1.26, 0.259} {
		tt := Generate(testNow, subjects, daysFromNow(1), Settings{DailyStudyHours: hours})
		if float64(tt.TotalMinutes()) > hours*60 {
			t.Fatalf("hours=%v: planned %d minutes, budget %.2f", hours, tt.TotalMinutes(), hours*60)
		}
	}
}

func TestLabels(t *testing.T) {
	if PriorityLabel(5) != "Very High" || PriorityLabel(1) != "Very Low" {
		t.Fatal("unexpected priority labels")
	}
	if DifficultyLabel(3) != "Medium" || DifficultyLabel(5) != "Hard" {
		t.Fatal("unexpected difficulty labels")
	}
	if PriorityLabel(0) != "" || DifficultyLabel(6) != "" {
		t.Fatal("out of range labels should be empty")
	}
}
