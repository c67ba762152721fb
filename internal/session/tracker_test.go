package session

import (
	"errors"
	"testing"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := New(DefaultSettings())
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tr
}

// runToEnd ticks until the countdown fires and returns the events seen.
func runToEnd(tr *Tracker, maxTicks int) []Event {
	var events []Event
	for i := 0; i < maxTicks; i++ {
		if ev, done := tr.Tick(); done {
			events = append(events, ev)
		}
	}
	return events
}

// ============================================================
// Construction
// ============================================================

func TestNewInitialState(t *testing.T) {
	tr := newTestTracker(t)
	st := tr.State()
	if st.Phase != Working || st.SecondsRemaining != 1500 || st.Running || st.CompletedSessionsInCycle != 0 {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if tr.Fraction() != 0 {
		t.Fatalf("fresh tracker fraction = %v", tr.Fraction())
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	bad := []Settings{
		{WorkMinutes: 0, BreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4},
		{WorkMinutes: 25, BreakMinutes: -1, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4},
		{WorkMinutes: 25, BreakMinutes: 5, LongBreakMinutes: 0, SessionsBeforeLongBreak: 4},
		{WorkMinutes: 25, BreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 0},
	}
	for _, s := range bad {
		_, err := New(s)
		if !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("New(%+v) error = %v, want ErrInvalidSettings", s, err)
		}
	}
}

// ============================================================
// Countdown
// ============================================================

func TestWorkCountdownFiresOnce(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()

	events := runToEnd(tr, 1500)
	if len(events) != 1 {
		t.Fatalf("expected 1 completion event, got %d", len(events))
	}
	if events[0].Kind != Working || events[0].Minutes != 25 {
		t.Fatalf("unexpected event %+v", events[0])
	}

	st := tr.State()
	if st.SecondsRemaining != 0 || st.Running || st.Phase != Working {
		t.Fatalf("unexpected state after completion %+v", st)
	}
	if st.CompletedSessionsInCycle != 1 {
		t.Fatalf("cycle count = %d, want 1", st.CompletedSessionsInCycle)
	}
	if tr.Fraction() != 1 {
		t.Fatalf("fraction after completion = %v", tr.Fraction())
	}
}

func TestTickAfterCompletionIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	runToEnd(tr, 1500)

	if _, done := tr.Tick(); done {
		t.Fatal("tick after completion should not fire again")
	}
	tr.Start()
	if tr.Running() {
		t.Fatal("start should be a no-op while completion is pending")
	}
}

func TestPauseStopsTicks(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	runToEnd(tr, 10)
	tr.Pause()

	before := tr.State().SecondsRemaining
	for i := 0; i < 100; i++ {
		tr.Tick()
	}
	if got := tr.State().SecondsRemaining; got != before {
		t.Fatalf("paused tracker moved from %d to %d", before, got)
	}

	tr.Start()
	tr.Tick()
	if got := tr.State().SecondsRemaining; got != before-1 {
		t.Fatalf("resumed tracker = %d, want %d", got, before-1)
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	tr.Tick()
	tr.Start()
	if tr.State().SecondsRemaining != 1499 || !tr.Running() {
		t.Fatalf("unexpected state %+v", tr.State())
	}
}

// ============================================================
// Transitions
// ============================================================

func TestBreakCycle(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	runToEnd(tr, 1500)

	tr.StartBreak(false)
	st := tr.State()
	if st.Phase != OnBreak || st.SecondsRemaining != 300 || st.Running {
		t.Fatalf("short break state %+v", st)
	}

	tr.Start()
	events := runToEnd(tr, 300)
	if len(events) != 1 || events[0].Kind != OnBreak || events[0].Minutes != 0 {
		t.Fatalf("break events = %+v", events)
	}
	if tr.State().Phase != OnBreak {
		t.Fatal("phase should not auto-advance after a break")
	}
	if tr.State().CompletedSessionsInCycle != 1 {
		t.Fatal("break completion should not count as a session")
	}

	tr.StartBreak(true)
	if tr.State().SecondsRemaining != 900 {
		t.Fatalf("long break = %d seconds", tr.State().SecondsRemaining)
	}

	tr.SkipBreak()
	st = tr.State()
	if st.Phase != Working || st.SecondsRemaining != 1500 || st.Running {
		t.Fatalf("after skip %+v", st)
	}
}

func TestResetWorkKeepsCycleCount(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	runToEnd(tr, 1500)
	tr.StartBreak(false)
	tr.Start()
	tr.Tick()

	tr.ResetWork()
	st := tr.State()
	if st.Phase != Working || st.SecondsRemaining != 1500 || st.Running {
		t.Fatalf("after reset %+v", st)
	}
	if st.CompletedSessionsInCycle != 1 {
		t.Fatalf("reset should keep cycle count, got %d", st.CompletedSessionsInCycle)
	}
}

func TestLongBreakDue(t *testing.T) {
	s := DefaultSettings()
	s.WorkMinutes = 1
	s.SessionsBeforeLongBreak = 2
	tr, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	if tr.LongBreakDue() {
		t.Fatal("no long break before any session")
	}

	tr.Start()
	runToEnd(tr, 60)
	if tr.LongBreakDue() {
		t.Fatal("one session should give a short break")
	}

	tr.StartBreak(false)
	tr.SkipBreak()
	tr.Start()
	runToEnd(tr, 60)
	if !tr.LongBreakDue() {
		t.Fatal("second session should give a long break")
	}
}

// ============================================================
// Duration changes
// ============================================================

func TestSetWorkDurationWhileIdle(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.SetWorkDuration(45); err != nil {
		t.Fatal(err)
	}
	if tr.State().SecondsRemaining != 2700 {
		t.Fatalf("idle change should apply now, got %d", tr.State().SecondsRemaining)
	}
}

func TestSetWorkDurationWhileRunning(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	tr.Tick()
	if err := tr.SetWorkDuration(15); err != nil {
		t.Fatal(err)
	}
	if tr.State().SecondsRemaining != 1499 {
		t.Fatalf("running countdown should be untouched, got %d", tr.State().SecondsRemaining)
	}

	// The running countdown still reports its own length.
	events := runToEnd(tr, 1499)
	if len(events) != 1 || events[0].Minutes != 25 {
		t.Fatalf("events = %+v", events)
	}

	tr.ResetWork()
	if tr.State().SecondsRemaining != 900 {
		t.Fatalf("new duration should apply on reset, got %d", tr.State().SecondsRemaining)
	}
}

func TestSetWorkDurationOnBreak(t *testing.T) {
	tr := newTestTracker(t)
	tr.StartBreak(false)
	if err := tr.SetWorkDuration(60); err != nil {
		t.Fatal(err)
	}
	if tr.State().SecondsRemaining != 300 {
		t.Fatal("break countdown should be untouched")
	}
	tr.SkipBreak()
	if tr.State().SecondsRemaining != 3600 {
		t.Fatalf("skip should use new work length, got %d", tr.State().SecondsRemaining)
	}
}

func TestSetWorkDurationRejectsNonPositive(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.SetWorkDuration(0); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if tr.Settings().WorkMinutes != 25 {
		t.Fatal("rejected change should keep old settings")
	}
}

func TestPausedCountdownSurvivesBreakOnlySettingsChange(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	for i := 0; i < 600; i++ {
		tr.Tick()
	}
	tr.Pause()

	next := tr.Settings()
	next.BreakMinutes = 10
	if err := tr.SetSettings(next); err != nil {
		t.Fatal(err)
	}
	if tr.State().SecondsRemaining != 900 {
		t.Fatalf("paused countdown reset to %d, want 900", tr.State().SecondsRemaining)
	}
	if err := tr.SetSettings(next); err != nil {
		t.Fatal(err)
	}
	if tr.State().SecondsRemaining != 900 {
		t.Fatalf("unchanged settings reset countdown to %d", tr.State().SecondsRemaining)
	}

	tr.StartBreak(false)
	if tr.State().SecondsRemaining != 600 {
		t.Fatalf("break should use new length, got %d", tr.State().SecondsRemaining)
	}
}

func TestSetSettingsNewWorkLengthWhileIdle(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	tr.Tick()
	tr.Pause()

	next := tr.Settings()
	next.WorkMinutes = 45
	if err := tr.SetSettings(next); err != nil {
		t.Fatal(err)
	}
	if tr.State().SecondsRemaining != 2700 {
		t.Fatalf("idle work change should apply now, got %d", tr.State().SecondsRemaining)
	}
}

func TestPresets(t *testing.T) {
	want := []int{15, 25, 45, 60}
	if len(Presets) != len(want) {
		t.Fatalf("Presets = %v", Presets)
	}
	for i := range want {
		if Presets[i] != want[i] {
			t.Fatalf("Presets = %v, want %v", Presets, want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if Working.String() != "work" || OnBreak.String() != "break" {
		t.Fatal("unexpected phase names")
	}
	if Phase(7).String() != "phase(7)" {
		t.Fatalf("unknown phase = %q", Phase(7).String())
	}
}
