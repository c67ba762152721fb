// Package session implements the Pomodoro work/break countdown.
//
// A Tracker is driven by exactly one clock that calls Tick once per elapsed
// second while the countdown runs. When a countdown reaches zero the tracker
// stops and reports a completion Event; moving on to a break or back to work
// is always an explicit call by the owner. A Tracker is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid pomodoro settings")

// Presets are the quick-pick work lengths in minutes.
var Presets = []int{15, 25, 45, 60}

type Phase int

const (
	Working Phase = iota
	OnBreak
)

func (p Phase) String() string {
	switch p {
	case Working:
		return "work"
	case OnBreak:
		return "break"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Settings are the countdown lengths in minutes.
type Settings struct {
	WorkMinutes             int `json:"workMinutes"`
	BreakMinutes            int `json:"breakMinutes"`
	LongBreakMinutes        int `json:"longBreakMinutes"`
	SessionsBeforeLongBreak int `json:"sessionsBeforeLongBreak"`
}

func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:             25,
		BreakMinutes:            5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.WorkMinutes <= 0:
		return fmt.Errorf("%w: work minutes must be positive, got %d", ErrInvalidSettings, s.WorkMinutes)
	case s.BreakMinutes <= 0:
		return fmt.Errorf("%w: break minutes must be positive, got %d", ErrInvalidSettings, s.BreakMinutes)
	case s.LongBreakMinutes <= 0:
		return fmt.Errorf("%w: long break minutes must be positive, got %d", ErrInvalidSettings, s.LongBreakMinutes)
	case s.SessionsBeforeLongBreak <= 0:
		return fmt.Errorf("%w: sessions before long break must be positive, got %d", ErrInvalidSettings, s.SessionsBeforeLongBreak)
	}
	return nil
}

// State is a snapshot of the countdown.
type State struct {
	Phase                    Phase
	SecondsRemaining         int
	Running                  bool
	CompletedSessionsInCycle int
}

// Event reports a countdown that reached zero. Minutes is the length of the
// completed work countdown and is 0 for breaks.
type Event struct {
	Kind    Phase
	Minutes int
}

type Tracker struct {
	settings Settings
	state    State

	// length of the armed countdown, in seconds
	armed int
}

func New(settings Settings) (*Tracker, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	t := &Tracker{settings: settings}
	t.arm(Working, settings.WorkMinutes)
	return t, nil
}

func (t *Tracker) State() State       { return t.state }
func (t *Tracker) Settings() Settings { return t.settings }
func (t *Tracker) Running() bool      { return t.state.Running }

// Start resumes the countdown. It does nothing when already running or when
// a finished countdown is waiting for the next transition.
func (t *Tracker) Start() {
	if t.state.Running || t.state.SecondsRemaining == 0 {
		return
	}
	t.state.Running = true
}

func (t *Tracker) Pause() {
	t.state.Running = false
}

// Tick advances the countdown by one second. The boolean is true when this
// tick finished the countdown.
func (t *Tracker) Tick() (Event, bool) {
	if !t.state.Running || t.state.SecondsRemaining == 0 {
		return Event{}, false
	}
	t.state.SecondsRemaining--
	if t.state.SecondsRemaining > 0 {
		return Event{}, false
	}

	t.state.Running = false
	ev := Event{Kind: t.state.Phase}
	if t.state.Phase == Working {
		t.state.CompletedSessionsInCycle++
		ev.Minutes = t.armed / 60
	}
	return ev, true
}

// ResetWork rearms a full work countdown. The cycle count is kept.
func (t *Tracker) ResetWork() {
	t.arm(Working, t.settings.WorkMinutes)
}

func (t *Tracker) StartBreak(long bool) {
	minutes := t.settings.BreakMinutes
	if long {
		minutes = t.settings.LongBreakMinutes
	}
	t.arm(OnBreak, minutes)
}

func (t *Tracker) SkipBreak() {
	t.arm(Working, t.settings.WorkMinutes)
}

// SetWorkDuration changes the work length. It takes effect immediately only
// while idle in the work phase; otherwise on the next work reset.
func (t *Tracker) SetWorkDuration(minutes int) error {
	next := t.settings
	next.WorkMinutes = minutes
	if err := next.Validate(); err != nil {
		return err
	}
	t.settings = next
	t.rearmIdleWork()
	return nil
}

// SetSettings replaces all countdown lengths. A changed work length follows
// the SetWorkDuration rule; other changes never touch the current countdown.
func (t *Tracker) SetSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	workChanged := settings.WorkMinutes != t.settings.WorkMinutes
	t.settings = settings
	if workChanged {
		t.rearmIdleWork()
	}
	return nil
}

func (t *Tracker) rearmIdleWork() {
	if !t.state.Running && t.state.Phase == Working {
		t.arm(Working, t.settings.WorkMinutes)
	}
}

// LongBreakDue reports whether the next break should be the long one.
func (t *Tracker) LongBreakDue() bool {
	n := t.state.CompletedSessionsInCycle
	return n > 0 && n%t.settings.SessionsBeforeLongBreak == 0
}

// Fraction is the elapsed share of the armed countdown, from 0 to 1.
func (t *Tracker) Fraction() float64 {
	if t.armed == 0 {
		return 0
	}
	return float64(t.armed-t.state.SecondsRemaining) / float64(t.armed)
}

func (t *Tracker) arm(phase Phase, minutes int) {
	t.armed = minutes * 60
	t.state.Phase = phase
	t.state.SecondsRemaining = t.armed
	t.state.Running = false
}
