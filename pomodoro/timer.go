package pomodoro

import (
	"fmt"
	"math/rand"
)

const Iterations = 4

const (
	BreakMessage = "Time for a break! 🎉"
	WorkMessage  = "Back to work! 💪"
)

// Durations of each phase in seconds
type Durations struct {
	Work       int
	ShortBreak int
	LongBreak  int
}

// DefaultDurations is 25/5/15 minutes
var DefaultDurations = Durations{Work: 1500, ShortBreak: 300, LongBreak: 900}

func (d Durations) withDefaults() Durations {
	if d.Work <= 0 {
		d.Work = DefaultDurations.Work
	}
	if d.ShortBreak <= 0 {
		d.ShortBreak = DefaultDurations.ShortBreak
	}
	if d.LongBreak <= 0 {
		d.LongBreak = DefaultDurations.LongBreak
	}
	return d
}

// State is everything that survives a restart
type State struct {
	Running   bool   `json:"running"`
	Working   bool   `json:"working"`
	LongBreak bool   `json:"long_break"`
	Remaining int    `json:"remaining"`
	Iteration int    `json:"iteration"`
	Visible   bool   `json:"visible"`
	Palette   string `json:"palette"`
}

// Notification is raised when a phase runs out
type Notification struct {
	Message string
	Working bool // phase that starts now
}

// Picker returns an index in [0, n). Tests inject a fixed one.
type Picker func(n int) int

// Timer is the work/break countdown. It only moves when Tick is called;
// the UI drives it once per second.
type Timer struct {
	durations Durations
	pick      Picker

	state   State
	palette Palette
}

func New(d Durations, pick Picker) *Timer {
	if pick == nil {
		pick = rand.Intn
	}
	t := &Timer{durations: d.withDefaults(), pick: pick}
	t.resetState()
	return t
}

func (t *Timer) choose(set []Palette) Palette {
	i := t.pick(len(set))
	if i < 0 || i >= len(set) {
		i = 0
	}
	return set[i]
}

func (t *Timer) setPalette(p Palette) {
	t.palette = p
	t.state.Palette = p.Status
}

func (t *Timer) resetState() {
	t.state.Running = false
	t.state.Working = true
	t.state.LongBreak = false
	t.state.Remaining = t.durations.Work
	t.state.Iteration = 1
	t.setPalette(t.choose(activePalettes))
}

// State returns a copy for persistence and rendering
func (t *Timer) State() State {
	return t.state
}

func (t *Timer) Palette() Palette {
	return t.palette
}

func (t *Timer) Durations() Durations {
	return t.durations
}

func (t *Timer) Start() {
	t.state.Running = true
}

func (t *Timer) Pause() {
	t.state.Running = false
}

// Toggle starts a paused timer and pauses a running one
func (t *Timer) Toggle() {
	t.state.Running = !t.state.Running
}

// Reset returns to a stopped first work phase; visibility is kept
func (t *Timer) Reset() {
	t.resetState()
}

func (t *Timer) Show() {
	t.state.Visible = true
}

// Hide resets the timer and hides the banner
func (t *Timer) Hide() {
	t.resetState()
	t.state.Visible = false
}

// Tick advances one second. When a running phase is already at zero it
// switches phase and returns the notification to show.
func (t *Timer) Tick() (Notification, bool) {
	if !t.state.Running {
		return Notification{}, false
	}

	if t.state.Remaining > 0 {
		t.state.Remaining--
		return Notification{}, false
	}

	msg := WorkMessage
	if t.state.Working {
		msg = BreakMessage
	}
	t.SwitchPhase()

	return Notification{Message: msg, Working: t.state.Working}, true
}

// SwitchPhase moves work to break (short for iterations 1-3, long after the
// fourth, which restarts the count) or break back to a full work phase.
func (t *Timer) SwitchPhase() {
	if t.state.Working {
		t.state.Working = false
		if t.state.Iteration < Iterations {
			t.state.LongBreak = false
			t.state.Remaining = t.durations.ShortBreak
			t.state.Iteration++
		} else {
			t.state.LongBreak = true
			t.state.Remaining = t.durations.LongBreak
			t.state.Iteration = 1
		}
		t.setPalette(t.choose(passivePalettes))
		return
	}

	t.state.Working = true
	t.state.LongBreak = false
	t.state.Remaining = t.durations.Work
	t.setPalette(t.choose(activePalettes))
}

// PhaseDuration is the full length of the current phase
func (t *Timer) PhaseDuration() int {
	switch {
	case t.state.Working:
		return t.durations.Work
	case t.state.LongBreak:
		return t.durations.LongBreak
	default:
		return t.durations.ShortBreak
	}
}

// Progress is the elapsed share of the current phase, 0 to 1
func (t *Timer) Progress() float64 {
	total := t.PhaseDuration()
	if total <= 0 {
		return 0
	}
	return float64(total-t.state.Remaining) / float64(total)
}

// Restore loads a persisted state, repairing values that are out of range
// (for example after the configured durations were shortened).
func (t *Timer) Restore(s State) {
	if s.Iteration < 1 || s.Iteration > Iterations {
		s.Iteration = 1
	}
	if s.Working {
		s.LongBreak = false
	}
	t.state = s

	if limit := t.PhaseDuration(); t.state.Remaining > limit || t.state.Remaining < 0 {
		t.state.Remaining = limit
	}

	set := passivePalettes
	if s.Working {
		set = activePalettes
	}
	if p, ok := findPalette(set, s.Palette); ok {
		t.setPalette(p)
	} else {
		t.setPalette(t.choose(set))
	}
}

// Clock formats the remaining time as mm:ss
func (t *Timer) Clock() string {
	return FormatClock(t.state.Remaining)
}

func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// PhaseLabel names the current phase for the banner
func (t *Timer) PhaseLabel() string {
	switch {
	case t.state.Working:
		return fmt.Sprintf("Focus %d/%d", t.state.Iteration, Iterations)
	case t.state.LongBreak:
		return "Long break"
	default:
		return "Short break"
	}
}
