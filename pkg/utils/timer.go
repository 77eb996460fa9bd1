package utils

import (
	"time"
)

// Phase is one timed stage of a run.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Timer records the duration of sequential phases, such as load, dearray,
// bucket and emit. It is not safe for concurrent use.
type Timer struct {
	name    string
	now     func() time.Time
	started time.Time
	current string
	since   time.Time
	phases  []Phase
}

// TimerOption configures a Timer instance.
type TimerOption func(*Timer)

// WithNow overrides the time source.
func WithNow(now func() time.Time) TimerOption {
	return func(t *Timer) {
		t.now = now
	}
}

// NewTimer creates a new Timer with the given name and options.
func NewTimer(name string, opts ...TimerOption) *Timer {
	t := &Timer{
		name:   name,
		now:    time.Now,
		phases: make([]Phase, 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.started = t.now()
	return t
}

// Start ends the running phase, if any, and begins a new one.
func (t *Timer) Start(phase string) {
	t.Stop()
	t.current = phase
	t.since = t.now()
}

// Stop ends the running phase. Calling Stop with no running phase is a no-op.
func (t *Timer) Stop() {
	if t.current == "" {
		return
	}
	t.phases = append(t.phases, Phase{Name: t.current, Duration: t.now().Sub(t.since)})
	t.current = ""
}

// Phases returns the completed phases in the order they ran.
func (t *Timer) Phases() []Phase {
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Total returns the time elapsed since the timer was created.
func (t *Timer) Total() time.Duration {
	return t.now().Sub(t.started)
}

// Report stops the running phase and logs every phase at debug level.
func (t *Timer) Report(logger Logger) {
	t.Stop()
	logger = OrNull(logger)
	for _, p := range t.phases {
		logger.Debug("%s: %-10s %v", t.name, p.Name, p.Duration)
	}
	logger.Debug("%s: %-10s %v", t.name, "total", t.Total())
}
