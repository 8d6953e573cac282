// Package session holds transient per-session form state.
package session

import "time"

// TimerPhase identifies the timer state.
type TimerPhase int

// Timer phases. A timer is Idle until started, Running until stopped,
// and Stopped once a duration has been measured.
const (
	TimerIdle TimerPhase = iota
	TimerRunning
	TimerStopped
)

// Timer measures how long a participant spends on a selected task.
// It is a value object: transitions return a new Timer, instants are
// passed in explicitly, and nothing is persisted. Changing the
// selected task discards any pending measurement.
type Timer struct {
	TaskName  string
	phase     TimerPhase
	startedAt time.Time
	duration  time.Duration
}

// Phase returns the current timer phase.
func (t Timer) Phase() TimerPhase {
	return t.phase
}

// SelectTask switches the timer to the given task, resetting all
// timing state when the task actually changes.
func (t Timer) SelectTask(name string) Timer {
	if name == t.TaskName {
		return t
	}
	return Timer{TaskName: name}
}

// Start begins a measurement at the given instant. Starting a running
// timer restarts it; starting after a stop discards the old duration.
func (t Timer) Start(at time.Time) Timer {
	t.phase = TimerRunning
	t.startedAt = at
	t.duration = 0
	return t
}

// Stop ends a running measurement at the given instant. Stopping a
// timer that is not running is a no-op.
func (t Timer) Stop(at time.Time) Timer {
	if t.phase != TimerRunning {
		return t
	}
	t.phase = TimerStopped
	t.duration = at.Sub(t.startedAt)
	t.startedAt = time.Time{}
	return t
}

// DurationSeconds returns the measured duration in seconds, or nil if
// no measurement has completed for the current task.
func (t Timer) DurationSeconds() *float64 {
	if t.phase != TimerStopped {
		return nil
	}
	secs := t.duration.Seconds()
	return &secs
}
