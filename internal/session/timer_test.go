package session

import (
	"math"
	"testing"
	"time"
)

func TestTimerStartStopDuration(t *testing.T) {
	start := time.Unix(100, 0)
	timer := Timer{}.SelectTask("Task 1: Wait for User Input")
	timer = timer.Start(start)
	if timer.Phase() != TimerRunning {
		t.Fatalf("expected running phase after start")
	}
	if timer.DurationSeconds() != nil {
		t.Fatalf("expected no duration while running")
	}

	timer = timer.Stop(start.Add(2500 * time.Millisecond))
	if timer.Phase() != TimerStopped {
		t.Fatalf("expected stopped phase after stop")
	}
	secs := timer.DurationSeconds()
	if secs == nil {
		t.Fatalf("expected a measured duration")
	}
	if math.Abs(*secs-2.5) > 1e-9 {
		t.Fatalf("expected 2.50 seconds, got %v", *secs)
	}
}

func TestTimerSelectTaskResetsPendingState(t *testing.T) {
	start := time.Unix(100, 0)
	timer := Timer{}.SelectTask("Task 2: Process Data").Start(start)

	timer = timer.SelectTask("Task 3: Save to Database")
	if timer.Phase() != TimerIdle {
		t.Fatalf("expected idle phase after task change, got %v", timer.Phase())
	}
	if timer.DurationSeconds() != nil {
		t.Fatalf("expected pending measurement to be discarded")
	}

	// Stop after the reset must stay a no-op.
	timer = timer.Stop(start.Add(5 * time.Second))
	if timer.DurationSeconds() != nil {
		t.Fatalf("expected no duration after discarded start")
	}
}

func TestTimerSelectSameTaskKeepsState(t *testing.T) {
	start := time.Unix(100, 0)
	timer := Timer{}.SelectTask("Task 9: Cache Expiry").Start(start).Stop(start.Add(time.Second))
	timer = timer.SelectTask("Task 9: Cache Expiry")
	if timer.DurationSeconds() == nil {
		t.Fatalf("expected duration to survive reselecting the same task")
	}
}

func TestTimerStopWithoutStart(t *testing.T) {
	timer := Timer{}.Stop(time.Unix(100, 0))
	if timer.Phase() != TimerIdle {
		t.Fatalf("expected idle phase, got %v", timer.Phase())
	}
	if timer.DurationSeconds() != nil {
		t.Fatalf("expected nil duration without a start")
	}
}

func TestTimerRestartDiscardsOldDuration(t *testing.T) {
	start := time.Unix(100, 0)
	timer := Timer{}.SelectTask("Task 5: Execute a Scheduled Task")
	timer = timer.Start(start).Stop(start.Add(time.Second))
	timer = timer.Start(start.Add(10 * time.Second))
	if timer.Phase() != TimerRunning {
		t.Fatalf("expected running phase after restart")
	}
	if timer.DurationSeconds() != nil {
		t.Fatalf("expected old duration to be discarded on restart")
	}
}
