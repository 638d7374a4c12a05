package clock

import (
	"testing"
	"time"
)

func TestInfiniteNeverExpiresUntilStopped(t *testing.T) {
	c := New(true, Limits{Infinite: true}, 0)
	if c.Expired() {
		t.Fatal("infinite clock should not be expired immediately")
	}
	c.Stop()
	if !c.Expired() {
		t.Fatal("infinite clock should expire immediately after Stop")
	}
}

func TestMoveTimeExpiresAfterBudget(t *testing.T) {
	c := New(true, Limits{MoveTime: 20}, 0)
	if c.Expired() {
		t.Fatal("should not be expired immediately")
	}
	time.Sleep(40 * time.Millisecond)
	if !c.Expired() {
		t.Fatal("should be expired after the move time budget elapses")
	}
}

func TestMoveTimeIgnoresMoveOverhead(t *testing.T) {
	// movetime is an exact, caller-specified deadline: the original engine
	// hands it straight to Think() with no MoveOverhead subtraction.
	c := New(true, Limits{MoveTime: 30}, 50)
	if c.Expired() {
		t.Fatal("movetime budget should not be consumed by MoveOverhead")
	}
	time.Sleep(50 * time.Millisecond)
	if !c.Expired() {
		t.Fatal("should be expired after the movetime budget elapses")
	}
}

func TestMoveOverheadSubtractedFromTimeBudget(t *testing.T) {
	// A wtime/btime-derived budget entirely consumed by move overhead
	// should expire immediately; movetime is unaffected (see
	// TestMoveTimeIgnoresMoveOverhead).
	c := New(true, Limits{WhiteTime: 10, MovesToGo: 1}, 50)
	if !c.Expired() {
		t.Fatal("budget fully consumed by MoveOverhead should expire immediately")
	}
}

func TestWhiteBlackTimeSelection(t *testing.T) {
	lim := Limits{WhiteTime: 100000, BlackTime: 5, MovesToGo: 1}
	black := New(false, lim, 0)
	if black.Expired() {
		// Black's budget is BlackTime/movesToGo = 5ms; sleep past it.
	}
	time.Sleep(10 * time.Millisecond)
	if !black.Expired() {
		t.Fatal("black's tiny time budget should have expired")
	}

	white := New(true, lim, 0)
	if white.Expired() {
		t.Fatal("white's large time budget should not have expired yet")
	}
}

func TestStoppedReflectsStopCall(t *testing.T) {
	c := New(true, Limits{Infinite: true}, 0)
	if c.Stopped() {
		t.Fatal("should not be stopped before Stop is called")
	}
	c.Stop()
	if !c.Stopped() {
		t.Fatal("should be stopped after Stop is called")
	}
}
