// Package clock computes search time budgets and tracks a cooperative stop
// signal, generalizing the teacher's getTimeLeftInGame/time-management
// arithmetic (algerbrex/Blunder interface/uci.go) into a small reusable
// type the search package polls.
package clock

import (
	"sync/atomic"
	"time"
)

// Limits describes one "go" command's time control, in the units UCI sends
// them (milliseconds), zero meaning "not specified".
type Limits struct {
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MovesToGo      int
	MoveTime       int // exact per-move time, overrides the budget formula
	Depth          int // fixed search depth, 0 means unset
	Infinite       bool
}

// Clock tracks a wall-clock deadline and a cooperative stop flag that the
// search polls every 256 nodes (SPEC_FULL.md §4.I Termination).
type Clock struct {
	start        time.Time
	deadline     time.Time
	hasDeadline  bool
	stop         int32
	moveOverhead int
}

// New starts a clock for the side to move, given the "go" limits and the
// MoveOverhead option (ms subtracted from the computed budget for I/O
// latency).
func New(white bool, lim Limits, moveOverheadMS int) *Clock {
	c := &Clock{start: time.Now(), moveOverhead: moveOverheadMS}

	switch {
	case lim.Infinite:
		// No deadline; only an explicit stop ends the search.
	case lim.MoveTime > 0:
		// movetime is an exact, caller-specified deadline: the original
		// engine hands it straight to Think() with no MoveOverhead
		// subtraction (only wtime/btime/winc/binc get that treatment).
		c.setDeadline(lim.MoveTime)
	case lim.WhiteTime > 0 || lim.BlackTime > 0:
		timeLeft, inc := lim.WhiteTime, lim.WhiteIncrement
		if !white {
			timeLeft, inc = lim.BlackTime, lim.BlackIncrement
		}
		movesToGo := lim.MovesToGo
		if movesToGo <= 0 {
			movesToGo = 30
		}
		budget := timeLeft/movesToGo + inc
		if budget < 0 {
			budget = 0
		}
		c.setBudget(budget)
	}
	return c
}

// setBudget applies the MoveOverhead subtraction to a computed wtime/btime
// budget before arming the deadline.
func (c *Clock) setBudget(ms int) {
	budget := ms - c.moveOverhead
	if budget < 0 {
		budget = 0
	}
	c.setDeadline(budget)
}

// setDeadline arms the deadline at exactly ms from the clock's start, with
// no MoveOverhead adjustment.
func (c *Clock) setDeadline(ms int) {
	if ms < 0 {
		ms = 0
	}
	c.deadline = c.start.Add(time.Duration(ms) * time.Millisecond)
	c.hasDeadline = true
}

// Expired reports whether the wall-clock deadline has passed. Always false
// for an infinite/depth-only search (only Stop ends those).
func (c *Clock) Expired() bool {
	if atomic.LoadInt32(&c.stop) != 0 {
		return true
	}
	if !c.hasDeadline {
		return false
	}
	return time.Now().After(c.deadline)
}

// Stop raises the sticky stop flag; safe to call from another goroutine
// (the UCI reader calling it while the search goroutine polls it).
func (c *Clock) Stop() { atomic.StoreInt32(&c.stop, 1) }

// Stopped reports whether Stop has been called.
func (c *Clock) Stopped() bool { return atomic.LoadInt32(&c.stop) != 0 }

// Elapsed returns the time since the clock started, for `info ... time`.
func (c *Clock) Elapsed() time.Duration { return time.Since(c.start) }
