package timex

import "time"

// Clock supplies the firmware's millisecond timebase. The counter is
// monotonically non-decreasing and wraps modulo 2^32 (~49.7 days).
type Clock interface {
	NowMs() uint32
}

// SysClock is the production clock backed by the wall clock.
type SysClock struct{}

func (SysClock) NowMs() uint32 { return uint32(time.Now().UnixMilli()) }

// SinceMs returns now-then as unsigned wraparound subtraction. The result
// is correct as long as the real interval is below the wrap period.
func SinceMs(now, then uint32) uint32 { return now - then }

// Manual is a hand-advanced clock for tests and simulation.
type Manual struct {
	ms uint32
}

func NewManual(startMs uint32) *Manual { return &Manual{ms: startMs} }

func (c *Manual) NowMs() uint32 { return c.ms }

// Advance moves the clock forward by d milliseconds (wrapping).
func (c *Manual) Advance(d uint32) { c.ms += d }

// Set jumps the clock to an absolute millisecond count.
func (c *Manual) Set(ms uint32) { c.ms = ms }
