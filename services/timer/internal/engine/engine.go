// services/timer/internal/engine/engine.go
//
// The timer engine: a fixed pool of countdown/count-up timers driven by
// edge triggers on channel values, each publishing three derived channels
// back onto the channel registry. The engine holds no locks; the owning
// service serialises every entry point (see services/timer).
package engine

import (
	"pmufw-go/channel"
	"pmufw-go/errcode"
	"pmufw-go/types"
	"pmufw-go/x/mathx"
	"pmufw-go/x/timex"
)

const (
	// MaxTimers is the slot pool capacity.
	MaxTimers = 16

	// Derived channels are keyed by slot index: base+0 value (seconds),
	// base+1 running flag, base+2 elapsed (raw ms).
	derivedChannelBase = 400

	// Display bound of the value channel: 99h59m59s in seconds.
	valueMaxSeconds = 359999
)

// ChannelBus is the slice of the channel registry the engine consumes.
type ChannelBus interface {
	Register(channel.Desc) error
	Unregister(id uint16)
	Get(id uint16) int32
	Set(id uint16, v int32)
}

// State is the observable state of one occupied slot.
type State struct {
	Spec        types.TimerSpec
	Running     bool
	Expired     bool
	ElapsedMs   uint32
	StartTimeMs uint32
	LimitMs     uint32

	// Derived channel ids; 0 means registration failed and that output
	// is never published.
	ValueChannel   uint16
	RunningChannel uint16
	ElapsedChannel uint16
}

// slot is one pool record. A slot is either free (zeroed, active=false)
// or bound to exactly one timer id.
type slot struct {
	spec    types.TimerSpec
	active  bool
	running bool
	expired bool

	elapsedMs   uint32
	startTimeMs uint32
	limitMs     uint32

	// Edge detector memory, refreshed on every Update.
	prevStart int32
	prevStop  int32

	valueCh   uint16
	runningCh uint16
	elapsedCh uint16
}

// Engine owns the slot pool. A single instance per running system is the
// expected deployment; ownership is explicit rather than a package-level
// singleton.
type Engine struct {
	bus   ChannelBus
	clock timex.Clock
	slots [MaxTimers]slot
	stats types.TimerStats
	ready bool
}

// New initialises an engine against a channel registry and clock.
func New(bus ChannelBus, clock timex.Clock) *Engine {
	return &Engine{bus: bus, clock: clock, ready: true}
}

func (e *Engine) find(id string) int {
	for i := range e.slots {
		if e.slots[i].active && e.slots[i].spec.ID == id {
			return i
		}
	}
	return -1
}

// AddTimer creates a timer, or reconfigures an existing id in place.
// Reconfiguring reuses the slot and its derived channel ids but always
// stops the timer and resets its runtime state.
func (e *Engine) AddTimer(spec types.TimerSpec) error {
	if spec.ID == "" {
		return errcode.InvalidArgument
	}
	idx := e.find(spec.ID)
	fresh := idx < 0
	if fresh {
		for i := range e.slots {
			if !e.slots[i].active {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errcode.CapacityExceeded
		}
	}

	t := &e.slots[idx]
	if fresh {
		t.active = true
		t.valueCh, t.runningCh, t.elapsedCh = e.registerOutputs(idx, spec.ID)
		e.stats.TotalTimers++
	} else if t.running {
		e.stats.ActiveTimers--
	}

	t.spec = spec
	t.limitMs = spec.LimitMs()
	t.running = false
	t.expired = false
	t.startTimeMs = 0
	if spec.Mode == types.CountDown {
		t.elapsedMs = t.limitMs
	} else {
		t.elapsedMs = 0
	}

	// Snapshot the trigger inputs so the next Update sees no spurious edge.
	t.prevStart, t.prevStop = 0, 0
	if spec.StartChannel != 0 {
		t.prevStart = e.bus.Get(spec.StartChannel)
	}
	if spec.StopChannel != 0 {
		t.prevStop = e.bus.Get(spec.StopChannel)
	}
	return nil
}

// registerOutputs claims the three derived channels for a slot. A rejected
// registration (id collision) is not fatal: the id stays 0 and that output
// is simply never published.
func (e *Engine) registerOutputs(idx int, id string) (valueCh, runningCh, elapsedCh uint16) {
	base := uint16(derivedChannelBase + 3*idx)

	valueCh = base
	if err := e.bus.Register(channel.Desc{
		ID: base, Name: "r_" + id + ".value",
		Dir: channel.DirOutput, Format: channel.FormatSigned,
		Min: 0, Max: valueMaxSeconds, Unit: "s", Enabled: true,
	}); err != nil {
		println("[timer] value channel rejected for", id)
		valueCh = 0
	}

	runningCh = base + 1
	if err := e.bus.Register(channel.Desc{
		ID: base + 1, Name: "r_" + id + ".running",
		Dir: channel.DirOutput, Format: channel.FormatBoolean,
		Min: 0, Max: 1, Enabled: true,
	}); err != nil {
		println("[timer] running channel rejected for", id)
		runningCh = 0
	}

	elapsedCh = base + 2
	if err := e.bus.Register(channel.Desc{
		ID: base + 2, Name: "r_" + id + ".elapsed",
		Dir: channel.DirOutput, Format: channel.FormatSigned,
		Min: 0, Max: valueMaxSeconds, Enabled: true,
	}); err != nil {
		println("[timer] elapsed channel rejected for", id)
		elapsedCh = 0
	}
	return valueCh, runningCh, elapsedCh
}

// RemoveTimer frees a slot and releases its derived channels.
func (e *Engine) RemoveTimer(id string) error {
	idx := e.find(id)
	if idx < 0 {
		return errcode.NotFound
	}
	t := &e.slots[idx]
	e.bus.Unregister(t.valueCh)
	e.bus.Unregister(t.runningCh)
	e.bus.Unregister(t.elapsedCh)
	if t.running {
		e.stats.ActiveTimers--
	}
	*t = slot{}
	e.stats.TotalTimers--
	return nil
}

// ClearAll removes every timer and zeroes the statistics.
func (e *Engine) ClearAll() error {
	for i := range e.slots {
		t := &e.slots[i]
		if !t.active {
			continue
		}
		e.bus.Unregister(t.valueCh)
		e.bus.Unregister(t.runningCh)
		e.bus.Unregister(t.elapsedCh)
		*t = slot{}
	}
	e.stats = types.TimerStats{}
	return nil
}

// Start arms a timer manually. Fails on a timer that is already running.
func (e *Engine) Start(id string) error {
	idx := e.find(id)
	if idx < 0 {
		return errcode.NotFound
	}
	t := &e.slots[idx]
	if t.running {
		return errcode.InvalidState
	}
	e.startSlot(t, e.clock.NowMs())
	return nil
}

func (e *Engine) startSlot(t *slot, now uint32) {
	t.running = true
	t.expired = false
	t.startTimeMs = now
	if t.spec.Mode == types.CountDown {
		t.elapsedMs = t.limitMs
	} else {
		t.elapsedMs = 0
	}
	e.stats.ActiveTimers++
}

// Stop halts a running timer, leaving elapsed at its last computed value.
func (e *Engine) Stop(id string) error {
	idx := e.find(id)
	if idx < 0 {
		return errcode.NotFound
	}
	t := &e.slots[idx]
	if !t.running {
		return errcode.InvalidState
	}
	t.running = false
	e.stats.ActiveTimers--
	return nil
}

// Reset returns a timer to a fresh idle state from any state.
func (e *Engine) Reset(id string) error {
	idx := e.find(id)
	if idx < 0 {
		return errcode.NotFound
	}
	t := &e.slots[idx]
	if t.running {
		e.stats.ActiveTimers--
	}
	t.running = false
	t.expired = false
	t.elapsedMs = 0
	t.startTimeMs = 0
	return nil
}

// Value returns the timer value in seconds. For CountDown this is the time
// remaining; for CountUp the time elapsed.
func (e *Engine) Value(id string) (float64, error) {
	idx := e.find(id)
	if idx < 0 {
		return 0, errcode.NotFound
	}
	return float64(e.slots[idx].elapsedMs) / 1000.0, nil
}

// IsRunning reports whether the timer exists and is running.
func (e *Engine) IsRunning(id string) bool {
	idx := e.find(id)
	return idx >= 0 && e.slots[idx].running
}

// IsExpired reports whether the timer exists and has expired.
func (e *Engine) IsExpired(id string) bool {
	idx := e.find(id)
	return idx >= 0 && e.slots[idx].expired
}

// Stats returns the aggregate counters.
func (e *Engine) Stats() types.TimerStats { return e.stats }

// State returns a snapshot of one timer.
func (e *Engine) State(id string) (State, error) {
	idx := e.find(id)
	if idx < 0 {
		return State{}, errcode.NotFound
	}
	t := &e.slots[idx]
	return State{
		Spec:           t.spec,
		Running:        t.running,
		Expired:        t.expired,
		ElapsedMs:      t.elapsedMs,
		StartTimeMs:    t.startTimeMs,
		LimitMs:        t.limitMs,
		ValueChannel:   t.valueCh,
		RunningChannel: t.runningCh,
		ElapsedChannel: t.elapsedCh,
	}, nil
}

// List returns up to max timer specs in slot-index order.
func (e *Engine) List(max int) []types.TimerSpec {
	if max <= 0 {
		return nil
	}
	var out []types.TimerSpec
	for i := range e.slots {
		if len(out) == max {
			break
		}
		if e.slots[i].active {
			out = append(out, e.slots[i].spec)
		}
	}
	return out
}

// Update advances every occupied slot by one control cycle: edge detection,
// state machine, derived channel publication. It samples the clock once and
// runs to completion; cost is O(MaxTimers). A nil or uninitialised engine
// is a no-op.
func (e *Engine) Update() {
	if e == nil || !e.ready {
		return
	}
	now := e.clock.NowMs()
	for i := range e.slots {
		t := &e.slots[i]
		if !t.active {
			continue
		}
		e.updateSlot(t, now)
		e.publish(t)
	}
}

func (e *Engine) updateSlot(t *slot, now uint32) {
	startCh, stopCh := t.spec.StartChannel, t.spec.StopChannel
	var startCurr, stopCurr int32
	if startCh != 0 {
		startCurr = e.bus.Get(startCh)
	}
	if stopCh != 0 {
		stopCurr = e.bus.Get(stopCh)
	}

	wasRunning := t.running

	// Start trigger: consulted only while the timer is not running.
	if startCh != 0 && !t.running && edgeFires(t.prevStart, startCurr, t.spec.StartEdge) {
		e.startSlot(t, now)
	}

	// Advance a timer that was already running when this tick began; one
	// started just above is first advanced on the next tick.
	if wasRunning && t.running {
		wall := timex.SinceMs(now, t.startTimeMs)
		if wall >= t.limitMs {
			t.running = false
			t.expired = true
			if t.spec.Mode == types.CountDown {
				t.elapsedMs = 0
			} else {
				// CountUp freezes at the limit, it does not keep
				// accumulating.
				t.elapsedMs = t.limitMs
			}
			e.stats.ActiveTimers--
		} else if t.spec.Mode == types.CountDown {
			t.elapsedMs = t.limitMs - wall
		} else {
			t.elapsedMs = wall
		}

		// Stop trigger: expiry above wins over a simultaneous stop edge.
		if t.running && stopCh != 0 && edgeFires(t.prevStop, stopCurr, t.spec.StopEdge) {
			t.running = false
			e.stats.ActiveTimers--
		}
	}

	// Detector memory is refreshed every tick for every configured trigger,
	// whether or not the trigger was eligible to act this tick.
	if startCh != 0 {
		t.prevStart = startCurr
	}
	if stopCh != 0 {
		t.prevStop = stopCurr
	}
}

// publish pushes the post-transition state onto the derived channels.
// Channels whose registration was rejected (id 0) are skipped.
func (e *Engine) publish(t *slot) {
	if t.valueCh != 0 {
		e.bus.Set(t.valueCh, mathx.Clamp(int32(t.elapsedMs/1000), 0, valueMaxSeconds))
	}
	if t.runningCh != 0 {
		v := int32(0)
		if t.running {
			v = 1
		}
		e.bus.Set(t.runningCh, v)
	}
	if t.elapsedCh != 0 {
		e.bus.Set(t.elapsedCh, int32(t.elapsedMs))
	}
}
