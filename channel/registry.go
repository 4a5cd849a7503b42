// channel/registry.go
package channel

import (
	"sync"

	"pmufw-go/errcode"
)

// Format describes how a channel value is interpreted on the bus.
type Format uint8

const (
	FormatSigned  Format = iota // signed value, bounds in Desc
	FormatBoolean               // 0 or 1
)

// Direction tells consumers which side of the bus owns the value.
type Direction uint8

const (
	DirInput  Direction = iota // produced by hardware front-ends
	DirOutput                  // produced by a logic/runtime module
)

// Desc describes one channel. ID 0 is reserved and means "no channel".
type Desc struct {
	ID      uint16
	Name    string
	Dir     Direction
	Format  Format
	Min     int32
	Max     int32
	Unit    string
	Enabled bool
}

type entry struct {
	desc  Desc
	value int32
}

// Registry is the shared named-value bus. Every signal the firmware moves
// around, whether sampled from hardware or derived by a runtime module,
// lives here under a stable numeric id.
type Registry struct {
	mu    sync.RWMutex
	chans map[uint16]*entry
}

func NewRegistry() *Registry {
	return &Registry{chans: make(map[uint16]*entry)}
}

// Register claims an id for a channel. It fails with ChannelInUse when the
// id is already owned, and InvalidArgument for the reserved id 0 or an
// empty name.
func (r *Registry) Register(d Desc) error {
	if d.ID == 0 || d.Name == "" {
		return errcode.InvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.chans[d.ID]; exists {
		return errcode.ChannelInUse
	}
	r.chans[d.ID] = &entry{desc: d}
	return nil
}

// Unregister releases an id. Unknown or zero ids are a no-op.
func (r *Registry) Unregister(id uint16) {
	if id == 0 {
		return
	}
	r.mu.Lock()
	delete(r.chans, id)
	r.mu.Unlock()
}

// Get returns the channel's last known value, or 0 for an unknown id.
// Callers must treat id 0 as "no channel configured" and skip the call.
func (r *Registry) Get(id uint16) int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.chans[id]; ok {
		return e.value
	}
	return 0
}

// Set publishes a value onto a registered channel. Unknown ids are ignored.
// Bounds in the descriptor are metadata for consumers; the registry stores
// the raw value.
func (r *Registry) Set(id uint16, v int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.chans[id]; ok {
		e.value = v
	}
}

// Lookup returns the descriptor for an id.
func (r *Registry) Lookup(id uint16) (Desc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.chans[id]; ok {
		return e.desc, true
	}
	return Desc{}, false
}

// Count reports how many channels are registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chans)
}
