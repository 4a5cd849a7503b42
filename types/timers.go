package types

// ------------------------
// Timer configuration
// ------------------------

// TimerMode selects the counting direction of a timer.
type TimerMode uint8

const (
	CountDown TimerMode = iota // value runs from the limit towards zero
	CountUp                    // value runs from zero towards the limit
)

// EdgeMode selects how a trigger channel is interpreted. A channel value
// above the digital threshold on the normalised 0-1000 scale counts as high.
type EdgeMode uint8

const (
	EdgeRising  EdgeMode = iota // low -> high transition
	EdgeFalling                 // high -> low transition
	EdgeBoth                    // any transition
	EdgeLevel                   // fires on every evaluation while high
)

// TimerSpec is one timer definition as delivered by the configuration
// loader. Channel references arrive already resolved to numeric ids;
// id 0 means "no channel".
type TimerSpec struct {
	ID           string    `json:"id"`
	Mode         TimerMode `json:"mode"`
	LimitHours   uint32    `json:"limit_hours"`
	LimitMinutes uint32    `json:"limit_minutes"`
	LimitSeconds uint32    `json:"limit_seconds"`
	StartChannel uint16    `json:"start_channel"`
	StopChannel  uint16    `json:"stop_channel"`
	StartEdge    EdgeMode  `json:"start_edge"`
	StopEdge     EdgeMode  `json:"stop_edge"`
}

// LimitMs returns the configured limit in milliseconds.
func (s TimerSpec) LimitMs() uint32 {
	return s.LimitHours*3600000 + s.LimitMinutes*60000 + s.LimitSeconds*1000
}

// TimerConfig is the payload published on config/timers.
type TimerConfig struct {
	Timers []TimerSpec `json:"timers"`
	// UpdateMs overrides the engine tick period when > 0.
	UpdateMs uint32 `json:"update_ms,omitempty"`
}

// ------------------------
// Control + telemetry
// ------------------------

// TimerControl addresses one timer on a timer/control/<verb> topic.
type TimerControl struct {
	ID string `json:"id"`
}

// TimerStats is the aggregate published (retained) on timer/state.
type TimerStats struct {
	TotalTimers  int `json:"total_timers"`
	ActiveTimers int `json:"active_timers"` // timers currently running
}
