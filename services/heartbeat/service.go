package heartbeat

import (
	"context"
	"time"

	"pmufw-go/bus"
	"pmufw-go/types"
	"pmufw-go/x/conv"
)

var (
	topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}
	topicTimerState      = bus.Topic{"timer", "state"}
)

// Service prints a periodic heartbeat with the latest timer statistics,
// the diagnostics consumer of the retained timer/state document.
type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	statsSub := conn.Subscribe(topicTimerState)
	defer conn.Unsubscribe(statsSub)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	var stats types.TimerStats

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			println("Info:", t.Format("15:04:05"), "Heartbeat timers="+conv.Itoa(stats.TotalTimers),
				"running="+conv.Itoa(stats.ActiveTimers))
		case msg := <-statsSub.Channel():
			if st, ok := msg.Payload.(types.TimerStats); ok {
				stats = st
			}
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok {
						tick.Reset(time.Duration(interval) * time.Second)
						println("Info:", "Heartbeat interval set to", int(interval), "seconds")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
