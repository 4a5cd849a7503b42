// services/timer/service.go
package timer

import (
	"context"
	"time"

	"pmufw-go/bus"
	"pmufw-go/channel"
	"pmufw-go/errcode"
	"pmufw-go/services/timer/internal/engine"
	"pmufw-go/types"
	"pmufw-go/x/timex"
)

// defaultTick is the control-cycle period until a config overrides it.
const defaultTick = 20 * time.Millisecond

var (
	topicConfig = bus.Topic{"config", "timers"}
	topicCtrl   = bus.Topic{"timer", "control", "+"}
	topicState  = bus.Topic{"timer", "state"}
)

// Service drives the timer engine: it applies configuration from
// config/timers, handles timer/control/<verb> messages, runs the periodic
// Update, and publishes retained stats on timer/state.
type Service struct {
	eng *engine.Engine
}

func New(reg *channel.Registry, clock timex.Clock) *Service {
	return &Service{eng: engine.New(reg, clock)}
}

// Start subscribes to the service topics and launches the service loop.
// Subscribing here, before the loop goroutine starts, guarantees that
// messages published after Start returns are never dropped.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfig)
	ctrlSub := conn.Subscribe(topicCtrl)
	go s.serviceLoop(ctx, conn, cfgSub, ctrlSub)
	return nil
}

// serviceLoop owns every engine entry point: configuration, control verbs
// and the periodic Update all run on this one goroutine, which is the
// single exclusion mechanism the engine requires.
func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub, ctrlSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(ctrlSub)

	tick := time.NewTicker(defaultTick)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: timer service stopping")
			return

		case <-tick.C:
			s.eng.Update()
			s.publishStats(conn)

		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.TimerConfig)
			if !ok {
				println("[timer] config payload has wrong type")
				continue
			}
			s.applyConfig(cfg)
			if cfg.UpdateMs > 0 {
				tick.Reset(time.Duration(cfg.UpdateMs) * time.Millisecond)
			}
			s.publishStats(conn)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)
			s.publishStats(conn)
		}
	}
}

// applyConfig replaces the whole timer set. Individual add failures are
// logged and skipped; the rest of the config still applies.
func (s *Service) applyConfig(cfg types.TimerConfig) {
	_ = s.eng.ClearAll()
	for i := range cfg.Timers {
		if err := s.eng.AddTimer(cfg.Timers[i]); err != nil {
			println("[timer] add failed:", cfg.Timers[i].ID, string(errcode.Of(err)))
		}
	}
	println("[timer] configured", len(cfg.Timers), "timers")
}

func (s *Service) handleControl(msg *bus.Message) {
	if len(msg.Topic) != 3 {
		return
	}
	verb := msg.Topic[2]

	var err error
	switch verb {
	case "add":
		if spec, ok := msg.Payload.(types.TimerSpec); ok {
			err = s.eng.AddTimer(spec)
		} else {
			err = errcode.InvalidPayload
		}
	case "clear_all":
		err = s.eng.ClearAll()
	case "start", "stop", "reset", "remove":
		ctl, ok := msg.Payload.(types.TimerControl)
		if !ok {
			err = errcode.InvalidPayload
			break
		}
		switch verb {
		case "start":
			err = s.eng.Start(ctl.ID)
		case "stop":
			err = s.eng.Stop(ctl.ID)
		case "reset":
			err = s.eng.Reset(ctl.ID)
		case "remove":
			err = s.eng.RemoveTimer(ctl.ID)
		}
	default:
		err = errcode.InvalidTopic
	}
	if err != nil {
		println("[timer] control", verb, "->", string(errcode.Of(err)))
	}
}

func (s *Service) publishStats(conn *bus.Connection) {
	conn.Publish(&bus.Message{Topic: topicState, Payload: s.eng.Stats(), Retained: true})
}
