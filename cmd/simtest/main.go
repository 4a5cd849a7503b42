// cmd/simtest: host-runnable end-to-end exercise of the timer stack.
//
// A scripted fake port expander drives the d_in1 line; a countdown timer
// started by its rising edge runs to expiry while the derived channels are
// printed each cycle.
package main

import (
	"context"
	"time"

	"pmufw-go/bus"
	"pmufw-go/channel"
	"pmufw-go/services/input"
	timersvc "pmufw-go/services/timer"
	"pmufw-go/types"
	"pmufw-go/x/conv"
	"pmufw-go/x/timex"
)

// scriptedExpander implements drivers.I2C: pin 0 goes high 500ms after
// start and low again at 1500ms.
type scriptedExpander struct {
	t0 time.Time
}

func (s *scriptedExpander) Tx(addr uint16, w, r []byte) error {
	if len(r) > 0 {
		since := time.Since(s.t0)
		if since > 500*time.Millisecond && since < 1500*time.Millisecond {
			r[0] = 0x01
		} else {
			r[0] = 0x00
		}
	}
	return nil
}

func main() {
	println("simtest: timer engine over a scripted input")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	reg := channel.NewRegistry()

	in := input.New(reg, input.Config{
		Bus:         &scriptedExpander{t0: time.Now()},
		Addr:        0x20,
		BaseChannel: 1,
		PollMs:      10,
	})
	if err := in.Start(ctx); err != nil {
		println("simtest: input start failed:", err.Error())
		return
	}

	tsvc := timersvc.New(reg, timex.SysClock{})
	_ = tsvc.Start(ctx, b.NewConnection("timer"))

	cfgConn := b.NewConnection("config")
	cfgConn.Publish(&bus.Message{
		Topic: bus.T("config", "timers"),
		Payload: types.TimerConfig{
			UpdateMs: 10,
			Timers: []types.TimerSpec{{
				ID:           "demo",
				Mode:         types.CountDown,
				LimitSeconds: 2,
				StartChannel: 1, // d_in1
				StartEdge:    types.EdgeRising,
			}},
		},
		Retained: true,
	})

	// Print the derived channels (slot 0: 400 value, 401 running,
	// 402 elapsed) for four seconds.
	for i := 0; i < 16; i++ {
		time.Sleep(250 * time.Millisecond)
		println("simtest: in="+conv.Itoa(int(reg.Get(1))),
			"value="+conv.Itoa(int(reg.Get(400))),
			"running="+conv.Itoa(int(reg.Get(401))),
			"elapsed="+conv.Itoa(int(reg.Get(402))))
	}
	println("simtest: done")
}
