package main

import (
	"context"
	"time"

	"pmufw-go/bus"
	"pmufw-go/channel"
	"pmufw-go/services/heartbeat"
	timersvc "pmufw-go/services/timer"
	"pmufw-go/types"
	"pmufw-go/x/timex"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.Background()

	b := bus.NewBus(8)
	reg := channel.NewRegistry()

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	tsvc := timersvc.New(reg, timex.SysClock{})
	_ = tsvc.Start(ctx, b.NewConnection("timer"))

	// Timer definitions arrive pre-parsed from the configuration loader;
	// until one is wired in, publish an empty set so the service is live.
	cfgConn := b.NewConnection("config")
	cfgConn.Publish(&bus.Message{
		Topic:    bus.T("config", "timers"),
		Payload:  types.TimerConfig{},
		Retained: true,
	})

	select {}
}
