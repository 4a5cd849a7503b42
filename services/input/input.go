// services/input/input.go
package input

import (
	"context"
	"time"

	"tinygo.org/x/drivers"

	"pmufw-go/channel"
	"pmufw-go/x/conv"
)

// Config describes one PCF8574-class 8-bit I2C port expander whose pins
// feed digital channels. Bit i of the port maps to channel BaseChannel+i,
// published as 0 or 1000 on the normalised scale so edge triggers can
// consume it directly.
type Config struct {
	Bus         drivers.I2C
	Addr        uint16
	BaseChannel uint16
	Invert      bool
	PollMs      uint32
}

const defaultPollMs = 10

// Service polls the expander and publishes its pins onto the registry.
type Service struct {
	cfg Config
	reg *channel.Registry
}

func New(reg *channel.Registry, cfg Config) *Service {
	if cfg.PollMs == 0 {
		cfg.PollMs = defaultPollMs
	}
	return &Service{cfg: cfg, reg: reg}
}

// Start registers the 8 input channels and launches the poll loop.
// Channel-id collisions are logged and the colliding pin is skipped.
func (s *Service) Start(ctx context.Context) error {
	for i := uint16(0); i < 8; i++ {
		err := s.reg.Register(channel.Desc{
			ID:     s.cfg.BaseChannel + i,
			Name:   "d_in" + conv.Utoa(uint(i+1)),
			Dir:    channel.DirInput,
			Format: channel.FormatSigned,
			Min:    0, Max: 1000,
			Enabled: true,
		})
		if err != nil {
			println("[input] channel rejected for pin", i)
		}
	}
	go s.pollLoop(ctx)
	return nil
}

func (s *Service) pollLoop(ctx context.Context) {
	tick := time.NewTicker(time.Duration(s.cfg.PollMs) * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			println("Info: input service stopping")
			return
		case <-tick.C:
			s.poll()
		}
	}
}

// poll reads the port once and publishes every pin. A failed read leaves
// the previous channel values in place.
func (s *Service) poll() {
	var port [1]byte
	if err := s.cfg.Bus.Tx(s.cfg.Addr, nil, port[:]); err != nil {
		println("[input] read failed:", err.Error())
		return
	}
	for i := uint16(0); i < 8; i++ {
		set := port[0]&(1<<i) != 0
		if s.cfg.Invert {
			set = !set
		}
		v := int32(0)
		if set {
			v = 1000
		}
		s.reg.Set(s.cfg.BaseChannel+i, v)
	}
}
