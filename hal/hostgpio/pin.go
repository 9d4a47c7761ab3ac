// Package hostgpio implements the hal collaborators for hosts supported
// by periph.io (Raspberry Pi and similar Linux SBCs).
package hostgpio

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/Palantir555/dht22-go/hal"
)

var hostOnce sync.Once

// Open resolves a pin by its periph name ("GPIO4", "7", ...), initialising
// the periph host drivers on first use.
func Open(name string) (*Pin, error) {
	var initErr error
	hostOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, errors.Wrap(initErr, "host init")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("unknown pin %q", name)
	}
	return &Pin{p: p}, nil
}

// Pin adapts a periph gpio.PinIO to hal.Pin.
type Pin struct {
	p gpio.PinIO
}

func (p *Pin) ConfigureInput(pull hal.Pull) error {
	return p.p.In(mapPull(pull), gpio.NoEdge)
}

func (p *Pin) ConfigureOutput(initial bool) error {
	return p.p.Out(gpio.Level(initial))
}

// Set drives the level of a pin already configured as output. periph folds
// this into Out, which is a plain level write once the direction is set.
func (p *Pin) Set(level bool) error {
	return p.p.Out(gpio.Level(level))
}

func (p *Pin) Get() bool {
	return p.p.Read() == gpio.High
}

func (p *Pin) Number() int { return p.p.Number() }

func mapPull(pull hal.Pull) gpio.Pull {
	switch pull {
	case hal.PullUp:
		return gpio.PullUp
	case hal.PullDown:
		return gpio.PullDown
	default:
		return gpio.Float
	}
}
