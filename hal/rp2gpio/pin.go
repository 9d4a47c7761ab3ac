//go:build rp2040 || rp2350

// Package rp2gpio implements the hal collaborators on RP2-class MCUs
// under TinyGo, using the machine package directly.
package rp2gpio

import (
	"machine"
	"time"

	"github.com/Palantir555/dht22-go/hal"
)

// ByNumber returns the pin for a GPIO number, or false if out of range.
func ByNumber(n int) (*Pin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	return &Pin{p: machine.Pin(n), n: n}, true
}

// Pin adapts a machine.Pin to hal.Pin. machine pin operations cannot fail,
// so the error results are always nil.
type Pin struct {
	p machine.Pin
	n int
}

func (r *Pin) ConfigureInput(p hal.Pull) error {
	var mode machine.PinMode
	switch p {
	case hal.PullUp:
		mode = machine.PinInputPullup
	case hal.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *Pin) Set(b bool) error { r.p.Set(b); return nil }
func (r *Pin) Get() bool        { return r.p.Get() }
func (r *Pin) Number() int      { return r.n }

// Clock implements hal.Clock on the TinyGo time source, which on RP2 is
// the µs-resolution hardware timer.
type Clock struct{}

var epoch = time.Now()

func (Clock) Micros() int64 {
	return time.Since(epoch).Microseconds()
}

func (Clock) DelayMicros(us int64) {
	deadline := time.Since(epoch).Microseconds() + us
	for time.Since(epoch).Microseconds() < deadline {
	}
}
