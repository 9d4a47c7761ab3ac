// Package hal declares the hardware collaborators a bit-banged protocol
// driver needs: a GPIO line and a microsecond timebase. Platform adaptors
// live in subpackages; tests inject fakes.
package hal

// Pull selects the internal resistor applied when a pin is an input.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is one GPIO line. Direction is transient state the caller switches
// per operation; there is no other state behind the interface.
//
// Configure and Set report host-side failures (pin claimed elsewhere,
// character-device errors, ...). Get must not fail: an input read returns
// whatever level the hardware sees.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool) error
	Get() bool
	Number() int
}

// Clock supplies the timebase for protocol timing.
//
// Micros is a free-running monotonic microsecond counter; only differences
// between samples are meaningful. DelayMicros blocks for at least us
// microseconds with a precision of a few µs.
type Clock interface {
	Micros() int64
	DelayMicros(us int64)
}
