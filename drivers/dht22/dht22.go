// Package dht22 reads temperature and humidity from a DHT22 / AM2302 class
// sensor by bit-banging its single-wire protocol over one GPIO line:
//
//	dev := dht22.New(pin, clk)
//	if err := dev.Init(); err != nil { ... }
//	r, err := dev.Read() // ≈7ms, busy-waiting throughout
//
// Correctness depends on microsecond edge timing, so a read transaction
// never yields: every wait is a bounded busy-poll against the injected
// clock. Preemption mid-read shows up as ErrTimeout or ErrBadChecksum,
// both of which are expected and recoverable on the next poll cycle —
// callers must discard the reading and retry later, not treat them as
// faults. Run the polling loop on the quietest OS thread/core available.
//
// A Device is not safe for concurrent use: the protocol is a stateful
// multi-phase exchange on one wire, so callers must serialize Read calls
// per sensor.
package dht22

import (
	"errors"
	"fmt"

	"github.com/Palantir555/dht22-go/errcode"
	"github.com/Palantir555/dht22-go/hal"
	"github.com/Palantir555/dht22-go/x/mathx"
)

// 40 bits per transmission.
const frameBytes = 5

// Errors returned by the driver. GPIO failures wrap ErrGPIO with the
// failing operation and the platform cause.
var (
	ErrTimeout     = errors.New("dht22: timeout")
	ErrBadChecksum = errors.New("dht22: bad checksum")
	ErrGPIO        = errors.New("dht22: gpio failure")
)

// Reading is one decoded sensor frame. It is only valid when produced by
// a nil-error Read; discard readings associated with any other outcome.
type Reading struct {
	Temperature float32 // °C, one decimal, roughly -40.0..80.0
	Humidity    float32 // %RH, one decimal, roughly 0.0..100.0
	Checksum    uint8   // raw sum byte, kept for downstream validation
}

// Plausible reports whether the reading falls inside the sensor's rated
// range. An extra guard for callers that store readings; it does not
// replace the checksum.
func (r Reading) Plausible() bool {
	return mathx.Between(r.Temperature, -40.0, 80.0) &&
		mathx.Between(r.Humidity, 0.0, 100.0)
}

// Config controls non-hardware behaviour.
type Config struct {
	// Timings overrides the protocol timing profile. Zero fields keep
	// their defaults. Only useful on hosts whose GPIO path adds a known
	// constant latency; the defaults are the protocol.
	Timings Timings
}

// Device drives one DHT22 over one GPIO line. The caller owns the pin;
// the driver only switches its direction and level per transaction.
type Device struct {
	pin hal.Pin
	clk hal.Clock
	t   Timings
}

// New binds a device to a pin and a clock. It does not touch the hardware.
func New(pin hal.Pin, clk hal.Clock) *Device {
	return &Device{pin: pin, clk: clk, t: DefaultTimings()}
}

// Configure applies optional config. May be called with no argument.
func (d *Device) Configure(cfgs ...Config) {
	d.t = DefaultTimings()
	if len(cfgs) == 0 {
		return
	}
	def := d.t
	c := cfgs[0].Timings
	if c.RequestLow > 0 {
		def.RequestLow = c.RequestLow
	}
	if c.RequestHigh > 0 {
		def.RequestHigh = c.RequestHigh
	}
	if c.ReadySignalHalf > 0 {
		def.ReadySignalHalf = c.ReadySignalHalf
	}
	if c.DataBitLow > 0 {
		def.DataBitLow = c.DataBitLow
	}
	if c.DataBitHigh > 0 {
		def.DataBitHigh = c.DataBitHigh
	}
	if c.BitThreshold > 0 {
		def.BitThreshold = c.BitThreshold
	}
	if c.InterBitSettle > 0 {
		def.InterBitSettle = c.InterBitSettle
	}
	if c.HandshakeMargin > 0 {
		def.HandshakeMargin = c.HandshakeMargin
	}
	if c.BitMargin > 0 {
		def.BitMargin = c.BitMargin
	}
	d.t = def
}

// Init drives the line to its high idle state. Call once before the
// first Read.
func (d *Device) Init() error {
	if err := d.pin.ConfigureOutput(true); err != nil {
		return gpioErr("configure output", err)
	}
	return nil
}

// Read performs one full transaction: request, handshake, 40 data bits,
// checksum, decode. It returns the decoded Reading, or ErrTimeout /
// ErrBadChecksum / a wrapped ErrGPIO with no partial result. There is no
// internal retry; retry policy belongs to the caller's poll loop.
func (d *Device) Read() (Reading, error) {
	if d.t.BitThreshold == 0 {
		d.t = DefaultTimings()
	}

	var buf [frameBytes]byte

	if err := d.requestReadings(); err != nil {
		return Reading{}, err
	}
	if err := d.awaitData(); err != nil {
		return Reading{}, err
	}
	if err := d.readFrame(&buf); err != nil {
		return Reading{}, err
	}
	if !checksumOK(buf) {
		return Reading{}, ErrBadChecksum
	}
	return decode(buf), nil
}

// awaitLevel busy-polls until the line reads target, bounded by timeoutUS
// measured from entry (inclusive: elapsed == timeoutUS is a timeout).
// On success it returns the elapsed µs, which the bit decoder uses as the
// phase-duration measurement.
func (d *Device) awaitLevel(target bool, timeoutUS int64) (int64, error) {
	entry := d.clk.Micros()
	for {
		if d.pin.Get() == target {
			return d.clk.Micros() - entry, nil
		}
		if d.clk.Micros()-entry >= timeoutUS {
			return 0, ErrTimeout
		}
	}
}

// requestReadings wakes the sensor: hold the line low, release it high,
// then hand the line over by switching to input. Any pin failure aborts
// the rest of the sequence.
func (d *Device) requestReadings() error {
	if err := d.pin.ConfigureOutput(false); err != nil {
		return gpioErr("configure output", err)
	}
	d.clk.DelayMicros(d.t.RequestLow)

	if err := d.pin.Set(true); err != nil {
		return gpioErr("set level", err)
	}
	d.clk.DelayMicros(d.t.RequestHigh)

	// The line has an external pull-up; mirror it while listening.
	if err := d.pin.ConfigureInput(hal.PullUp); err != nil {
		return gpioErr("configure input", err)
	}
	return nil
}

// awaitData waits out the sensor's transmission-start handshake: the line
// held low then high, ReadySignalHalf each. If the line is already high
// on entry the first wait is satisfied immediately, which is fine. A
// timeout here is the primary "sensor did not respond" signal.
func (d *Device) awaitData() error {
	bound := d.t.ReadySignalHalf + d.t.HandshakeMargin
	if _, err := d.awaitLevel(true, bound); err != nil {
		return err
	}
	if _, err := d.awaitLevel(false, bound); err != nil {
		return err
	}
	return nil
}

// readBit decodes one data bit: a fixed low phase, then a high phase
// whose duration carries the value.
func (d *Device) readBit() (bool, error) {
	if _, err := d.awaitLevel(true, d.t.DataBitLow+d.t.BitMargin); err != nil {
		return false, err
	}
	usHigh, err := d.awaitLevel(false, d.t.DataBitHigh+d.t.BitMargin)
	if err != nil {
		return false, err
	}
	return usHigh >= d.t.BitThreshold, nil
}

// readFrame assembles 5 bytes, MSB first, aborting the whole frame on the
// first bit timeout: a partial frame is never usable.
func (d *Device) readFrame(buf *[frameBytes]byte) error {
	for byteIdx := 0; byteIdx < frameBytes; byteIdx++ {
		var b byte
		for bitIdx := 7; bitIdx >= 0; bitIdx-- {
			bit, err := d.readBit()
			if err != nil {
				return err
			}
			if bit {
				b |= 1 << bitIdx
			}
			// Breathing room for the level transition.
			d.clk.DelayMicros(d.t.InterBitSettle)
		}
		buf[byteIdx] = b
	}
	return nil
}

func checksumOK(buf [frameBytes]byte) bool {
	sum := buf[0] + buf[1] + buf[2] + buf[3]
	return buf[4] == sum
}

// decode converts a checksum-validated frame. Temperature is sign and
// magnitude: bit 7 of the high byte is the sign, not two's complement.
func decode(buf [frameBytes]byte) Reading {
	hum := float32(uint16(buf[0])<<8|uint16(buf[1])) / 10

	temp := float32(uint16(buf[2]&0x7F)<<8|uint16(buf[3])) / 10
	if buf[2]&0x80 != 0 {
		temp = -temp
	}

	return Reading{
		Temperature: temp,
		Humidity:    hum,
		Checksum:    buf[4],
	}
}

// CodeOf maps a Read outcome to its stable errcode label.
func CodeOf(err error) errcode.Code {
	switch {
	case err == nil:
		return errcode.OK
	case errors.Is(err, ErrTimeout):
		return errcode.Timeout
	case errors.Is(err, ErrBadChecksum):
		return errcode.BadChecksum
	case errors.Is(err, ErrGPIO):
		return errcode.GPIOError
	default:
		return errcode.Error
	}
}

func gpioErr(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrGPIO, op, cause)
}
