package hostgpio

import "time"

// epoch anchors the free-running counter; only differences matter.
var epoch = time.Now()

// Clock implements hal.Clock on the Go runtime's monotonic clock.
//
// Pin reads on a Pi-class host cost a fraction of a µs, so a busy-poll
// against Micros resolves the 26..70µs pulse widths the protocol needs —
// provided the loop is not preempted; see the dht22 package doc.
type Clock struct{}

func (Clock) Micros() int64 {
	return time.Since(epoch).Microseconds()
}

// DelayMicros sleeps for millisecond-scale delays and busy-spins below
// that: the runtime cannot be trusted to wake a sleeper with µs precision.
func (Clock) DelayMicros(us int64) {
	if us >= 1000 {
		time.Sleep(time.Duration(us) * time.Microsecond)
		return
	}
	deadline := time.Since(epoch).Microseconds() + us
	for time.Since(epoch).Microseconds() < deadline {
	}
}
