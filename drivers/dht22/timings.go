package dht22

// Timings holds the line timings of the DHT22 protocol, in microseconds.
// The defaults encode the physical protocol; they exist as a struct so a
// Device carries one immutable profile rather than package-level globals.
type Timings struct {
	// Host request: line held low, then released high, before switching
	// the pin to input.
	RequestLow  int64 // spec window [1, 10]ms
	RequestHigh int64 // spec window [20, 40]µs

	// Sensor handshake: one low half then one high half, 80µs each.
	ReadySignalHalf int64

	// Data bits: fixed low phase, then a high phase whose length encodes
	// the bit. [26, 28]µs high == 0, 70µs high == 1.
	DataBitLow   int64
	DataBitHigh  int64
	BitThreshold int64 // high phase shorter than this decodes as 0

	// Settle delay after each bit, absorbing level-transition ringing.
	InterBitSettle int64

	// Timeout margins added on top of the nominal durations above.
	HandshakeMargin int64
	BitMargin       int64
}

// DefaultTimings returns the DHT22 profile.
func DefaultTimings() Timings {
	return Timings{
		RequestLow:      3000,
		RequestHigh:     20,
		ReadySignalHalf: 80,
		DataBitLow:      50,
		DataBitHigh:     70,
		BitThreshold:    40,
		InterBitSettle:  10,
		HandshakeMargin: 10,
		BitMargin:       20,
	}
}
