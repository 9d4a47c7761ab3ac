package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Palantir555/dht22-go/drivers/dht22"
)

// scriptedReader returns canned outcomes in order, repeating the last one.
type scriptedReader struct {
	outcomes []error
	calls    int
}

func (r *scriptedReader) Read() (dht22.Reading, error) {
	i := r.calls
	if i >= len(r.outcomes) {
		i = len(r.outcomes) - 1
	}
	r.calls++
	if err := r.outcomes[i]; err != nil {
		return dht22.Reading{}, err
	}
	return dht22.Reading{Temperature: 21.5, Humidity: 40.0}, nil
}

func fastConfig() Config {
	return Config{
		Interval:     time.Millisecond,
		ErrorBackoff: time.Millisecond,
		MaxBackoff:   5 * time.Millisecond,
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Interval != 2*time.Second {
		t.Fatalf("interval default: %v", c.Interval)
	}
	if c.ErrorBackoff != 500*time.Millisecond || c.MaxBackoff != 30*time.Second {
		t.Fatalf("backoff defaults: %v / %v", c.ErrorBackoff, c.MaxBackoff)
	}
	// Explicit values survive.
	c = fastConfig().withDefaults()
	if c.Interval != time.Millisecond {
		t.Fatalf("explicit interval clobbered: %v", c.Interval)
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	p := New(&scriptedReader{outcomes: []error{nil}}, fastConfig())
	fail := errors.New("read failed")

	if d := p.wait(nil); d != time.Millisecond {
		t.Fatalf("success wait: %v", d)
	}
	if d := p.wait(fail); d != 2*time.Millisecond {
		t.Fatalf("first error wait: %v", d)
	}
	if d := p.wait(fail); d != 3*time.Millisecond {
		t.Fatalf("second error wait: %v", d)
	}
	for i := 0; i < 10; i++ {
		p.wait(fail)
	}
	if d := p.wait(fail); d != 5*time.Millisecond {
		t.Fatalf("wait not capped: %v", d)
	}
	// A success resets the streak.
	if d := p.wait(nil); d != time.Millisecond {
		t.Fatalf("wait not reset: %v", d)
	}
}

func TestRunEmitsAndStops(t *testing.T) {
	r := &scriptedReader{outcomes: []error{nil, dht22.ErrTimeout, nil}}
	p := New(r, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Result)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	first := <-out
	if first.Err != nil {
		t.Fatalf("first result: %v", first.Err)
	}
	if first.Reading.Temperature != 21.5 {
		t.Fatalf("first reading: %+v", first.Reading)
	}
	second := <-out
	if !errors.Is(second.Err, dht22.ErrTimeout) {
		t.Fatalf("second result: want timeout, got %v", second.Err)
	}
	third := <-out
	if third.Err != nil {
		t.Fatalf("third result: %v", third.Err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestReadRetry(t *testing.T) {
	r := &scriptedReader{outcomes: []error{dht22.ErrBadChecksum, dht22.ErrTimeout, nil}}
	reading, err := ReadRetry(context.Background(), r, fastConfig(), 5)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if reading.Humidity != 40.0 {
		t.Fatalf("reading: %+v", reading)
	}
	if r.calls != 3 {
		t.Fatalf("calls: want 3, got %d", r.calls)
	}
}

func TestReadRetryExhausted(t *testing.T) {
	r := &scriptedReader{outcomes: []error{dht22.ErrTimeout}}
	_, err := ReadRetry(context.Background(), r, fastConfig(), 3)
	if !errors.Is(err, dht22.ErrTimeout) {
		t.Fatalf("want last error, got %v", err)
	}
	if r.calls != 3 {
		t.Fatalf("calls: want 3, got %d", r.calls)
	}
}
