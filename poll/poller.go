// Package poll runs the periodic read loop a DHT22 deployment needs: the
// sensor requires seconds between conversions, and a failed transaction is
// routine rather than fatal, so the loop paces reads, backs off on
// consecutive errors, and hands every outcome to the consumer.
package poll

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/Palantir555/dht22-go/drivers/dht22"
)

// Reader is the device side of the loop. *dht22.Device satisfies it.
type Reader interface {
	Read() (dht22.Reading, error)
}

// Result is one poll outcome. Reading is only meaningful when Err is nil.
type Result struct {
	Reading dht22.Reading
	Err     error
	At      time.Time
}

// Config controls pacing. Zero fields take defaults.
type Config struct {
	// Interval between read attempts. Default 2s, the minimum the sensor
	// tolerates between conversions. Shorter values are honoured as given
	// (useful with simulated hardware) but real sensors will misbehave.
	Interval time.Duration
	// ErrorBackoff is added to the interval per consecutive error.
	// Default 500ms.
	ErrorBackoff time.Duration
	// MaxBackoff caps the total wait after errors. Default 30s.
	MaxBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}
	return c
}

// Poller owns one Reader. It has no internal locking: one Run per Poller,
// matching the one-transaction-at-a-time precondition of the wire.
type Poller struct {
	r    Reader
	cfg  Config
	errs int
}

func New(r Reader, cfg Config) *Poller {
	return &Poller{r: r, cfg: cfg.withDefaults()}
}

// Run polls until ctx is cancelled, sending every outcome to out. It does
// not close out; the caller owns the channel. Run blocks, so start it on
// its own goroutine.
//
// The goroutine is locked to its OS thread and the GC is paused around
// each transaction: a reschedule or GC pause mid-frame corrupts the bit
// timing. This only narrows the window; residual timeouts and checksum
// failures remain expected and are reported, not retried here.
func (p *Poller) Run(ctx context.Context, out chan<- Result) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		res := p.readOnce()

		select {
		case out <- res:
		case <-ctx.Done():
			return
		}

		select {
		case <-time.After(p.wait(res.Err)):
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) readOnce() Result {
	gcPercent := debug.SetGCPercent(-1)
	reading, err := p.r.Read()
	debug.SetGCPercent(gcPercent)
	return Result{Reading: reading, Err: err, At: time.Now()}
}

// wait returns the pause before the next attempt, growing additively with
// consecutive errors up to MaxBackoff.
func (p *Poller) wait(err error) time.Duration {
	if err == nil {
		p.errs = 0
		return p.cfg.Interval
	}
	p.errs++
	d := p.cfg.Interval + time.Duration(p.errs)*p.cfg.ErrorBackoff
	if d > p.cfg.MaxBackoff {
		d = p.cfg.MaxBackoff
	}
	return d
}

// ReadRetry reads until success or n attempts, pausing Interval between
// attempts. For one-shot callers that want a usable value now rather than
// a stream.
func ReadRetry(ctx context.Context, r Reader, cfg Config, n int) (dht22.Reading, error) {
	cfg = cfg.withDefaults()
	var (
		reading dht22.Reading
		err     error
	)
	for i := 0; i < n; i++ {
		reading, err = r.Read()
		if err == nil {
			return reading, nil
		}
		if i == n-1 {
			break
		}
		select {
		case <-time.After(cfg.Interval):
		case <-ctx.Done():
			return dht22.Reading{}, ctx.Err()
		}
	}
	return dht22.Reading{}, err
}
