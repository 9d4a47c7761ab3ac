// Command dht-exporter polls a DHT22 on a GPIO line and serves the
// readings as Prometheus metrics, with a /healthz endpoint that tracks
// whether the sensor is currently producing valid frames.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Palantir555/dht22-go/drivers/dht22"
	"github.com/Palantir555/dht22-go/hal/hostgpio"
	"github.com/Palantir555/dht22-go/poll"
)

func main() {
	pinName := flag.String("pin", "GPIO4", "periph pin name the sensor's data line is wired to")
	listen := flag.String("listen", ":9422", "address to serve /metrics and /healthz on")
	interval := flag.Duration("interval", 10*time.Second, "time between sensor reads (>= 2s)")
	logJSON := flag.Bool("log-json", false, "log in JSON instead of text")
	flag.Parse()

	if *logJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	pin, err := hostgpio.Open(*pinName)
	if err != nil {
		log.WithError(err).Fatal("open pin")
	}
	dev := dht22.New(pin, hostgpio.Clock{})
	if err := dev.Init(); err != nil {
		log.WithError(err).Fatal("init sensor")
	}

	registerMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var healthy atomic.Bool
	results := make(chan poll.Result, 1)
	go poll.New(dev, poll.Config{Interval: *interval}).Run(ctx, results)
	go consume(ctx, results, &healthy)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("sensor error"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: *listen, Handler: mux}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.WithFields(log.Fields{"listen": *listen, "pin": *pinName}).Info("serving")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("http server")
	}
}

func consume(ctx context.Context, results <-chan poll.Result, healthy *atomic.Bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-results:
			code := dht22.CodeOf(res.Err)
			readsTotal.WithLabelValues(string(code)).Inc()

			if res.Err != nil {
				healthy.Store(false)
				log.WithError(res.Err).WithField("code", code).Warn("read failed")
				continue
			}
			if !res.Reading.Plausible() {
				healthy.Store(false)
				implausibleTotal.Inc()
				log.WithFields(log.Fields{
					"temperature": res.Reading.Temperature,
					"humidity":    res.Reading.Humidity,
				}).Warn("discarding implausible reading")
				continue
			}

			healthy.Store(true)
			temperatureC.Set(float64(res.Reading.Temperature))
			humidityPct.Set(float64(res.Reading.Humidity))
			log.WithFields(log.Fields{
				"temperature": res.Reading.Temperature,
				"humidity":    res.Reading.Humidity,
				"checksum":    res.Reading.Checksum,
			}).Debug("reading")
		}
	}
}
