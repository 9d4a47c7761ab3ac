// Command dhtread performs a one-shot sensor read with retries. Useful
// for wiring bring-up before running the exporter.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Palantir555/dht22-go/drivers/dht22"
	"github.com/Palantir555/dht22-go/hal/hostgpio"
	"github.com/Palantir555/dht22-go/poll"
)

func main() {
	pinName := flag.String("pin", "GPIO4", "periph pin name the sensor's data line is wired to")
	retries := flag.Int("retries", 11, "read attempts before giving up")
	timeout := flag.Duration("timeout", 60*time.Second, "overall time budget")
	flag.Parse()

	if err := run(*pinName, *retries, *timeout); err != nil {
		log.WithError(err).WithField("code", dht22.CodeOf(err)).Error("read failed")
		os.Exit(1)
	}
}

func run(pinName string, retries int, timeout time.Duration) error {
	pin, err := hostgpio.Open(pinName)
	if err != nil {
		return errors.Wrap(err, "open pin")
	}
	dev := dht22.New(pin, hostgpio.Clock{})
	if err := dev.Init(); err != nil {
		return errors.Wrap(err, "init sensor")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reading, err := poll.ReadRetry(ctx, dev, poll.Config{}, retries)
	if err != nil {
		return err
	}
	fmt.Printf("temperature: %.1f°C\nhumidity: %.1f%%\nchecksum: %#02x\n",
		reading.Temperature, reading.Humidity, reading.Checksum)
	if !reading.Plausible() {
		fmt.Println("warning: reading outside the sensor's rated range")
	}
	return nil
}
