package main

import "github.com/prometheus/client_golang/prometheus"

var (
	temperatureC = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dht22_temperature_celsius",
		Help: "Last checksum-validated temperature reading.",
	})
	humidityPct = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dht22_humidity_percent",
		Help: "Last checksum-validated relative humidity reading.",
	})
	readsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dht22_reads_total",
		Help: "Read transactions by outcome code. Timeouts and checksum failures are routine for this sensor.",
	}, []string{"code"})
	implausibleTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dht22_implausible_readings_total",
		Help: "Checksum-valid readings discarded for being outside the sensor's rated range.",
	})
)

func registerMetrics() {
	prometheus.MustRegister(temperatureC, humidityPct, readsTotal, implausibleTotal)
}
