package statistics

import (
	"github.com/ocfox/ventora/internal/controller"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/prometheus/client_golang/prometheus"
)

const deviceSubsystem = "device"

// StatusSource provides the current status of all controlled devices
type StatusSource func() []controller.DeviceStatus

type DeviceCollector struct {
	source StatusSource

	temperature *prometheus.Desc
	sensor      *prometheus.Desc
	target      *prometheus.Desc
	percent     *prometheus.Desc
	auto        *prometheus.Desc
	stopped     *prometheus.Desc
}

func NewDeviceCollector(source StatusSource) *DeviceCollector {
	return &DeviceCollector{
		source: source,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, deviceSubsystem, "temperature"),
			"Aggregated temperature of the device used for the fan curve",
			[]string{"id"}, nil,
		),
		sensor: prometheus.NewDesc(prometheus.BuildFQName(namespace, deviceSubsystem, "sensor_temperature"),
			"Temperature of a single sensor of the device",
			[]string{"id", "sensor"}, nil,
		),
		target: prometheus.NewDesc(prometheus.BuildFQName(namespace, deviceSubsystem, "target_percent"),
			"Duty cycle requested by the fan curve",
			[]string{"id"}, nil,
		),
		percent: prometheus.NewDesc(prometheus.BuildFQName(namespace, deviceSubsystem, "duty_percent"),
			"Current duty cycle of the fan",
			[]string{"id"}, nil,
		),
		auto: prometheus.NewDesc(prometheus.BuildFQName(namespace, deviceSubsystem, "auto_mode"),
			"Whether the fan is controlled by the firmware",
			[]string{"id"}, nil,
		),
		stopped: prometheus.NewDesc(prometheus.BuildFQName(namespace, deviceSubsystem, "stopped"),
			"Whether the controller of the device gave up",
			[]string{"id"}, nil,
		),
	}
}

func (collector *DeviceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.sensor
	ch <- collector.target
	ch <- collector.percent
	ch <- collector.auto
	ch <- collector.stopped
}

// Collect implements required collect function for all prometheus collectors
func (collector *DeviceCollector) Collect(ch chan<- prometheus.Metric) {
	for _, status := range collector.source() {
		id := status.BusId
		if status.Temperature != nil {
			ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(*status.Temperature), id)
		}
		for _, sample := range status.Samples {
			ch <- prometheus.MustNewConstMetric(collector.sensor, prometheus.GaugeValue, float64(sample.Celsius), id, sample.Sensor)
		}
		ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, float64(status.Target), id)
		ch <- prometheus.MustNewConstMetric(collector.percent, prometheus.GaugeValue, float64(status.Percent), id)
		ch <- prometheus.MustNewConstMetric(collector.auto, prometheus.GaugeValue, boolToFloat(status.PwmMode == fans.Auto), id)
		ch <- prometheus.MustNewConstMetric(collector.stopped, prometheus.GaugeValue, boolToFloat(status.Stopped), id)
	}
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
