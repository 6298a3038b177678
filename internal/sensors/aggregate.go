package sensors

import (
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/util"
)

// Aggregate combines the samples into a single temperature as selected by mode.
// ok is false when the required samples are missing, which is not an error.
func Aggregate(samples []TemperatureSample, mode configuration.TempMode) (value int, ok bool) {
	switch mode {
	case configuration.TempModeJunction:
		return single(samples, SensorJunction)
	case configuration.TempModeEdge:
		return single(samples, SensorEdge)
	default:
		return average(samples)
	}
}

func single(samples []TemperatureSample, sensor string) (int, bool) {
	sample, ok := Find(samples, sensor)
	if !ok {
		return 0, false
	}
	return sample.Celsius, true
}

func average(samples []TemperatureSample) (int, bool) {
	if len(samples) <= 0 {
		return 0, false
	}
	sum := 0
	for _, sample := range samples {
		sum += sample.Celsius
	}
	return util.FloorDiv(sum, len(samples)), true
}
