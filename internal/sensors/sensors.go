package sensors

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ocfox/ventora/internal/ui"
	"github.com/ocfox/ventora/internal/util"
)

const (
	SensorEdge     = "edge"
	SensorJunction = "junction"
	SensorMemory   = "mem"
)

// ErrSensorAbsent signals that no usable temperature was available, the tick should be skipped
var ErrSensorAbsent = errors.New("no usable temperature sample")

// TemperatureSample is a single reading of a labelled hwmon temperature sensor
type TemperatureSample struct {
	Sensor  string `json:"sensor"`
	Celsius int    `json:"celsius"`
}

// ReadTemperatures reads all labelled tempN sensors of the given hwmon directory.
// Enumeration stops at the first missing tempN_label, unreadable samples are skipped.
func ReadTemperatures(hwmonPath string) []TemperatureSample {
	var samples []TemperatureSample
	for i := 1; ; i++ {
		labelPath := filepath.Join(hwmonPath, fmt.Sprintf("temp%d_label", i))
		inputPath := filepath.Join(hwmonPath, fmt.Sprintf("temp%d_input", i))

		if !util.FileExists(labelPath) {
			break
		}

		label, err := util.ReadTrimmedString(labelPath)
		if err != nil {
			ui.Warning("Unable to read sensor label %s: %v", labelPath, err)
			continue
		}
		milliDegree, err := util.ReadIntFromFile(inputPath)
		if err != nil {
			ui.Warning("Unable to read sensor %s (%s): %v", label, inputPath, err)
			continue
		}

		samples = append(samples, TemperatureSample{
			Sensor:  label,
			Celsius: milliDegree / 1000,
		})
	}
	return samples
}

// Find returns the sample of the given sensor
func Find(samples []TemperatureSample, sensor string) (TemperatureSample, bool) {
	for _, sample := range samples {
		if sample.Sensor == sensor {
			return sample, true
		}
	}
	return TemperatureSample{}, false
}
