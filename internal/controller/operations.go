package controller

import (
	"errors"
	"fmt"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/curves"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/sensors"
)

// ReadTemperature reads all sensors of the device and aggregates them according to mode.
// ok is false if no usable sample was found.
func ReadTemperature(dev *device.Device, mode configuration.TempMode) (temp int, ok bool) {
	if len(dev.HwmonPath) <= 0 {
		return 0, false
	}
	samples := sensors.ReadTemperatures(dev.HwmonPath)
	return sensors.Aggregate(samples, mode)
}

// ComputeTarget evaluates the configured curve of a device at the given temperature
func ComputeTarget(temp int, config configuration.DeviceConfig) (int, error) {
	result, err := curves.Evaluate(temp, config.Points, config.Mode)
	if err != nil {
		var configErr *configuration.ConfigError
		if errors.As(err, &configErr) && len(configErr.BusId) <= 0 {
			configErr.BusId = config.BusId
		}
		return 0, err
	}
	return result, nil
}

// Apply sets the duty cycle of the actuator, switching it to manual mode if necessary
func Apply(actuator *fans.Actuator, percent int) error {
	return actuator.SetDutyCycle(percent)
}

// SetMode puts the actuator into firmware (Auto) or software (Manual) control
func SetMode(actuator *fans.Actuator, mode fans.PwmMode) error {
	switch mode {
	case fans.Auto:
		return actuator.EnableAuto()
	case fans.Manual:
		return actuator.EnableManual()
	default:
		return fmt.Errorf("%w: unsupported pwm mode %s", fans.ErrInvalidArgument, mode)
	}
}
