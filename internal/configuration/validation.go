package configuration

import (
	"errors"
	"fmt"

	"github.com/ocfox/ventora/internal/ui"
)

// Validate checks the process wide settings of CurrentConfig.
// Per device problems are reported by ValidateDevice.
func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.ControlTickRate <= 0 {
		return errors.New("controlTickRate must be > 0")
	}
	if config.MaxActuationFailures <= 0 {
		return errors.New("maxActuationFailures must be >= 1")
	}
	if config.ActuationFailureWindow < config.MaxActuationFailures {
		return fmt.Errorf("actuationFailureWindow (%d) must be >= maxActuationFailures (%d)", config.ActuationFailureWindow, config.MaxActuationFailures)
	}

	seen := map[string]bool{}
	for _, device := range config.Devices {
		if len(device.BusId) <= 0 {
			return errors.New("device entry without busId")
		}
		if seen[device.BusId] {
			return fmt.Errorf("duplicate device busId detected: %s", device.BusId)
		}
		seen[device.BusId] = true
	}

	return nil
}

// ValidateDevice checks the curve of a single device, returning a *ConfigError
func ValidateDevice(config DeviceConfig) error {
	if config.Mode == CurvePolicyAuto {
		return nil
	}
	if len(config.Points) <= 0 {
		return NewConfigError(config.BusId, ErrEmptyCurve)
	}

	for i, point := range config.Points {
		if point.Duty < 0 || point.Duty > 100 {
			return NewConfigError(config.BusId, fmt.Errorf("point [%d, %d]: %w", point.Temp, point.Duty, ErrInvalidDutyCycle))
		}
		if i > 0 && config.Points[i-1].Temp == point.Temp {
			ui.Warning("Device %s: duplicate curve points for %d°C", config.BusId, point.Temp)
		}
		if i > 0 && config.Points[i-1].Duty > point.Duty {
			ui.Warning("Device %s: duty cycle decreases at %d°C, the fan speed may oscillate", config.BusId, point.Temp)
		}
	}

	return nil
}
