package configuration

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCurve       = errors.New("curve has no points")
	ErrInvalidDutyCycle = errors.New("duty cycle must be within [0..100]")
)

// ConfigError marks a malformed device configuration.
// It disables the control loop of that device only.
type ConfigError struct {
	BusId string
	Err   error
}

func NewConfigError(busId string, err error) *ConfigError {
	return &ConfigError{BusId: busId, Err: err}
}

func (e *ConfigError) Error() string {
	if len(e.BusId) <= 0 {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration for device %s: %v", e.BusId, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
