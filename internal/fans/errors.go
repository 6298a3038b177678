package fans

import (
	"errors"
	"fmt"
)

var (
	// ErrPermission is returned before any write when the process lacks the required privileges
	ErrPermission = errors.New("only root is allowed to change fan settings")
	// ErrInvalidArgument is returned for duty cycles outside of [0..100]
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoPwmCapability means none of the probed channels exposes a pwm file
	ErrNoPwmCapability = errors.New("no pwm channel found")
	// ErrModeStuck means the hardware did not accept a pwm_enable write
	ErrModeStuck = errors.New("pwm mode stuck")
)

// ActuationError wraps an I/O failure while writing to the hardware
type ActuationError struct {
	Path string
	Err  error
}

func (e *ActuationError) Error() string {
	return fmt.Sprintf("unable to write %s: %v", e.Path, e.Err)
}

func (e *ActuationError) Unwrap() error {
	return e.Err
}

// ProbeError means a pwm channel exists but its attribute files are unusable
type ProbeError struct {
	Channel int
	Err     error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("unable to probe pwm%d: %v", e.Channel, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
