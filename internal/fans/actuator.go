package fans

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ocfox/ventora/internal/ui"
)

// PwmMode is the control mode the Actuator last put the channel in
type PwmMode int

const (
	Uninitialized PwmMode = iota
	Auto
	Manual
)

func (m PwmMode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Manual:
		return "manual"
	default:
		return "uninitialized"
	}
}

func (m PwmMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParsePwmMode accepts "auto" and "manual", case-insensitive
func ParsePwmMode(s string) (PwmMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return Auto, nil
	case "manual":
		return Manual, nil
	default:
		return Uninitialized, fmt.Errorf("%w: unknown mode: %s, must be one of: 'auto', 'manual'", ErrInvalidArgument, s)
	}
}

// PwmState is a snapshot of an Actuator
type PwmState struct {
	Mode           PwmMode `json:"mode"`
	CurrentPercent int     `json:"currentPercent"`
	OriginalEnable int     `json:"originalEnable"`
}

// Actuator gates all writes to a single pwm channel.
// Calls are serialized, state is only updated after a successful write.
type Actuator struct {
	mu sync.Mutex

	id        string
	channel   PwmChannel
	access    FileAccess
	privilege PrivilegeChecker

	state PwmState
}

// NewActuator wraps a probed channel. The current hardware pwm_enable value is
// remembered as the original mode so it can be restored later.
func NewActuator(id string, channel PwmChannel, access FileAccess, privilege PrivilegeChecker) *Actuator {
	return &Actuator{
		id:        id,
		channel:   channel,
		access:    access,
		privilege: privilege,
		state: PwmState{
			Mode:           Uninitialized,
			CurrentPercent: RawToPercent(channel.Raw, channel.MinRaw, channel.MaxRaw),
			OriginalEnable: channel.Enable,
		},
	}
}

func (a *Actuator) GetId() string {
	return a.id
}

func (a *Actuator) Channel() PwmChannel {
	return a.channel
}

func (a *Actuator) State() PwmState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Actuator) GetPercent() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.CurrentPercent
}

func (a *Actuator) OriginalEnable() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.OriginalEnable
}

// SetOriginalEnable overrides the remembered original mode, f.ex. with a value
// persisted by a previous run that did not exit cleanly.
func (a *Actuator) SetOriginalEnable(value int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.OriginalEnable = value
}

// EnableManual switches the channel to manual control
func (a *Actuator) EnableManual() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.privilege.IsPrivileged() {
		return ErrPermission
	}
	return a.enableManual()
}

// EnableAuto hands control of the channel back to the firmware
func (a *Actuator) EnableAuto() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.privilege.IsPrivileged() {
		return ErrPermission
	}
	if err := a.writeEnable(PwmEnableAuto); err != nil {
		return err
	}
	a.state.Mode = Auto
	return nil
}

// RestoreEnable writes the original pwm_enable value back
func (a *Actuator) RestoreEnable() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.privilege.IsPrivileged() {
		return ErrPermission
	}
	original := a.state.OriginalEnable
	if err := a.writeEnable(original); err != nil {
		return err
	}
	switch original {
	case PwmEnableManual:
		a.state.Mode = Manual
	case PwmEnableAuto:
		a.state.Mode = Auto
	default:
		a.state.Mode = Uninitialized
	}
	return nil
}

// SetDutyCycle switches to manual mode if necessary and applies the given percentage
func (a *Actuator) SetDutyCycle(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: duty cycle %d%% is outside of [0..100]", ErrInvalidArgument, percent)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.privilege.IsPrivileged() {
		return ErrPermission
	}

	if err := a.enableManual(); err != nil {
		return err
	}

	raw := PercentToRaw(percent, a.channel.MinRaw, a.channel.MaxRaw)
	if err := a.access.WriteInt(a.channel.PwmPath, raw); err != nil {
		return &ActuationError{Path: a.channel.PwmPath, Err: err}
	}
	ui.Debug("Device %s: set pwm to %d (%d%%)", a.id, raw, percent)

	a.state.CurrentPercent = percent
	return nil
}

// enableManual writes the manual enable code unless the hardware still reports it.
// The driver resets pwm_enable on resume, so the cached mode is only a hint.
func (a *Actuator) enableManual() error {
	if a.state.Mode == Manual {
		current, err := a.access.ReadInt(a.channel.EnablePath)
		if err == nil && current == PwmEnableManual {
			return nil
		}
		ui.Warning("Device %s: pwm_enable was changed by third party! Expected %d but is now %d", a.id, PwmEnableManual, current)
	}
	if err := a.writeEnable(PwmEnableManual); err != nil {
		return err
	}
	a.state.Mode = Manual
	return nil
}

// writeEnable writes pwm_enable and verifies the hardware took the value
func (a *Actuator) writeEnable(value int) error {
	path := a.channel.EnablePath
	if err := a.access.WriteInt(path, value); err != nil {
		return &ActuationError{Path: path, Err: err}
	}
	current, err := a.access.ReadInt(path)
	if err != nil {
		return &ActuationError{Path: path, Err: err}
	}
	if current != value {
		return &ActuationError{Path: path, Err: fmt.Errorf("%w: expected %d, got %d", ErrModeStuck, value, current)}
	}
	ui.Debug("Device %s: set pwm_enable to %d", a.id, value)
	return nil
}
