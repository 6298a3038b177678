package fans

import (
	"fmt"
	"path/filepath"
)

// MaxPwmChannels is the highest channel index probed by ProbeChannel
const MaxPwmChannels = 4

const (
	// PwmEnableManual is the pwm_enable value for manual control
	PwmEnableManual = 1
	// PwmEnableAuto is the pwm_enable value for automatic control by the firmware
	PwmEnableAuto = 2
)

// PwmChannel holds the attribute file paths and hardware values of pwmN
type PwmChannel struct {
	Index int `json:"index"`

	EnablePath string `json:"enablePath"`
	PwmPath    string `json:"pwmPath"`
	MinPath    string `json:"minPath"`
	MaxPath    string `json:"maxPath"`

	// values read while probing
	Enable int `json:"enable"`
	Raw    int `json:"raw"`
	MinRaw int `json:"minRaw"`
	MaxRaw int `json:"maxRaw"`
}

func newPwmChannel(hwmonPath string, index int) PwmChannel {
	base := filepath.Join(hwmonPath, fmt.Sprintf("pwm%d", index))
	return PwmChannel{
		Index:      index,
		EnablePath: base + "_enable",
		PwmPath:    base,
		MinPath:    base + "_min",
		MaxPath:    base + "_max",
	}
}

// ProbeChannel returns the first channel in 1..MaxPwmChannels whose
// enable/pwm/min/max files are all readable.
// ErrNoPwmCapability is returned if no pwmN exists at all, a *ProbeError if
// channels exist but none of them could be read.
func ProbeChannel(hwmonPath string, access FileAccess) (*PwmChannel, error) {
	var probeErr error
	for i := 1; i <= MaxPwmChannels; i++ {
		channel := newPwmChannel(hwmonPath, i)
		if !access.Exists(channel.PwmPath) {
			continue
		}

		err := channel.read(access)
		if err != nil {
			if probeErr == nil {
				probeErr = &ProbeError{Channel: i, Err: err}
			}
			continue
		}
		return &channel, nil
	}

	if probeErr != nil {
		return nil, probeErr
	}
	return nil, ErrNoPwmCapability
}

func (c *PwmChannel) read(access FileAccess) (err error) {
	if c.Enable, err = access.ReadInt(c.EnablePath); err != nil {
		return err
	}
	if c.Raw, err = access.ReadInt(c.PwmPath); err != nil {
		return err
	}
	if c.MinRaw, err = access.ReadInt(c.MinPath); err != nil {
		return err
	}
	if c.MaxRaw, err = access.ReadInt(c.MaxPath); err != nil {
		return err
	}
	if c.MaxRaw <= c.MinRaw {
		return fmt.Errorf("invalid raw range [%d..%d]", c.MinRaw, c.MaxRaw)
	}
	return nil
}

// PercentToRaw scales a duty cycle percentage to the raw [min..max] range, rounding down
func PercentToRaw(percent int, minRaw int, maxRaw int) int {
	return minRaw + percent*(maxRaw-minRaw)/100
}

// RawToPercent converts a raw duty cycle back to percent, rounding to the nearest
// percent and clamping values outside of [min..max].
// For ranges of at least 200 raw steps PercentToRaw followed by RawToPercent returns the input.
func RawToPercent(raw int, minRaw int, maxRaw int) int {
	if maxRaw <= minRaw {
		return 0
	}
	if raw <= minRaw {
		return 0
	}
	if raw >= maxRaw {
		return 100
	}
	span := maxRaw - minRaw
	return ((raw-minRaw)*100 + span/2) / span
}

// EnableModeName describes a raw pwm_enable value
func EnableModeName(value int) string {
	switch value {
	case 0:
		return "full speed"
	case PwmEnableManual:
		return "manual"
	case PwmEnableAuto:
		return "auto"
	default:
		return fmt.Sprintf("unknown (%d)", value)
	}
}
