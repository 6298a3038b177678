package configuration

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// CurvePolicy selects how a device's curve is turned into a duty cycle
type CurvePolicy int

const (
	// CurvePolicyAuto hands fan control back to the GPU firmware
	CurvePolicyAuto CurvePolicy = iota
	// CurvePolicyLadder uses the duty cycle of the highest point at or below the temperature
	CurvePolicyLadder
	// CurvePolicyTrapezoidal interpolates linearly between neighbouring points
	CurvePolicyTrapezoidal
)

func ParseCurvePolicy(value string) CurvePolicy {
	switch value {
	case "auto":
		return CurvePolicyAuto
	case "ladder":
		return CurvePolicyLadder
	case "trapezoidal":
		return CurvePolicyTrapezoidal
	default:
		return CurvePolicyAuto
	}
}

func (p CurvePolicy) String() string {
	switch p {
	case CurvePolicyLadder:
		return "ladder"
	case CurvePolicyTrapezoidal:
		return "trapezoidal"
	default:
		return "auto"
	}
}

func (p CurvePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// TempMode selects which temperature sensors drive the curve
type TempMode int

const (
	TempModeAverage TempMode = iota
	TempModeJunction
	TempModeEdge
)

func ParseTempMode(value string) TempMode {
	switch value {
	case "avg":
		return TempModeAverage
	case "junction":
		return TempModeJunction
	case "edge":
		return TempModeEdge
	default:
		return TempModeAverage
	}
}

func (m TempMode) String() string {
	switch m {
	case TempModeJunction:
		return "junction"
	case TempModeEdge:
		return "edge"
	default:
		return "avg"
	}
}

func (m TempMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type CurvePoint struct {
	// Temp in degree celsius
	Temp int `json:"temp"`
	// Duty cycle in percent [0..100]
	Duty int `json:"duty"`
}

type DeviceConfig struct {
	// BusId is the PCI address of the card, e.g. "0000:03:00.0"
	BusId    string       `json:"busId"`
	Mode     CurvePolicy  `json:"mode"`
	TempMode TempMode     `json:"tempMode"`
	Points   []CurvePoint `json:"points"`
}

func (c *DeviceConfig) sortPoints() {
	slices.SortStableFunc(c.Points, func(a, b CurvePoint) int {
		return cmp.Compare(a.Temp, b.Temp)
	})
}

// FindDeviceConfig returns the configuration entry for the given bus id
func FindDeviceConfig(busId string) (DeviceConfig, bool) {
	for _, config := range CurrentConfig.Devices {
		if config.BusId == busId {
			return config, true
		}
	}
	return DeviceConfig{}, false
}
