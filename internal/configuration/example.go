package configuration

import (
	"bytes"

	"github.com/ocfox/ventora/internal/util"
	"github.com/pelletier/go-toml/v2"
)

// DefaultCurve is used for every detected card by WriteExampleConfig
var DefaultCurve = []CurvePoint{
	{Temp: 40, Duty: 20},
	{Temp: 60, Duty: 40},
	{Temp: 80, Duty: 80},
	{Temp: 95, Duty: 100},
}

type exampleStatistics struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type exampleApi struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type exampleDevice struct {
	BusId    string   `toml:"busId"`
	Mode     string   `toml:"mode" comment:"auto | ladder | trapezoidal"`
	TempMode string   `toml:"tempMode" comment:"avg | junction | edge"`
	Points   [][2]int `toml:"points" comment:"[temperature in °C, duty cycle in %]"`
}

type exampleConfig struct {
	DbPath                 string            `toml:"dbPath"`
	ControlTickRate        string            `toml:"controlTickRate"`
	RestoreOnExit          bool              `toml:"restoreOnExit"`
	MaxActuationFailures   int               `toml:"maxActuationFailures"`
	ActuationFailureWindow int               `toml:"actuationFailureWindow"`
	Statistics             exampleStatistics `toml:"statistics"`
	Api                    exampleApi        `toml:"api"`
	Devices                []exampleDevice   `toml:"devices"`
}

// RenderExampleConfig creates a TOML configuration with a trapezoidal
// DefaultCurve entry for each of the given bus ids
func RenderExampleConfig(busIds []string) (string, error) {
	config := exampleConfig{
		DbPath:                 "/etc/ventora/ventora.db",
		ControlTickRate:        "2s",
		RestoreOnExit:          true,
		MaxActuationFailures:   5,
		ActuationFailureWindow: 10,
		Statistics:             exampleStatistics{Enabled: false, Port: 9000},
		Api:                    exampleApi{Enabled: false, Host: "localhost", Port: 10001},
	}

	for _, busId := range busIds {
		device := exampleDevice{
			BusId:    busId,
			Mode:     CurvePolicyTrapezoidal.String(),
			TempMode: TempModeJunction.String(),
		}
		for _, point := range DefaultCurve {
			device.Points = append(device.Points, [2]int{point.Temp, point.Duty})
		}
		config.Devices = append(config.Devices, device)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetArraysMultiline(false)
	if err := encoder.Encode(config); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteExampleConfig renders an example configuration and atomically writes it to path
func WriteExampleConfig(path string, busIds []string) error {
	content, err := RenderExampleConfig(busIds)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, content)
}
