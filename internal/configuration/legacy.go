package configuration

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/mitchellh/mapstructure"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/ocfox/ventora/internal/util"
	"github.com/spf13/viper"
)

// legacyKeyDelimiter must not occur in a PCI bus id, which contains both ':' and '.'
const legacyKeyDelimiter = "::"

var legacyBusIdPattern = regexp.MustCompile(`^[0-9a-f]{4}:[0-9a-f]{2}:[0-9a-f]{2}\.[0-7]$`)

// legacyDeviceConfig is a top-level table named after the bus id of the card:
//
//	["0000:03:00.0"]
//	mode = "trapezoidal"
//	temp_mode = "junction"
//	point = [[40, 20], [80, 100]]
type legacyDeviceConfig struct {
	Mode     CurvePolicy  `mapstructure:"mode"`
	TempMode TempMode     `mapstructure:"temp_mode"`
	Points   []CurvePoint `mapstructure:"point"`
}

// readLegacyDevicesFromFile reads the device tables of the legacy layout from the config file at path
func readLegacyDevicesFromFile(path string) ([]DeviceConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return decodeLegacyDevices(file)
}

// decodeLegacyDevices returns one DeviceConfig per top-level table whose name is a bus id.
// All other keys are ignored.
func decodeLegacyDevices(in io.Reader) ([]DeviceConfig, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(legacyKeyDelimiter))
	v.SetConfigType(ConfigType)
	if err := v.ReadConfig(in); err != nil {
		return nil, err
	}

	tables := map[string]map[string]interface{}{}
	for key, value := range v.AllSettings() {
		table, ok := value.(map[string]interface{})
		if !ok || !legacyBusIdPattern.MatchString(key) {
			continue
		}
		tables[key] = table
	}

	var result []DeviceConfig
	for _, busId := range util.SortedKeys(tables) {
		var legacy legacyDeviceConfig
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: decodeHooks(),
			Result:     &legacy,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(tables[busId]); err != nil {
			return nil, fmt.Errorf("device %s: %w", busId, err)
		}
		config := DeviceConfig{
			BusId:    busId,
			Mode:     legacy.Mode,
			TempMode: legacy.TempMode,
			Points:   legacy.Points,
		}
		config.sortPoints()
		result = append(result, config)
	}
	return result, nil
}

// mergeLegacyDevices appends legacy entries to devices.
// An entry in the [[devices]] list wins over a legacy table for the same bus id.
func mergeLegacyDevices(devices []DeviceConfig, legacy []DeviceConfig) []DeviceConfig {
	known := map[string]bool{}
	for _, device := range devices {
		known[device.BusId] = true
	}
	for _, device := range legacy {
		if known[device.BusId] {
			ui.Warning("Device %s is configured twice, ignoring the legacy [\"%s\"] table", device.BusId, device.BusId)
			continue
		}
		ui.Warning("Device %s uses the legacy [\"%s\"] table, consider moving it to [[devices]]", device.BusId, device.BusId)
		known[device.BusId] = true
		devices = append(devices, device)
	}
	return devices
}
