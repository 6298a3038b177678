package configuration

import (
	"errors"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/spf13/viper"
)

const (
	ConfigName = "ventora"
	ConfigType = "toml"
)

type Configuration struct {
	// SysfsRoot is prepended to all kernel paths, "/" on a real system
	SysfsRoot string `json:"sysfsRoot"`
	DbPath    string `json:"dbPath"`

	ControlTickRate time.Duration `json:"controlTickRate"`
	// RestoreOnExit switches every controlled device back to its original pwm_enable mode on shutdown
	RestoreOnExit bool `json:"restoreOnExit"`

	// MaxActuationFailures is the number of failed writes within the last
	// ActuationFailureWindow ticks after which a device controller gives up
	MaxActuationFailures   int `json:"maxActuationFailures"`
	ActuationFailureWindow int `json:"actuationFailureWindow"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`

	Devices []DeviceConfig `json:"devices"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName(ConfigName)
	viper.SetConfigType(ConfigType)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/ventora/")
	}

	viper.SetEnvPrefix(ConfigName)
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues(viper.GetViper())
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("sysfsRoot", "/")
	v.SetDefault("dbPath", "/etc/ventora/ventora.db")
	v.SetDefault("controlTickRate", 2*time.Second)
	v.SetDefault("restoreOnExit", true)
	v.SetDefault("maxActuationFailures", 5)
	v.SetDefault("actuationFailureWindow", 10)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 10001)

	v.SetDefault("devices", []DeviceConfig{})
}

// DetectAndReadConfigFile locates the config file and reads it,
// returning the path of the file in use
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	return viper.ConfigFileUsed()
}

// ReadConfigFileIfPresent behaves like DetectAndReadConfigFile, but falls back
// to the default values if no config file could be found.
func ReadConfigFileIfPresent() string {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the already read configuration into CurrentConfig
func LoadConfig() {
	config, err := decodeConfig(viper.GetViper())
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
	if path := viper.ConfigFileUsed(); len(path) > 0 {
		legacy, err := readLegacyDevicesFromFile(path)
		if err != nil {
			ui.Fatal("unable to read legacy device tables, %v", err)
		}
		config.Devices = mergeLegacyDevices(config.Devices, legacy)
	}
	CurrentConfig = config
}

func decodeConfig(v *viper.Viper) (config Configuration, err error) {
	err = v.Unmarshal(&config, viper.DecodeHook(decodeHooks()))
	if err != nil {
		return config, err
	}
	for i := range config.Devices {
		config.Devices[i].sortPoints()
	}
	return config, nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		curvePolicyHookFunc(),
		tempModeHookFunc(),
		curvePointHookFunc(),
	)
}
