package config

import (
	"errors"
	"os"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// note: config file path parameter comes from the root command (-c)
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		var errs []error
		if err := configuration.Validate(); err != nil {
			errs = append(errs, err)
		}
		for _, device := range configuration.CurrentConfig.Devices {
			if err := configuration.ValidateDevice(device); err != nil {
				errs = append(errs, err)
			}
		}

		if len(errs) > 0 {
			ui.Error("Validation failed: %v", errors.Join(errs...))
			os.Exit(1)
		}

		ui.Success("Config looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
