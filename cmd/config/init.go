package config

import (
	"fmt"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/sysfs"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/ocfox/ventora/internal/util"
	"github.com/spf13/cobra"
)

var (
	sysfsRoot string
	output    string
	force     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Creates an example configuration for all detected GPUs",
	Long:  `Writes a configuration file with a default trapezoidal curve for every AMD GPU found, or prints it if no output is given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := device.FindCards(sysfs.NewPaths(sysfsRoot))
		if err != nil {
			return fmt.Errorf("unable to detect GPUs: %w", err)
		}
		var busIds []string
		for _, card := range cards {
			busIds = append(busIds, card.BusId)
		}
		if len(busIds) <= 0 {
			ui.Warning("No AMD GPU found, the example will not contain any device")
		}

		if len(output) <= 0 {
			content, err := configuration.RenderExampleConfig(busIds)
			if err != nil {
				return err
			}
			ui.Printfln("%s", content)
			return nil
		}

		if util.FileExists(output) && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite it", output)
		}
		err = configuration.WriteExampleConfig(output, busIds)
		if err == nil {
			ui.Success("Configuration written to %s", output)
		}
		return err
	},
}

func init() {
	initCmd.Flags().StringVarP(&sysfsRoot, "root", "r", sysfs.DefaultRoot, "Root of the sysfs tree to scan")
	initCmd.Flags().StringVarP(&output, "output", "o", "", "File to write the configuration to")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	Command.AddCommand(initCmd)
}
