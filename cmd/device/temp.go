package device

import (
	"fmt"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/controller"
	"github.com/ocfox/ventora/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tempMode string

var tempCmd = &cobra.Command{
	Use:   "temp",
	Short: "Get the current temperature of a GPU",
	Long:  `Prints the aggregated temperature (avg, junction or edge) in °C`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		dev, err := getDevice(busId)
		if err != nil {
			return err
		}

		mode := configuration.ParseTempMode(tempMode)
		if len(tempMode) <= 0 {
			if config, ok := configuration.FindDeviceConfig(dev.BusId); ok {
				mode = config.TempMode
			}
		}

		temp, ok := controller.ReadTemperature(dev, mode)
		if !ok {
			return fmt.Errorf("%w: %s", sensors.ErrSensorAbsent, mode)
		}
		fmt.Printf("%d", temp)
		return nil
	},
}

func init() {
	tempCmd.Flags().StringVarP(&tempMode, "mode", "m", "", "Temperature mode: avg, junction or edge (default is the configured one)")
	Command.AddCommand(tempCmd)
}
