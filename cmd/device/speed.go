package device

import (
	"fmt"
	"strconv"

	"github.com/ocfox/ventora/internal/controller"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Get/Set the current duty cycle of a GPU fan in percent ([0..100])",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		dev, err := getDevice(busId)
		if err != nil {
			return err
		}
		actuator, err := getActuator(dev)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			percent, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return controller.Apply(actuator, percent)
		}

		fmt.Printf("%d", actuator.GetPercent())
		return nil
	},
}

func init() {
	Command.AddCommand(speedCmd)
}
