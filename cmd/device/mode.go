package device

import (
	"fmt"

	"github.com/ocfox/ventora/internal/controller"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Get/Set the current pwm mode of a GPU fan",
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
			mode, err := fans.ParsePwmMode(args[0])
			if err != nil {
				return err
			}
			return controller.SetMode(actuator, mode)
		}

		enable := actuator.Channel().Enable
		switch enable {
		case fans.PwmEnableManual:
			fmt.Printf("Manual PWM control, gives ventora control (%d)", enable)
		case fans.PwmEnableAuto:
			fmt.Printf("Automatic control by the GPU firmware (%d)", enable)
		default:
			fmt.Printf("%s (%d)", fans.EnableModeName(enable), enable)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
