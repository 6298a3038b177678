package device

import (
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/persistence"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Hand the fan back to the firmware and forget all data associated with a GPU",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := getDevice(busId)
		if err != nil {
			return err
		}
		actuator, err := getActuator(dev)
		if err != nil {
			return err
		}

		dbPath := configuration.CurrentConfig.DbPath
		ui.Info("Using persistence at: %s", dbPath)

		p := persistence.NewPersistence(dbPath)
		if err := p.Init(); err != nil {
			return err
		}
		saved, err := p.LoadDeviceState(dev.BusId)
		if err == nil {
			actuator.SetOriginalEnable(saved.OriginalPwmEnable)
		} else {
			actuator.SetOriginalEnable(fans.PwmEnableAuto)
		}

		err = actuator.RestoreEnable()
		if err != nil {
			return err
		}
		err = p.DeleteDeviceState(dev.BusId)

		if err == nil {
			ui.Success("Done!")
		}

		return err
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
