package device

import (
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/sysfs"
	"github.com/spf13/cobra"
)

var busId string

var Command = &cobra.Command{
	Use:              "device",
	Short:            "GPU related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&busId,
		"id", "i",
		"",
		"PCI bus id of the GPU, f.ex. 0000:03:00.0",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getDevice(id string) (*device.Device, error) {
	configuration.ReadConfigFileIfPresent()
	configuration.LoadConfig()

	return device.FindCard(sysfs.NewPaths(configuration.CurrentConfig.SysfsRoot), id)
}

func getActuator(dev *device.Device) (*fans.Actuator, error) {
	channel, err := fans.ProbeChannel(dev.HwmonPath, fans.SysfsAccess{})
	if err != nil {
		return nil, err
	}
	return fans.NewActuator(dev.BusId, *channel, fans.SysfsAccess{}, fans.RootPrivilege{}), nil
}
