package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ocfox/ventora/cmd/global"
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/device"
	"github.com/ocfox/ventora/internal/fans"
	"github.com/ocfox/ventora/internal/sensors"
	"github.com/ocfox/ventora/internal/sysfs"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all AMD GPUs and prints their fan and temperature sensors`,
	Run: func(cmd *cobra.Command, args []string) {
		configuration.ReadConfigFileIfPresent()
		configuration.LoadConfig()

		cards, err := device.FindCards(sysfs.NewPaths(configuration.CurrentConfig.SysfsRoot))
		if err != nil {
			ui.Fatal("Error detecting devices: %v", err)
		}
		if len(cards) <= 0 {
			ui.Warning("No AMD GPU found")
			return
		}

		tableConfig := global.TableConfig()

		for _, card := range cards {
			name, err := card.ProductName()
			if err != nil {
				name = "Unknown AMD GPU"
			}
			ui.Printfln("> %s (%s)", name, card.Card)

			pwmText, modeText, dutyText := "N/A", "N/A", "N/A"
			if len(card.HwmonPath) > 0 {
				channel, err := fans.ProbeChannel(card.HwmonPath, fans.SysfsAccess{})
				if err == nil {
					pwmText = fmt.Sprintf("pwm%d", channel.Index)
					modeText = fans.EnableModeName(channel.Enable)
					dutyText = fmt.Sprintf("%d%%", fans.RawToPercent(channel.Raw, channel.MinRaw, channel.MaxRaw))
				}
			}

			deviceTable := table.Table{
				Headers: []string{"Device ", "Bus Id", "PWM", "Mode", "Duty"},
				Rows: [][]string{
					{"", card.BusId, pwmText, modeText, dutyText},
				},
			}

			var sensorRows [][]string
			if len(card.HwmonPath) > 0 {
				for _, sample := range sensors.ReadTemperatures(card.HwmonPath) {
					sensorRows = append(sensorRows, []string{
						"", sample.Sensor, strconv.Itoa(sample.Celsius) + "°C",
					})
				}
			}
			sensorTable := table.Table{
				Headers: []string{"Sensors", "Label", "Value"},
				Rows:    sensorRows,
			}

			tables := []table.Table{deviceTable, sensorTable}

			for idx, table := range tables {
				if table.Rows == nil {
					continue
				}
				var buf bytes.Buffer
				tableErr := table.WriteTable(&buf, tableConfig)
				if tableErr != nil {
					ui.Fatal("Error printing table: %v", tableErr)
				}
				tableString := buf.String()
				if idx < (len(tables) - 1) {
					ui.Printf("%s", tableString)
				} else {
					ui.Printfln("%s", tableString)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
