package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/ocfox/ventora/cmd/global"
	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/curves"
	"github.com/ocfox/ventora/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

const (
	curvePlotFrom = 20
	curvePlotTo   = 110
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured fan curve(s) to console",
	Run: func(cmd *cobra.Command, args []string) {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		for idx, config := range configuration.CurrentConfig.Devices {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			ui.Printfln("%s (%s, %s)", config.BusId, config.Mode, config.TempMode)

			if config.Mode == configuration.CurvePolicyAuto {
				ui.Printfln("Fan is controlled by the firmware")
				continue
			}

			curve, err := curves.NewCurve(config.Points)
			if err != nil {
				ui.Error("%v", err)
				continue
			}

			// print table
			var rows [][]string
			for _, point := range curve.Points() {
				rows = append(rows, []string{strconv.Itoa(point.Temp) + "°C", strconv.Itoa(point.Duty) + "%"})
			}
			tab := table.Table{
				Headers: []string{"Temp", "Duty"},
				Rows:    rows,
			}
			var buf bytes.Buffer
			tableErr := tab.WriteTable(&buf, global.TableConfig())
			if tableErr != nil {
				ui.Fatal("Error printing table: %v", tableErr)
			}
			ui.Printfln("%s", buf.String())

			// print graph
			values, err := curve.Sample(config.Mode, curvePlotFrom, curvePlotTo)
			if err != nil {
				ui.Error("%v", err)
				continue
			}
			caption := fmt.Sprintf("Duty %% / Temp %d..%d°C", curvePlotFrom, curvePlotTo)
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln("%s", graph)
		}
	},
}

func init() {
	rootCmd.AddCommand(curveCmd)
}
