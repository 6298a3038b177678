package cmd

import (
	"github.com/ocfox/ventora/internal/ui"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ventora",
	Long:  `All software has versions. This is ventora's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
