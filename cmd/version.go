package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/llehouerou/wavecast/cmd.Version=...".
var Version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			cmd.Println(Version)
			return
		}
		cmd.Printf("wavecast %s %s/%s %s\n", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
