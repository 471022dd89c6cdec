// Package cmd implements the wavecast command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.Flags().StringSliceP("track", "t", nil, "Queue a catalog track by id (repeatable)")
	rootCmd.Flags().StringP("query", "Q", "", "Queue catalog tracks matching a search query")
	rootCmd.Flags().String("artist", "", "Restrict --query results to an artist id")
	rootCmd.Flags().String("genre", "", "Restrict --query results to a genre")
	rootCmd.Flags().IntP("limit", "l", 50, "Maximum number of tracks queued from --query")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Read an extra config file after the default ones")
	rootCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics at this address (overrides telemetry.metrics_addr)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of the XDG state dir")
}

// rootCmd starts the player.
var rootCmd = &cobra.Command{
	Use:   "wavecast",
	Short: "Terminal music player with ad-supported free tier",
	Long: "wavecast plays a queue of tracks from a catalog. Free-tier listeners hear\n" +
		"a pre-roll before each new track and a mid-roll every few minutes of play.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := runOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), opts)
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
