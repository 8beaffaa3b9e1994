package commands

import (
	"context"
	"fmt"
	"os"

	"labcompass/lib/telemetry"

	"github.com/spf13/cobra"
)

var configPath *string
var debug *bool

var rootCmd = &cobra.Command{
	Use:   "labcompass",
	Short: "labcompass reads the lab assignment report and tracks how it changes.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *debug {
			telemetry.InitSlog(true)
		}
	},
	SilenceUsage: true,
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file, <name>.local.json5 overrides it.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Log debug reports.")
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
