package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmdArgs struct {
	ConfigFile  string
	Concurrency int
	LogFile     string
	LogLevel    string
}

var rootCmd = &cobra.Command{
	Use:   "ordertrack",
	Short: "ordertrack posts a batch of orders concurrently and tracks accepted responses",
	Long: `ordertrack posts a batch of orders concurrently and tracks accepted responses.
Every 200 response body is merged into a JSON array ledger file.`,
	Version:           "v0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: validateRootArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if rootCmdArgs.ConfigFile != "" {
			var err error
			if cfg, err = config.Load(rootCmdArgs.ConfigFile); err != nil {
				return err
			}
		}
		applyRootFlags(cmd, cfg)
		return runBatch(cmd.Context(), cfg)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdArgs.ConfigFile, "config", "", "YAML config file to load settings from")
	rootCmd.PersistentFlags().IntVarP(&rootCmdArgs.Concurrency, "concurrency", "c", 0, "Maximum requests in flight, 0 sends every order at once")
	rootCmd.PersistentFlags().StringVar(&rootCmdArgs.LogFile, "log_file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&rootCmdArgs.LogLevel, "log_level", "info", "Log level (debug, info, warn, error)")
}

func validateRootArgs(cmd *cobra.Command, args []string) error {
	if rootCmdArgs.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if rootCmdArgs.ConfigFile != "" && cmd.Name() == postCmd.Name() {
		return fmt.Errorf("cannot use the %s subcommand when the config flag is used", cmd.Name())
	}
	return nil
}

// applyRootFlags lets explicitly set persistent flags override cfg.
func applyRootFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency = rootCmdArgs.Concurrency
	}
	if flags.Changed("log_level") {
		cfg.Log.Level = rootCmdArgs.LogLevel
	}
	if flags.Changed("log_file") {
		cfg.Log.ToFile = true
		cfg.Log.FilePath = rootCmdArgs.LogFile
	}
}
