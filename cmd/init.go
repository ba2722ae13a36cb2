package cmd

import (
	"fmt"
	"os"

	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "ordertrack.yaml"

var initArgs struct {
	Force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the --config path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := rootCmdArgs.ConfigFile
		if path == "" {
			path = defaultConfigFile
		}
		if err := writeDefaultConfig(path, initArgs.Force); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initArgs.Force, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config %s already exists, use --force to overwrite", path)
	}
	return config.Write(path, config.Default())
}
