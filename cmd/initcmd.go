package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarbench/mentionbench/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default configuration file with the built-in thresholds,
trusted hosts, and column mappings, ready to edit.

Example:
  mentionbench init
  mentionbench init --config ./mentionbench.yaml`,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	err = config.InitConfig(getConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	path := getConfigFile()
	if path == "" {
		path = "$HOME/.mentionbench/config.yaml"
	}
	fmt.Printf("Created config file: %s\n", path)

	return err
}
