package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/sequoia/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "get, set, or list configuration values",
	GroupID: groupSetup,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "print the value of a configuration key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "set a configuration key and save config.yaml",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "list all known configuration keys",
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	value, err := cfg.Get(args[0])
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	for _, key := range config.ListKeys() {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}
