package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitdesk/internal/config"
)

type configInitOptions struct {
	force bool
}

func newConfigCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	initOpts := &configInitOptions{}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values",
		Example: `  gitdesk config init
  gitdesk config init --config ./gitdesk.toml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, global, initOpts)
		},
	}
	initCmd.Flags().BoolVar(&initOpts.force, "force", false, "Overwrite an existing settings file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.settings()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func initConfig(cmd *cobra.Command, global *globalOptions, opts *configInitOptions) error {
	path := global.configFile
	if path == "" {
		var err error
		if path, err = config.DefaultSettingsPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("settings file %s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveSettings(config.DefaultSettings(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
