package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitdesk/internal/config"
	"github.com/NicabarNimble/go-gitdesk/internal/publish"
)

func newFolderCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Show or change the selected working folder",
		Long: `Show or change the folder operations run in. The selection is stored in
the user config directory and shared with the server.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the selected folder",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				folders, err := config.DefaultFolderStore()
				if err != nil {
					return err
				}
				folder, err := folders.Load()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), folder)
				return nil
			},
		},
		&cobra.Command{
			Use:     "set <dir>",
			Short:   "Select a folder",
			Example: `  gitdesk folder set ~/src/project`,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setFolder(cmd, global, args[0])
			},
		},
	)

	return cmd
}

func setFolder(cmd *cobra.Command, global *globalOptions, dir string) error {
	cfg, err := global.settings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	svc, err := newService(cfg, publish.NewHub(logger), "", logger)
	if err != nil {
		return err
	}
	if err := svc.SetWorkDir(dir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", svc.WorkDir())
	return nil
}
