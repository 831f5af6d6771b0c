package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitdesk/internal/config"
	"github.com/NicabarNimble/go-gitdesk/internal/git"
	"github.com/NicabarNimble/go-gitdesk/internal/logging"
	"github.com/NicabarNimble/go-gitdesk/internal/publish"
)

// globalOptions holds the flags shared by every subcommand
type globalOptions struct {
	configFile string
	logLevel   string
	gitPath    string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "gitdesk",
		Short: "Git operations backend for desktop clients",
		Long: `A backend that runs git commands on behalf of a desktop UI.
Each operation runs at most once per destination at a time, can be cancelled,
and reports its parsed result to the destination as an event.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Settings file (default is <user config dir>/gitdesk/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.gitPath, "git", "", "git executable to run")

	// Add subcommands
	cmd.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newFolderCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// settings loads the settings file and applies flag overrides
func (o *globalOptions) settings() (*config.Settings, error) {
	path := o.configFile
	if path == "" {
		var err error
		if path, err = config.DefaultSettingsPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.gitPath != "" {
		cfg.Git.Path = o.gitPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Settings) zerolog.Logger {
	lc := logging.DefaultConfig()
	if level, ok := logging.ParseLevel(cfg.Log.Level); ok {
		lc.Level = level
	}
	if cfg.Log.Format == logging.FormatJSON {
		lc.Format = logging.FormatJSON
	}
	lc.NoColor = cfg.Log.NoColor
	logging.ApplyEnv(&lc)
	return logging.New(config.AppName, lc)
}

// newService builds a git service that remembers its folder in the
// default folder store. workDir, when set, overrides the stored folder.
func newService(cfg *config.Settings, pub publish.Publisher, workDir string, logger zerolog.Logger) (*git.Service, error) {
	folders, err := config.DefaultFolderStore()
	if err != nil {
		return nil, err
	}
	return git.New(git.Options{
		Program:   cfg.Git.Path,
		WorkDir:   workDir,
		Env:       []string{"GIT_TERMINAL_PROMPT=0"},
		Publisher: pub,
		Folders:   folders,
		Logger:    logger,
	})
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
