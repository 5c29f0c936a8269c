// Package cli wires the notifeed command tree: a long-running `run` verb
// plus management verbs for feeds, channels, notifications and settings.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"notifeed/internal/config"
	"notifeed/internal/storage"
)

var (
	cfgPath string
	dbPath  string
	debug   bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "notifeed",
	Short:         "Watch RSS/Atom feeds and push new posts to notification channels",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		if debug {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "show debug logging messages")

	rootCmd.AddCommand(runCmd, addCmd, listCmd, deleteCmd, setCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func openStore() (*storage.Store, error) {
	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}
	return store, nil
}
