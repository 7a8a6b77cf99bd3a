package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pageforge/config"
	"pageforge/library"
	"pageforge/store"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
	db     store.Store
	lib    *library.Library
)

// noStore marks commands that run without opening the library.
const noStore = "no-store"

var RootCmd = &cobra.Command{
	Use:           "pageforge",
	Short:         "Compose HTML page collections into print documents",
	Long:          "Compose individually authored HTML pages into numbered, styled print documents",
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfiguration(configPath)
	if err != nil {
		return err
	}
	logger, err = cfg.Logging.Prepare()
	if err != nil {
		return fmt.Errorf("failed to prepare logger: %v", err)
	}
	if cmd.Annotations[noStore] != "" {
		return nil
	}
	db, err = store.Open(store.Options{Driver: cfg.Store.Driver, Path: cfg.Store.Path}, logger)
	if err != nil {
		return err
	}
	if err := store.Seed(cmd.Context(), db); err != nil {
		return fmt.Errorf("failed to seed library: %v", err)
	}
	lib = library.New(db, logger)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	var err error
	if db != nil {
		err = multierr.Append(err, db.Close())
		db, lib = nil, nil
	}
	if logger != nil {
		// stdout and stderr do not support sync on every platform
		_ = logger.Sync()
	}
	return err
}

// Execute runs the root command and closes the library even when the
// command failed.
func Execute() error {
	err := RootCmd.Execute()
	if db != nil {
		err = multierr.Append(err, teardown(RootCmd, nil))
	}
	return err
}
