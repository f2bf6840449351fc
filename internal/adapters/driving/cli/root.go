// Package cli implements the annosync command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/variantlabs/annosync/internal/adapters/driven/config/file"
	"github.com/variantlabs/annosync/internal/adapters/driven/labelstudio"
	"github.com/variantlabs/annosync/internal/adapters/driven/storage/sqlite"
	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driving"
	"github.com/variantlabs/annosync/internal/core/services"
	"github.com/variantlabs/annosync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices and consumed by the subcommands.
// Tests replace syncer directly.
var (
	syncer driving.Syncer
	cfg    *domain.Config
	store  *sqlite.Store
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "annosync",
	Short: "Sync local tables with annotation projects",
	Long: `annosync links tables in a local SQLite database to projects on a
Label Studio server, pushing unsynced rows as new annotation tasks and
pulling completed annotations back into the table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close()
			store = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.annosync/config.toml)")
}

// initServices loads the configuration and wires the adapters into the sync
// service.
func initServices() error {
	if syncer != nil {
		return nil
	}

	configStore, err := configfile.NewConfigStore(flagConfig)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	cfg, err = configStore.Load()
	if err != nil {
		return err
	}
	logger.SetVerbose(flagVerbose || cfg.Verbose)

	store, err = sqlite.NewStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	remote := labelstudio.NewClient(cfg.BaseURL, cfg.APIToken)
	syncer = services.NewSyncService(store.LinkStore(), store.Catalog(), remote)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
