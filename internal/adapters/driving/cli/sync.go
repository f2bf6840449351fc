package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/variantlabs/annosync/internal/core/ports/driving"
)

var (
	flagSyncPushOnly bool
	flagSyncPullOnly bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [link-id]",
	Short: "Synchronise linked tables with their projects",
	Long: `Runs one sync pass. If a link ID is provided, only that link is
synchronised. Otherwise, all links are synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&flagSyncPushOnly, "push-only", false, "only push new tasks")
	syncCmd.Flags().BoolVar(&flagSyncPullOnly, "pull-only", false, "only pull annotations")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncer == nil {
		return errors.New("sync service not configured")
	}
	if flagSyncPushOnly && flagSyncPullOnly {
		return errors.New("--push-only and --pull-only are mutually exclusive")
	}
	opts := driving.SyncOptions{PushOnly: flagSyncPushOnly, PullOnly: flagSyncPullOnly}

	if len(args) > 0 {
		res, err := syncer.Sync(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		printResult(cmd, *res)
		return nil
	}

	results, err := syncer.SyncAll(cmd.Context(), opts)
	for _, res := range results {
		printResult(cmd, res)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

func printResult(cmd *cobra.Command, res driving.SyncResult) {
	cmd.Printf("Project %q: created %d task(s), synced %d annotation(s) into %d row(s)\n",
		res.ProjectTitle, res.TasksCreated, res.AnnotationsSynced, res.RowsUpdated)
	if res.SkippedTasks > 0 {
		cmd.Printf("  skipped %d unrecognized task(s)\n", res.SkippedTasks)
	}
}
