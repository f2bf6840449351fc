package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns PROJECT_ID",
	Short: "Show the fields a project pushes and pulls",
	Long: `Prints the remote fields a project accepts on push, parsed from its
label config, and the fields it produces on pull.`,
	Args: cobra.ExactArgs(1),
	RunE: runColumns,
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}

func runColumns(cmd *cobra.Command, args []string) error {
	if syncer == nil {
		return errors.New("sync service not configured")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid project ID %q", args[0])
	}

	pushCols, err := syncer.PushColumns(cmd.Context(), id)
	if err != nil {
		return err
	}
	pullCols, err := syncer.PullColumns(cmd.Context(), id)
	if err != nil {
		return err
	}

	cmd.Println("Push fields:")
	for _, name := range sortedKeys(pushCols) {
		cmd.Printf("  %s  %s\n", name, pushCols[name])
	}
	cmd.Println("Pull fields:")
	for _, name := range sortedKeys(pullCols) {
		cmd.Printf("  %s  %s\n", name, pullCols[name])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
