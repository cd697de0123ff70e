// ABOUTME: CLI commands to search and clear stored history
// ABOUTME: Clear is the only delete path for the append-only history store
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/translate-standalone/internal/storage/sqlite"
)

var (
	historyProject string
	historyLimit   int
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Search or clear stored translations and chat messages",
	}

	cmd.PersistentFlags().StringVar(&historyProject, "project", sqlite.DefaultProjectID, "Project whose history to use")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search history",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistorySearch,
	}
	search.Flags().IntVar(&historyLimit, "limit", 5, "Maximum results to return")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history for the project",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClear,
	}

	cmd.AddCommand(search, clear)
	return cmd
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	history := sqlite.NewHistoryStore(db)
	records, err := history.SearchHistory(args[0], historyLimit)
	if err != nil {
		return fmt.Errorf("searching history: %w", err)
	}

	if len(records) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No history found for query: %s\n", args[0])
		}
		return nil
	}

	if format == "json" {
		encoded, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tROLE\tCONTENT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatTime(r.Timestamp), r.Role, truncate(r.Content, 70))
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete all history for project %q?", historyProject)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Kept history.")
		return nil
	}

	history := sqlite.NewHistoryStore(db)
	if err := history.Clear(historyProject); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	}
	return nil
}
