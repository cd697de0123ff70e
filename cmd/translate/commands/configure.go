// ABOUTME: CLI commands to read and write persisted settings
// ABOUTME: Stored values back provider resolution; environment variables win
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/translate-standalone/internal/storage"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write persisted settings",
		Long: `Read and write settings stored in the local database.

Stored settings back the provider selection when the corresponding
environment variable is unset. Well-known keys:

  ` + storage.KeyActiveProvider + `      which provider to dispatch to
  ` + storage.APIKeyFor("<provider>") + `    credential for a provider
  ` + storage.ModelFor("<provider>") + `      model for a provider
  ` + storage.EndpointFor("<provider>") + `   endpoint URL for a provider

Examples:
  translate config set active_provider generic
  translate config set api_key.generic sk-my-local-key
  translate config get model.openai`,
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a stored setting",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}

	cmd.AddCommand(get, set)
	return cmd
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	value, err := sqlite.NewSettingsStore(db).Get(args[0])
	if err != nil {
		return fmt.Errorf("reading setting: %w", err)
	}
	if value == "" {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not set.\n", args[0])
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.NewSettingsStore(db).Set(args[0], args[1]); err != nil {
		return fmt.Errorf("storing setting: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
	}
	return nil
}
