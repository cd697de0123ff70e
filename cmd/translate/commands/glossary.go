// ABOUTME: CLI commands to list, add, and delete glossary entries
// ABOUTME: Direct store access; the assistant proposes, these verbs apply
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/translate-standalone/internal/models"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
)

var glossaryProject string

// NewGlossaryCmd creates the glossary command group
func NewGlossaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage the project glossary",
	}

	cmd.PersistentFlags().StringVar(&glossaryProject, "project", sqlite.DefaultProjectID, "Project whose glossary to manage")

	list := &cobra.Command{
		Use:   "list",
		Short: "List glossary entries",
		Args:  cobra.NoArgs,
		RunE:  runGlossaryList,
	}

	add := &cobra.Command{
		Use:   "add <original> <translated>",
		Short: "Add a glossary entry",
		Args:  cobra.ExactArgs(2),
		RunE:  runGlossaryAdd,
	}

	del := &cobra.Command{
		Use:   "delete <original>",
		Short: "Delete a glossary entry",
		Args:  cobra.ExactArgs(1),
		RunE:  runGlossaryDelete,
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func runGlossaryList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	projects := sqlite.NewProjectStore(db)
	project, err := projects.GetProject(glossaryProject)
	if err != nil {
		return err
	}
	entries, err := projects.ListGlossary(project.ID)
	if err != nil {
		return fmt.Errorf("loading glossary: %w", err)
	}

	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Glossary is empty.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORIGINAL\tTRANSLATED\tLANGUAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", truncate(e.Original, 40), truncate(e.Translated, 40), e.SourceLanguage)
	}
	return w.Flush()
}

func runGlossaryAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	projects := sqlite.NewProjectStore(db)
	project, err := projects.GetProject(glossaryProject)
	if err != nil {
		return err
	}

	entry, err := models.NewGlossaryEntry(args[0], args[1], "")
	if err != nil {
		return err
	}
	added, err := projects.AddGlossary(project.ID, []models.GlossaryEntry{entry})
	if err != nil {
		return fmt.Errorf("adding glossary entry: %w", err)
	}
	if !quiet {
		if added == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%q is already in the glossary.\n", entry.Original)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q = %q\n", entry.Original, entry.Translated)
		}
	}
	return nil
}

func runGlossaryDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	projects := sqlite.NewProjectStore(db)
	project, err := projects.GetProject(glossaryProject)
	if err != nil {
		return err
	}

	deleted, err := projects.DeleteGlossary(project.ID, []string{args[0]})
	if err != nil {
		return fmt.Errorf("deleting glossary entry: %w", err)
	}
	if !quiet {
		if deleted == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No glossary entry found for %q.\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", args[0])
		}
	}
	return nil
}
