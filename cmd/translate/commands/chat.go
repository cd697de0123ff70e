// ABOUTME: CLI command for one assistant turn with pending-action confirmation
// ABOUTME: Applies glossary mutations only after the user confirms
package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/harper/translate-standalone/internal/core"
	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
	"github.com/harper/translate-standalone/internal/storage"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
)

var (
	chatProject    string
	chatEditorFile string
	chatYes        bool
)

// fileEditor reads the complete editor text from a file on demand.
type fileEditor struct {
	path string
}

func (f fileEditor) FullText() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the translation assistant",
		Long: `Send one message to the translation assistant.

The assistant can propose glossary changes, search past translations, and
read the editor file for context. Glossary changes are never applied
without confirmation.

Examples:
  translate chat "add 'wyrm' to the glossary as 'ancient dragon'"
  translate chat --editor-file chapter1.txt "how did we translate this name before?"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatProject, "project", sqlite.DefaultProjectID, "Project context")
	cmd.Flags().StringVar(&chatEditorFile, "editor-file", "", "File providing editor content for context")
	cmd.Flags().BoolVar(&chatYes, "yes", false, "Apply pending actions without prompting")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	projects := sqlite.NewProjectStore(db)
	history := sqlite.NewHistoryStore(db)

	project, err := projects.GetProject(chatProject)
	if err != nil {
		return err
	}
	glossary, err := projects.ListGlossary(project.ID)
	if err != nil {
		return fmt.Errorf("loading glossary: %w", err)
	}

	provider, err := llm.New(cfg.ResolveProvider(sqlite.NewSettingsStore(db)))
	if err != nil {
		return fmt.Errorf("%s", llm.UserMessage(err))
	}

	var editor core.EditorReader
	editorText := ""
	if chatEditorFile != "" {
		editor = fileEditor{path: chatEditorFile}
		// The truncated sample comes from the same file up front.
		if data, err := os.ReadFile(chatEditorFile); err == nil {
			editorText = string(data)
		}
	}
	runner := core.NewRunner(core.NewAssistant(provider), history, editor)

	recent, err := history.Recent(project.ID, 12)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	turns := make([]models.ChatMessage, 0, len(recent))
	for _, r := range recent {
		turns = append(turns, models.ChatMessage{Role: r.Role, Content: r.Content})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var onDelta llm.StreamFunc
	if !quiet {
		onDelta = func(delta string) {
			fmt.Fprint(cmd.OutOrStdout(), delta)
		}
	}

	message := args[0]
	action, err := runner.RunStream(ctx, core.AssistantRequest{
		UserMessage: message,
		History:     turns,
		Glossary:    glossary,
		EditorText:  editorText,
		Temperature: float32(cfg.Temperature),
	}, onDelta)
	if err != nil {
		if llm.IsAborted(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), "\nCancelled.")
			return nil
		}
		return fmt.Errorf("%s", llm.UserMessage(err))
	}
	if onDelta != nil {
		fmt.Fprintln(cmd.OutOrStdout())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), action.Message)
	}

	if err := appendChat(history, project.ID, message, action.Message); err != nil && verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to store history: %v\n", err)
	}

	switch {
	case action.Pending():
		if !chatYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Apply this change?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Discarded.")
			return nil
		}
		applied, err := storage.ApplyAction(projects, project.ID, action)
		if err != nil {
			return fmt.Errorf("applying glossary change: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d glossary change(s).\n", applied)
		}

	case action.Kind == models.ActionClearChat:
		if !chatYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Clear all chat history for this project?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Kept history.")
			return nil
		}
		if err := history.Clear(project.ID); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		}
	}

	return nil
}

func appendChat(history *sqlite.HistoryStore, projectID, userMessage, reply string) error {
	userRecord, err := models.NewHistoryRecord(projectID, models.RoleUser, userMessage)
	if err != nil {
		return err
	}
	if err := history.Append(userRecord); err != nil {
		return err
	}
	if reply == "" {
		return nil
	}
	replyRecord, err := models.NewHistoryRecord(projectID, models.RoleAssistant, reply)
	if err != nil {
		return err
	}
	return history.Append(replyRecord)
}
