// ABOUTME: CLI command to translate a document through the chunked engine
// ABOUTME: Streams incremental output and records the result in history
package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/harper/translate-standalone/internal/core"
	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
)

var (
	translateTarget  string
	translateMode    string
	translateProject string
	translateOutput  string
)

// NewTranslateCmd creates the translate command
func NewTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [file]",
		Short: "Translate a document",
		Long: `Translate a document (or stdin) into the target language.

Long text is split into chunks at paragraph boundaries; each chunk carries
glossary constraints and the tail of the previous chunk's source text for
continuity. Output streams to stdout as it arrives. Ctrl-C cancels
immediately without retrying.

Examples:
  translate text chapter1.txt
  cat chapter1.txt | translate text --mode high_quality
  translate text chapter1.txt --target Japanese -o chapter1_ja.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTranslate,
	}

	cmd.Flags().StringVar(&translateTarget, "target", "", "Target language (defaults to the project setting)")
	cmd.Flags().StringVar(&translateMode, "mode", string(core.ModeStandard), "Translation mode: standard or high_quality")
	cmd.Flags().StringVar(&translateProject, "project", sqlite.DefaultProjectID, "Project whose glossary applies")
	cmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Write the final translation to a file")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("nothing to translate")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	projects := sqlite.NewProjectStore(db)
	project, err := projects.GetProject(translateProject)
	if err != nil {
		return err
	}
	glossary, err := projects.ListGlossary(project.ID)
	if err != nil {
		return fmt.Errorf("loading glossary: %w", err)
	}

	target := translateTarget
	if target == "" {
		target = project.TargetLanguage
	}

	provider, err := llm.New(cfg.ResolveProvider(sqlite.NewSettingsStore(db)))
	if err != nil {
		return fmt.Errorf("%s", llm.UserMessage(err))
	}
	engine := core.NewEngine(provider, core.EngineConfig{
		MaxAttempts:    cfg.MaxAttempts,
		RetryDelay:     cfg.RetryDelay,
		ChunkPause:     cfg.ChunkPause,
		MaxChunkLength: cfg.MaxChunkLength,
		Temperature:    float32(cfg.Temperature),
	})

	// Ctrl-C cancels the whole pipeline; output already printed stays.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var onOutput llm.StreamFunc
	if !quiet && translateOutput == "" {
		onOutput = func(delta string) {
			fmt.Fprint(cmd.OutOrStdout(), delta)
		}
	}

	result, err := engine.Translate(ctx, core.TranslateRequest{
		Text:           text,
		TargetLanguage: target,
		Instruction:    project.Instruction,
		Glossary:       glossary,
		Mode:           core.Mode(translateMode),
		OnOutput:       onOutput,
	})
	if err != nil {
		if llm.IsAborted(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), "\nCancelled.")
			return nil
		}
		return fmt.Errorf("%s", llm.UserMessage(err))
	}
	if onOutput != nil {
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if translateOutput != "" {
		if err := os.WriteFile(translateOutput, []byte(result.Text+"\n"), 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote translation to %s\n", translateOutput)
		}
	}

	history := sqlite.NewHistoryStore(db)
	if record, err := models.NewHistoryRecord(project.ID, models.RoleAssistant, result.Text); err == nil {
		if err := history.Append(record); err != nil && verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to store history: %v\n", err)
		}
	}

	return nil
}
