// ABOUTME: Runner drives bounded tool-call re-entry around Assistant.Dispatch
// ABOUTME: Executes search/full-read effects and re-invokes with hidden context
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
)

// searchResultLimit bounds how many history records are injected as hidden
// context on a search re-entry.
const searchResultLimit = 10

// HistorySearcher is the slice of the history store the runner needs.
type HistorySearcher interface {
	SearchHistory(query string, limit int) ([]models.HistoryRecord, error)
}

// EditorReader supplies the complete editor text on demand.
type EditorReader interface {
	FullText() (string, error)
}

// Runner resolves SearchHistory and ReadFullContext actions by re-invoking
// the assistant with expanded context, passing the depth counter down so
// the cap in Dispatch terminates the loop.
type Runner struct {
	assistant *Assistant
	history   HistorySearcher
	editor    EditorReader
}

// NewRunner wires an assistant to its context collaborators. history and
// editor may be nil; the corresponding re-entries then degrade to plain
// replies.
func NewRunner(assistant *Assistant, history HistorySearcher, editor EditorReader) *Runner {
	return &Runner{assistant: assistant, history: history, editor: editor}
}

// Run dispatches one user turn, following context-expansion actions until a
// terminal action is produced.
func (r *Runner) Run(ctx context.Context, req AssistantRequest) (*models.AssistantAction, error) {
	return r.run(ctx, req, nil)
}

// RunStream is Run with incremental plain-text output.
func (r *Runner) RunStream(ctx context.Context, req AssistantRequest, onDelta llm.StreamFunc) (*models.AssistantAction, error) {
	return r.run(ctx, req, onDelta)
}

func (r *Runner) run(ctx context.Context, req AssistantRequest, onDelta llm.StreamFunc) (*models.AssistantAction, error) {
	for {
		var action *models.AssistantAction
		var err error
		if onDelta != nil {
			action, err = r.assistant.DispatchStream(ctx, req, onDelta)
		} else {
			action, err = r.assistant.Dispatch(ctx, req)
		}
		if err != nil {
			return nil, err
		}

		switch action.Kind {
		case models.ActionSearchHistory:
			hidden, err := r.searchContext(action.Query)
			if err != nil {
				return nil, err
			}
			req.HiddenContext = hidden
			req.Depth++

		case models.ActionReadFullContext:
			if r.editor == nil {
				return &models.AssistantAction{
					Kind:    models.ActionPlainText,
					Message: "The full editor content is not available right now.",
				}, nil
			}
			full, err := r.editor.FullText()
			if err != nil {
				return nil, fmt.Errorf("reading editor content: %w", err)
			}
			req.EditorText = full
			req.FullContext = true
			req.Depth++

		default:
			return action, nil
		}
	}
}

// searchContext formats search results as hidden context lines.
func (r *Runner) searchContext(query string) (string, error) {
	if r.history == nil {
		return "No historical content is available.", nil
	}
	records, err := r.history.SearchHistory(query, searchResultLimit)
	if err != nil {
		return "", fmt.Errorf("searching history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("No stored translations matched %q.", query), nil
	}
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rec.Content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
