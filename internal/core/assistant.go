// ABOUTME: Assistant dispatch for single-turn chat with tool calling
// ABOUTME: Maps provider tool calls to pending AssistantActions; never mutates state itself
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
)

const (
	// maxHistoryTurns is how many prior turns are sent with each request.
	maxHistoryTurns = 6
	// maxReentryDepth caps tool-driven re-invocation (search, full read).
	maxReentryDepth = 3
	// deleteSafetyCap refuses bulk glossary deletions above this size.
	deleteSafetyCap = 50
)

// Tool names declared to the provider.
const (
	toolManageGlossary  = "manage_glossary"
	toolSearchHistory   = "read_historical_content"
	toolReadFullContext = "read_full_editor_content"
	toolClearChat       = "clear_chat"
)

// AssistantRequest is one conversational turn.
type AssistantRequest struct {
	UserMessage string
	History     []models.ChatMessage
	Glossary    []models.GlossaryEntry
	EditorText  string
	// FullContext embeds the complete editor text instead of a truncated
	// sample. Set by the caller when re-entering after ReadFullContext.
	FullContext bool
	// HiddenContext carries search results on re-entry; never shown to
	// the user.
	HiddenContext string
	// Depth counts tool-driven re-entries. Zero on the first call.
	Depth int
	// Temperature is forwarded to the provider; zero means the default.
	Temperature float32
}

// Assistant dispatches single turns against a provider. No chunking.
type Assistant struct {
	provider llm.Provider
}

// NewAssistant wraps a provider adapter.
func NewAssistant(provider llm.Provider) *Assistant {
	return &Assistant{provider: provider}
}

// Dispatch sends one turn and maps the response to an AssistantAction.
// Mutating actions are proposals only; applying them is the caller's job
// after explicit confirmation.
func (a *Assistant) Dispatch(ctx context.Context, req AssistantRequest) (*models.AssistantAction, error) {
	if req.Depth > maxReentryDepth {
		return recursionLimitAction(), nil
	}
	result, err := a.provider.ChatTurn(ctx, a.buildChatRequest(req))
	if err != nil {
		return nil, err
	}
	if result.ToolCall == nil {
		return &models.AssistantAction{Kind: models.ActionPlainText, Message: result.Text}, nil
	}
	return a.interpretToolCall(result.ToolCall, req), nil
}

// DispatchStream is Dispatch with plain text forwarded incrementally. When
// a tool call arrives after streamed text, the tool's confirmation message
// is appended to the streamed text rather than replacing it.
func (a *Assistant) DispatchStream(ctx context.Context, req AssistantRequest, onDelta llm.StreamFunc) (*models.AssistantAction, error) {
	if req.Depth > maxReentryDepth {
		action := recursionLimitAction()
		if onDelta != nil {
			onDelta(action.Message)
		}
		return action, nil
	}
	result, err := a.provider.ChatTurnStream(ctx, a.buildChatRequest(req), onDelta)
	if err != nil {
		return nil, err
	}
	if result.ToolCall == nil {
		return &models.AssistantAction{Kind: models.ActionPlainText, Message: result.Text}, nil
	}

	action := a.interpretToolCall(result.ToolCall, req)
	if result.Text != "" {
		confirmation := action.Message
		action.Message = result.Text
		if confirmation != "" {
			action.Message += "\n\n" + confirmation
			if onDelta != nil {
				onDelta("\n\n" + confirmation)
			}
		}
	}
	return action, nil
}

func (a *Assistant) buildChatRequest(req AssistantRequest) llm.ChatRequest {
	system := assistantSystemInstruction(req.Glossary, req.EditorText, req.FullContext)
	if req.HiddenContext != "" {
		system += "\nRetrieved project context:\n" + req.HiddenContext + "\n"
	}

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	messages := make([]models.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: req.UserMessage})

	return llm.ChatRequest{
		System:      system,
		Messages:    messages,
		Tools:       assistantTools(),
		Temperature: req.Temperature,
	}
}

// interpretToolCall is a pure mapping from (tool name, arguments) to an
// AssistantAction. Malformed arguments degrade to a plain-text reply
// instead of failing the turn.
func (a *Assistant) interpretToolCall(call *llm.ToolCall, req AssistantRequest) *models.AssistantAction {
	switch call.Name {
	case toolManageGlossary:
		return interpretManageGlossary(call.Arguments, req.Glossary)

	case toolSearchHistory:
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil || strings.TrimSpace(args.Query) == "" {
			return malformedToolCallAction()
		}
		if req.Depth >= maxReentryDepth {
			return recursionLimitAction()
		}
		return &models.AssistantAction{
			Kind:    models.ActionSearchHistory,
			Message: fmt.Sprintf("Searching past translations for %q...", args.Query),
			Query:   strings.TrimSpace(args.Query),
		}

	case toolReadFullContext:
		if req.Depth >= maxReentryDepth {
			return recursionLimitAction()
		}
		return &models.AssistantAction{
			Kind:    models.ActionReadFullContext,
			Message: "Reading the complete editor content...",
		}

	case toolClearChat:
		return &models.AssistantAction{
			Kind:    models.ActionClearChat,
			Message: "Clear the conversation history?",
		}

	default:
		return malformedToolCallAction()
	}
}

// interpretManageGlossary validates ADD/DELETE payloads. ADD dedupes
// against the existing glossary; DELETE refuses above the safety cap.
func interpretManageGlossary(arguments string, existing []models.GlossaryEntry) *models.AssistantAction {
	var args struct {
		Action string                 `json:"action"`
		Items  []models.GlossaryEntry `json:"items"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return malformedToolCallAction()
	}

	items := models.SanitizeEntries(args.Items)

	switch strings.ToUpper(args.Action) {
	case "ADD":
		idx := NewGlossaryIndex(existing)
		fresh := items[:0]
		for _, item := range items {
			if !idx.Has(item.Original) {
				fresh = append(fresh, item)
			}
		}
		if len(fresh) == 0 {
			return &models.AssistantAction{
				Kind:    models.ActionPlainText,
				Message: "Those terms are already in the glossary; no changes needed.",
			}
		}
		return &models.AssistantAction{
			Kind:    models.ActionAddGlossary,
			Message: fmt.Sprintf("Add %d glossary entries? Confirm to apply.", len(fresh)),
			Entries: fresh,
		}

	case "DELETE":
		if len(items) > deleteSafetyCap {
			return &models.AssistantAction{
				Kind:    models.ActionPlainText,
				Message: fmt.Sprintf("That would delete %d entries at once; the limit is %d per request. Narrow the selection and try again.", len(items), deleteSafetyCap),
			}
		}
		if len(items) == 0 {
			return &models.AssistantAction{
				Kind:    models.ActionPlainText,
				Message: "No matching glossary entries to delete; no changes needed.",
			}
		}
		return &models.AssistantAction{
			Kind:    models.ActionDeleteGlossary,
			Message: fmt.Sprintf("Delete %d glossary entries? Confirm to apply.", len(items)),
			Entries: items,
		}

	default:
		return malformedToolCallAction()
	}
}

func malformedToolCallAction() *models.AssistantAction {
	return &models.AssistantAction{
		Kind:    models.ActionPlainText,
		Message: llm.UserMessage(llm.NewError(llm.KindToolCallMalformed, "invalid tool arguments")),
	}
}

func recursionLimitAction() *models.AssistantAction {
	return &models.AssistantAction{
		Kind:    models.ActionPlainText,
		Message: llm.UserMessage(llm.NewError(llm.KindRecursionLimit, "tool re-entry depth exceeded")),
	}
}

// assistantTools declares the callable tools sent with every turn.
func assistantTools() []llm.ToolDef {
	return []llm.ToolDef{
		{
			Name:        toolManageGlossary,
			Description: "Propose adding or deleting glossary entries. The user confirms before anything is applied.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"action": map[string]any{
						"type": "string",
						"enum": []string{"ADD", "DELETE"},
					},
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"original":   map[string]any{"type": "string"},
								"translated": map[string]any{"type": "string"},
							},
							"required": []string{"original"},
						},
					},
				},
				"required": []string{"action", "items"},
			},
		},
		{
			Name:        toolSearchHistory,
			Description: "Search previously translated content for a phrase or term.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        toolReadFullContext,
			Description: "Request the complete editor content instead of the truncated sample.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        toolClearChat,
			Description: "Ask to clear the current conversation history.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
