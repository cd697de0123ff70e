// ABOUTME: MCP tool handler implementations for the translation server
// ABOUTME: Bridges MCP requests to the translation engine and assistant runner
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/harper/translate-standalone/internal/config"
	"github.com/harper/translate-standalone/internal/core"
	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	cfg      *config.Config
	projects *sqlite.ProjectStore
	history  *sqlite.HistoryStore
	settings *sqlite.SettingsStore
}

// provider resolves the backend from settings plus environment overrides.
func (h *Handlers) provider() (llm.Provider, error) {
	return llm.New(h.cfg.ResolveProvider(h.settings))
}

// TranslateText handles the translate_text tool
func (h *Handlers) TranslateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	projectID := request.GetString("project_id", sqlite.DefaultProjectID)
	mode := core.Mode(request.GetString("mode", string(core.ModeStandard)))

	project, err := h.projects.GetProject(projectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading project: %v", err)), nil
	}
	glossary, err := h.projects.ListGlossary(project.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading glossary: %v", err)), nil
	}

	targetLanguage := request.GetString("target_language", project.TargetLanguage)

	provider, err := h.provider()
	if err != nil {
		return mcp.NewToolResultError(llm.UserMessage(err)), nil
	}
	engine := core.NewEngine(provider, core.EngineConfig{
		MaxAttempts:    h.cfg.MaxAttempts,
		RetryDelay:     h.cfg.RetryDelay,
		ChunkPause:     h.cfg.ChunkPause,
		MaxChunkLength: h.cfg.MaxChunkLength,
		Temperature:    float32(h.cfg.Temperature),
	})

	result, err := engine.Translate(ctx, core.TranslateRequest{
		Text:           text,
		TargetLanguage: targetLanguage,
		Instruction:    project.Instruction,
		Glossary:       glossary,
		Mode:           mode,
	})
	if err != nil {
		return mcp.NewToolResultError(llm.UserMessage(err)), nil
	}

	if record, err := models.NewHistoryRecord(project.ID, models.RoleAssistant, result.Text); err == nil {
		if err := h.history.Append(record); err != nil {
			log.Printf("Warning: failed to store translation history: %v", err)
		}
	}

	return mcp.NewToolResultText(result.Text), nil
}

// AssistantChat handles the assistant_chat tool
func (h *Handlers) AssistantChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}
	projectID := request.GetString("project_id", sqlite.DefaultProjectID)
	editorText := request.GetString("editor_text", "")

	project, err := h.projects.GetProject(projectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading project: %v", err)), nil
	}
	glossary, err := h.projects.ListGlossary(project.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading glossary: %v", err)), nil
	}

	provider, err := h.provider()
	if err != nil {
		return mcp.NewToolResultError(llm.UserMessage(err)), nil
	}
	runner := core.NewRunner(core.NewAssistant(provider), h.history, nil)

	action, err := runner.Run(ctx, core.AssistantRequest{
		UserMessage: message,
		Glossary:    glossary,
		EditorText:  editorText,
		Temperature: float32(h.cfg.Temperature),
	})
	if err != nil {
		return mcp.NewToolResultError(llm.UserMessage(err)), nil
	}

	responseJSON, err := json.MarshalIndent(action, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchHistory handles the search_history tool
func (h *Handlers) SearchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	records, err := h.history.SearchHistory(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	responseJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
