// ABOUTME: MCP tool definitions and registration for the translation server
// ABOUTME: Exposes translate_text, assistant_chat, and search_history over stdio
package mcp

import (
	"github.com/harper/translate-standalone/internal/config"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, cfg *config.Config, projects *sqlite.ProjectStore, history *sqlite.HistoryStore, settings *sqlite.SettingsStore) *Handlers {
	handlers := &Handlers{
		cfg:      cfg,
		projects: projects,
		history:  history,
		settings: settings,
	}

	// 1. translate_text - Translate a document through the chunked engine
	server.AddTool(mcp.Tool{
		Name:        "translate_text",
		Description: "Translate text into the project's target language using the chunked translation engine with glossary constraints.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Source text to translate",
				},
				"target_language": map[string]interface{}{
					"type":        "string",
					"description": "Target language (defaults to the project setting)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Translation mode: standard or high_quality (two-pass)",
					"default":     "standard",
				},
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "Project whose glossary and instruction apply (default project if omitted)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.TranslateText)

	// 2. assistant_chat - One conversational turn with tool-driven actions
	server.AddTool(mcp.Tool{
		Name:        "assistant_chat",
		Description: "Send one message to the translation assistant. Glossary mutations come back as pending actions requiring confirmation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "User message",
				},
				"editor_text": map[string]interface{}{
					"type":        "string",
					"description": "Optional current editor content for context",
				},
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "Project context (default project if omitted)",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.AssistantChat)

	// 3. search_history - Search stored translation/chat history
	server.AddTool(mcp.Tool{
		Name:        "search_history",
		Description: "Search previously stored translations and chat messages.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchHistory)

	return handlers
}
