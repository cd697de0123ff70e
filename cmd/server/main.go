// ABOUTME: Main entry point for the translation MCP server with stdio transport
// ABOUTME: Initializes config, stores, and MCP server with all tools
package main

import (
	"log"

	"github.com/harper/translate-standalone/internal/config"
	"github.com/harper/translate-standalone/internal/mcp"
	"github.com/harper/translate-standalone/internal/storage/sqlite"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.APIKey == "" {
		log.Println("Warning: no API key set - translation tools will fail fast until one is configured")
	}

	db, err := sqlite.Open(sqlite.DefaultDBPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	server := mcpserver.NewMCPServer(
		"Novel Translation Engine",
		"0.1.0",
	)

	mcp.RegisterTools(server, cfg, sqlite.NewProjectStore(db), sqlite.NewHistoryStore(db), sqlite.NewSettingsStore(db))

	log.Println("Translation MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
