// ABOUTME: SQLite schema for projects, glossary, history, and settings
// ABOUTME: All tables created idempotently at open time
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Translation projects
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    target_language TEXT NOT NULL DEFAULT 'English',
    instruction TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Glossary entries, unique per project and lowercased term
CREATE TABLE IF NOT EXISTS glossary_entries (
    project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    original TEXT NOT NULL,
    translated TEXT NOT NULL DEFAULT '',
    source_language TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (project_id, original COLLATE NOCASE)
);

-- Chat and translation history, append-only
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_project ON history(project_id, created_at);

-- Key-value settings (active provider, API keys, selected models)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
