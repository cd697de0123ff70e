// ABOUTME: Project and glossary persistence for SQLite
// ABOUTME: Implements storage.ProjectStore
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/translate-standalone/internal/models"
)

// DefaultProjectID is used when the CLI runs without an explicit project.
const DefaultProjectID = "default"

// ProjectStore handles project and glossary persistence
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a new ProjectStore
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// GetProject retrieves a project, creating the default project on first use.
func (s *ProjectStore) GetProject(id string) (*models.Project, error) {
	if id == "" {
		id = DefaultProjectID
	}

	var p models.Project
	err := s.db.QueryRow(`
		SELECT id, name, target_language, instruction, created_at
		FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.TargetLanguage, &p.Instruction, &p.CreatedAt)

	if err == sql.ErrNoRows {
		if id != DefaultProjectID {
			return nil, fmt.Errorf("project %q not found", id)
		}
		p = models.Project{
			ID:             DefaultProjectID,
			Name:           "Default Project",
			TargetLanguage: "English",
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.SaveProject(&p); err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProject inserts or updates a project.
func (s *ProjectStore) SaveProject(p *models.Project) error {
	if p.ID == "" {
		p.ID = "proj_" + uuid.New().String()[:8]
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO projects (id, name, target_language, instruction, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_language = excluded.target_language,
			instruction = excluded.instruction
	`, p.ID, p.Name, p.TargetLanguage, p.Instruction, p.CreatedAt)
	return err
}

// ListGlossary returns all glossary entries for a project.
func (s *ProjectStore) ListGlossary(projectID string) ([]models.GlossaryEntry, error) {
	rows, err := s.db.Query(`
		SELECT original, translated, source_language
		FROM glossary_entries
		WHERE project_id = ?
		ORDER BY original COLLATE NOCASE
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.GlossaryEntry
	for rows.Next() {
		var e models.GlossaryEntry
		if err := rows.Scan(&e.Original, &e.Translated, &e.SourceLanguage); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddGlossary inserts entries, skipping terms already present. Returns the
// number actually added.
func (s *ProjectStore) AddGlossary(projectID string, entries []models.GlossaryEntry) (int, error) {
	added := 0
	for _, e := range models.SanitizeEntries(entries) {
		result, err := s.db.Exec(`
			INSERT INTO glossary_entries (project_id, original, translated, source_language)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(project_id, original) DO NOTHING
		`, projectID, e.Original, e.Translated, e.SourceLanguage)
		if err != nil {
			return added, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return added, err
		}
		added += int(n)
	}
	return added, nil
}

// DeleteGlossary removes entries by original term (case-insensitive).
// Returns the number actually removed.
func (s *ProjectStore) DeleteGlossary(projectID string, originals []string) (int, error) {
	deleted := 0
	for _, original := range originals {
		original = strings.TrimSpace(original)
		if original == "" {
			continue
		}
		result, err := s.db.Exec(`
			DELETE FROM glossary_entries
			WHERE project_id = ? AND original = ? COLLATE NOCASE
		`, projectID, original)
		if err != nil {
			return deleted, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return deleted, err
		}
		deleted += int(n)
	}
	return deleted, nil
}
