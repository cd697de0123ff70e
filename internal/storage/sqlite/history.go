// ABOUTME: Append-only chat and translation history for SQLite
// ABOUTME: Implements storage.HistoryStore; deletion only via explicit Clear
package sqlite

import (
	"database/sql"

	"github.com/harper/translate-standalone/internal/models"
)

// HistoryStore handles history persistence
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new HistoryStore
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Append stores one record keyed by its message id.
func (s *HistoryStore) Append(record *models.HistoryRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO history (id, project_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, record.ID, record.ProjectID, record.Role, record.Content, record.Timestamp)
	return err
}

// Recent returns the newest records for a project in chronological order.
func (s *HistoryStore) Recent(projectID string, limit int) ([]models.HistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, role, content, created_at
		FROM (
			SELECT id, project_id, role, content, created_at
			FROM history WHERE project_id = ?
			ORDER BY created_at DESC LIMIT ?
		) ORDER BY created_at ASC
	`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// SearchHistory finds records whose content contains the query substring.
func (s *HistoryStore) SearchHistory(query string, limit int) ([]models.HistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, role, content, created_at
		FROM history
		WHERE content LIKE '%' || ? || '%'
		ORDER BY created_at DESC LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Clear removes all history for a project. This is the only delete path.
func (s *HistoryStore) Clear(projectID string) error {
	_, err := s.db.Exec(`DELETE FROM history WHERE project_id = ?`, projectID)
	return err
}

func scanRecords(rows *sql.Rows) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	for rows.Next() {
		var r models.HistoryRecord
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Role, &r.Content, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
