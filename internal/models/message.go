// ABOUTME: ChatMessage and HistoryRecord types for conversational dispatch
// ABOUTME: HistoryRecord is the append-only unit stored by the history store
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chat roles as sent over the wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryRecord is one persisted chat or translation message.
type HistoryRecord struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
}

// NewHistoryRecord creates a record with a generated id and UTC timestamp.
func NewHistoryRecord(projectID, role, content string) (*HistoryRecord, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("history record content cannot be empty")
	}
	return &HistoryRecord{
		ID:        generateRecordID(),
		ProjectID: projectID,
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   content,
	}, nil
}

// generateRecordID generates a unique record identifier
func generateRecordID() string {
	return fmt.Sprintf("msg_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
