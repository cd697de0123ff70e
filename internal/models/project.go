// ABOUTME: Project groups a glossary, translation instruction, and target language
// ABOUTME: Owned by the project store; read-only to the dispatch engine
package models

import "time"

// Project is one translation project.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TargetLanguage string    `json:"target_language"`
	Instruction    string    `json:"instruction,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
