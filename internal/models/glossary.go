// ABOUTME: GlossaryEntry maps a source-text term to its fixed translation
// ABOUTME: Entries are read-only to the dispatch engine; mutation goes through the project store
package models

import (
	"errors"
	"strings"
)

// GlossaryEntry is a single term mapping supplied by the project store.
type GlossaryEntry struct {
	Original       string `json:"original"`
	Translated     string `json:"translated"`
	SourceLanguage string `json:"source_language,omitempty"`
}

// NewGlossaryEntry creates a trimmed, validated entry.
func NewGlossaryEntry(original, translated, sourceLanguage string) (GlossaryEntry, error) {
	original = strings.TrimSpace(original)
	if original == "" {
		return GlossaryEntry{}, errors.New("glossary original term cannot be empty")
	}
	return GlossaryEntry{
		Original:       original,
		Translated:     strings.TrimSpace(translated),
		SourceLanguage: strings.TrimSpace(sourceLanguage),
	}, nil
}

// SanitizeEntries trims every entry and drops entries with an empty original
// term. Order is preserved.
func SanitizeEntries(entries []GlossaryEntry) []GlossaryEntry {
	result := make([]GlossaryEntry, 0, len(entries))
	for _, e := range entries {
		clean, err := NewGlossaryEntry(e.Original, e.Translated, e.SourceLanguage)
		if err != nil {
			continue
		}
		result = append(result, clean)
	}
	return result
}
