// ABOUTME: AssistantAction is the tagged result of one assistant dispatch turn
// ABOUTME: Pending mutations are proposals; the caller applies them after confirmation
package models

// ActionKind discriminates the AssistantAction union.
type ActionKind string

const (
	// ActionPlainText is a plain conversational reply with no pending effect.
	ActionPlainText ActionKind = "plain_text"
	// ActionAddGlossary proposes adding Entries to the project glossary.
	ActionAddGlossary ActionKind = "add_glossary"
	// ActionDeleteGlossary proposes removing Entries from the project glossary.
	ActionDeleteGlossary ActionKind = "delete_glossary"
	// ActionClearChat asks the caller to clear the conversation history.
	ActionClearChat ActionKind = "clear_chat"
	// ActionSearchHistory asks the caller to search persisted translations
	// for Query and re-invoke dispatch with the results as hidden context.
	ActionSearchHistory ActionKind = "search_history"
	// ActionReadFullContext asks the caller to re-invoke dispatch with the
	// complete, untruncated editor text.
	ActionReadFullContext ActionKind = "read_full_context"
)

// AssistantAction is what the dispatch engine hands back to the caller.
// Message is always set; Entries and Query are populated per kind.
type AssistantAction struct {
	Kind    ActionKind      `json:"kind"`
	Message string          `json:"message"`
	Entries []GlossaryEntry `json:"entries,omitempty"`
	Query   string          `json:"query,omitempty"`
}

// Pending reports whether the action requires caller confirmation before
// any state is mutated.
func (a *AssistantAction) Pending() bool {
	return a.Kind == ActionAddGlossary || a.Kind == ActionDeleteGlossary
}
