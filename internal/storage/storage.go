// ABOUTME: Collaborator interfaces consumed by the dispatch engine and CLI
// ABOUTME: The engine reads through these; mutations go through ApplyAction after confirmation
package storage

import "github.com/harper/translate-standalone/internal/models"

// ProjectStore supplies glossary, instruction, and target language.
type ProjectStore interface {
	GetProject(id string) (*models.Project, error)
	SaveProject(p *models.Project) error
	ListGlossary(projectID string) ([]models.GlossaryEntry, error)
	AddGlossary(projectID string, entries []models.GlossaryEntry) (int, error)
	DeleteGlossary(projectID string, originals []string) (int, error)
}

// HistoryStore is an append-only record sink. Deletion happens only via the
// explicit Clear operation.
type HistoryStore interface {
	Append(record *models.HistoryRecord) error
	Recent(projectID string, limit int) ([]models.HistoryRecord, error)
	SearchHistory(query string, limit int) ([]models.HistoryRecord, error)
	Clear(projectID string) error
}

// SettingsStore persists provider selection and credentials.
type SettingsStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// KeyActiveProvider names the setting holding the selected provider.
const KeyActiveProvider = "active_provider"

// APIKeyFor returns the settings key holding a provider's credential.
func APIKeyFor(provider string) string {
	return "api_key." + provider
}

// ModelFor returns the settings key holding a provider's selected model.
func ModelFor(provider string) string {
	return "model." + provider
}

// EndpointFor returns the settings key holding a provider's endpoint URL.
func EndpointFor(provider string) string {
	return "endpoint." + provider
}

// ApplyAction executes a confirmed pending glossary mutation. It is the
// caller-owned step the dispatch engine never invokes itself.
func ApplyAction(store ProjectStore, projectID string, action *models.AssistantAction) (int, error) {
	switch action.Kind {
	case models.ActionAddGlossary:
		return store.AddGlossary(projectID, action.Entries)
	case models.ActionDeleteGlossary:
		originals := make([]string, 0, len(action.Entries))
		for _, e := range action.Entries {
			originals = append(originals, e.Original)
		}
		return store.DeleteGlossary(projectID, originals)
	default:
		return 0, nil
	}
}
