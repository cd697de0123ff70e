// ABOUTME: ProviderConfig identifies which LLM backend a request is dispatched to
// ABOUTME: Resolved once from settings per request and immutable afterwards
package models

import (
	"strings"
	"time"
)

// Known provider identifiers.
const (
	ProviderOpenAI  = "openai"
	ProviderGeneric = "generic"
)

// minAPIKeyLength is the plausibility floor for credentials. Anything
// shorter is treated as missing so we fail before touching the network.
const minAPIKeyLength = 8

// ProviderConfig selects a backend, model, and credential for one dispatch.
// Timeout bounds each HTTP request; zero means the adapter default.
type ProviderConfig struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	APIKey   string        `json:"-"`
	Endpoint string        `json:"endpoint,omitempty"`
	Timeout  time.Duration `json:"-"`
}

// HasUsableKey reports whether the API key passes the plausibility check.
func (c ProviderConfig) HasUsableKey() bool {
	return len(strings.TrimSpace(c.APIKey)) >= minAPIKeyLength
}
