// ABOUTME: Provider interface normalizing all LLM backends to one shape
// ABOUTME: Adapters never retry; retry policy belongs to the orchestrators
package llm

import (
	"context"
	"fmt"

	"github.com/harper/translate-standalone/internal/models"
)

// DefaultTemperature is used when a request leaves Temperature at zero.
const DefaultTemperature float32 = 0.7

// Request is a single-prompt completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
}

// ChatRequest is a multi-turn request that may declare callable tools.
type ChatRequest struct {
	System      string
	Messages    []models.ChatMessage
	Tools       []ToolDef
	Temperature float32
}

// ToolDef declares one callable tool to the provider. Parameters is a JSON
// schema object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a provider-declared invocation of one of the request's tools.
// Arguments is the raw JSON argument string, unparsed.
type ToolCall struct {
	Name      string
	Arguments string
}

// ChatResult is either plain text, a tool call, or both (text streamed
// before the tool call was declared).
type ChatResult struct {
	Text     string
	ToolCall *ToolCall
}

// StreamFunc receives incremental text fragments in arrival order.
type StreamFunc func(delta string)

// Provider is one backend transport. Implementations check ctx before each
// network call and at each streaming event, returning a KindAborted error
// once cancellation is observed. Implementations never retry.
type Provider interface {
	// Complete sends the prompt once and returns the full response text.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream sends the prompt and forwards fragments to onDelta as they
	// arrive, returning the accumulated full text.
	Stream(ctx context.Context, req Request, onDelta StreamFunc) (string, error)
	// ChatTurn sends history plus tools and returns text or a tool call.
	ChatTurn(ctx context.Context, req ChatRequest) (*ChatResult, error)
	// ChatTurnStream is ChatTurn with plain text forwarded incrementally.
	ChatTurnStream(ctx context.Context, req ChatRequest, onDelta StreamFunc) (*ChatResult, error)
}

// New selects the adapter for the configured provider. It fails fast with
// KindMissingCredential before any adapter is constructed.
func New(cfg models.ProviderConfig) (Provider, error) {
	if !cfg.HasUsableKey() {
		return nil, NewError(KindMissingCredential, fmt.Sprintf("no usable API key for provider %q", cfg.Provider))
	}
	switch cfg.Provider {
	case models.ProviderOpenAI, "":
		return NewOpenAIProvider(cfg), nil
	case models.ProviderGeneric:
		return NewSSEProvider(cfg), nil
	default:
		return nil, NewError(KindTransport, fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}
