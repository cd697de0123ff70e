// ABOUTME: Tests for the generic SSE provider against an httptest server
// ABOUTME: Covers frame parsing, malformed-line tolerance, errors, and cancellation

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harper/translate-standalone/internal/models"
)

func sseConfig(endpoint string) models.ProviderConfig {
	return models.ProviderConfig{
		Provider: models.ProviderGeneric,
		Model:    "test-model",
		APIKey:   "sk-test-key-123",
		Endpoint: endpoint,
	}
}

func writeSSE(w http.ResponseWriter, frames ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	flusher := w.(http.Flusher)
	for _, frame := range frames {
		fmt.Fprintf(w, "data: %s\n\n", frame)
		flusher.Flush()
	}
}

func deltaFrame(content string) string {
	return fmt.Sprintf(`{"choices":[{"delta":{"content":%q}}]}`, content)
}

func TestSSEProvider_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test-key-123" {
			t.Errorf("Authorization = %q", got)
		}
		var body wireRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if !body.Stream {
			t.Error("stream flag not set")
		}
		if body.Model != "test-model" {
			t.Errorf("model = %q", body.Model)
		}
		writeSSE(w, deltaFrame("Hello"), deltaFrame(" world"), "[DONE]")
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	var deltas []string
	text, err := provider.Stream(context.Background(), Request{Prompt: "hi"}, func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if text != "Hello world" {
		t.Errorf("text = %q", text)
	}
	if len(deltas) != 2 || deltas[0] != "Hello" {
		t.Errorf("deltas = %v", deltas)
	}
}

func TestSSEProvider_Stream_MalformedFramesSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeSSE(w,
			deltaFrame("first"),
			`{"choices":[{"delta"`,
			"not json at all",
			deltaFrame("second"),
			"[DONE]",
		)
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	text, err := provider.Stream(context.Background(), Request{Prompt: "hi"}, nil)
	if err != nil {
		t.Fatalf("malformed frames must not abort the stream: %v", err)
	}
	if text != "firstsecond" {
		t.Errorf("text = %q, want frames around the garbage kept", text)
	}
}

func TestSSEProvider_Stream_StopsAtDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeSSE(w, deltaFrame("kept"), "[DONE]", deltaFrame("dropped"))
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	text, err := provider.Stream(context.Background(), Request{Prompt: "hi"}, nil)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if text != "kept" {
		t.Errorf("text = %q, frames after the sentinel must be ignored", text)
	}
}

func TestSSEProvider_Stream_ToolCallAccumulated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeSSE(w,
			`{"choices":[{"delta":{"tool_calls":[{"function":{"name":"manage_glossary","arguments":"{\"action\":"}}]}}]}`,
			`{"choices":[{"delta":{"tool_calls":[{"function":{"arguments":"\"ADD\"}"}}]}}]}`,
			"[DONE]",
		)
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	result, err := provider.ChatTurnStream(context.Background(), ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "add it"}},
		Tools:    []ToolDef{{Name: "manage_glossary", Parameters: map[string]any{"type": "object"}}},
	}, nil)
	if err != nil {
		t.Fatalf("ChatTurnStream() error = %v", err)
	}
	if result.ToolCall == nil {
		t.Fatal("tool call not surfaced")
	}
	if result.ToolCall.Name != "manage_glossary" {
		t.Errorf("Name = %q", result.ToolCall.Name)
	}
	if result.ToolCall.Arguments != `{"action":"ADD"}` {
		t.Errorf("Arguments = %q, fragments not accumulated", result.ToolCall.Arguments)
	}
}

func TestSSEProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body wireRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if body.Stream {
			t.Error("blocking call must not set stream")
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != models.RoleSystem {
			t.Errorf("messages = %v, want system then user", body.Messages)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"translated text"}}]}`)
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	text, err := provider.Complete(context.Background(), Request{System: "translate", Prompt: "hello"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "translated text" {
		t.Errorf("text = %q", text)
	}
}

func TestSSEProvider_ChatTurn_ToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"","tool_calls":[{"function":{"name":"read_historical_content","arguments":"{\"query\":\"wyrm\"}"}}]}}]}`)
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	result, err := provider.ChatTurn(context.Background(), ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "look it up"}},
	})
	if err != nil {
		t.Fatalf("ChatTurn() error = %v", err)
	}
	if result.ToolCall == nil || result.ToolCall.Name != "read_historical_content" {
		t.Fatalf("ToolCall = %+v", result.ToolCall)
	}
}

func TestSSEProvider_ErrorStatusClassified(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusServiceUnavailable, KindServiceOverloaded},
		{http.StatusPaymentRequired, KindQuotaExceeded},
		{http.StatusInternalServerError, KindTransport},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream error", tt.status)
			}))
			defer server.Close()

			provider := NewSSEProvider(sseConfig(server.URL))

			_, err := provider.Complete(context.Background(), Request{Prompt: "hi"})
			if KindOf(err) != tt.want {
				t.Errorf("kind = %v, want %v", KindOf(err), tt.want)
			}

			_, err = provider.Stream(context.Background(), Request{Prompt: "hi"}, nil)
			if KindOf(err) != tt.want {
				t.Errorf("stream kind = %v, want %v", KindOf(err), tt.want)
			}
		})
	}
}

func TestSSEProvider_CancelledBeforeCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Complete(ctx, Request{Prompt: "hi"})
	if !IsAborted(err) {
		t.Errorf("expected abort, got %v", err)
	}
	if called {
		t.Error("request sent after cancellation")
	}
}

func TestSSEProvider_CancelledMidStream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeSSE(w, deltaFrame("first"))
		<-release
		writeSSE(w, deltaFrame("second"), "[DONE]")
	}))
	defer server.Close()
	defer close(release)

	provider := NewSSEProvider(sseConfig(server.URL))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := provider.Stream(ctx, Request{Prompt: "hi"}, func(d string) {
			if d == "first" {
				cancel()
			}
		})
		done <- err
	}()

	select {
	case err := <-done:
		if !IsAborted(err) {
			t.Errorf("expected abort, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
}

func TestSSEProvider_ToolsSerializedAsFunctions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		tools, _ := body["tools"].([]any)
		if len(tools) != 1 {
			t.Fatalf("tools = %v", body["tools"])
		}
		tool := tools[0].(map[string]any)
		if tool["type"] != "function" {
			t.Errorf("tool type = %v", tool["type"])
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	_, err := provider.ChatTurn(context.Background(), ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "x"}},
		Tools:    []ToolDef{{Name: "t", Description: "d", Parameters: map[string]any{"type": "object"}}},
	})
	if err != nil {
		t.Fatalf("ChatTurn() error = %v", err)
	}
}

func TestSSEProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	provider := NewSSEProvider(sseConfig(server.URL))

	_, err := provider.Complete(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if KindOf(err) != KindTransport {
		t.Errorf("kind = %v", KindOf(err))
	}
	if !strings.Contains(err.Error(), "no choices") {
		t.Errorf("err = %v", err)
	}
}

func TestNewSSEProvider_Timeout(t *testing.T) {
	cfg := sseConfig("https://example.com")
	cfg.Timeout = 30 * time.Second
	provider := NewSSEProvider(cfg)
	if got := provider.client.GetClient().Timeout; got != 30*time.Second {
		t.Errorf("Timeout = %v, want the configured value", got)
	}

	// Zero falls back to the default rather than disabling the timeout.
	provider = NewSSEProvider(sseConfig("https://example.com"))
	if got := provider.client.GetClient().Timeout; got != defaultRequestTimeout {
		t.Errorf("Timeout = %v, want %v", got, defaultRequestTimeout)
	}
}
