// ABOUTME: Tests for the bounded tool-call re-entry loop
// ABOUTME: Verifies search and full-read resolution plus guaranteed termination

package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
)

// scriptedChat returns one ChatResult per call, in order.
type scriptedChat struct {
	results  []*llm.ChatResult
	requests []llm.ChatRequest
}

func (s *scriptedChat) Complete(ctx context.Context, req llm.Request) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedChat) Stream(ctx context.Context, req llm.Request, onDelta llm.StreamFunc) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedChat) next(req llm.ChatRequest) *llm.ChatResult {
	s.requests = append(s.requests, req)
	if len(s.requests) > len(s.results) {
		return s.results[len(s.results)-1]
	}
	return s.results[len(s.requests)-1]
}

func (s *scriptedChat) ChatTurn(ctx context.Context, req llm.ChatRequest) (*llm.ChatResult, error) {
	return s.next(req), nil
}

func (s *scriptedChat) ChatTurnStream(ctx context.Context, req llm.ChatRequest, onDelta llm.StreamFunc) (*llm.ChatResult, error) {
	result := s.next(req)
	if onDelta != nil && result.Text != "" && result.ToolCall == nil {
		onDelta(result.Text)
	}
	return result, nil
}

type fakeHistory struct {
	records []models.HistoryRecord
	queries []string
	err     error
}

func (f *fakeHistory) SearchHistory(query string, limit int) ([]models.HistoryRecord, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type fakeEditor struct {
	text  string
	calls int
}

func (f *fakeEditor) FullText() (string, error) {
	f.calls++
	return f.text, nil
}

func TestRunner_SearchReentry(t *testing.T) {
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("read_historical_content", `{"query":"elder council"}`),
		{Text: "It was rendered as Elder Council."},
	}}
	history := &fakeHistory{records: []models.HistoryRecord{
		{Content: "the Elder Council convened"},
	}}
	runner := NewRunner(NewAssistant(chat), history, nil)

	action, err := runner.Run(context.Background(), AssistantRequest{UserMessage: "how did we translate it?"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if action.Kind != models.ActionPlainText {
		t.Fatalf("Kind = %v, want terminal plain text", action.Kind)
	}
	if len(history.queries) != 1 || history.queries[0] != "elder council" {
		t.Errorf("queries = %v", history.queries)
	}
	// The second turn carries the search results as hidden context.
	if !strings.Contains(chat.requests[1].System, "the Elder Council convened") {
		t.Errorf("re-entry missing hidden context:\n%s", chat.requests[1].System)
	}
	if strings.Contains(chat.requests[0].System, "Retrieved project context") {
		t.Error("first turn must carry no hidden context")
	}
}

func TestRunner_SearchNoMatches(t *testing.T) {
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("read_historical_content", `{"query":"unknown term"}`),
		{Text: "I could not find it."},
	}}
	runner := NewRunner(NewAssistant(chat), &fakeHistory{}, nil)

	action, err := runner.Run(context.Background(), AssistantRequest{UserMessage: "x"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if action.Kind != models.ActionPlainText {
		t.Errorf("Kind = %v", action.Kind)
	}
	if !strings.Contains(chat.requests[1].System, "No stored translations matched") {
		t.Errorf("empty result not surfaced as hidden context:\n%s", chat.requests[1].System)
	}
}

func TestRunner_FullContextReentry(t *testing.T) {
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("read_full_editor_content", `{}`),
		{Text: "The chapter ends on a cliffhanger."},
	}}
	editor := &fakeEditor{text: strings.Repeat("full chapter text. ", 300)}
	runner := NewRunner(NewAssistant(chat), nil, editor)

	action, err := runner.Run(context.Background(), AssistantRequest{
		UserMessage: "summarize the chapter",
		EditorText:  "truncated sample",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if action.Kind != models.ActionPlainText {
		t.Fatalf("Kind = %v", action.Kind)
	}
	if editor.calls != 1 {
		t.Errorf("FullText called %d times, want 1", editor.calls)
	}
	if !strings.Contains(chat.requests[1].System, "Complete editor content") {
		t.Errorf("re-entry did not switch to full context:\n%s", chat.requests[1].System[:200])
	}
}

func TestRunner_FullContextWithoutEditor(t *testing.T) {
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("read_full_editor_content", `{}`),
	}}
	runner := NewRunner(NewAssistant(chat), nil, nil)

	action, err := runner.Run(context.Background(), AssistantRequest{UserMessage: "x"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if action.Kind != models.ActionPlainText {
		t.Errorf("Kind = %v, want plain-text degradation", action.Kind)
	}
	if len(chat.requests) != 1 {
		t.Errorf("provider called %d times, want 1", len(chat.requests))
	}
}

func TestRunner_TerminatesAtDepthCap(t *testing.T) {
	// The provider asks to search on every turn. The depth counter must end
	// the loop with a plain-text warning instead of spinning forever.
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("read_historical_content", `{"query":"again"}`),
	}}
	runner := NewRunner(NewAssistant(chat), &fakeHistory{}, nil)

	action, err := runner.Run(context.Background(), AssistantRequest{UserMessage: "x"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if action.Kind != models.ActionPlainText {
		t.Fatalf("Kind = %v, want terminal plain text", action.Kind)
	}
	if len(chat.requests) > 4 {
		t.Errorf("provider called %d times, re-entry not bounded", len(chat.requests))
	}
}

func TestRunner_PendingActionReturnedUnresolved(t *testing.T) {
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("manage_glossary", `{"action":"ADD","items":[{"original":"wyrm","translated":"dragon"}]}`),
	}}
	runner := NewRunner(NewAssistant(chat), &fakeHistory{}, nil)

	action, err := runner.Run(context.Background(), AssistantRequest{UserMessage: "add wyrm"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if action.Kind != models.ActionAddGlossary {
		t.Fatalf("Kind = %v, want the pending add returned to the caller", action.Kind)
	}
	if len(chat.requests) != 1 {
		t.Errorf("pending action must not trigger re-entry: %d calls", len(chat.requests))
	}
}

func TestRunStream_DeltasForwarded(t *testing.T) {
	chat := &scriptedChat{results: []*llm.ChatResult{
		toolResult("read_historical_content", `{"query":"q"}`),
		{Text: "found it"},
	}}
	runner := NewRunner(NewAssistant(chat), &fakeHistory{}, nil)

	var streamed strings.Builder
	action, err := runner.RunStream(context.Background(), AssistantRequest{UserMessage: "x"}, func(d string) {
		streamed.WriteString(d)
	})
	if err != nil {
		t.Fatalf("RunStream() error = %v", err)
	}
	if action.Message != "found it" {
		t.Errorf("Message = %q", action.Message)
	}
	if !strings.Contains(streamed.String(), "found it") {
		t.Errorf("final reply not streamed: %q", streamed.String())
	}
}
