// ABOUTME: Generic HTTP provider speaking OpenAI-compatible JSON over SSE
// ABOUTME: Parses data:-prefixed frames until [DONE]; malformed lines are skipped
package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/harper/translate-standalone/internal/models"
)

// streamDoneSentinel terminates an SSE response stream.
const streamDoneSentinel = "[DONE]"

// defaultRequestTimeout applies when the config leaves Timeout unset.
const defaultRequestTimeout = 5 * time.Minute

// SSEProvider adapts any OpenAI-compatible HTTP endpoint. Streaming uses
// server-sent events read line by line from the raw response body.
type SSEProvider struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	model    string
}

// NewSSEProvider builds an adapter for cfg. Endpoint must be the full chat
// completions URL.
func NewSSEProvider(cfg models.ProviderConfig) *SSEProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &SSEProvider{
		client:   resty.New().SetTimeout(timeout),
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
	}
}

// wireRequest is the JSON body shared by all calls.
type wireRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Stream      bool                 `json:"stream"`
	Temperature float32              `json:"temperature"`
	Tools       []wireTool           `json:"tools,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// wireResponse covers both blocking responses and streaming deltas.
type wireResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls"`
		} `json:"message"`
		Delta struct {
			Content   string         `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
}

type wireToolCall struct {
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

func (p *SSEProvider) Complete(ctx context.Context, req Request) (string, error) {
	result, err := p.blockingCall(ctx, p.buildBody(promptMessages(req), nil, req.Temperature, false))
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (p *SSEProvider) Stream(ctx context.Context, req Request, onDelta StreamFunc) (string, error) {
	result, err := p.streamingCall(ctx, p.buildBody(promptMessages(req), nil, req.Temperature, true), onDelta)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (p *SSEProvider) ChatTurn(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	return p.blockingCall(ctx, p.buildBody(chatMessages(req), req.Tools, req.Temperature, false))
}

func (p *SSEProvider) ChatTurnStream(ctx context.Context, req ChatRequest, onDelta StreamFunc) (*ChatResult, error) {
	return p.streamingCall(ctx, p.buildBody(chatMessages(req), req.Tools, req.Temperature, true), onDelta)
}

func (p *SSEProvider) blockingCall(ctx context.Context, body wireRequest) (*ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(0, err)
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(p.endpoint)
	if err != nil {
		return nil, Classify(0, err)
	}
	if resp.IsError() {
		return nil, Classify(resp.StatusCode(), fmt.Errorf("provider returned %d: %s", resp.StatusCode(), resp.String()))
	}

	var parsed wireResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, WrapError(KindTransport, "unparseable provider response", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, NewError(KindTransport, "provider returned no choices")
	}

	msg := parsed.Choices[0].Message
	result := &ChatResult{Text: msg.Content}
	if len(msg.ToolCalls) > 0 {
		result.ToolCall = &ToolCall{
			Name:      msg.ToolCalls[0].Function.Name,
			Arguments: msg.ToolCalls[0].Function.Arguments,
		}
	}
	return result, nil
}

func (p *SSEProvider) streamingCall(ctx context.Context, body wireRequest, onDelta StreamFunc) (*ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(0, err)
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(p.endpoint)
	if err != nil {
		return nil, Classify(0, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() >= 400 {
		return nil, Classify(resp.StatusCode(), fmt.Errorf("provider returned %d", resp.StatusCode()))
	}

	var (
		text     []byte
		toolName string
		toolArgs []byte
	)
	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, Classify(0, err)
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "data: ")
		if line == streamDoneSentinel {
			break
		}

		var event wireResponse
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			// Malformed frames must not abort the stream.
			continue
		}
		if len(event.Choices) == 0 {
			continue
		}
		delta := event.Choices[0].Delta
		if delta.Content != "" {
			text = append(text, delta.Content...)
			if onDelta != nil {
				onDelta(delta.Content)
			}
		}
		for _, tc := range delta.ToolCalls {
			if tc.Function.Name != "" {
				toolName = tc.Function.Name
			}
			toolArgs = append(toolArgs, tc.Function.Arguments...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Classify(0, err)
	}

	result := &ChatResult{Text: string(text)}
	if toolName != "" {
		result.ToolCall = &ToolCall{Name: toolName, Arguments: string(toolArgs)}
	}
	return result, nil
}

func (p *SSEProvider) buildBody(messages []models.ChatMessage, tools []ToolDef, temperature float32, stream bool) wireRequest {
	body := wireRequest{
		Model:       p.model,
		Messages:    messages,
		Stream:      stream,
		Temperature: temperatureOrDefault(temperature),
	}
	for _, t := range tools {
		body.Tools = append(body.Tools, wireTool{
			Type: "function",
			Function: wireToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return body
}

func promptMessages(req Request) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: req.System})
	}
	return append(messages, models.ChatMessage{Role: models.RoleUser, Content: req.Prompt})
}

func chatMessages(req ChatRequest) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: req.System})
	}
	return append(messages, req.Messages...)
}
