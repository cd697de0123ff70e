// ABOUTME: OpenAI SDK adapter using sashabaranov/go-openai native streaming
// ABOUTME: Covers the vendor-SDK transport family including tool calls
package llm

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/harper/translate-standalone/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider adapts the go-openai SDK to the Provider interface.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds an adapter for cfg. A non-empty Endpoint
// overrides the SDK's default base URL (OpenAI-compatible gateways).
func NewOpenAIProvider(cfg models.ProviderConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Classify(0, err)
	}
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req, false))
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return "", NewError(KindTransport, "provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, req Request, onDelta StreamFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Classify(0, err)
	}
	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildRequest(req, true))
	if err != nil {
		return "", classifyOpenAI(err)
	}
	defer stream.Close()

	var full []byte
	for {
		if err := ctx.Err(); err != nil {
			return "", Classify(0, err)
		}
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return string(full), nil
		}
		if err != nil {
			return "", classifyOpenAI(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			full = append(full, delta...)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
}

func (p *OpenAIProvider) ChatTurn(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(0, err)
	}
	resp, err := p.client.CreateChatCompletion(ctx, p.buildChatRequest(req, false))
	if err != nil {
		return nil, classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return nil, NewError(KindTransport, "provider returned no choices")
	}
	msg := resp.Choices[0].Message
	result := &ChatResult{Text: msg.Content}
	if len(msg.ToolCalls) > 0 {
		result.ToolCall = &ToolCall{
			Name:      msg.ToolCalls[0].Function.Name,
			Arguments: msg.ToolCalls[0].Function.Arguments,
		}
	}
	return result, nil
}

func (p *OpenAIProvider) ChatTurnStream(ctx context.Context, req ChatRequest, onDelta StreamFunc) (*ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(0, err)
	}
	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildChatRequest(req, true))
	if err != nil {
		return nil, classifyOpenAI(err)
	}
	defer stream.Close()

	var (
		text     []byte
		toolName string
		toolArgs []byte
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, Classify(0, err)
		}
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classifyOpenAI(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			text = append(text, delta.Content...)
			if onDelta != nil {
				onDelta(delta.Content)
			}
		}
		// Tool call name arrives once; arguments arrive as fragments.
		for _, tc := range delta.ToolCalls {
			if tc.Function.Name != "" {
				toolName = tc.Function.Name
			}
			toolArgs = append(toolArgs, tc.Function.Arguments...)
		}
	}

	result := &ChatResult{Text: string(text)}
	if toolName != "" {
		result.ToolCall = &ToolCall{Name: toolName, Arguments: string(toolArgs)}
	}
	return result, nil
}

func (p *OpenAIProvider) buildRequest(req Request, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	return openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: temperatureOrDefault(req.Temperature),
		Stream:      stream,
	}
}

func (p *OpenAIProvider) buildChatRequest(req ChatRequest, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var tools []openai.Tool
	for _, t := range req.Tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: temperatureOrDefault(req.Temperature),
		Stream:      stream,
		Tools:       tools,
	}
}

func temperatureOrDefault(t float32) float32 {
	if t == 0 {
		return DefaultTemperature
	}
	return t
}

// classifyOpenAI maps SDK errors into the taxonomy using the embedded HTTP
// status when present.
func classifyOpenAI(err error) *DispatchError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return Classify(apiErr.HTTPStatusCode, err)
	}
	return Classify(0, err)
}
