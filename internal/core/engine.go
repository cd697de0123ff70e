// ABOUTME: Translation engine orchestrating chunker, glossary, and provider
// ABOUTME: Sequential per-chunk retry with backoff, two-pass mode, strict cancellation
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harper/translate-standalone/internal/llm"
	"github.com/harper/translate-standalone/internal/models"
	"github.com/harper/translate-standalone/internal/util"
)

// Mode selects how each chunk is translated.
type Mode string

const (
	// ModeStandard streams a single translation pass per chunk.
	ModeStandard Mode = "standard"
	// ModeHighQuality runs a hidden accuracy draft first, then streams a
	// polish pass. The draft never reaches the caller.
	ModeHighQuality Mode = "high_quality"
)

// EngineConfig tunes retry and pacing behavior. Tests inject short delays.
// Temperature is forwarded on every provider request; zero means the
// provider default.
type EngineConfig struct {
	MaxAttempts    int
	RetryDelay     time.Duration
	ChunkPause     time.Duration
	MaxChunkLength int
	Temperature    float32
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxAttempts:    3,
		RetryDelay:     time.Second,
		ChunkPause:     500 * time.Millisecond,
		MaxChunkLength: DefaultChunkLength,
	}
}

// TranslateRequest is one whole-document translation call.
type TranslateRequest struct {
	Text           string
	TargetLanguage string
	Instruction    string
	Glossary       []models.GlossaryEntry
	Mode           Mode
	// OnOutput receives incremental translation text in chunk order. May
	// be nil. Output already delivered before a failure or cancellation
	// is not retracted; the engine's own buffer is what gets discarded.
	OnOutput llm.StreamFunc
}

// TranslateResult is the completed translation.
type TranslateResult struct {
	Text string
	// DetectedSourceLanguage is reserved and currently always empty; no
	// detection is implemented.
	DetectedSourceLanguage string
}

// Engine runs one translation or chat operation at a time per instance.
// Independent instances may run concurrently against different providers.
type Engine struct {
	provider llm.Provider
	cfg      EngineConfig
}

// NewEngine wraps a provider with orchestration policy.
func NewEngine(provider llm.Provider, cfg EngineConfig) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.MaxChunkLength <= 0 {
		cfg.MaxChunkLength = DefaultChunkLength
	}
	return &Engine{provider: provider, cfg: cfg}
}

// translationSession is the engine-internal state for one Translate call.
// It is created on entry and discarded on completion, error, or abort.
type translationSession struct {
	chunks       []string
	output       strings.Builder
	previousTail string
	index        int
}

// Translate splits the text, translates chunk by chunk in order, and
// returns the concatenated, trimmed translation. Chunk N's prompt carries
// the tail of chunk N-1's source text. A failed chunk stops the whole
// operation; the engine never skips a chunk silently.
func (e *Engine) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	session := &translationSession{
		chunks: SplitChunks(req.Text, e.cfg.MaxChunkLength),
	}
	idx := NewGlossaryIndex(models.SanitizeEntries(req.Glossary))
	system := translationSystemInstruction(req.TargetLanguage, req.Instruction)

	for i, chunk := range session.chunks {
		if err := ctx.Err(); err != nil {
			return nil, llm.Classify(0, err)
		}
		session.index = i

		prompt := buildChunkPrompt(PromptBlock(idx.Relevant(chunk)), session.previousTail, chunk)
		text, err := e.translateChunk(ctx, req, system, prompt, chunk)
		if err != nil {
			return nil, err
		}

		session.output.WriteString(text)
		session.previousTail = sourceTail(chunk)

		if i < len(session.chunks)-1 {
			if !strings.HasSuffix(session.output.String(), "\n\n") {
				session.output.WriteString("\n\n")
				if req.OnOutput != nil {
					req.OnOutput("\n\n")
				}
			}
			// Provider-friendly pacing between chunks.
			if err := e.wait(ctx, e.cfg.ChunkPause); err != nil {
				return nil, err
			}
		}
	}

	return &TranslateResult{Text: strings.TrimSpace(session.output.String())}, nil
}

// translateChunk runs one chunk through up to MaxAttempts attempts. Partial
// output from a failed attempt is discarded before the next attempt so the
// returned text is never duplicated.
func (e *Engine) translateChunk(ctx context.Context, req TranslateRequest, system, prompt, chunk string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := e.wait(ctx, util.CalculateBackoff(e.cfg.RetryDelay, attempt-1)); err != nil {
				return "", err
			}
		}

		var text string
		var err error
		if req.Mode == ModeHighQuality {
			text, err = e.twoPassAttempt(ctx, req, system, prompt, chunk)
		} else {
			text, err = e.provider.Stream(ctx, llm.Request{System: system, Prompt: prompt, Temperature: e.cfg.Temperature}, req.OnOutput)
		}
		if err == nil {
			return text, nil
		}
		if llm.IsAborted(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("chunk failed after %d attempts: %w", e.cfg.MaxAttempts, lastErr)
}

// twoPassAttempt translates for accuracy without streaming, then streams a
// polish pass of that draft.
func (e *Engine) twoPassAttempt(ctx context.Context, req TranslateRequest, system, prompt, chunk string) (string, error) {
	draft, err := e.provider.Complete(ctx, llm.Request{
		System:      draftSystemInstruction(req.TargetLanguage),
		Prompt:      prompt,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return e.provider.Stream(ctx, llm.Request{
		System:      system,
		Prompt:      polishPrompt(chunk, draft),
		Temperature: e.cfg.Temperature,
	}, req.OnOutput)
}

// wait sleeps for d unless the context is cancelled first.
func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return llm.Classify(0, err)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return llm.Classify(0, ctx.Err())
	case <-timer.C:
		return nil
	}
}
