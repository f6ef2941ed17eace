package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Result is a paragraph continuation plus the keywords that describe it,
// suitable for a follow-up citation lookup. Both fields are required; a
// response missing either is a contract violation.
type Result struct {
	Completion string   `json:"completion"`
	Keywords   []string `json:"keywords"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any completion backend.
type Provider interface {
	// Complete continues the given paragraph context and extracts keywords.
	Complete(ctx context.Context, text string, options ...Option) (*Result, error)
}

// continuationPrompt instructs the model to answer in a strict JSON shape so
// the keywords survive alongside the continuation.
const continuationPrompt = `Continue the final paragraph below with one short sentence fragment that flows naturally from the existing text. Also extract 1-5 search keywords describing the topic of the continuation.

Respond with ONLY this JSON format: {"completion": "<continuation>", "keywords": ["<keyword>", ...]}. No other text.

`

// parseResult cleans a model reply from possible markdown wrappers and
// enforces the response contract.
func parseResult(raw string) (*Result, error) {
	cleaned := []byte(raw)
	cleaned = bytes.TrimSpace(cleaned)
	cleaned = bytes.TrimPrefix(cleaned, []byte("```json"))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```"))
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	cleaned = bytes.TrimSpace(cleaned)

	var res Result
	if err := json.Unmarshal(cleaned, &res); err != nil {
		return nil, fmt.Errorf("parse error: %w | raw: %s", err, string(cleaned))
	}
	if res.Completion == "" {
		return nil, fmt.Errorf("response missing completion field | raw: %s", string(cleaned))
	}
	if len(res.Keywords) == 0 {
		return nil, fmt.Errorf("response missing keywords field | raw: %s", string(cleaned))
	}
	return &res, nil
}
