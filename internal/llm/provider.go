// Package llm provides a pluggable interface for LLM providers.
package llm

import (
	"context"
	"fmt"

	"github.com/truthlens/truthlens/internal/config"
)

// SchemaType enumerates the JSON types usable in a response schema.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema describes the JSON shape a completion should conform to.
// Providers that support structured output enforce it; the rest treat
// it as advisory and the caller still validates the decoded value.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// Media is an inline binary attachment for a completion request.
type Media struct {
	MIMEType string
	Data     []byte
}

// CompletionOptions contains options for completion requests.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	Model       string

	// JSONResponse asks the provider to return a bare JSON object.
	JSONResponse bool
	// ResponseSchema constrains the JSON shape where supported.
	// Only honored when JSONResponse is set.
	ResponseSchema *Schema
}

// DefaultCompletionOptions returns sensible defaults.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		MaxTokens:   2048,
		Temperature: 0.0,
	}
}

// Provider defines the interface for LLM providers.
//
// Every method performs exactly one upstream attempt. Providers do not
// retry, back off, or enforce deadlines beyond what the caller's context
// carries; failure handling belongs to the caller.
type Provider interface {
	// Complete generates a completion for the given prompt.
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// CompleteWithSystem generates a completion with a system prompt.
	CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// CompleteWithMedia generates a completion for a prompt plus an
	// inline media attachment such as an image or an audio clip.
	CompleteWithMedia(ctx context.Context, prompt string, media Media, opts CompletionOptions) (string, error)

	// Name returns the provider name.
	Name() string

	// SupportsMedia reports whether this provider accepts inline
	// attachments of the given MIME type.
	SupportsMedia(mimeType string) bool

	// Close releases any resources held by the provider.
	Close() error
}

// NewProvider creates a new LLM provider based on configuration.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
