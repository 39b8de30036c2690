// Package llm provides Google Gemini implementation of the Provider interface.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/truthlens/truthlens/internal/config"
)

// GeminiProvider implements Provider using the official Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg *config.LLMConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// SupportsMedia returns true for image and audio attachments.
func (p *GeminiProvider) SupportsMedia(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || strings.HasPrefix(mimeType, "audio/")
}

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Complete generates a completion for the given prompt.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return p.CompleteWithSystem(ctx, "", prompt, opts)
}

// CompleteWithSystem generates a completion with a system prompt.
func (p *GeminiProvider) CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	model := p.generativeModel(system, opts)
	return p.generate(ctx, model, genai.Text(user))
}

// CompleteWithMedia generates a completion for a prompt plus an inline attachment.
func (p *GeminiProvider) CompleteWithMedia(ctx context.Context, prompt string, media Media, opts CompletionOptions) (string, error) {
	if !p.SupportsMedia(media.MIMEType) {
		return "", fmt.Errorf("gemini does not accept %s attachments", media.MIMEType)
	}

	model := p.generativeModel("", opts)
	return p.generate(ctx, model,
		genai.Blob{MIMEType: media.MIMEType, Data: media.Data},
		genai.Text(prompt),
	)
}

// generativeModel builds a per-request model handle from the options.
func (p *GeminiProvider) generativeModel(system string, opts CompletionOptions) *genai.GenerativeModel {
	name := opts.Model
	if name == "" {
		name = p.model
	}

	model := p.client.GenerativeModel(name)
	model.SetTemperature(float32(opts.Temperature))

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	model.SetMaxOutputTokens(int32(maxTokens))

	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	if opts.JSONResponse {
		model.ResponseMIMEType = "application/json"
		if opts.ResponseSchema != nil {
			model.ResponseSchema = toGeminiSchema(opts.ResponseSchema)
		}
	}

	return model
}

// generate performs a single content generation call.
func (p *GeminiProvider) generate(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("Gemini returned no text content")
	}

	return sb.String(), nil
}

// toGeminiSchema converts a provider-neutral schema to the genai form.
func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}

	switch s.Type {
	case TypeString:
		out.Type = genai.TypeString
	case TypeInteger:
		out.Type = genai.TypeInteger
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeObject:
		out.Type = genai.TypeObject
	default:
		out.Type = genai.TypeUnspecified
	}

	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}

	return out
}
