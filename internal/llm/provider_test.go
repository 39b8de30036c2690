package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/internal/config"
)

func TestNewProviderUnsupported(t *testing.T) {
	_, err := NewProvider(context.Background(), &config.LLMConfig{Provider: "ollama", APIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestNewProviderDispatch(t *testing.T) {
	p, err := NewProvider(context.Background(), &config.LLMConfig{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "openai", p.Name())

	p, err = NewProvider(context.Background(), &config.LLMConfig{Provider: "anthropic", APIKey: "sk-ant-test"})
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "anthropic", p.Name())
}

func TestProvidersRequireAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(&config.LLMConfig{})
	assert.Error(t, err)

	_, err = NewAnthropicProvider(&config.LLMConfig{})
	assert.Error(t, err)

	_, err = NewGeminiProvider(context.Background(), &config.LLMConfig{})
	assert.Error(t, err)
}

func TestOpenAIProviderMediaSupport(t *testing.T) {
	p, err := NewOpenAIProvider(&config.LLMConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, p.SupportsMedia("image/png"))
	assert.True(t, p.SupportsMedia("image/jpeg"))
	assert.False(t, p.SupportsMedia("audio/mpeg"))
	assert.False(t, p.SupportsMedia(""))
}

func TestAnthropicProviderMediaSupport(t *testing.T) {
	p, err := NewAnthropicProvider(&config.LLMConfig{APIKey: "sk-ant-test"})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "claude-3-haiku-20240307", p.model)
	assert.True(t, p.SupportsMedia("image/webp"))
	assert.False(t, p.SupportsMedia("audio/wav"))
}

func TestDefaultCompletionOptions(t *testing.T) {
	opts := DefaultCompletionOptions()
	assert.Equal(t, 2048, opts.MaxTokens)
	assert.Zero(t, opts.Temperature)
	assert.False(t, opts.JSONResponse)
	assert.Nil(t, opts.ResponseSchema)
}

func TestToGeminiSchema(t *testing.T) {
	schema := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"classification": {Type: TypeString, Enum: []string{"Authentic", "Uncertain"}},
			"confidence":     {Type: TypeInteger, Description: "0 to 100"},
			"tags":           {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
		Required: []string{"classification", "confidence"},
	}

	out := toGeminiSchema(schema)
	require.NotNil(t, out)
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"classification", "confidence"}, out.Required)

	require.Contains(t, out.Properties, "classification")
	assert.Equal(t, genai.TypeString, out.Properties["classification"].Type)
	assert.Equal(t, []string{"Authentic", "Uncertain"}, out.Properties["classification"].Enum)

	require.Contains(t, out.Properties, "confidence")
	assert.Equal(t, "0 to 100", out.Properties["confidence"].Description)

	require.Contains(t, out.Properties, "tags")
	require.NotNil(t, out.Properties["tags"].Items)
	assert.Equal(t, genai.TypeString, out.Properties["tags"].Items.Type)

	assert.Nil(t, toGeminiSchema(nil))
}
