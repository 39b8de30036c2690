package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTemplate(t *testing.T) {
	provider := &stubProvider{
		response: `{
  "title": "Vaccine myths: check before you share",
  "highlights": ["Old photos get recycled with new captions", "Anecdotes are presented as studies", "Screenshots of deleted posts cannot be traced"],
  "tips": ["Search for the claim plus the word 'fact check'", "Find the original study, not a summary of it", "Ask who benefits from you sharing this"]
}`,
	}
	generator := NewTemplateGenerator(provider)

	content, err := generator.Generate(context.Background(), "vaccine myths")
	require.NoError(t, err)
	assert.Equal(t, "Vaccine myths: check before you share", content.Title)
	assert.Len(t, content.Highlights, 3)
	assert.Len(t, content.Tips, 3)
	assert.False(t, content.Degraded)

	assert.Contains(t, provider.prompt(), "vaccine myths")
}

func TestGenerateTemplateEmptyTopic(t *testing.T) {
	provider := &stubProvider{}
	generator := NewTemplateGenerator(provider)

	for _, topic := range []string{"", "   ", "\t\n"} {
		_, err := generator.Generate(context.Background(), topic)
		assert.ErrorIs(t, err, ErrEmptyTopic, "topic=%q", topic)
	}

	assert.Equal(t, 0, provider.callCount())
}

func TestGenerateTemplateProviderErrorFallsBack(t *testing.T) {
	generator := NewTemplateGenerator(&stubProvider{err: assert.AnError})

	content, err := generator.Generate(context.Background(), "election rumors")
	require.NoError(t, err)
	assert.True(t, content.Degraded)
	assert.Contains(t, content.Title, "election rumors")
	assert.NotEmpty(t, content.Highlights)
	assert.NotEmpty(t, content.Tips)
}

func TestGenerateTemplateUnparseableFallsBack(t *testing.T) {
	generator := NewTemplateGenerator(&stubProvider{response: "Here are some loose thoughts about the topic."})

	content, err := generator.Generate(context.Background(), "deepfakes")
	require.NoError(t, err)
	assert.Equal(t, FallbackTemplate("deepfakes"), content)
}

func TestGenerateTemplateIncompleteFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "missing title",
			response: `{"title": "", "highlights": ["a"], "tips": ["b"]}`,
		},
		{
			name:     "missing highlights",
			response: `{"title": "T", "highlights": [], "tips": ["b"]}`,
		},
		{
			name:     "missing tips",
			response: `{"title": "T", "highlights": ["a"], "tips": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewTemplateGenerator(&stubProvider{response: tt.response})

			content, err := generator.Generate(context.Background(), "scams")
			require.NoError(t, err)
			assert.Equal(t, FallbackTemplate("scams"), content)
		})
	}
}
