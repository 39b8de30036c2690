// Package analysis provides article fact-checking.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/models"
)

// maxArticleChars bounds how much article text is sent to the model.
const maxArticleChars = 16000

// ArticleChecker fact-checks article text for misinformation signals.
type ArticleChecker struct {
	provider llm.Provider
}

// NewArticleChecker creates a new article checker.
func NewArticleChecker(provider llm.Provider) *ArticleChecker {
	return &ArticleChecker{provider: provider}
}

const articleSystemPrompt = `You are a fact-checking analyst. You assess news articles and social media posts for misinformation.

Evaluate the text for:
- Factual claims that are false, exaggerated, or unverifiable
- Manipulative framing, loaded language, or missing context
- Signs of fabricated sourcing or impersonation

Respond with a JSON object:
{
  "risk_level": "Low" | "Medium" | "High",
  "credibility_score": <0-100, higher means more credible>,
  "tags": ["short topic or technique labels"],
  "summary": "Two or three sentence overall assessment",
  "claims": [
    {"claim": "A specific claim from the text", "verification": "What is known about this claim"}
  ]
}

Only respond with the JSON object, no other text.`

// articleVerdict is the wire form the model is asked to produce.
type articleVerdict struct {
	RiskLevel        string              `json:"risk_level"`
	CredibilityScore int                 `json:"credibility_score"`
	Tags             []string            `json:"tags"`
	Summary          string              `json:"summary"`
	Claims           []models.ClaimCheck `json:"claims"`
}

func articleVerdictSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"risk_level": {
				Type: llm.TypeString,
				Enum: []string{string(models.RiskLow), string(models.RiskMedium), string(models.RiskHigh)},
			},
			"credibility_score": {Type: llm.TypeInteger, Description: "Credibility from 0 to 100"},
			"tags":              {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
			"summary":           {Type: llm.TypeString},
			"claims": {
				Type: llm.TypeArray,
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"claim":        {Type: llm.TypeString},
						"verification": {Type: llm.TypeString},
					},
					Required: []string{"claim", "verification"},
				},
			},
		},
		Required: []string{"risk_level", "credibility_score", "tags", "summary"},
	}
}

// Check fact-checks article text. Gateway and parsing failures yield
// the fallback verdict, never an error.
func (c *ArticleChecker) Check(ctx context.Context, text string) (models.ArticleVerdict, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ArticleVerdict{}, ErrEmptyArticle
	}

	userPrompt := fmt.Sprintf("Article to assess:\n\n%s", truncate(text, maxArticleChars))

	opts := llm.DefaultCompletionOptions()
	opts.MaxTokens = 4096
	opts.JSONResponse = true
	opts.ResponseSchema = articleVerdictSchema()

	response, err := c.provider.CompleteWithSystem(ctx, articleSystemPrompt, userPrompt, opts)
	if err != nil {
		log.Warn().Err(err).Msg("Article check degraded to fallback")
		return FallbackArticleVerdict(), nil
	}

	var raw articleVerdict
	if err := llm.DecodeJSON(response, &raw); err != nil {
		log.Warn().Err(err).Msg("Article check response unparseable, using fallback")
		return FallbackArticleVerdict(), nil
	}

	verdict := models.ArticleVerdict{
		RiskLevel:        normalizeRisk(raw.RiskLevel, models.RiskMedium),
		CredibilityScore: clampScore(raw.CredibilityScore),
		Tags:             raw.Tags,
		Summary:          raw.Summary,
		Claims:           raw.Claims,
	}
	if len(verdict.Tags) == 0 {
		verdict.Tags = []string{"general"}
	}

	return verdict, nil
}

// FallbackArticleVerdict is the static verdict substituted when the
// model cannot be consulted.
func FallbackArticleVerdict() models.ArticleVerdict {
	return models.ArticleVerdict{
		RiskLevel:        models.RiskMedium,
		CredibilityScore: 0,
		Tags:             []string{"analysis unavailable"},
		Summary:          "Automated fact-checking is temporarily unavailable. Treat this content with caution and check it against trusted sources.",
		Degraded:         true,
	}
}
