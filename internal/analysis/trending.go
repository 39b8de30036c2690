// Package analysis provides the trending misinformation feed.
package analysis

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/models"
)

// maxTrendingTopics caps how many feed entries a single response yields.
const maxTrendingTopics = 5

// TrendingFeed asks the model for currently circulating misinformation
// topics and parses its line-oriented answer.
type TrendingFeed struct {
	provider llm.Provider
}

// NewTrendingFeed creates a new trending feed.
func NewTrendingFeed(provider llm.Provider) *TrendingFeed {
	return &TrendingFeed{provider: provider}
}

const trendingPrompt = `List 5 misinformation topics currently circulating online.

Format each topic on its own line, exactly like this:
1. <topic> - Risk: <Low|Medium|High> - Credibility: <0-100>

Example:
1. Miracle cure suppressed by doctors - Risk: High - Credibility: 15

Respond with only the numbered lines, no other text.`

// trendingLineRe matches one feed line. Lines the model formats
// differently are dropped rather than guessed at.
var trendingLineRe = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?(.+?)\s*-\s*risk:\s*([a-z]+)\s*-\s*credibility:\s*(\d+)`)

// Fetch returns the current feed. A gateway failure yields the error
// record; a response with no parseable lines yields the placeholder
// record. The feed is never empty.
func (f *TrendingFeed) Fetch(ctx context.Context) []models.TrendingTopic {
	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0.8

	response, err := f.provider.Complete(ctx, trendingPrompt, opts)
	if err != nil {
		log.Warn().Err(err).Msg("Trending feed degraded to fallback")
		return FallbackTrendingUnavailable()
	}

	topics := parseTrendingResponse(response)
	if len(topics) == 0 {
		log.Warn().Int("response_len", len(response)).Msg("Trending response had no parseable lines")
		return FallbackTrendingEmpty()
	}

	return topics
}

// parseTrendingResponse extracts feed entries line by line, preserving
// the model's ordering and silently dropping lines that do not match.
func parseTrendingResponse(response string) []models.TrendingTopic {
	var topics []models.TrendingTopic

	for _, line := range strings.Split(response, "\n") {
		matches := trendingLineRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		topic := strings.Trim(strings.TrimSpace(matches[1]), `"'`+"“”‘’")
		if topic == "" {
			continue
		}

		score, err := strconv.Atoi(matches[3])
		if err != nil {
			continue
		}

		topics = append(topics, models.TrendingTopic{
			Topic:            topic,
			Risk:             normalizeRisk(matches[2], models.RiskUnknown),
			CredibilityScore: clampScore(score),
		})
		if len(topics) == maxTrendingTopics {
			break
		}
	}

	return topics
}

// FallbackTrendingUnavailable is the single error record substituted
// when the model cannot be consulted.
func FallbackTrendingUnavailable() []models.TrendingTopic {
	return []models.TrendingTopic{
		{
			Topic:            "Trending analysis is temporarily unavailable",
			Risk:             models.RiskUnknown,
			CredibilityScore: 0,
		},
	}
}

// FallbackTrendingEmpty is the placeholder record substituted when the
// model answered but no line could be parsed.
func FallbackTrendingEmpty() []models.TrendingTopic {
	return []models.TrendingTopic{
		{
			Topic:            "No trending topics could be identified right now",
			Risk:             models.RiskUnknown,
			CredibilityScore: 0,
		},
	}
}
