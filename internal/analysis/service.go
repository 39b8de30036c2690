// Package analysis implements the misinformation analysis features:
// image and voice authenticity, article fact-checking, awareness
// templates, the trending feed, and the assistant. Every judgment is
// delegated to a single model provider; when the provider cannot be
// consulted, each feature substitutes its documented fallback value
// instead of surfacing the error.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/config"
	"github.com/truthlens/truthlens/internal/database"
	"github.com/truthlens/truthlens/internal/fetch"
	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/models"
)

// Validation errors reported to callers before any model call is made.
var (
	ErrEmptyMedia      = errors.New("media payload is empty")
	ErrMissingMimeType = errors.New("media mime type is required")
	ErrEmptyArticle    = errors.New("article text is empty")
	ErrEmptyTopic      = errors.New("template topic is empty")
	ErrEmptyMessage    = errors.New("assistant message is empty")
)

// Service orchestrates all analysis features over one provider.
type Service struct {
	images    *MediaAnalyzer
	articles  *ArticleChecker
	templates *TemplateGenerator
	trending  *TrendingFeed
	assistant *Assistant
	fetcher   *fetch.ArticleFetcher
	store     database.Store
	provider  llm.Provider
}

// NewService creates the analysis service.
func NewService(cfg *config.Config, provider llm.Provider, store database.Store) *Service {
	return &Service{
		images:    NewMediaAnalyzer(provider),
		articles:  NewArticleChecker(provider),
		templates: NewTemplateGenerator(provider),
		trending:  NewTrendingFeed(provider),
		assistant: NewAssistant(provider, cfg.Assistant.MaxHistory),
		fetcher:   fetch.NewArticleFetcher(&cfg.Fetch),
		store:     store,
		provider:  provider,
	}
}

// ProviderName returns the name of the configured model provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// AnalyzeImage runs image authenticity analysis and records the verdict.
func (s *Service) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (models.ImageVerdict, error) {
	verdict, err := s.images.AnalyzeImage(ctx, data, mimeType)
	if err != nil {
		return models.ImageVerdict{}, err
	}

	s.record(ctx, models.KindImage, string(verdict.Classification), verdict.Confidence, verdict.Explanation, verdict, verdict.Degraded)
	return verdict, nil
}

// AnalyzeVoice runs voice authenticity analysis and records the verdict.
func (s *Service) AnalyzeVoice(ctx context.Context, data []byte, mimeType string) (models.VoiceVerdict, error) {
	verdict, err := s.images.AnalyzeVoice(ctx, data, mimeType)
	if err != nil {
		return models.VoiceVerdict{}, err
	}

	s.record(ctx, models.KindVoice, string(verdict.Classification), verdict.Confidence, verdict.Explanation, verdict, verdict.Degraded)
	return verdict, nil
}

// CheckArticleText fact-checks article text and records the verdict.
func (s *Service) CheckArticleText(ctx context.Context, text string) (models.ArticleVerdict, error) {
	verdict, err := s.articles.Check(ctx, text)
	if err != nil {
		return models.ArticleVerdict{}, err
	}

	s.record(ctx, models.KindArticle, string(verdict.RiskLevel), verdict.CredibilityScore, verdict.Summary, verdict, verdict.Degraded)
	return verdict, nil
}

// CheckArticleURL fetches an article by URL and fact-checks its text.
// A fetch failure means the input could not be obtained and is returned
// as an error rather than a degraded verdict.
func (s *Service) CheckArticleURL(ctx context.Context, rawURL string) (models.ArticleVerdict, error) {
	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return models.ArticleVerdict{}, fmt.Errorf("failed to fetch article: %w", err)
	}

	log.Info().Str("url", rawURL).Str("title", page.Title).Int("chars", len(page.Text)).Msg("Article fetched")
	return s.CheckArticleText(ctx, page.Text)
}

// GenerateTemplate produces an awareness template for a topic.
func (s *Service) GenerateTemplate(ctx context.Context, topic string) (models.TemplateContent, error) {
	content, err := s.templates.Generate(ctx, topic)
	if err != nil {
		return models.TemplateContent{}, err
	}

	s.record(ctx, models.KindTemplate, strings.TrimSpace(topic), 0, content.Title, content, content.Degraded)
	return content, nil
}

// TrendingTopics returns the current trending misinformation feed.
func (s *Service) TrendingTopics(ctx context.Context) []models.TrendingTopic {
	return s.trending.Fetch(ctx)
}

// Ask sends a message to the assistant.
func (s *Service) Ask(ctx context.Context, message string) (models.AssistantReply, error) {
	return s.assistant.Ask(ctx, message)
}

// record persists an analysis summary. Persistence is best-effort:
// a storage failure is logged and never affects the response.
func (s *Service) record(ctx context.Context, kind models.AnalysisKind, verdict string, score int, summary string, result any, degraded bool) {
	if s.store == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to encode analysis record")
		return
	}

	rec := &models.AnalysisRecord{
		ID:        uuid.New().String(),
		Kind:      kind,
		Verdict:   verdict,
		Score:     score,
		Summary:   summary,
		Result:    payload,
		Degraded:  degraded,
		CreatedAt: time.Now(),
	}

	if err := s.store.SaveRecord(ctx, rec); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to save analysis record")
	}
}

// normalizeRisk maps a model-reported risk level onto the closed set,
// returning unknown for anything unrecognized.
func normalizeRisk(raw string, unknown models.RiskLevel) models.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return models.RiskLow
	case "medium", "moderate":
		return models.RiskMedium
	case "high":
		return models.RiskHigh
	default:
		return unknown
	}
}

// clampScore bounds a score to the 0-100 range.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// truncate caps a string at max bytes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
