// Package analysis provides awareness template generation.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/models"
)

// TemplateGenerator produces public-awareness templates about
// misinformation topics.
type TemplateGenerator struct {
	provider llm.Provider
}

// NewTemplateGenerator creates a new template generator.
func NewTemplateGenerator(provider llm.Provider) *TemplateGenerator {
	return &TemplateGenerator{provider: provider}
}

const templatePromptFormat = `Create a public-awareness template about misinformation on the topic: %q

The template is shown to the general public, so keep the language plain and non-alarmist.

Respond with a JSON object:
{
  "title": "A short, attention-getting headline",
  "highlights": ["3 to 5 key facts about how misinformation on this topic spreads"],
  "tips": ["3 to 5 practical tips for spotting and avoiding it"]
}

Only respond with the JSON object, no other text.`

// templateContent is the wire form the model is asked to produce.
type templateContent struct {
	Title      string   `json:"title"`
	Highlights []string `json:"highlights"`
	Tips       []string `json:"tips"`
}

func templateSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"title":      {Type: llm.TypeString},
			"highlights": {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
			"tips":       {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
		},
		Required: []string{"title", "highlights", "tips"},
	}
}

// Generate produces a template for the given topic. An empty topic is
// rejected before any model call; gateway and parsing failures yield
// the fallback template, never an error.
func (g *TemplateGenerator) Generate(ctx context.Context, topic string) (models.TemplateContent, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return models.TemplateContent{}, ErrEmptyTopic
	}

	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0.7
	opts.JSONResponse = true
	opts.ResponseSchema = templateSchema()

	response, err := g.provider.Complete(ctx, fmt.Sprintf(templatePromptFormat, topic), opts)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Template generation degraded to fallback")
		return FallbackTemplate(topic), nil
	}

	var raw templateContent
	if err := llm.DecodeJSON(response, &raw); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Template response unparseable, using fallback")
		return FallbackTemplate(topic), nil
	}

	if raw.Title == "" || len(raw.Highlights) == 0 || len(raw.Tips) == 0 {
		log.Warn().Str("topic", topic).Msg("Template response incomplete, using fallback")
		return FallbackTemplate(topic), nil
	}

	return models.TemplateContent{
		Title:      raw.Title,
		Highlights: raw.Highlights,
		Tips:       raw.Tips,
	}, nil
}

// FallbackTemplate is the static template substituted when the model
// cannot be consulted. It still names the requested topic.
func FallbackTemplate(topic string) models.TemplateContent {
	return models.TemplateContent{
		Title: fmt.Sprintf("Stay alert: misinformation about %s", topic),
		Highlights: []string{
			fmt.Sprintf("False claims about %s often spread faster than corrections.", topic),
			"Emotional, urgent wording is a common sign of manipulation.",
			"Images and quotes are frequently reused out of their original context.",
		},
		Tips: []string{
			"Check whether established news outlets report the same story.",
			"Look for the original source behind screenshots and quotes.",
			"Be skeptical of content that demands immediate sharing.",
		},
		Degraded: true,
	}
}
