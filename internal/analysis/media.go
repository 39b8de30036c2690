// Package analysis provides image and voice authenticity analysis.
package analysis

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/models"
)

// MediaAnalyzer classifies images and voice recordings as authentic or
// AI-generated.
type MediaAnalyzer struct {
	provider llm.Provider
}

// NewMediaAnalyzer creates a new media analyzer.
func NewMediaAnalyzer(provider llm.Provider) *MediaAnalyzer {
	return &MediaAnalyzer{provider: provider}
}

const imageAuthenticityPrompt = `You are an expert in detecting AI-generated and manipulated images.

Examine the attached image for signs of synthetic generation or manipulation:
- Unnatural textures, lighting, or shadows
- Anatomical inconsistencies such as hands, eyes, or teeth
- Warped backgrounds, garbled text, or repeating patterns
- Editing seams and compression artifacts

Respond with a JSON object:
{
  "classification": "AI-generated" | "Authentic" | "Uncertain",
  "confidence": <0-100>,
  "explanation": "One or two sentences explaining the verdict"
}

Only respond with the JSON object, no other text.`

const voiceAuthenticityPrompt = `You are an expert in detecting synthetic and cloned voices.

Listen to the attached audio for signs of AI generation:
- Flat or repetitive prosody and unnatural pacing
- Missing breaths, mouth noise, or room tone
- Metallic or smeared artifacts around sibilants
- Abrupt splices between words or phrases

Respond with a JSON object:
{
  "classification": "AI-Generated Voice" | "Human Voice" | "Uncertain",
  "confidence": <0-100>,
  "explanation": "One or two sentences explaining the verdict"
}

Only respond with the JSON object, no other text.`

// mediaVerdict is the wire form the model is asked to produce.
type mediaVerdict struct {
	Classification string `json:"classification"`
	Confidence     int    `json:"confidence"`
	Explanation    string `json:"explanation"`
}

func mediaVerdictSchema(classes []string) *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"classification": {Type: llm.TypeString, Enum: classes},
			"confidence":     {Type: llm.TypeInteger, Description: "Confidence from 0 to 100"},
			"explanation":    {Type: llm.TypeString},
		},
		Required: []string{"classification", "confidence", "explanation"},
	}
}

// AnalyzeImage classifies an image. Gateway and parsing failures yield
// the fallback verdict, never an error.
func (m *MediaAnalyzer) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (models.ImageVerdict, error) {
	if len(data) == 0 {
		return models.ImageVerdict{}, ErrEmptyMedia
	}
	if mimeType == "" {
		return models.ImageVerdict{}, ErrMissingMimeType
	}

	classes := []string{
		string(models.ImageAIGenerated),
		string(models.ImageAuthentic),
		string(models.ImageUncertain),
	}

	raw, err := m.analyze(ctx, imageAuthenticityPrompt, classes, data, mimeType)
	if err != nil {
		log.Warn().Err(err).Str("mime_type", mimeType).Msg("Image analysis degraded to fallback")
		return FallbackImageVerdict(), nil
	}

	return models.ImageVerdict{
		Classification: normalizeImageClassification(raw.Classification),
		Confidence:     clampScore(raw.Confidence),
		Explanation:    raw.Explanation,
	}, nil
}

// AnalyzeVoice classifies a voice recording. Gateway and parsing
// failures yield the fallback verdict, never an error.
func (m *MediaAnalyzer) AnalyzeVoice(ctx context.Context, data []byte, mimeType string) (models.VoiceVerdict, error) {
	if len(data) == 0 {
		return models.VoiceVerdict{}, ErrEmptyMedia
	}
	if mimeType == "" {
		return models.VoiceVerdict{}, ErrMissingMimeType
	}

	classes := []string{
		string(models.VoiceAIGenerated),
		string(models.VoiceHuman),
		string(models.VoiceUncertain),
	}

	raw, err := m.analyze(ctx, voiceAuthenticityPrompt, classes, data, mimeType)
	if err != nil {
		log.Warn().Err(err).Str("mime_type", mimeType).Msg("Voice analysis degraded to fallback")
		return FallbackVoiceVerdict(), nil
	}

	return models.VoiceVerdict{
		Classification: normalizeVoiceClassification(raw.Classification),
		Confidence:     clampScore(raw.Confidence),
		Explanation:    raw.Explanation,
	}, nil
}

// analyze performs a single media completion and decodes the verdict.
func (m *MediaAnalyzer) analyze(ctx context.Context, prompt string, classes []string, data []byte, mimeType string) (*mediaVerdict, error) {
	if !m.provider.SupportsMedia(mimeType) {
		return nil, &UnsupportedMediaError{Provider: m.provider.Name(), MIMEType: mimeType}
	}

	opts := llm.DefaultCompletionOptions()
	opts.JSONResponse = true
	opts.ResponseSchema = mediaVerdictSchema(classes)

	response, err := m.provider.CompleteWithMedia(ctx, prompt, llm.Media{MIMEType: mimeType, Data: data}, opts)
	if err != nil {
		return nil, err
	}

	var verdict mediaVerdict
	if err := llm.DecodeJSON(response, &verdict); err != nil {
		return nil, err
	}

	return &verdict, nil
}

// UnsupportedMediaError reports that the configured provider cannot
// analyze attachments of the given MIME type.
type UnsupportedMediaError struct {
	Provider string
	MIMEType string
}

func (e *UnsupportedMediaError) Error() string {
	return e.Provider + " provider does not support " + e.MIMEType + " media"
}

func normalizeImageClassification(raw string) models.ImageClassification {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	switch cleaned {
	case "ai-generated", "ai generated", "aigenerated":
		return models.ImageAIGenerated
	case "authentic", "real":
		return models.ImageAuthentic
	default:
		return models.ImageUncertain
	}
}

func normalizeVoiceClassification(raw string) models.VoiceClassification {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	switch cleaned {
	case "ai-generated voice", "ai generated voice", "ai-generated", "synthetic":
		return models.VoiceAIGenerated
	case "human voice", "human", "authentic":
		return models.VoiceHuman
	default:
		return models.VoiceUncertain
	}
}

// FallbackImageVerdict is the static verdict substituted when the
// model cannot be consulted.
func FallbackImageVerdict() models.ImageVerdict {
	return models.ImageVerdict{
		Classification: models.ImageUncertain,
		Confidence:     0,
		Explanation:    "Automated image analysis is temporarily unavailable. Verify this image through other sources before sharing it.",
		Degraded:       true,
	}
}

// FallbackVoiceVerdict is the static verdict substituted when the
// model cannot be consulted.
func FallbackVoiceVerdict() models.VoiceVerdict {
	return models.VoiceVerdict{
		Classification: models.VoiceUncertain,
		Confidence:     0,
		Explanation:    "Automated voice analysis is temporarily unavailable. Verify this recording through other sources before sharing it.",
		Degraded:       true,
	}
}
