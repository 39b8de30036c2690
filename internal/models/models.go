// Package models defines the core data structures used throughout the application.
package models

import (
	"encoding/json"
	"time"
)

// ImageClassification is the closed set of verdicts for image authenticity.
type ImageClassification string

const (
	ImageAIGenerated ImageClassification = "AI-generated"
	ImageAuthentic   ImageClassification = "Authentic"
	ImageUncertain   ImageClassification = "Uncertain"
)

// VoiceClassification is the closed set of verdicts for voice authenticity.
type VoiceClassification string

const (
	VoiceAIGenerated VoiceClassification = "AI-Generated Voice"
	VoiceHuman       VoiceClassification = "Human Voice"
	VoiceUncertain   VoiceClassification = "Uncertain"
)

// RiskLevel grades how likely a piece of content is to mislead.
type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskUnknown RiskLevel = "Unknown"
)

// AnalysisKind identifies which feature produced an analysis record.
type AnalysisKind string

const (
	KindImage    AnalysisKind = "image"
	KindVoice    AnalysisKind = "voice"
	KindArticle  AnalysisKind = "article"
	KindTemplate AnalysisKind = "template"
)

// ImageVerdict is the result of an image authenticity analysis.
type ImageVerdict struct {
	Classification ImageClassification `json:"classification"`
	Confidence     int                 `json:"confidence"`
	Explanation    string              `json:"explanation"`
	Degraded       bool                `json:"degraded,omitempty"`
}

// VoiceVerdict is the result of a voice authenticity analysis.
type VoiceVerdict struct {
	Classification VoiceClassification `json:"classification"`
	Confidence     int                 `json:"confidence"`
	Explanation    string              `json:"explanation"`
	Degraded       bool                `json:"degraded,omitempty"`
}

// ClaimCheck pairs a factual claim found in an article with its assessment.
type ClaimCheck struct {
	Claim        string `json:"claim"`
	Verification string `json:"verification"`
}

// ArticleVerdict is the result of fact-checking an article.
type ArticleVerdict struct {
	RiskLevel        RiskLevel    `json:"risk_level"`
	CredibilityScore int          `json:"credibility_score"`
	Tags             []string     `json:"tags"`
	Summary          string       `json:"summary"`
	Claims           []ClaimCheck `json:"claims,omitempty"`
	Degraded         bool         `json:"degraded,omitempty"`
}

// TemplateContent is a generated public-awareness template for a topic.
type TemplateContent struct {
	Title      string   `json:"title"`
	Highlights []string `json:"highlights"`
	Tips       []string `json:"tips"`
	Degraded   bool     `json:"degraded,omitempty"`
}

// TrendingTopic is one entry in the trending misinformation feed.
type TrendingTopic struct {
	Topic            string    `json:"topic"`
	Risk             RiskLevel `json:"risk"`
	CredibilityScore int       `json:"credibility_score"`
}

// AssistantReply is a single answer from the misinformation assistant.
type AssistantReply struct {
	Reply    string `json:"reply"`
	Degraded bool   `json:"degraded,omitempty"`
}

// AnalysisRecord is a persisted summary of one completed analysis.
type AnalysisRecord struct {
	ID        string          `json:"id"`
	Kind      AnalysisKind    `json:"kind"`
	Verdict   string          `json:"verdict"`
	Score     int             `json:"score"`
	Summary   string          `json:"summary"`
	Result    json.RawMessage `json:"result"`
	Degraded  bool            `json:"degraded"`
	CreatedAt time.Time       `json:"created_at"`
}

// RequestLog represents an API request audit entry.
type RequestLog struct {
	ID           string    `json:"id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// MediaRequest is the request body for image and voice analysis endpoints.
type MediaRequest struct {
	Data     string `json:"data"`      // base64-encoded payload
	MimeType string `json:"mime_type"` // e.g. image/png, audio/mpeg
}

// ArticleRequest is the request body for article fact-checking.
// Exactly one of Text or URL should be set; Text wins when both are present.
type ArticleRequest struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// TemplateRequest is the request body for awareness template generation.
type TemplateRequest struct {
	Topic string `json:"topic"`
}

// AssistantRequest is the request body for the assistant endpoint.
type AssistantRequest struct {
	Message string `json:"message"`
}
