// Package analysis provides the conversational misinformation assistant.
package analysis

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/models"
)

// Assistant answers free-form questions about misinformation. It keeps
// a bounded in-memory transcript so follow-up questions have context;
// the transcript lives only as long as the process.
type Assistant struct {
	provider   llm.Provider
	maxHistory int

	mu      sync.Mutex
	history []exchange
}

type exchange struct {
	question string
	answer   string
}

// NewAssistant creates a new assistant keeping at most maxHistory
// exchanges of context.
func NewAssistant(provider llm.Provider, maxHistory int) *Assistant {
	if maxHistory <= 0 {
		maxHistory = 10
	}
	return &Assistant{
		provider:   provider,
		maxHistory: maxHistory,
	}
}

const assistantSystemPrompt = `You are the TruthLens assistant. You help people understand misinformation: how to spot it, how it spreads, and how to verify content they have seen.

Guidelines:
- Keep answers short and practical, three to five sentences
- Recommend concrete verification steps where possible
- Say so plainly when something cannot be verified
- Stay on the topic of misinformation and media literacy`

// Ask answers one message. An empty message is rejected before any
// model call; gateway failures yield the fallback reply, never an
// error, and leave the transcript untouched.
func (a *Assistant) Ask(ctx context.Context, message string) (models.AssistantReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.AssistantReply{}, ErrEmptyMessage
	}

	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0.6
	opts.MaxTokens = 1024

	answer, err := a.provider.CompleteWithSystem(ctx, assistantSystemPrompt, a.buildPrompt(message), opts)
	if err != nil {
		log.Warn().Err(err).Msg("Assistant degraded to fallback")
		return FallbackAssistantReply(), nil
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		log.Warn().Msg("Assistant returned an empty reply, using fallback")
		return FallbackAssistantReply(), nil
	}

	a.remember(message, answer)
	return models.AssistantReply{Reply: answer}, nil
}

// buildPrompt renders the bounded transcript plus the new message.
func (a *Assistant) buildPrompt(message string) string {
	a.mu.Lock()
	history := make([]exchange, len(a.history))
	copy(history, a.history)
	a.mu.Unlock()

	if len(history) == 0 {
		return message
	}

	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, ex := range history {
		sb.WriteString("User: ")
		sb.WriteString(ex.question)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(ex.answer)
		sb.WriteString("\n")
	}
	sb.WriteString("\nUser: ")
	sb.WriteString(message)

	return sb.String()
}

// remember appends an exchange, discarding the oldest past the bound.
func (a *Assistant) remember(question, answer string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, exchange{question: question, answer: answer})
	if len(a.history) > a.maxHistory {
		a.history = a.history[len(a.history)-a.maxHistory:]
	}
}

// FallbackAssistantReply is the static reply substituted when the
// model cannot be consulted.
func FallbackAssistantReply() models.AssistantReply {
	return models.AssistantReply{
		Reply:    "I cannot reach the analysis service right now. Please try again in a moment. In the meantime, be cautious with content you cannot verify through established sources.",
		Degraded: true,
	}
}
