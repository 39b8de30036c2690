package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantAsk(t *testing.T) {
	provider := &stubProvider{response: "  Check the image with a reverse search first.  "}
	assistant := NewAssistant(provider, 10)

	reply, err := assistant.Ask(context.Background(), "How do I verify a photo?")
	require.NoError(t, err)
	assert.Equal(t, "Check the image with a reverse search first.", reply.Reply)
	assert.False(t, reply.Degraded)
}

func TestAssistantAskEmptyMessage(t *testing.T) {
	provider := &stubProvider{}
	assistant := NewAssistant(provider, 10)

	for _, message := range []string{"", "   "} {
		_, err := assistant.Ask(context.Background(), message)
		assert.ErrorIs(t, err, ErrEmptyMessage, "message=%q", message)
	}

	assert.Equal(t, 0, provider.callCount())
}

func TestAssistantFirstMessageHasNoTranscript(t *testing.T) {
	provider := &stubProvider{response: "Hello!"}
	assistant := NewAssistant(provider, 10)

	_, err := assistant.Ask(context.Background(), "What is misinformation?")
	require.NoError(t, err)
	assert.Equal(t, "What is misinformation?", provider.prompt())
}

func TestAssistantThreadsHistory(t *testing.T) {
	provider := &stubProvider{response: "First answer."}
	assistant := NewAssistant(provider, 10)

	_, err := assistant.Ask(context.Background(), "What is a deepfake?")
	require.NoError(t, err)

	provider.response = "Second answer."
	_, err = assistant.Ask(context.Background(), "How do I spot one?")
	require.NoError(t, err)

	prompt := provider.prompt()
	assert.Contains(t, prompt, "Conversation so far:")
	assert.Contains(t, prompt, "User: What is a deepfake?")
	assert.Contains(t, prompt, "Assistant: First answer.")
	assert.Contains(t, prompt, "User: How do I spot one?")
}

func TestAssistantHistoryIsBounded(t *testing.T) {
	provider := &stubProvider{response: "Answer."}
	assistant := NewAssistant(provider, 2)

	for i := 1; i <= 4; i++ {
		_, err := assistant.Ask(context.Background(), fmt.Sprintf("Question %d?", i))
		require.NoError(t, err)
	}

	_, err := assistant.Ask(context.Background(), "Final question?")
	require.NoError(t, err)

	prompt := provider.prompt()
	assert.NotContains(t, prompt, "Question 1?")
	assert.NotContains(t, prompt, "Question 2?")
	assert.Contains(t, prompt, "Question 3?")
	assert.Contains(t, prompt, "Question 4?")
	assert.Contains(t, prompt, "Final question?")
}

func TestAssistantFallbackLeavesTranscriptUntouched(t *testing.T) {
	provider := &stubProvider{response: "Reverse-search it."}
	assistant := NewAssistant(provider, 10)

	_, err := assistant.Ask(context.Background(), "How do I check a photo?")
	require.NoError(t, err)

	provider.err = assert.AnError
	reply, err := assistant.Ask(context.Background(), "And a video?")
	require.NoError(t, err)
	assert.Equal(t, FallbackAssistantReply(), reply)

	provider.err = nil
	provider.response = "Look for splices."
	_, err = assistant.Ask(context.Background(), "What about audio?")
	require.NoError(t, err)

	prompt := provider.prompt()
	assert.Contains(t, prompt, "How do I check a photo?")
	assert.NotContains(t, prompt, "And a video?")
}

func TestAssistantConcurrentUse(t *testing.T) {
	provider := &stubProvider{response: "Answer."}
	assistant := NewAssistant(provider, 5)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reply, err := assistant.Ask(context.Background(), fmt.Sprintf("Concurrent question %d?", i))
			assert.NoError(t, err)
			assert.False(t, reply.Degraded)
		}(i)
	}
	wg.Wait()

	assistant.mu.Lock()
	defer assistant.mu.Unlock()
	assert.LessOrEqual(t, len(assistant.history), 5)
}

func TestAssistantEmptyAnswerFallsBack(t *testing.T) {
	provider := &stubProvider{response: "   "}
	assistant := NewAssistant(provider, 10)

	reply, err := assistant.Ask(context.Background(), "Anything?")
	require.NoError(t, err)
	assert.Equal(t, FallbackAssistantReply(), reply)

	provider.response = "A real answer."
	_, err = assistant.Ask(context.Background(), "Again?")
	require.NoError(t, err)
	assert.Equal(t, "Again?", provider.prompt())
}
