package openai

import (
	"context"
	"testing"

	"github.com/poiesic/rina/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/fake"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleterFromModel(fake.NewFakeLLM([]string{"  greeting\n", "```\nHabari!\n```"}))
	req := ai.CompletionRequest{
		Messages:  []ai.ChatMessage{ai.System("classify"), ai.User("hi")},
		MaxTokens: 8,
	}

	got, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "greeting", got)

	got, err = c.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Habari!", got)
}

func TestCompleter_NoResponses(t *testing.T) {
	c := NewCompleterFromModel(fake.NewFakeLLM(nil))

	_, err := c.Complete(context.Background(), ai.CompletionRequest{Messages: []ai.ChatMessage{ai.User("hi")}})
	assert.Error(t, err)
}

func TestChatMessageType(t *testing.T) {
	assert.Equal(t, llms.ChatMessageTypeSystem, chatMessageType(ai.RoleSystem))
	assert.Equal(t, llms.ChatMessageTypeHuman, chatMessageType(ai.RoleUser))
	assert.Equal(t, llms.ChatMessageTypeAI, chatMessageType(ai.RoleAssistant))
	assert.Equal(t, llms.ChatMessageTypeHuman, chatMessageType(ai.Role("")))
}

func TestCleanCompletion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "search_listings", want: "search_listings"},
		{in: "  hello \n", want: "hello"},
		{in: "```\nhello\n```", want: "hello"},
		{in: "```text\nhello there\n```", want: "hello there"},
		{in: "```inline```", want: "inline"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanCompletion(tt.in))
		})
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(ai.WithHost("http://localhost:11434"), ai.WithToken("test")))
		require.NoError(t, err)
		assert.NotNil(t, p.Embedder())
		assert.NotNil(t, p.Completer())
		assert.NoError(t, p.Close())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithCompletionModel("")))
		assert.Error(t, err)
	})
}
