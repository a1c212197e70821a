package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/rina/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicVector(t *testing.T) {
	a := DeterministicVector("bedsitter", 16)
	b := DeterministicVector("bedsitter", 16)
	c := DeterministicVector("studio", 16)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	v, err := m.EmbedText(ctx, "one")
	require.NoError(t, err)
	assert.Len(t, v, DefaultDimension)

	vs, err := m.EmbedTexts(ctx, []string{"two", "three"})
	require.NoError(t, err)
	assert.Len(t, vs, 2)

	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, []string{"one", "two", "three"}, m.Texts())

	m.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("down")
	}
	_, err = m.EmbedText(ctx, "four")
	assert.Error(t, err)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	assert.Empty(t, m.Texts())
}

func TestMockCompleter(t *testing.T) {
	ctx := context.Background()

	t.Run("cycles responses", func(t *testing.T) {
		m := NewMockCompleter("a", "b")
		for _, want := range []string{"a", "b", "a"} {
			got, err := m.Complete(ctx, ai.CompletionRequest{})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		assert.Equal(t, 3, m.CallCount())
	})

	t.Run("default response", func(t *testing.T) {
		m := NewMockCompleter()
		got, err := m.Complete(ctx, ai.CompletionRequest{MaxTokens: 3})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, m.Requests()[0].MaxTokens)
	})

	t.Run("custom func", func(t *testing.T) {
		m := NewMockCompleter("unused")
		m.CompleteFunc = func(context.Context, ai.CompletionRequest) (string, error) {
			return "", errors.New("timeout")
		}
		_, err := m.Complete(ctx, ai.CompletionRequest{})
		assert.Error(t, err)

		m.Reset()
		got, err := m.Complete(ctx, ai.CompletionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "unused", got)
	})
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider().(*MockProvider)
	assert.NotNil(t, p.Embedder())
	assert.NotNil(t, p.Completer())
	assert.Same(t, p.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
