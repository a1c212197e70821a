package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/rina/ai/mock"
	"github.com/poiesic/rina/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	results   []core.RetrievalResult
	err       error
	calls     int
	threshold float64
	count     int
	embedding []float32
}

func (f *fakeIndex) FindSimilar(_ context.Context, embedding []float32, threshold float64, count int) ([]core.RetrievalResult, error) {
	f.calls++
	f.embedding = embedding
	f.threshold = threshold
	f.count = count
	return f.results, f.err
}

func listing(id string) *core.Listing {
	return &core.Listing{ID: id, Title: "Listing " + id}
}

func TestNewRetriever(t *testing.T) {
	_, err := NewRetriever(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewRetriever(&fakeIndex{}, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(&fakeIndex{}, mock.NewMockEmbedder(), WithThreshold(1.5))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewRetriever(&fakeIndex{}, mock.NewMockEmbedder(), WithMaxQueryBytes(0))
	assert.ErrorIs(t, err, ErrInvalidQueryBudget)

	r, err := NewRetriever(&fakeIndex{}, mock.NewMockEmbedder(), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, r.Threshold())
}

func TestRetrieve_PassesThroughIndexOrder(t *testing.T) {
	index := &fakeIndex{results: []core.RetrievalResult{
		{Listing: listing("b"), Similarity: 0.7},
		{Listing: listing("a"), Similarity: 0.9},
	}}
	embedder := mock.NewMockEmbedder()
	r, err := NewRetriever(index, embedder)
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "bedsitter near KU", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Listing.ID)
	assert.Equal(t, "a", results[1].Listing.ID)

	assert.Equal(t, 1, index.calls)
	assert.Equal(t, 5, index.count)
	assert.Equal(t, DefaultThreshold, index.threshold)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestRetrieve_NoMatchIsEmptyNotError(t *testing.T) {
	r, err := NewRetriever(&fakeIndex{}, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "castle in the sky", 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRetrieve_Errors(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("embedding down")
		}
		index := &fakeIndex{}
		r, err := NewRetriever(index, embedder)
		require.NoError(t, err)

		_, err = r.Retrieve(context.Background(), "q", 5)
		assert.Error(t, err)
		assert.Zero(t, index.calls)
	})

	t.Run("index failure", func(t *testing.T) {
		r, err := NewRetriever(&fakeIndex{err: errors.New("rpc failed")}, mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = r.Retrieve(context.Background(), "q", 5)
		assert.Error(t, err)
	})
}

func TestRetrieve_TruncatesQuery(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	r, err := NewRetriever(&fakeIndex{}, embedder, WithMaxQueryBytes(10))
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), strings.Repeat("a", 50), 5)
	require.NoError(t, err)
	assert.Len(t, embedder.Texts()[0], 10)
}

type recordingMonitor struct {
	started   bool
	truncated bool
	dims      int
	finished  int
}

func (m *recordingMonitor) Start(_ string, truncated bool) { m.started, m.truncated = true, truncated }
func (m *recordingMonitor) AfterEmbedding(d int)           { m.dims = d }
func (m *recordingMonitor) Finish(r []core.RetrievalResult, _ error) {
	m.finished = len(r)
}

func TestRetrieveWithMonitor(t *testing.T) {
	index := &fakeIndex{results: []core.RetrievalResult{{Listing: listing("a"), Similarity: 0.8}}}
	r, err := NewRetriever(index, mock.NewMockEmbedder(), WithMaxQueryBytes(3))
	require.NoError(t, err)

	m := &recordingMonitor{}
	_, err = r.RetrieveWithMonitor(context.Background(), "abcdef", 5, m)
	require.NoError(t, err)
	assert.True(t, m.started)
	assert.True(t, m.truncated)
	assert.Equal(t, mock.DefaultDimension, m.dims)
	assert.Equal(t, 1, m.finished)
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "abc", max: 10, want: "abc"},
		{name: "exact", in: "abc", max: 3, want: "abc"},
		{name: "ascii cut", in: "abcdef", max: 4, want: "abcd"},
		{name: "does not split rune", in: "ab😔cd", max: 4, want: "ab"},
		{name: "rune boundary", in: "ab😔cd", max: 6, want: "ab😔"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateUTF8(tt.in, tt.max))
		})
	}
}
