package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short content", content: "Bedsitter in Kahawa West"},
		{name: "empty string", content: ""},
		{name: "long content", content: "Spacious one bedroom near Kenyatta University, water included, 24h security"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %s vs %s", id1, id2)
			}
			if len(id1) != 16 {
				t.Errorf("IDFromContent() length = %d, want 16", len(id1))
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("listing1") == IDFromContent("listing2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseIntentLabel(t *testing.T) {
	for _, l := range IntentLabels {
		got, ok := ParseIntentLabel(string(l))
		assert.True(t, ok)
		assert.Equal(t, l, got)
	}

	_, ok := ParseIntentLabel("book_viewing")
	assert.False(t, ok)
	_, ok = ParseIntentLabel("")
	assert.False(t, ok)
}

func TestLanguageTag_IsSwahiliFamily(t *testing.T) {
	assert.True(t, LanguageSwahili.IsSwahiliFamily())
	assert.True(t, LanguageSheng.IsSwahiliFamily())
	assert.False(t, LanguageEnglish.IsSwahiliFamily())
	assert.False(t, LanguageOther.IsSwahiliFamily())
	assert.False(t, LanguageTag("fr").IsSwahiliFamily())
}

func TestConstraints_IsZero(t *testing.T) {
	assert.True(t, Constraints{}.IsZero())
	assert.False(t, Constraints{PropertyType: "bedsitter"}.IsZero())
	assert.False(t, Constraints{MaxPrice: Float(8000)}.IsZero())
	assert.False(t, Constraints{Furnishing: "furnished"}.IsZero())
}

func TestTrace_Clone(t *testing.T) {
	orig := &Trace{TraceID: "t1", Steps: []TraceStep{{StepNo: 1, StepType: StepPlan}}}
	c := orig.Clone()
	c.Steps = append(c.Steps, TraceStep{StepNo: 2, StepType: StepAct})
	c.Steps[0].Success = true

	assert.Len(t, orig.Steps, 1)
	assert.False(t, orig.Steps[0].Success)
	assert.Equal(t, "t1", c.TraceID)
}

func TestListing_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPrice   *float64
		wantRating  *float64
		wantContact string
		wantErr     bool
	}{
		{
			name:        "numeric price",
			input:       `{"id":"a","title":"Room","price":7500,"contact":"0700"}`,
			wantPrice:   Float(7500),
			wantContact: "0700",
		},
		{
			name:      "string price with comma",
			input:     `{"id":"a","title":"Room","price":"10,000"}`,
			wantPrice: Float(10000),
		},
		{
			name:  "empty string price",
			input: `{"id":"a","title":"Room","price":""}`,
		},
		{
			name:  "null price",
			input: `{"id":"a","title":"Room","price":null}`,
		},
		{
			name:        "landlord_contact alias",
			input:       `{"id":"a","title":"Room","landlord_contact":"0711"}`,
			wantContact: "0711",
		},
		{
			name:        "contact_number alias",
			input:       `{"id":"a","title":"Room","contact_number":"0722"}`,
			wantContact: "0722",
		},
		{
			name:        "contact wins over alias",
			input:       `{"id":"a","title":"Room","contact":"0733","landlord_contact":"0711"}`,
			wantContact: "0733",
		},
		{
			name:       "string rating",
			input:      `{"id":"a","title":"Room","neighborhood_rating":"8.5"}`,
			wantRating: Float(8.5),
		},
		{
			name:    "garbage price",
			input:   `{"id":"a","title":"Room","price":"cheap"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Listing
			err := json.Unmarshal([]byte(tt.input), &l)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidListing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", l.ID)
			assert.Equal(t, "Room", l.Title)
			assert.Equal(t, tt.wantPrice, l.Price)
			assert.Equal(t, tt.wantRating, l.NeighborhoodRating)
			assert.Equal(t, tt.wantContact, l.Contact)
		})
	}
}

func TestListing_JSONRoundTripKeepsOptionalFields(t *testing.T) {
	in := Listing{ID: "x", Title: "Studio", Price: Float(9000), Amenities: []string{"wifi"}}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "neighborhood_rating")
	assert.NotContains(t, string(data), "inserted_at")

	var out Listing
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
