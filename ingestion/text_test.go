package ingestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/poiesic/rina/core"
	"github.com/stretchr/testify/assert"
)

func TestComposeText(t *testing.T) {
	tests := []struct {
		name     string
		listing  core.Listing
		expected string
	}{
		{
			name: "all fields",
			listing: core.Listing{
				Title:        "Sunny bedsitter",
				Description:  "Close to the main gate",
				Location:     "Kahawa Wendani",
				PropertyType: "bedsitter",
				Furnishing:   "furnished",
				Utilities:    "water included",
				Amenities:    []string{"wifi", "parking"},
				Price:        core.Float(7500),
				SizeSqm:      core.Float(18.5),
			},
			expected: "Sunny bedsitter | Close to the main gate | Kahawa Wendani | bedsitter | furnished | water included | Amenities: wifi, parking | Price: 7500 | Size: 18.5 sqm",
		},
		{
			name:     "title only",
			listing:  core.Listing{Title: "Hostel room"},
			expected: "Hostel room",
		},
		{
			name:     "zero price omitted",
			listing:  core.Listing{Title: "Room", Price: core.Float(0), Location: " "},
			expected: "Room",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComposeText(&tt.listing))
		})
	}
}

func TestComposeTextIsCapped(t *testing.T) {
	l := &core.Listing{Title: "Big", Description: strings.Repeat("ü", MaxEmbeddingTextBytes)}
	text := ComposeText(l)
	assert.LessOrEqual(t, len(text), MaxEmbeddingTextBytes)
	assert.True(t, utf8.ValidString(text))
}
