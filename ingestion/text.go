package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/search"
)

// MaxEmbeddingTextBytes caps the composed embedding text.
const MaxEmbeddingTextBytes = 16000

// ComposeText builds the text embedded for a listing: the descriptive fields
// in a fixed order, then amenities, price and size, joined with " | ".
func ComposeText(l *core.Listing) string {
	var parts []string
	for _, v := range []string{l.Title, l.Description, l.Location, l.PropertyType, l.Furnishing, l.Utilities} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(l.Amenities) > 0 {
		parts = append(parts, "Amenities: "+strings.Join(l.Amenities, ", "))
	}
	if l.Price != nil && *l.Price != 0 {
		parts = append(parts, "Price: "+formatNumber(*l.Price))
	}
	if l.SizeSqm != nil && *l.SizeSqm != 0 {
		parts = append(parts, fmt.Sprintf("Size: %s sqm", formatNumber(*l.SizeSqm)))
	}
	return search.TruncateUTF8(strings.Join(parts, " | "), MaxEmbeddingTextBytes)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
