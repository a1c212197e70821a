package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractConstraints(t *testing.T) {
	tests := []struct {
		query        string
		propertyType string
		furnishing   string
		maxPrice     float64
	}{
		{query: "Find me a bedsitter near Kenyatta University under 8k", propertyType: "bedsitter", maxPrice: 8000},
		{query: "single room below 10,000 in Kahawa", propertyType: "single room", maxPrice: 10000},
		{query: "furnished studio max 12000", propertyType: "studio", furnishing: "furnished", maxPrice: 12000},
		{query: "2 bedroom semi-furnished apartment, budget of 25k", propertyType: "2 bedroom", furnishing: "semi-furnished", maxPrice: 25000},
		{query: "unfurnished one bedroom ksh 15000", propertyType: "1 bedroom", furnishing: "unfurnished", maxPrice: 15000},
		{query: "hostel near campus", propertyType: "hostel"},
		{query: "anything cheap in Ruaka"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c := ExtractConstraints(tt.query)
			assert.Equal(t, tt.propertyType, c.PropertyType)
			assert.Equal(t, tt.furnishing, c.Furnishing)
			if tt.maxPrice == 0 {
				assert.Nil(t, c.MaxPrice)
			} else if assert.NotNil(t, c.MaxPrice) {
				assert.Equal(t, tt.maxPrice, *c.MaxPrice)
			}
		})
	}
}
