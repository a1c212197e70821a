package main

import "github.com/poiesic/rina/core"

// demoListings seeds an empty database when ingest is run without --file.
func demoListings() []*core.Listing {
	return []*core.Listing{
		{
			Title:        "Bedsitter near Yaya Centre",
			Location:     "Kilimani, Nairobi",
			Price:        core.Float(12000),
			PropertyType: "bedsitter",
			Furnishing:   "unfurnished",
			Contact:      "0712000001",
			Description:  "Quiet compound, 24h water, walking distance to Yaya Centre and matatu stage.",
			Utilities:    "Water included, token electricity",
			Amenities:    []string{"wifi ready", "security guard"},
			SizeSqm:      core.Float(18),
		},
		{
			Title:              "Furnished single room for students",
			Location:           "Madaraka, Nairobi",
			Price:              core.Float(9500),
			PropertyType:       "single room",
			RoomType:           "single",
			Furnishing:         "furnished",
			Contact:            "0712000002",
			NeighborhoodRating: core.Float(7.5),
			Description:        "Five minutes to Strathmore University, bed and study desk included.",
			Amenities:          []string{"wifi", "shared kitchen"},
		},
		{
			Title:        "One bedroom apartment in Roysambu",
			Location:     "Roysambu, Nairobi",
			Price:        core.Float(18000),
			PropertyType: "1 bedroom",
			Furnishing:   "unfurnished",
			Contact:      "0712000003",
			Description:  "Close to Thika Road and TRM mall, ideal for KU and USIU students.",
			Utilities:    "Water billed separately",
			SizeSqm:      core.Float(35),
		},
		{
			Title:              "Hostel room near University of Nairobi",
			Location:           "Ngara, Nairobi",
			Price:              core.Float(7000),
			PropertyType:       "hostel",
			RoomType:           "shared",
			Furnishing:         "furnished",
			Contact:            "0712000004",
			NeighborhoodRating: core.Float(6),
			Description:        "Shared room for two, meals optional, ten minutes walk to main campus.",
			Amenities:          []string{"laundry", "study room"},
		},
		{
			Title:        "Studio apartment in Westlands",
			Location:     "Westlands, Nairobi",
			Price:        core.Float(25000),
			PropertyType: "studio",
			Furnishing:   "furnished",
			Contact:      "0712000005",
			Description:  "Modern studio with backup generator and gym access.",
			Amenities:    []string{"gym", "backup generator", "parking"},
			SizeSqm:      core.Float(28),
		},
		{
			Title:        "Bedsitter in Rongai",
			Location:     "Rongai, Kajiado",
			Price:        core.Float(6500),
			PropertyType: "bedsitter",
			Furnishing:   "unfurnished",
			Contact:      "0712000006",
			Description:  "Affordable bedsitter near Multimedia University, borehole water.",
		},
	}
}
