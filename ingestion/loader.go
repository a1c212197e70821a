package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/rina/core"
	"gopkg.in/yaml.v3"
)

// Format is a seed file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Landlord is the landlord block of a seed record.
type Landlord struct {
	Name          string `json:"name,omitempty"`
	ContactNumber string `json:"contact_number" validate:"required,min=7"`
}

// Complex is the optional building block of a seed record.
type Complex struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location,omitempty"`
}

// SeedRecord is one entry of a seed file. Bare listings are accepted too
// and decode with only Listing set.
type SeedRecord struct {
	Landlord *Landlord     `json:"landlord,omitempty" validate:"omitempty"`
	Complex  *Complex      `json:"complex,omitempty" validate:"omitempty"`
	Listing  *core.Listing `json:"listing" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads listings from a JSON or YAML seed file.
func LoadFile(path string) ([]*core.Listing, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a sequence of seed records or bare listings from r.
// A landlord's contact number fills in a listing without a contact, and a
// complex's location fills in a listing without a location.
func Decode(r io.Reader, format Format) ([]*core.Listing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if format == FormatYAML {
		// Round-trip through JSON so listings decode with their JSON field names
		// and flexible numeric fields.
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	} else if format != FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode seed records: %w", err)
	}

	listings := make([]*core.Listing, 0, len(raw))
	for i, item := range raw {
		l, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func decodeRecord(item json.RawMessage) (*core.Listing, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(item, &keys); err != nil {
		return nil, err
	}
	if _, nested := keys["listing"]; !nested {
		var l core.Listing
		if err := json.Unmarshal(item, &l); err != nil {
			return nil, err
		}
		return &l, nil
	}

	var rec SeedRecord
	if err := json.Unmarshal(item, &rec); err != nil {
		return nil, err
	}
	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedRecord, err)
	}

	l := rec.Listing
	if l.Contact == "" && rec.Landlord != nil {
		l.Contact = rec.Landlord.ContactNumber
	}
	if l.Location == "" && rec.Complex != nil {
		l.Location = rec.Complex.Location
	}
	return l, nil
}
