// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts the listing shapes produced by the listing store and seed files:
// numeric fields may be JSON numbers or numeric strings ("10000", "10,000"), and the
// contact may arrive as landlord_contact or contact_number.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type alias Listing
	aux := struct {
		*alias
		Price              json.RawMessage `json:"price"`
		NeighborhoodRating json.RawMessage `json:"neighborhood_rating"`
		SizeSqm            json.RawMessage `json:"size_sqm"`
		LandlordContact    string          `json:"landlord_contact"`
		ContactNumber      string          `json:"contact_number"`
	}{alias: (*alias)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if l.Price, err = flexibleNumber(aux.Price); err != nil {
		return fmt.Errorf("%w: price: %w", ErrInvalidListing, err)
	}
	if l.NeighborhoodRating, err = flexibleNumber(aux.NeighborhoodRating); err != nil {
		return fmt.Errorf("%w: neighborhood_rating: %w", ErrInvalidListing, err)
	}
	if l.SizeSqm, err = flexibleNumber(aux.SizeSqm); err != nil {
		return fmt.Errorf("%w: size_sqm: %w", ErrInvalidListing, err)
	}

	if l.Contact == "" {
		l.Contact = aux.LandlordContact
	}
	if l.Contact == "" {
		l.Contact = aux.ContactNumber
	}
	return nil
}

func flexibleNumber(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Float returns a pointer to v. Handy for optional numeric listing fields.
func Float(v float64) *float64 {
	return &v
}
