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

package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Marshal serializes a stored value to bytes.
func Marshal[T any](v *T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// Unmarshal deserializes a stored value from bytes.
func Unmarshal[T any](data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, nil
}

// MarshalID serializes a sequence ID to 8 big-endian bytes so keys sort numerically.
func MarshalID(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

// UnmarshalID deserializes a sequence ID from bytes.
func UnmarshalID(data []byte) (uint64, error) {
	if len(data) < 8 {
		return 0, ErrTruncatedData
	}
	return binary.BigEndian.Uint64(data), nil
}

// MarshalCounter serializes a counter value.
func MarshalCounter(n int64) []byte {
	return MarshalID(uint64(n))
}

// UnmarshalCounter deserializes a counter value.
func UnmarshalCounter(data []byte) (int64, error) {
	n, err := UnmarshalID(data)
	return int64(n), err
}
