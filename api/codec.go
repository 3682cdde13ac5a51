package api

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/snappy"
)

// ContentEncodingSnappy marks a payload compressed with snappy block encoding.
const ContentEncodingSnappy = "snappy"

// Encode marshals a message to JSON and optionally compresses it.
func Encode(msg any, compress bool) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	if compress {
		return snappy.Encode(nil, b), nil
	}
	return b, nil
}

// Decode reverses Encode.
func Decode(data []byte, compressed bool, msg any) error {
	if compressed {
		var err error
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return fmt.Errorf("failed to decompress message: %w", err)
		}
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}
