package worldv1

import (
	"encoding/json"
	"fmt"
)

// CodecName is the connect codec name, sent as application/json.
const CodecName = "json"

// Codec serializes the plain-struct messages of this package as JSON.
// Register it on both client and handler with connect.WithCodec.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("worldv1: marshal %T: %w", msg, err)
	}
	return b, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("worldv1: unmarshal %T: %w", msg, err)
	}
	return nil
}
