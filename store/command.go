package store

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/golang/snappy"
)

const (
	CommandPut = "put"
)

const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
)

type Command struct {
	Name      string         `json:"name"`
	Uuid      string         `json:"uuid"`
	Timestamp int64          `json:"timestamp"`
	Payload   jsontext.Value `json:"payload"`
}

type PutPayload struct {
	Key         []byte `json:"key"`
	Value       []byte `json:"value"`
	Compression string `json:"compression,omitempty"`
}

func encodeValue(compression string, value []byte) ([]byte, error) {
	switch compression {
	case "", CompressionNone:
		return value, nil
	case CompressionSnappy:
		return snappy.Encode(nil, value), nil
	}
	return nil, fmt.Errorf("unknown compression '%s'", compression)
}

func decodeValue(compression string, value []byte) ([]byte, error) {
	switch compression {
	case "", CompressionNone:
		return value, nil
	case CompressionSnappy:
		decoded, err := snappy.Decode(nil, value)
		if err != nil {
			return nil, fmt.Errorf("snappy decode: %w", err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("unknown compression '%s'", compression)
}

func decodePut(command *Command) (*PutPayload, error) {
	payload := &PutPayload{}
	err := json.Unmarshal(command.Payload, payload)
	if err != nil {
		return nil, fmt.Errorf("decode put payload: %w", err)
	}

	payload.Value, err = decodeValue(payload.Compression, payload.Value)
	if err != nil {
		return nil, err
	}

	return payload, nil
}
