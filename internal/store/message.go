package store

import (
	"encoding/json"
	"fmt"
)

// Message types, matching the vocabulary the log was originally written
// with. Stored payloads with other types are rejected on write and skipped
// on read.
const (
	TypeHuman  = "human"
	TypeAI     = "ai"
	TypeSystem = "system"
)

// Message is one turn of a conversation.
type Message struct {
	Type    string // "human" | "ai" | "system"
	Content string
}

// ValidType reports whether t is a known message type.
func ValidType(t string) bool {
	switch t {
	case TypeHuman, TypeAI, TypeSystem:
		return true
	}
	return false
}

// payload is the JSONB wire shape of a stored message:
//
//	{"type": "human", "data": {"content": "hi im bob"}}
//
// The data object gives future auxiliary fields a home without a schema
// migration.
type payload struct {
	Type string      `json:"type"`
	Data payloadData `json:"data"`
}

type payloadData struct {
	Content string `json:"content"`
}

// marshalMessage serializes a message to its JSONB payload.
func marshalMessage(msg Message) ([]byte, error) {
	if !ValidType(msg.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, msg.Type)
	}

	data, err := json.Marshal(payload{
		Type: msg.Type,
		Data: payloadData{Content: msg.Content},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	return data, nil
}

// unmarshalMessage deserializes a JSONB payload into a message.
func unmarshalMessage(data []byte) (Message, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if !ValidType(p.Type) {
		return Message{}, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, p.Type)
	}
	return Message{Type: p.Type, Content: p.Data.Content}, nil
}
