package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNoCollection = errors.New("gateway: response carries no collection")

// unwrapList extracts the collection payload from the backend's
// inconsistent response envelopes. The probe order is fixed:
//
//  1. {"data": [...]}
//  2. {"data": {"<key>": [...]}}
//  3. bare array
//
// key is the resource name the nested form uses, e.g. "bookings". Keeping
// the probing here isolates the collaborator's inconsistency to one seam.
func unwrapList(raw json.RawMessage, key string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errNoCollection
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 {
		return nil, errNoCollection
	}
	if data[0] == '[' {
		return data, nil
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("decode nested envelope: %w", err)
	}
	if inner, ok := nested[key]; ok {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '[' {
			return inner, nil
		}
	}
	return nil, fmt.Errorf("%w: key %q", errNoCollection, key)
}

// unwrapObject returns the single-record payload: {"data": {...}} or the
// bare object.
func unwrapObject(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		if data := bytes.TrimSpace(envelope.Data); len(data) > 0 && data[0] == '{' {
			return data
		}
	}
	return trimmed
}
