package types

import (
	"encoding/json"
	"fmt"
)

// DefaultConverter decodes a stored JSON object into the field map and
// injects the synthetic id.
//
// This is the converter sources fall back to when the caller supplies none.
func DefaultConverter(id string, data []byte) (Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Document{}, fmt.Errorf("failed to decode document %q: %w", id, err)
	}

	return NewDocument(id, fields), nil
}
