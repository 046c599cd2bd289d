package service

import (
	"encoding/json"
	"fmt"
)

// serialize converts a value to the text that gets encrypted. Strings pass
// through verbatim; every other value becomes its JSON text. JSON renders
// numbers, booleans and nil the same way their plain string forms read, so
// callers storing scalars get back what they would expect.
func serialize(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serialize value: %w", err)
	}

	return string(payload), nil
}
