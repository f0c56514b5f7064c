// Package modeljson recovers JSON payloads from free-form model output.
// Models wrap JSON in markdown fences or surround it with prose; callers
// decode through Extract instead of trusting the raw string.
package modeljson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON reports that no parseable JSON object was found in the output.
var ErrNoJSON = errors.New("no json object in model output")

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Extract returns the first JSON object found in raw, trying in order:
// a fenced ```json block, the raw string itself, then the widest
// outer-brace substring.
func Extract(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrNoJSON
	}

	if match := fencedBlockPattern.FindStringSubmatch(trimmed); match != nil {
		if json.Valid([]byte(match[1])) {
			return match[1], nil
		}
	}

	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", ErrNoJSON
}

// Decode extracts and unmarshals in one step.
func Decode(raw string, v any) error {
	payload, err := Extract(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}
