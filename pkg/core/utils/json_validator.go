package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Format names the parsing strategy that accepted a document.
type Format string

const (
	FormatJSON     Format = "json"
	FormatRepaired Format = "repaired_json"
	FormatHJSON    Format = "hjson"
)

// ErrUnparseable is returned when no strategy could decode the input.
var ErrUnparseable = errors.New("input is neither JSON nor HJSON")

// DecodeStrict decodes exactly one JSON value from r into v. Unknown fields
// and trailing data are rejected so typos in request bodies surface as errors
// instead of silently zero-valued inputs.
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: unexpected data after top-level value")
	}
	return nil
}

// RepairJSON fixes common hand-editing mistakes: missing quotes around keys,
// single quotes, trailing commas, comments and markdown code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts Hjson (comments, unquoted keys, optional commas) to
// standard JSON.
func ParseHJSON(data []byte) ([]byte, error) {
	var result any
	if err := hjson.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("HJSON_PARSE_ERROR: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("JSON_MARSHAL_ERROR: %w", err)
	}
	return out, nil
}

// SmartParse decodes input into v, trying in order:
// 1. Standard JSON
// 2. Hjson
// 3. JSON repair
//
// Hjson is tried before repair because valuation input files are written by
// hand and Hjson preserves their numbers exactly.
func SmartParse(input []byte, v any) (Format, error) {
	// Try 1: Standard JSON
	if err := json.Unmarshal(input, v); err == nil {
		return FormatJSON, nil
	}

	// Try 2: Hjson
	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal(converted, v); err == nil {
			return FormatHJSON, nil
		}
	}

	// Try 3: JSON repair
	if repaired, err := RepairJSON(string(bytes.TrimSpace(input))); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return FormatRepaired, nil
		}
	}

	return "", ErrUnparseable
}
