// Package extractor recovers structured documents from generative model output.
//
// A model asked for JSON does not always return JSON. Extract tries, in order,
// the whole text as a JSON document, the first fenced code block, and finally
// labeled free-text sections ("analysis: ...", "{score}: 80"). It never fails
// on malformed input.
package extractor

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// ReasoningEndMarker closes the hidden reasoning preamble some models emit.
const ReasoningEndMarker = "</think>"

// Shape describes the document a prompt asked for.
type Shape[T any] struct {
	// Required top-level keys a strict document must carry (non-null).
	Required []string
	// Validate optionally rejects a decoded document.
	Validate func(*T) error
	// Fields drive the labeled-text fallback.
	Fields []Field
}

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Extract parses raw model text into a StrictParse[T] or a FallbackParse.
func Extract[T any](raw string, shape Shape[T]) Result {
	text := strings.TrimSpace(StripReasoning(raw))

	if doc, ok := decodeStrict(text, shape); ok {
		return StrictParse[T]{Doc: doc, Source: PathStrict}
	}

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if doc, ok := decodeStrict(m[1], shape); ok {
			return StrictParse[T]{Doc: doc, Source: PathFenced}
		}
	}

	return parseFallback(text, shape.Fields)
}

// StripReasoning drops everything up to and including the first reasoning end marker.
func StripReasoning(text string) string {
	if idx := strings.Index(text, ReasoningEndMarker); idx >= 0 {
		return text[idx+len(ReasoningEndMarker):]
	}
	return text
}

func decodeStrict[T any](text string, shape Shape[T]) (T, bool) {
	var doc T

	data := []byte(strings.TrimSpace(text))
	if len(data) == 0 || data[0] != '{' {
		return doc, false
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return doc, false
	}
	for _, k := range shape.Required {
		v, ok := keys[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return doc, false
		}
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, false
	}
	if shape.Validate != nil {
		if err := shape.Validate(&doc); err != nil {
			return doc, false
		}
	}

	return doc, true
}
