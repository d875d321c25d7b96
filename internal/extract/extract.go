// Package extract pulls a JSON object out of free-form model output.
package extract

import (
	"strings"

	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

// RawTextKey is the member name of the fallback object.
const RawTextKey = "raw_text"

// JSONSpan takes the text between the first '{' and the last '}' and parses
// it as strict JSON. When no such span exists or it does not parse, the
// result is {"raw_text": text}. It never fails.
//
// This is a span heuristic, not a scanner: braces inside string literals
// are not understood, so prose like `say "}" then {...}` picks the wrong
// bounds and falls back to raw text.
func JSONSpan(text string) jsonvalue.Value {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return Fallback(text)
	}

	v, err := jsonvalue.Parse([]byte(text[start : end+1]))
	if err != nil {
		return Fallback(text)
	}
	return v
}

// Fallback wraps text as {"raw_text": text}.
func Fallback(text string) jsonvalue.Value {
	return jsonvalue.ObjectOf(jsonvalue.Member{Key: RawTextKey, Value: jsonvalue.String(text)})
}
