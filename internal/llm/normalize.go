// Package llm provides normalization helpers for raw model responses.
package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON strips a markdown code fence from a model response.
// Models wrap JSON in ``` or ```json blocks regardless of instructions;
// a response without a fence is returned trimmed but otherwise unchanged.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		matches := codeFenceRe.FindStringSubmatch(response)
		if len(matches) > 1 {
			response = strings.TrimSpace(matches[1])
		}
	}

	return response
}

// DecodeJSON unmarshals a model response into v after stripping any
// code fence. When the cleaned text still fails to parse, it falls back
// to the outermost {...} span before giving up. The returned error means
// the response carried no usable JSON; callers decide what to substitute.
func DecodeJSON(response string, v any) error {
	cleaned := ExtractJSON(response)

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		// Try to find JSON object in response
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start >= 0 && end > start {
			if err2 := json.Unmarshal([]byte(cleaned[start:end+1]), v); err2 == nil {
				return nil
			}
		}
		return fmt.Errorf("invalid JSON in model response: %w", err)
	}

	return nil
}
