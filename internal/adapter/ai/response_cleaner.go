// Package ai implements the AI delegate against an OpenRouter-compatible
// chat completions API, plus the response hygiene around it.
package ai

import (
	"strings"
)

// ResponseCleaner strips the decoration LLMs like to wrap around JSON:
// markdown fences, leading prose, trailing commentary.
type ResponseCleaner struct{}

// NewResponseCleaner creates a response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

// CleanJSONResponse returns the JSON object embedded in a model reply.
// The result is not guaranteed to be valid JSON; decoding decides that.
func (rc *ResponseCleaner) CleanJSONResponse(response string) string {
	response = rc.removeMarkdownFences(response)
	return rc.extractObject(response)
}

func (rc *ResponseCleaner) removeMarkdownFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// extractObject cuts out the first brace-balanced object. Braces inside
// JSON strings are skipped so achievement text cannot derail the scan.
func (rc *ResponseCleaner) extractObject(response string) string {
	start := strings.Index(response, "{")
	if start < 0 {
		return response
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		ch := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}
