package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models are instructed to return bare JSON but routinely wrap it in prose
// or code fences. The greedy match finds the widest {...} span in one pass.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON recovers a single JSON object from free-form model output.
// Recovery stages, cheapest first, stopping at the first success:
//
//  1. parse the whole trimmed text
//  2. parse the greedy {...} regex match
//  3. scan from the first '{' with a brace-depth counter and parse the
//     substring ending where the depth returns to zero
//
// If all stages fail a *ParseError carrying a truncated copy of the input
// is returned.
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, newParseError("empty input", text)
	}

	if raw, ok := tryParse(trimmed); ok {
		return raw, nil
	}

	if match := jsonObjectPattern.FindString(trimmed); match != "" {
		if raw, ok := tryParse(match); ok {
			return raw, nil
		}
	} else {
		return nil, newParseError("no json object found", text)
	}

	if candidate := scanBalancedObject(trimmed); candidate != "" {
		if raw, ok := tryParse(candidate); ok {
			return raw, nil
		}
		return nil, newParseError("invalid json syntax", text)
	}

	return nil, newParseError("unmatched braces", text)
}

func tryParse(candidate string) (json.RawMessage, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

// scanBalancedObject returns the substring from the first '{' through the
// brace that balances it, or "" when no balanced object exists.
func scanBalancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
