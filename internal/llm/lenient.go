package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON recovers a JSON value from raw model output. Model formatting
// is not contractually guaranteed: responses arrive wrapped in code fences,
// prefixed with prose, or truncated mid-structure. ExtractJSON maximizes the
// recoverable signal and returns nil when nothing parseable remains; it never
// returns an error. Callers must treat nil as "no data extracted".
func ExtractJSON(raw string) json.RawMessage {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = stripFences(s)
	if v := decodeFirstValue(s); v != nil {
		return v
	}

	// The model ignored instructions and added leading prose; skip to the
	// first structural character and try again.
	i := strings.IndexAny(s, "{[")
	if i < 0 {
		return nil
	}
	s = s[i:]
	if v := decodeFirstValue(s); v != nil {
		return v
	}

	// Likely truncated mid-structure (output token limit). Cut back to the
	// last complete closing brace and re-close the outer structure.
	if repaired := repairTruncated(s); repaired != "" {
		if v := decodeFirstValue(repaired); v != nil {
			return v
		}
	}
	return nil
}

// decodeFirstValue parses the first JSON value in s, tolerating trailing
// text after it. Returns nil if s does not start with a valid value.
func decodeFirstValue(s string) json.RawMessage {
	dec := json.NewDecoder(strings.NewReader(s))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// stripFences removes a surrounding markdown code fence, labeled or not.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]
	// Drop the fence label line ("json", "JSON", ...) if present.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairTruncated takes a string beginning with '{' or '[' that failed to
// parse, cuts it at the last complete closing brace, and appends closers for
// every structure still open at that point. Returns "" if no closing brace
// exists or the prefix is unbalanceable (e.g. cut inside a string).
func repairTruncated(s string) string {
	idx := strings.LastIndexAny(s, "}]")
	if idx < 0 {
		return ""
	}
	s = s[:idx+1]

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "" // mismatched nesting, not repairable
			}
			stack = stack[:len(stack)-1]
		}
	}
	if inString {
		return ""
	}

	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}
