// Package jsonx recovers JSON payloads from the free text an LLM returns.
// Models are instructed to answer with bare JSON but routinely wrap it in
// markdown fences or surround it with narration, so every call site funnels
// through these helpers instead of parsing ad hoc.
package jsonx

import "strings"

// StripFences removes markdown code fences (``` and ```json) from a response.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// FirstObject returns the first balanced {...} span in s. Braces are counted
// rather than taking first/last, since nested objects and string values may
// contain braces of their own. Brace characters inside double-quoted strings
// are ignored.
func FirstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
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
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// FirstArray returns the substring between the first '[' and the last ']' in
// s. Classifier responses are flat index arrays, so the crude span is enough.
func FirstArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
