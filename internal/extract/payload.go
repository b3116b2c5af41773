package extract

import (
	"encoding/json"
	"strings"
)

// PageResult is one extracted page inside a provider payload.
type PageResult struct {
	URL        string `json:"url"`
	RawContent string `json:"raw_content"`
	Content    string `json:"content"`
}

func (p PageResult) text() string {
	if p.RawContent != "" {
		return p.RawContent
	}
	return p.Content
}

// Payload is the tagged result of parsing an extract provider's opaque
// payload text. Either Results holds structured page records, or Malformed is
// set and Raw carries the text as-is for best-effort downstream scanning.
type Payload struct {
	Results   []PageResult
	Malformed bool
	Raw       string
}

// payloadEnvelope covers the shapes providers have been observed to return:
// a results list, or a bare raw_content/content record.
type payloadEnvelope struct {
	Results    []PageResult `json:"results"`
	RawContent string       `json:"raw_content"`
	Content    string       `json:"content"`
}

// ParsePayload interprets the opaque text from an extract call. The text may
// be valid JSON, a Python-literal rendering of the same structure (single
// quotes, None/True/False), or neither; the last case yields a Malformed
// payload rather than an error so callers can still scan the raw text.
func ParsePayload(text string) Payload {
	var env payloadEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		normalized, ok := pythonLiteralToJSON(text)
		if !ok || json.Unmarshal([]byte(normalized), &env) != nil {
			return Payload{Malformed: true, Raw: text}
		}
	}
	switch {
	case len(env.Results) > 0:
		return Payload{Results: env.Results}
	case env.RawContent != "":
		return Payload{Results: []PageResult{{RawContent: env.RawContent}}}
	case env.Content != "":
		return Payload{Results: []PageResult{{Content: env.Content}}}
	default:
		return Payload{Malformed: true, Raw: text}
	}
}

// ContentFor returns the page content for the requested URL. The record whose
// URL matches wins; otherwise the first record is used. Malformed payloads
// return the raw text.
func (p Payload) ContentFor(url string) string {
	if p.Malformed {
		return p.Raw
	}
	for _, r := range p.Results {
		if r.URL == url {
			return r.text()
		}
	}
	if len(p.Results) > 0 {
		return p.Results[0].text()
	}
	return ""
}

// pythonLiteralToJSON rewrites a Python-literal dict/list rendering into JSON:
// single-quoted strings become double-quoted with proper escaping, and the
// bare tokens None/True/False become null/true/false. Returns false when the
// text does not even look like a literal.
func pythonLiteralToJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || (s[0] != '{' && s[0] != '[') {
		return "", false
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\'':
			str, next, ok := readPyString(s, i, '\'')
			if !ok {
				return "", false
			}
			b.WriteString(str)
			i = next
		case '"':
			str, next, ok := readPyString(s, i, '"')
			if !ok {
				return "", false
			}
			b.WriteString(str)
			i = next
		default:
			if replaced, width, ok := pyToken(s, i); ok {
				b.WriteString(replaced)
				i += width
				continue
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), true
}

// readPyString consumes a quoted string starting at s[start] and returns its
// JSON (double-quoted) form plus the index past the closing quote.
func readPyString(s string, start int, quote byte) (string, int, bool) {
	var b strings.Builder
	b.WriteByte('"')
	i := start + 1
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return "", 0, false
			}
			next := s[i+1]
			if next == '\'' {
				// \' has no meaning in JSON; emit the bare quote
				b.WriteByte('\'')
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			i += 2
		case quote:
			b.WriteByte('"')
			return b.String(), i + 1, true
		case '"':
			b.WriteString(`\"`)
			i++
		case '\n':
			b.WriteString(`\n`)
			i++
		case '\t':
			b.WriteString(`\t`)
			i++
		case '\r':
			b.WriteString(`\r`)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

// pyToken matches the bare Python constants at s[i] and returns their JSON
// spelling.
func pyToken(s string, i int) (string, int, bool) {
	for _, t := range [...]struct{ py, js string }{
		{"None", "null"}, {"True", "true"}, {"False", "false"},
	} {
		if strings.HasPrefix(s[i:], t.py) {
			end := i + len(t.py)
			if end == len(s) || !isWordByte(s[end]) {
				return t.js, len(t.py), true
			}
		}
	}
	return "", 0, false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
