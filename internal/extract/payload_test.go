package extract

import "testing"

func TestParsePayload_JSONResults(t *testing.T) {
	text := `{"results": [{"url": "https://a.example/p", "raw_content": "Price: $99"}, {"url": "https://b.example/p", "raw_content": "Price: $199"}]}`
	p := ParsePayload(text)
	if p.Malformed {
		t.Fatalf("unexpected malformed payload")
	}
	if len(p.Results) != 2 {
		t.Fatalf("got %d results", len(p.Results))
	}
	if got := p.ContentFor("https://b.example/p"); got != "Price: $199" {
		t.Fatalf("ContentFor url match = %q", got)
	}
	if got := p.ContentFor("https://missing.example"); got != "Price: $99" {
		t.Fatalf("ContentFor fallback to first = %q", got)
	}
}

func TestParsePayload_PythonLiteral(t *testing.T) {
	text := `{'results': [{'url': 'https://a.example/p', 'raw_content': 'It\'s $999 today', 'content': None, 'ok': True}]}`
	p := ParsePayload(text)
	if p.Malformed {
		t.Fatalf("python literal should parse")
	}
	if got := p.ContentFor("https://a.example/p"); got != "It's $999 today" {
		t.Fatalf("ContentFor = %q", got)
	}
}

func TestParsePayload_BareContentEnvelope(t *testing.T) {
	p := ParsePayload(`{"raw_content": "Only $49.99"}`)
	if p.Malformed || len(p.Results) != 1 {
		t.Fatalf("bare raw_content envelope: %+v", p)
	}
	if got := p.ContentFor("anything"); got != "Only $49.99" {
		t.Fatalf("ContentFor = %q", got)
	}

	p = ParsePayload(`{"content": "Just $19.99"}`)
	if got := p.ContentFor(""); got != "Just $19.99" {
		t.Fatalf("content envelope = %q", got)
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	text := "502 Bad Gateway"
	p := ParsePayload(text)
	if !p.Malformed {
		t.Fatalf("expected malformed payload")
	}
	if got := p.ContentFor("https://a.example"); got != text {
		t.Fatalf("malformed ContentFor should return raw text, got %q", got)
	}
}

func TestParsePayload_EmptyEnvelope(t *testing.T) {
	p := ParsePayload(`{"status": "ok"}`)
	if !p.Malformed {
		t.Fatalf("envelope with no content should be malformed")
	}
}

func TestPageResult_RawContentWins(t *testing.T) {
	p := ParsePayload(`{"results": [{"url": "u", "raw_content": "raw", "content": "clean"}]}`)
	if got := p.ContentFor("u"); got != "raw" {
		t.Fatalf("raw_content should win, got %q", got)
	}
}
