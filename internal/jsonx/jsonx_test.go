package jsonx

import "testing"

func TestStripFences(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	if got := StripFences(in); got != `{"a": 1}` {
		t.Fatalf("StripFences = %q", got)
	}
	if got := StripFences("no fences"); got != "no fences" {
		t.Fatalf("StripFences passthrough = %q", got)
	}
}

func TestFirstObject_Nested(t *testing.T) {
	in := `Here is the result: {"a": {"b": 2}, "c": 3} hope that helps`
	got, ok := FirstObject(in)
	if !ok {
		t.Fatalf("expected object")
	}
	if got != `{"a": {"b": 2}, "c": 3}` {
		t.Fatalf("FirstObject = %q", got)
	}
}

func TestFirstObject_BracesInsideStrings(t *testing.T) {
	in := `{"details": "size {large}", "price": "$99"}`
	got, ok := FirstObject(in)
	if !ok || got != in {
		t.Fatalf("FirstObject = %q, ok=%v", got, ok)
	}
}

func TestFirstObject_EscapedQuotes(t *testing.T) {
	in := `{"name": "13\" laptop"} trailing`
	got, ok := FirstObject(in)
	if !ok || got != `{"name": "13\" laptop"}` {
		t.Fatalf("FirstObject = %q, ok=%v", got, ok)
	}
}

func TestFirstObject_None(t *testing.T) {
	if _, ok := FirstObject("no json here"); ok {
		t.Fatalf("expected no object")
	}
	if _, ok := FirstObject("{unclosed"); ok {
		t.Fatalf("expected no object for unbalanced braces")
	}
}

func TestFirstArray(t *testing.T) {
	got, ok := FirstArray("The answer is [1, 3, 5].")
	if !ok || got != "[1, 3, 5]" {
		t.Fatalf("FirstArray = %q, ok=%v", got, ok)
	}
	if _, ok := FirstArray("nothing"); ok {
		t.Fatalf("expected no array")
	}
}
