package classify

import (
	"context"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/ledger"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

type fakeLLM struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeLLM) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.responses[i]}},
		},
	}, nil
}

func makeHits(n int) []search.Hit {
	hits := make([]search.Hit, n)
	for i := range hits {
		hits[i] = search.Hit{
			Title:   fmt.Sprintf("Product %d", i+1),
			URL:     fmt.Sprintf("https://shop.example.com/p/%d", i+1),
			Snippet: fmt.Sprintf("Product %d for sale", i+1),
		}
	}
	return hits
}

func TestFilter_KeepsSelectedIndices(t *testing.T) {
	c := &Classifier{Client: &fakeLLM{responses: []string{"[1, 3]"}}, Model: "m"}
	led := ledger.New()
	out := c.Filter(context.Background(), makeHits(4), led)
	if len(out) != 2 {
		t.Fatalf("got %d hits", len(out))
	}
	if out[0].Title != "Product 1" || out[1].Title != "Product 3" {
		t.Fatalf("wrong hits kept: %+v", out)
	}
	if led.FilterCalls != 1 {
		t.Fatalf("filter calls = %d", led.FilterCalls)
	}
}

func TestFilter_FencedResponse(t *testing.T) {
	c := &Classifier{Client: &fakeLLM{responses: []string{"```json\n[2]\n```"}}, Model: "m"}
	out := c.Filter(context.Background(), makeHits(3), ledger.New())
	if len(out) != 1 || out[0].Title != "Product 2" {
		t.Fatalf("fenced response not handled: %+v", out)
	}
}

func TestFilter_FailsOpenOnError(t *testing.T) {
	c := &Classifier{Client: &fakeLLM{err: fmt.Errorf("rate limited")}, Model: "m"}
	led := ledger.New()
	hits := makeHits(3)
	out := c.Filter(context.Background(), hits, led)
	if len(out) != len(hits) {
		t.Fatalf("API failure must keep the whole batch, got %d of %d", len(out), len(hits))
	}
	if led.FilterCalls != 0 {
		t.Fatalf("failed calls must not be billed, got %d", led.FilterCalls)
	}
}

func TestFilter_FailsOpenOnGarbageOutput(t *testing.T) {
	c := &Classifier{Client: &fakeLLM{responses: []string{"I think all of them look fine."}}, Model: "m"}
	hits := makeHits(2)
	out := c.Filter(context.Background(), hits, ledger.New())
	if len(out) != len(hits) {
		t.Fatalf("unparseable output must keep the batch, got %d", len(out))
	}
}

func TestFilter_IgnoresOutOfRangeAndDuplicateIndices(t *testing.T) {
	c := &Classifier{Client: &fakeLLM{responses: []string{"[0, 2, 2, 9]"}}, Model: "m"}
	out := c.Filter(context.Background(), makeHits(3), ledger.New())
	if len(out) != 1 || out[0].Title != "Product 2" {
		t.Fatalf("index hygiene failed: %+v", out)
	}
}

func TestFilter_Batches(t *testing.T) {
	// Seven hits split 5+2; each batch keeps its first result.
	f := &fakeLLM{responses: []string{"[1]", "[1]"}}
	c := &Classifier{Client: f, Model: "m"}
	out := c.Filter(context.Background(), makeHits(7), ledger.New())
	if f.calls != 2 {
		t.Fatalf("expected 2 batch calls, got %d", f.calls)
	}
	if len(out) != 2 {
		t.Fatalf("got %d hits", len(out))
	}
	if out[1].Title != "Product 6" {
		t.Fatalf("second batch indexing wrong: %q", out[1].Title)
	}
}

func TestFilter_Empty(t *testing.T) {
	c := &Classifier{Client: &fakeLLM{}, Model: "m"}
	if out := c.Filter(context.Background(), nil, ledger.New()); len(out) != 0 {
		t.Fatalf("expected no hits, got %d", len(out))
	}
}
