package recheck

import (
	"context"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/extract"
	"github.com/SudhakarGollapinni/DealFinder/internal/notify"
	"github.com/SudhakarGollapinni/DealFinder/internal/resolve"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

type fakeProvider struct {
	hits    []search.Hit
	queries []string
}

func (f *fakeProvider) Search(_ context.Context, query string, _ search.Options) ([]search.Hit, error) {
	f.queries = append(f.queries, query)
	return f.hits, nil
}

func (f *fakeProvider) Name() string { return "fake" }

type fakeLLM struct{}

func (fakeLLM) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, _ string, _ search.Depth, _ extract.Format) (string, error) {
	return `{"results": []}`, nil
}

type fakeSender struct {
	alerts []notify.Alert
}

func (f *fakeSender) Send(_ notify.Subscription, alert notify.Alert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}

func TestSweep_AlertsOnPriceDrop(t *testing.T) {
	store, err := notify.Open(filepath.Join(t.TempDir(), "subs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	last := 400.0
	if _, err := store.Add(notify.Subscription{
		ProductName: "Sony WH-1000XM5",
		Email:       "a@example.com",
		LastPrice:   &last,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	provider := &fakeProvider{hits: []search.Hit{{
		Title:   "Sony WH-1000XM5",
		URL:     "https://www.bestbuy.com/site/sony-wh1000xm5",
		Snippet: "Now $329.99 with free shipping",
	}}}
	sender := &fakeSender{}
	c := &Checker{
		Store:    store,
		Provider: provider,
		Resolver: &resolve.Resolver{Client: fakeLLM{}, Model: "m", Extractor: fakeExtractor{}},
		Sender:   sender,
	}

	c.Sweep(context.Background())

	if len(provider.queries) != 1 || provider.queries[0] != "Sony WH-1000XM5 price" {
		t.Fatalf("queries = %v", provider.queries)
	}
	if len(sender.alerts) != 1 {
		t.Fatalf("got %d alerts", len(sender.alerts))
	}
	a := sender.alerts[0]
	if a.OldPrice != 400 || a.NewPrice != 329.99 {
		t.Fatalf("alert = %+v", a)
	}

	subs, err := store.ByProduct("Sony WH-1000XM5")
	if err != nil || len(subs) != 1 {
		t.Fatalf("by product: %v (%d)", err, len(subs))
	}
	if subs[0].LastPrice == nil || *subs[0].LastPrice != 329.99 {
		t.Fatalf("last price not updated: %v", subs[0].LastPrice)
	}
}

func TestSweep_NoAlertWhenPriceHigher(t *testing.T) {
	store, err := notify.Open(filepath.Join(t.TempDir(), "subs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	last := 300.0
	if _, err := store.Add(notify.Subscription{
		ProductName: "Sony WH-1000XM5",
		Email:       "a@example.com",
		LastPrice:   &last,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	provider := &fakeProvider{hits: []search.Hit{{
		Title:   "Sony WH-1000XM5",
		URL:     "https://www.bestbuy.com/site/sony-wh1000xm5",
		Snippet: "Now $329.99 with free shipping",
	}}}
	sender := &fakeSender{}
	c := &Checker{
		Store:    store,
		Provider: provider,
		Resolver: &resolve.Resolver{Client: fakeLLM{}, Model: "m", Extractor: fakeExtractor{}},
		Sender:   sender,
	}
	c.Sweep(context.Background())

	if len(sender.alerts) != 0 {
		t.Fatalf("unexpected alerts: %+v", sender.alerts)
	}
	subs, _ := store.ByProduct("Sony WH-1000XM5")
	if subs[0].LastPrice == nil || *subs[0].LastPrice != 329.99 {
		t.Fatalf("last price should still update: %v", subs[0].LastPrice)
	}
}
