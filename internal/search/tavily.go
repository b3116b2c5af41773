package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// maxResultsCap is the provider-side ceiling on results per query.
const maxResultsCap = 20

// Tavily implements Provider against the Tavily search API.
type Tavily struct {
	BaseURL    string // defaults to the public API endpoint
	APIKey     string
	HTTPClient *http.Client
}

const defaultTavilyBaseURL = "https://api.tavily.com"

func (t *Tavily) Name() string { return "tavily" }

func (t *Tavily) Search(ctx context.Context, query string, opts Options) ([]Hit, error) {
	if t.APIKey == "" {
		return nil, fmt.Errorf("missing tavily api key")
	}
	base := t.BaseURL
	if base == "" {
		base = defaultTavilyBaseURL
	}
	depth := opts.Depth
	if depth == "" {
		depth = DepthBasic
	}
	limit := opts.MaxResults
	if limit <= 0 {
		limit = 10
	}
	if limit > maxResultsCap {
		limit = maxResultsCap
	}

	body, err := json.Marshal(tavilySearchRequest{
		Query:             query,
		SearchDepth:       string(depth),
		Topic:             "general",
		MaxResults:        limit,
		IncludeRawContent: opts.IncludeRawContent,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	hc := t.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tavily status: %d", resp.StatusCode)
	}
	var tr tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	out := make([]Hit, 0, len(tr.Results))
	for _, r := range tr.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		out = append(out, Hit{
			Title:      strings.TrimSpace(r.Title),
			URL:        strings.TrimSpace(r.URL),
			Snippet:    strings.TrimSpace(r.Content),
			RawContent: r.RawContent,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type tavilySearchRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	Topic             string `json:"topic,omitempty"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Content    string `json:"content"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
}
