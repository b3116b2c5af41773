package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

// Format selects the shape of extracted page content. Markdown preserves the
// structure of marketplace pages with rich markup; text is the default.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Extractor fetches full page content for a URL. The returned string is the
// provider's opaque payload text; callers run it through ParsePayload.
type Extractor interface {
	Extract(ctx context.Context, url string, depth search.Depth, format Format) (string, error)
}

// Tavily implements Extractor against the Tavily extract API.
type Tavily struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

const defaultTavilyBaseURL = "https://api.tavily.com"

func (t *Tavily) Extract(ctx context.Context, url string, depth search.Depth, format Format) (string, error) {
	if t.APIKey == "" {
		return "", fmt.Errorf("missing tavily api key")
	}
	base := t.BaseURL
	if base == "" {
		base = defaultTavilyBaseURL
	}
	if depth == "" {
		depth = search.DepthAdvanced
	}
	if format == "" {
		format = FormatText
	}
	body, err := json.Marshal(tavilyExtractRequest{
		URLs:         []string{url},
		ExtractDepth: string(depth),
		Format:       string(format),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+"/extract", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	hc := t.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("tavily extract status: %d", resp.StatusCode)
	}
	var er tavilyExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return "", err
	}
	if er.Status == "error" {
		return "", fmt.Errorf("tavily extract error: %s", er.firstText())
	}
	text := er.firstText()
	if text == "" {
		return "", fmt.Errorf("empty extract content")
	}
	return text, nil
}

type tavilyExtractRequest struct {
	URLs         []string `json:"urls"`
	ExtractDepth string   `json:"extract_depth"`
	Format       string   `json:"format"`
}

// tavilyExtractResponse mirrors the tool-style envelope: the useful data is a
// stringified structure inside content[0].text.
type tavilyExtractResponse struct {
	Status  string `json:"status"`
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (r tavilyExtractResponse) firstText() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}
