package search

import (
	"context"
)

// Hit represents a single raw search result from any provider. Snippet may be
// empty; RawContent is only populated when the provider was asked for it.
type Hit struct {
	Title      string
	URL        string
	Snippet    string
	RawContent string
}

// Depth selects how much work the provider spends per query.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthAdvanced Depth = "advanced"
)

// Options configures a single search call.
type Options struct {
	Depth Depth
	// MaxResults caps the number of hits returned; providers clamp to 20.
	MaxResults int
	// IncludeRawContent asks the provider to ship page content alongside the
	// snippet when it has it.
	IncludeRawContent bool
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, opts Options) ([]Hit, error)
	Name() string
}

// SnippetOrRaw returns the hit's snippet, falling back to raw content when
// the snippet is empty.
func (h Hit) SnippetOrRaw() string {
	if h.Snippet != "" {
		return h.Snippet
	}
	return h.RawContent
}
