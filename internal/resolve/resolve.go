// Package resolve turns classified search hits into priced product records.
// For each hit it decides between the cheap snippet fast path and costly
// full-page extraction with LLM parsing, applying carrier and manufacturer
// override rules, and stops once a target number of priced products is found.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/extract"
	"github.com/SudhakarGollapinni/DealFinder/internal/jsonx"
	"github.com/SudhakarGollapinni/DealFinder/internal/ledger"
	"github.com/SudhakarGollapinni/DealFinder/internal/llm"
	"github.com/SudhakarGollapinni/DealFinder/internal/policy"
	"github.com/SudhakarGollapinni/DealFinder/internal/price"
	"github.com/SudhakarGollapinni/DealFinder/internal/product"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

const (
	// defaultTarget is how many priced products a request aims for.
	defaultTarget = 9
	// defaultMaxCandidates bounds how many hits are processed even when
	// extraction keeps failing, to cap worst-case latency and cost.
	defaultMaxCandidates = 15
	// detailsChars caps the snippet excerpt used as fast-path details.
	detailsChars = 150
	// excerptChars caps the page content handed to the extraction LLM.
	excerptChars = 4000
)

// Resolver produces zero or one product per hit.
type Resolver struct {
	Client    llm.Client
	Model     string
	Extractor extract.Extractor

	// TargetCount and MaxCandidates fall back to the defaults when zero.
	TargetCount   int
	MaxCandidates int
}

// Resolve processes hits sequentially, emitting at most TargetCount priced
// products. A hit's failure is terminal for that hit only; the loop always
// continues to the next one.
func (r *Resolver) Resolve(ctx context.Context, query string, hits []search.Hit, led *ledger.Ledger) []product.Product {
	target := r.TargetCount
	if target <= 0 {
		target = defaultTarget
	}
	maxN := r.MaxCandidates
	if maxN <= 0 {
		maxN = defaultMaxCandidates
	}
	if len(hits) > maxN {
		hits = hits[:maxN]
	}
	out := make([]product.Product, 0, target)
	for _, h := range hits {
		if len(out) >= target {
			log.Debug().Int("count", len(out)).Msg("target product count reached; stopping")
			break
		}
		if ctx.Err() != nil {
			break
		}
		p, ok := r.resolveHit(ctx, query, h, led)
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// resolveHit runs the per-hit decision procedure. The boolean is false when
// the hit is skipped for any reason.
func (r *Resolver) resolveHit(ctx context.Context, query string, h search.Hit, led *ledger.Ledger) (product.Product, bool) {
	act := policy.Lookup(h.URL)

	// Hard exclusion pre-filter: known non-commerce platforms, review-like
	// keywords in URL or title, PDFs.
	if act.Exclude {
		log.Debug().Str("url", h.URL).Msg("skipping excluded domain")
		return product.Product{}, false
	}
	if policy.IsPDF(h.URL) || policy.HasExcludedKeyword(h.URL, h.Title) {
		log.Debug().Str("url", h.URL).Msg("skipping PDF or non-product page")
		return product.Product{}, false
	}

	snippet := h.SnippetOrRaw()
	var scan snippetScan
	if snippet != "" {
		if hasReviewLanguage(snippet) {
			log.Debug().Str("url", h.URL).Msg("skipping review-like snippet")
			return product.Product{}, false
		}
		scan = scanSnippet(snippet, act)
	}

	// Forced full extraction: manufacturer stores rarely put prices in
	// snippets, and carrier snippet prices are only trusted when explicitly
	// qualified as full retail.
	if act.ForceFullExtraction {
		scan = snippetScan{}
	}
	if act.PreferFullRetail && snippet != "" && !hasFullRetailPhrase(snippet) {
		scan = snippetScan{}
	}

	if scan.found != "" {
		display := monthlyAdjust(scan.found, "", snippet, act)
		details := snippet
		if len(details) > detailsChars {
			details = details[:detailsChars]
		}
		led.AddSnippetResult()
		log.Debug().Str("url", h.URL).Str("price", display).Msg("snippet fast path")
		return product.Product{
			Name:    h.Title,
			Details: details,
			Price:   price.Known(display),
			URL:     h.URL,
			Source:  policy.Domain(h.URL),
			InStock: true,
		}, true
	}

	return r.extractHit(ctx, query, h, act, snippet, scan, led)
}

// extractHit is the full extraction path: fetch page content, run LLM
// structured extraction, and recover a price through the fallback chain.
func (r *Resolver) extractHit(ctx context.Context, query string, h search.Hit, act policy.Action, snippet string, scan snippetScan, led *ledger.Ledger) (product.Product, bool) {
	format := extract.FormatText
	if act.Marketplace {
		format = extract.FormatMarkdown
	}
	payloadText, err := r.Extractor.Extract(ctx, h.URL, search.DepthAdvanced, format)
	if err != nil {
		log.Warn().Err(err).Str("url", h.URL).Msg("extraction failed; skipping hit")
		return product.Product{}, false
	}
	led.AddExtractCall()

	content := strings.TrimSpace(extract.ParsePayload(payloadText).ContentFor(h.URL))
	if extract.LooksLikeHTML(content) {
		if text := extract.TextFromHTML(content); text != "" {
			content = text
		}
	}
	if content == "" || content == "None" {
		log.Debug().Str("url", h.URL).Msg("no content extracted; skipping hit")
		return product.Product{}, false
	}
	excerpt := content
	if len(excerpt) > excerptChars {
		excerpt = excerpt[:excerptChars]
	}

	resp, err := r.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildExtractionPrompt(query, h.Title, h.URL, excerpt, act)},
		},
		Temperature: 0.2,
		MaxTokens:   400,
		N:           1,
	})
	if err != nil {
		log.Warn().Err(err).Str("url", h.URL).Msg("extraction LLM call failed; skipping hit")
		return product.Product{}, false
	}
	led.AddExtractionLLMCall()

	raw := jsonx.StripFences(llm.FirstContent(resp))
	fields, err := parseExtraction(raw)
	if err != nil {
		// The model answered with no usable JSON; a direct currency scan of
		// the excerpt is the sole remaining price source.
		log.Debug().Err(err).Str("url", h.URL).Msg("extraction output not JSON; regex fallback")
		display := currencyRe.FindString(excerpt)
		if display == "" {
			return product.Product{}, false
		}
		display = monthlyAdjust(display, excerpt, snippet, act)
		led.AddResult()
		return product.Product{
			Name:    h.Title,
			Price:   price.Known(display),
			URL:     h.URL,
			Source:  policy.Domain(h.URL),
			InStock: true,
		}, true
	}

	display := fields.priceDisplay()
	if isUnavailableDisplay(display) {
		display = fallbackPrice(excerpt, scan)
	}
	display = monthlyAdjust(display, excerpt, snippet, act)
	p := price.Known(display)
	if !p.IsKnown() {
		log.Debug().Str("url", h.URL).Msg("no price after fallbacks; skipping hit")
		return product.Product{}, false
	}

	name := strings.TrimSpace(fields.ProductName)
	if name == "" {
		name = h.Title
	}
	led.AddResult()
	return product.Product{
		Name:     name,
		Details:  fields.Details,
		Price:    p,
		DealInfo: fields.DealInfo,
		URL:      h.URL,
		Source:   policy.Domain(h.URL),
		InStock:  fields.inStock(),
	}, true
}

// fallbackPrice applies the ordered fallback chain when the LLM produced no
// usable price: currency scan of the excerpt, then the fast-path snippet
// price, then the weaker backup match.
func fallbackPrice(excerpt string, scan snippetScan) string {
	if m := currencyRe.FindString(excerpt); m != "" {
		return m
	}
	if scan.found != "" {
		return scan.found
	}
	return scan.backup
}

func isUnavailableDisplay(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null", "price not available":
		return true
	}
	return false
}

// extractedFields is the JSON object the extraction prompt demands. Price is
// loosely typed because models occasionally answer with a bare number.
type extractedFields struct {
	ProductName string          `json:"product_name"`
	Details     string          `json:"details"`
	Price       json.RawMessage `json:"price"`
	DealInfo    string          `json:"deal_info"`
	InStock     *bool           `json:"in_stock"`
}

func (f extractedFields) priceDisplay() string {
	if len(f.Price) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.Price, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(f.Price, &n); err == nil {
		return strings.TrimSpace(fmt.Sprintf("$%g", n))
	}
	return ""
}

func (f extractedFields) inStock() bool {
	if f.InStock == nil {
		return true
	}
	return *f.InStock
}

func parseExtraction(raw string) (extractedFields, error) {
	obj, ok := jsonx.FirstObject(raw)
	if !ok {
		return extractedFields{}, fmt.Errorf("no JSON object in output")
	}
	var fields extractedFields
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return extractedFields{}, fmt.Errorf("parse extraction json: %w", err)
	}
	return fields, nil
}
