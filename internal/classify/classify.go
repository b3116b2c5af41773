// Package classify decides which raw search hits are genuine, purchasable
// product pages. It batches hits into one LLM call per five and fails open:
// when a batch's call or parse fails, the whole batch is kept unfiltered so an
// API hiccup never drops potentially good results.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/jsonx"
	"github.com/SudhakarGollapinni/DealFinder/internal/ledger"
	"github.com/SudhakarGollapinni/DealFinder/internal/llm"
	"github.com/SudhakarGollapinni/DealFinder/internal/policy"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

// batchSize balances prompt size against call count.
const batchSize = 5

// snippetChars caps how much of each snippet goes into the prompt.
const snippetChars = 300

const systemMessage = "You are a search result classifier. Return only JSON arrays."

// Classifier filters search hits down to product purchase pages.
type Classifier struct {
	Client llm.Client
	Model  string
}

// Filter returns the subset of hits judged to be purchasable product pages.
// The ledger records one filtering call per successfully completed batch.
func (c *Classifier) Filter(ctx context.Context, hits []search.Hit, led *ledger.Ledger) []search.Hit {
	if len(hits) == 0 {
		return nil
	}
	kept := make([]search.Hit, 0, len(hits))
	for start := 0; start < len(hits); start += batchSize {
		end := start + batchSize
		if end > len(hits) {
			end = len(hits)
		}
		batch := hits[start:end]
		indices, err := c.classifyBatch(ctx, batch, led)
		if err != nil {
			// Fail open: better to ship a review page than drop a deal.
			log.Warn().Err(err).Int("batch_start", start).Msg("classifier batch failed; keeping batch unfiltered")
			kept = append(kept, batch...)
			continue
		}
		seen := map[int]struct{}{}
		for _, idx := range indices {
			if idx < 1 || idx > len(batch) {
				continue
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			kept = append(kept, batch[idx-1])
			log.Debug().Str("domain", policy.Domain(batch[idx-1].URL)).Msg("classifier kept result")
		}
	}
	return kept
}

func (c *Classifier) classifyBatch(ctx context.Context, batch []search.Hit, led *ledger.Ledger) ([]int, error) {
	if c.Client == nil || c.Model == "" {
		return nil, fmt.Errorf("classifier not configured")
	}
	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(batch)},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier call: %w", err)
	}
	led.AddFilterCall()
	raw := jsonx.StripFences(llm.FirstContent(resp))
	arr, ok := jsonx.FirstArray(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON array in classifier output")
	}
	var indices []int
	if err := json.Unmarshal([]byte(arr), &indices); err != nil {
		return nil, fmt.Errorf("parse classifier indices: %w", err)
	}
	return indices, nil
}

func buildPrompt(batch []search.Hit) string {
	var sb strings.Builder
	sb.WriteString("You are filtering search results to find ONLY actual product purchase pages from e-commerce websites.\n\n")
	sb.WriteString("CRITICAL: Only include pages where users can actually BUY the product with a price and purchase option.\n\n")
	sb.WriteString("INCLUDE (actual product purchase pages):\n")
	sb.WriteString("- Product pages on e-commerce sites (Amazon, Best Buy, Target, Walmart, Newegg, etc.) with prices and \"Add to Cart\" or \"Buy Now\"\n")
	sb.WriteString("- Product pages on brand stores (Apple.com, Samsung.com, Dell.com, etc.) with prices and purchase options\n")
	sb.WriteString("- Online retailers with product listings that show prices and allow immediate purchase\n")
	sb.WriteString("- Pages that clearly have: product price + purchase button + product specifications\n\n")
	sb.WriteString("STRICTLY EXCLUDE (NOT product purchase pages):\n")
	sb.WriteString("- Review websites (Wirecutter, CNET reviews, TechRadar reviews, etc.) - even if they mention prices\n")
	sb.WriteString("- Comparison websites or \"best of\" lists\n")
	sb.WriteString("- PDF files or document downloads\n")
	sb.WriteString("- Product specification sheets or technical documentation\n")
	sb.WriteString("- News articles about products\n")
	sb.WriteString("- Blog posts or articles\n")
	sb.WriteString("- Forums (Reddit, discussion boards)\n")
	sb.WriteString("- Social media (Twitter, Facebook, Instagram)\n")
	sb.WriteString("- YouTube videos\n")
	sb.WriteString("- Q&A sites (Quora, Stack Overflow)\n")
	sb.WriteString("- Wikipedia or informational pages\n")
	sb.WriteString("- Product announcement pages without purchase options\n")
	sb.WriteString("- Press releases or marketing pages without buy buttons\n\n")
	sb.WriteString("Here are the search results to filter:\n")
	for i, h := range batch {
		snippet := h.SnippetOrRaw()
		if len(snippet) > snippetChars {
			snippet = snippet[:snippetChars]
		}
		fmt.Fprintf(&sb, "\nResult %d:\n- Title: %s\n- URL: %s\n- Snippet: %s\n", i+1, h.Title, h.URL, snippet)
	}
	sb.WriteString("\nIMPORTANT:\n")
	sb.WriteString("- If a page is a review, comparison, or article (even if it mentions prices), EXCLUDE it\n")
	sb.WriteString("- If a page is a PDF or document, EXCLUDE it\n")
	sb.WriteString("- Only include pages where you can actually purchase the product right now\n\n")
	sb.WriteString("Return ONLY a JSON array with the indices (1-based) of results that are actual product purchase pages.\n")
	sb.WriteString("Example: [1, 3] means keep results 1 and 3.\n\n")
	sb.WriteString("Return ONLY the JSON array, no other text.")
	return sb.String()
}
