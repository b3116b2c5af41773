// Package ledger accumulates per-request cost estimates for the paid
// operations in the pipeline: the search call, extract calls, and the two LLM
// call types. A Ledger is created fresh for each incoming request and threaded
// through the call chain as a value; it is observability only, never a
// correctness dependency.
package ledger

import "github.com/rs/zerolog"

// Estimated unit costs in USD. These are rough provider list prices, good
// enough for relative cost reporting.
const (
	CostSearch        = 0.01  // one search call per request
	CostExtract       = 0.02  // per URL at advanced depth
	CostFilterCall    = 0.002 // classifier batch call
	CostExtractionLLM = 0.002 // structured extraction call
)

// Ledger holds the additive counters for one request. Not safe for concurrent
// use; the pipeline processes hits sequentially.
type Ledger struct {
	SearchCost float64

	ExtractCalls int
	ExtractCost  float64

	FilterCalls int
	FilterCost  float64

	ExtractionLLMCalls int
	ExtractionLLMCost  float64

	SnippetResults int
	FullResults    int
	TotalResults   int
}

// New returns a ledger primed with the fixed per-request search cost.
func New() *Ledger {
	return &Ledger{SearchCost: CostSearch}
}

func (l *Ledger) AddExtractCall() {
	l.ExtractCalls++
	l.ExtractCost += CostExtract
	l.FullResults++
}

func (l *Ledger) AddFilterCall() {
	l.FilterCalls++
	l.FilterCost += CostFilterCall
}

func (l *Ledger) AddExtractionLLMCall() {
	l.ExtractionLLMCalls++
	l.ExtractionLLMCost += CostExtractionLLM
}

// AddSnippetResult records a product emitted from the snippet fast path,
// which incurs no extraction cost.
func (l *Ledger) AddSnippetResult() {
	l.SnippetResults++
	l.TotalResults++
}

// AddResult records a product emitted from the full extraction path.
func (l *Ledger) AddResult() {
	l.TotalResults++
}

// Total returns the summed cost estimate for the request.
func (l *Ledger) Total() float64 {
	return l.SearchCost + l.ExtractCost + l.FilterCost + l.ExtractionLLMCost
}

// Log writes the cost summary as one structured event.
func (l *Ledger) Log(logger zerolog.Logger) {
	logger.Info().
		Float64("search_cost", l.SearchCost).
		Int("extract_calls", l.ExtractCalls).
		Float64("extract_cost", l.ExtractCost).
		Int("filter_calls", l.FilterCalls).
		Float64("filter_cost", l.FilterCost).
		Int("extraction_llm_calls", l.ExtractionLLMCalls).
		Float64("extraction_llm_cost", l.ExtractionLLMCost).
		Int("snippet_results", l.SnippetResults).
		Int("full_extraction_results", l.FullResults).
		Int("total_results", l.TotalResults).
		Float64("total_cost", l.Total()).
		Msg("request cost summary")
}
