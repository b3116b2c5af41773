package ledger

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNew_PrimesSearchCost(t *testing.T) {
	l := New()
	if !almostEqual(l.Total(), CostSearch) {
		t.Fatalf("fresh ledger Total() = %v, want %v", l.Total(), CostSearch)
	}
}

func TestTotal_SumsAllCostCategories(t *testing.T) {
	l := New()
	l.AddExtractCall()
	l.AddExtractCall()
	l.AddFilterCall()
	l.AddExtractionLLMCall()

	want := CostSearch + 2*CostExtract + CostFilterCall + CostExtractionLLM
	if !almostEqual(l.Total(), want) {
		t.Fatalf("Total() = %v, want %v", l.Total(), want)
	}
	if l.ExtractCalls != 2 || l.FullResults != 2 {
		t.Fatalf("extract counters: %+v", l)
	}
}

func TestResultCounters(t *testing.T) {
	l := New()
	l.AddSnippetResult()
	l.AddSnippetResult()
	l.AddResult()
	if l.SnippetResults != 2 || l.TotalResults != 3 {
		t.Fatalf("result counters: %+v", l)
	}
	// Snippet results are free.
	if !almostEqual(l.Total(), CostSearch) {
		t.Fatalf("snippet results should not add cost, Total() = %v", l.Total())
	}
}
