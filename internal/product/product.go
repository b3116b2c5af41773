package product

import (
	"sort"

	"github.com/SudhakarGollapinni/DealFinder/internal/price"
)

// Product is a normalized product record produced by the resolver. Records
// are immutable after creation and discarded once the response is rendered.
type Product struct {
	Name     string      `json:"product_name"`
	Details  string      `json:"details"`
	Price    price.Price `json:"price"`
	DealInfo string      `json:"deal_info"`
	URL      string      `json:"url"`
	Source   string      `json:"source"`
	InStock  bool        `json:"in_stock"`
}

// Finalize drops products without a usable price and sorts the rest ascending
// by comparable price value. The sort is stable so ties keep their discovery
// order; unavailable prices (should none slip through the filter) compare as
// +Inf and land last.
func Finalize(in []Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if p.Price.IsKnown() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.SortValue() < out[j].Price.SortValue()
	})
	return out
}
