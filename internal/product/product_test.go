package product

import (
	"testing"

	"github.com/SudhakarGollapinni/DealFinder/internal/price"
)

func TestFinalize_DropsUnknownAndSortsAscending(t *testing.T) {
	in := []Product{
		{Name: "Mid", Price: price.Known("$499.99")},
		{Name: "NoPrice", Price: price.Unavailable()},
		{Name: "Cheap", Price: price.Known("$49.99")},
		{Name: "Expensive", Price: price.Known("$1,299")},
	}
	out := Finalize(in)
	if len(out) != 3 {
		t.Fatalf("got %d products", len(out))
	}
	want := []string{"Cheap", "Mid", "Expensive"}
	for i, name := range want {
		if out[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, out[i].Name, name)
		}
	}
}

func TestFinalize_StableForEqualPrices(t *testing.T) {
	in := []Product{
		{Name: "First", Price: price.Known("$99")},
		{Name: "Second", Price: price.Known("$99.00")},
	}
	out := Finalize(in)
	if out[0].Name != "First" || out[1].Name != "Second" {
		t.Fatalf("equal prices reordered: %+v", out)
	}
}

func TestFinalize_Empty(t *testing.T) {
	if out := Finalize(nil); len(out) != 0 {
		t.Fatalf("got %d products", len(out))
	}
}
