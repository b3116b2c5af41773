package price

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DisplayUnavailable is the display form used when no usable price was found.
// It exists for rendering only; code should branch on Price.Known instead of
// comparing strings.
const DisplayUnavailable = "Price not available"

// Price is either a known price with its original display formatting and a
// comparable numeric value, or unavailable. The display string keeps whatever
// the source showed ("$999", "From $999", "$9.99/month"); the numeric value is
// used for sorting only.
type Price struct {
	display string
	value   float64
	known   bool
}

// Known constructs a price from a display string. Strings that carry no
// recoverable number (including the "price not available" family) yield an
// unavailable price.
func Known(display string) Price {
	v := Value(display)
	if math.IsInf(v, 1) {
		return Unavailable()
	}
	return Price{display: strings.TrimSpace(display), value: v, known: true}
}

// Unavailable returns the unavailable price.
func Unavailable() Price { return Price{} }

// IsKnown reports whether the price carries a usable value.
func (p Price) IsKnown() bool { return p.known }

// Display returns the original display string, or DisplayUnavailable.
func (p Price) Display() string {
	if !p.known {
		return DisplayUnavailable
	}
	return p.display
}

// SortValue returns the comparable numeric value. Unavailable prices return
// +Inf so they sort strictly after every known price.
func (p Price) SortValue() float64 {
	if !p.known {
		return math.Inf(1)
	}
	return p.value
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Display())
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = Known(s)
	return nil
}

var firstNumber = regexp.MustCompile(`(\d+\.?\d*)`)

// sentinel display strings treated as "no price", compared case-insensitively.
var sentinels = map[string]struct{}{
	"":                    {},
	"none":                {},
	"price not available": {},
}

// Value reduces a display price string to a comparable number. Currency
// symbols and thousands separators are stripped, then the first number in the
// cleaned string is taken. For a range like "$999-$1,299" this is the lower
// bound on purpose: sort by best-case price. Empty strings, the sentinel
// phrases, and strings with no number all return +Inf so they sort last.
func Value(display string) float64 {
	s := strings.TrimSpace(display)
	if _, ok := sentinels[strings.ToLower(s)]; ok {
		return math.Inf(1)
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	m := firstNumber.FindStringSubmatch(s)
	if m == nil {
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}
