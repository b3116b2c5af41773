package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/SudhakarGollapinni/DealFinder/internal/policy"
)

var (
	// "Full retail price: $629.99" and friends, for carrier pages.
	fullRetailRe = regexp.MustCompile(`(?i)(?:full retail price|outright purchase|buy outright|one-time purchase|full price|retail price)[:\s]+\$?([\d,]+(?:\.\d{2})?)`)
	// Standard $XXX or $X,XXX.XX.
	currencyRe = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
	// "price: 999.99" style labels without a currency symbol.
	labeledRe = regexp.MustCompile(`(?i)(?:price|cost|buy)[:\s]+([\d,]+\.?\d{2})`)
	// Bare XXX.XX numbers as a last resort.
	bareNumberRe = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*\.\d{2}\b`)
)

// bareNumberCeiling rejects bare-number matches that are implausibly large to
// be prices (order IDs, SKUs).
const bareNumberCeiling = 100_000

var fullRetailPhrases = []string{
	"full retail price", "outright purchase", "buy outright",
	"one-time purchase", "full price", "retail price",
}

// planContextPhrases mark installment-plan or savings figures near a carrier
// price match; such matches are not the purchase price.
var planContextPhrases = []string{
	"/mo", "per month", "monthly", "for 36", "for 24", "saving", "save",
}

var reviewIndicators = []string{
	"review", "reviewed by", "our pick", "best", "top", "comparison",
	"vs", "versus", "pros and cons",
}

// snippetScan is the outcome of scanning one snippet: found is trustworthy
// enough for the fast path, backup is a weaker match kept only for fallback
// after full extraction.
type snippetScan struct {
	found  string
	backup string
}

// scanSnippet walks the ordered pattern sequence over a snippet. Carrier
// pages get the full-retail patterns first and a context check around generic
// currency matches so installment figures are not mistaken for prices.
func scanSnippet(snippet string, act policy.Action) snippetScan {
	var s snippetScan
	if act.PreferFullRetail {
		if m := fullRetailRe.FindStringSubmatch(snippet); m != nil {
			s.found = "$" + m[1]
			s.backup = s.found
			return s
		}
	}
	if m := currencyRe.FindString(snippet); m != "" {
		if !act.PreferFullRetail || !nearPlanPhrase(snippet, m) {
			s.found = m
			s.backup = m
			return s
		}
	}
	if m := labeledRe.FindStringSubmatch(snippet); m != nil {
		s.backup = "$" + m[1]
		return s
	}
	if m := bareNumberRe.FindString(snippet); m != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64); err == nil && v < bareNumberCeiling {
			s.backup = "$" + m
		}
	}
	return s
}

// nearPlanPhrase checks ~80 chars of context around a price match for
// payment-plan or savings phrasing.
func nearPlanPhrase(snippet, match string) bool {
	idx := strings.Index(strings.ToLower(snippet), strings.ToLower(match))
	if idx < 0 {
		return false
	}
	lo := idx - 30
	if lo < 0 {
		lo = 0
	}
	hi := idx + 50
	if hi > len(snippet) {
		hi = len(snippet)
	}
	context := strings.ToLower(snippet[lo:hi])
	for _, p := range planContextPhrases {
		if strings.Contains(context, p) {
			return true
		}
	}
	return false
}

// hasReviewLanguage checks the leading 200 chars of a snippet for review or
// comparison wording; such hits are editorial content, not product pages.
func hasReviewLanguage(snippet string) bool {
	head := strings.ToLower(snippet)
	if len(head) > 200 {
		head = head[:200]
	}
	for _, ind := range reviewIndicators {
		if strings.Contains(head, ind) {
			return true
		}
	}
	return false
}

// hasFullRetailPhrase reports whether the snippet explicitly qualifies its
// price as a full-retail/outright figure.
func hasFullRetailPhrase(snippet string) bool {
	s := strings.ToLower(snippet)
	for _, p := range fullRetailPhrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
