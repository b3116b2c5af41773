package resolve

import (
	"strings"

	"github.com/SudhakarGollapinni/DealFinder/internal/policy"
)

// monthlyPhrases are explicit monthly-billing wordings. Deliberately narrow
// to avoid tagging financed one-time purchases.
var monthlyPhrases = []string{
	"/month", "per month", "monthly subscription", "monthly plan",
	" mo.", " mo ", "billed monthly",
}

// subscriptionMarkers signal an actual recurring service rather than an
// installment plan.
var subscriptionMarkers = []string{
	"subscription", "monthly plan", "billed monthly", "recurring",
}

// monthlyAdjust decides whether the display price gets a "/month" suffix.
// The suffix is only added when monthly-billing wording appears in the
// content or snippet AND the page is either clearly a subscription or not a
// single-purchase manufacturer store. Manufacturer listings additionally have
// a stray "/month" stripped, since their installment plans are one-time
// purchases paid over time.
func monthlyAdjust(display, content, snippet string, act policy.Action) string {
	if display == "" {
		return display
	}
	cl := strings.ToLower(content)
	sl := strings.ToLower(snippet)
	containsAny := func(phrases []string) bool {
		for _, p := range phrases {
			if strings.Contains(cl, p) || strings.Contains(sl, p) {
				return true
			}
		}
		return false
	}
	isSubscription := containsAny(subscriptionMarkers)
	isMonthly := containsAny(monthlyPhrases) && (isSubscription || !act.SinglePurchase)

	dl := strings.ToLower(display)
	if isMonthly && !strings.Contains(dl, "month") {
		return display + "/month"
	}
	if act.SinglePurchase && !isSubscription && strings.Contains(dl, "/month") {
		display = strings.ReplaceAll(display, "/month", "")
		display = strings.ReplaceAll(display, "/Month", "")
		return strings.TrimSpace(display)
	}
	return display
}
