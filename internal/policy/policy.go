package policy

import (
	"net/url"
	"strings"
)

// Action is the consolidated per-domain extraction policy. Rules are matched
// by substring against the lowercased URL, so "verizon.com" also covers
// "www.verizon.com/smartphones/...".
type Action struct {
	// Exclude drops the hit before any price work (video/social/forum/QA/wiki
	// platforms are never purchasable product pages).
	Exclude bool
	// ForceFullExtraction ignores any snippet price and always fetches the
	// full page. Manufacturer stores rarely surface prices in snippets.
	ForceFullExtraction bool
	// PreferFullRetail marks mobile-carrier pages where installment-plan
	// figures must be skipped in favor of full retail / outright pricing.
	PreferFullRetail bool
	// Marketplace marks large e-commerce pages with rich markup that get the
	// markdown extraction format and aggressive price-search guidance.
	Marketplace bool
	// SinglePurchase marks stores whose listings are one-time purchases by
	// default; a "/month" suffix is only kept with explicit subscription
	// wording.
	SinglePurchase bool
}

var excludedDomains = []string{
	"youtube.com", "youtu.be", "reddit.com", "quora.com", "stackoverflow.com",
	"wikipedia.org", "twitter.com", "facebook.com", "instagram.com",
	"pinterest.com", "tumblr.com", "medium.com", "blogspot.com",
	"wordpress.com", "linkedin.com", "discord.com", "tiktok.com",
}

var carrierDomains = []string{
	"verizon.com", "att.com", "t-mobile.com", "tmobile.com", "sprint.com",
	"uscellular.com",
}

var manufacturerDomains = []string{
	"samsung.com", "dell.com", "hp.com", "lg.com", "asus.com", "acer.com",
	"lenovo.com", "msi.com", "viewsonic.com", "benq.com", "philips.com",
	"apple.com", "microsoft.com", "sony.com", "panasonic.com",
}

var marketplaceDomains = []string{"amazon.com"}

// non-commerce keywords checked against both URL and title.
var excludedKeywords = []string{
	"review", "comparison", "forum", "discussion", "article", "blog",
}

// Lookup returns the combined policy action for a URL.
func Lookup(rawURL string) Action {
	u := strings.ToLower(rawURL)
	var a Action
	for _, d := range excludedDomains {
		if strings.Contains(u, d) {
			a.Exclude = true
			return a
		}
	}
	for _, d := range carrierDomains {
		if strings.Contains(u, d) {
			a.PreferFullRetail = true
			break
		}
	}
	for _, d := range manufacturerDomains {
		if strings.Contains(u, d) {
			a.ForceFullExtraction = true
			a.SinglePurchase = true
			break
		}
	}
	for _, d := range marketplaceDomains {
		if strings.Contains(u, d) {
			a.Marketplace = true
			break
		}
	}
	return a
}

// IsPDF reports whether the URL points at a PDF document.
func IsPDF(rawURL string) bool {
	u := strings.ToLower(rawURL)
	return strings.HasSuffix(u, ".pdf") || strings.Contains(u, "/pdf")
}

// HasExcludedKeyword reports whether the URL or title carries review-like
// keywords that mark non-product pages.
func HasExcludedKeyword(rawURL, title string) bool {
	u := strings.ToLower(rawURL)
	t := strings.ToLower(title)
	for _, k := range excludedKeywords {
		if strings.Contains(u, k) || strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// Domain extracts the registrable domain from a URL: the host with any "www."
// prefix stripped. Returns "Unknown" when the URL cannot be parsed or has no
// host; it never fails.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "Unknown"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
