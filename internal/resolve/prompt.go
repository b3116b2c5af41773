package resolve

import (
	"fmt"
	"strings"

	"github.com/SudhakarGollapinni/DealFinder/internal/policy"
)

const extractSystemMessage = "You are a product information extractor. Extract product details from web content and return only valid JSON."

const marketplaceGuidance = `
SPECIAL INSTRUCTIONS FOR LARGE MARKETPLACE PAGES:
- Prices may be in various formats: "$999.99", "999.99", "Price: $999", etc.
- Look for price in the first 1000 characters of content (often near the top)
- Check for phrases like "Buy now", "Add to Cart", "List Price", "Price", "Your Price"
- Marketplace product pages usually have the price prominently displayed
- If you see any number that looks like a price (with or without $), include it
`

const carrierGuidance = `
CRITICAL INSTRUCTIONS FOR CARRIER/MOBILE PROVIDER PAGES:
- These pages show multiple pricing options: monthly payment plans, full retail price, and savings amounts
- ALWAYS prioritize and extract the "Full retail price" or "Outright purchase" price
- Look for phrases like: "Full retail price", "Buy outright", "Outright purchase", "One-time purchase", "Full price", "Retail price"
- IGNORE these prices (do NOT use them):
  * Monthly payment plan prices (e.g., "$0.00/mo for 36 mos", "$17.49/mo")
  * Monthly savings amounts (e.g., "You're saving $17.50/mo", "Save $X/mo")
  * Installment plan prices
  * "Starts at" prices for payment plans
- ONLY use the full retail/outright purchase price (e.g., "$629.99", "$999.99")
- If you cannot find a full retail price, then use "Price not available"
`

// buildExtractionPrompt assembles the structured-extraction prompt for one
// page, with domain-specific guidance blocks applied per the policy table.
func buildExtractionPrompt(query, title, url, excerpt string, act policy.Action) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are extracting product information from a webpage. The user is searching for: %q\n\n", query)
	fmt.Fprintf(&sb, "Page Title: %s\nURL: %s\n", title, url)
	if act.Marketplace {
		sb.WriteString(marketplaceGuidance)
	}
	if act.PreferFullRetail {
		sb.WriteString(carrierGuidance)
	}
	sb.WriteString("\nPage Content:\n")
	sb.WriteString(excerpt)
	sb.WriteString("\n\nIMPORTANT: Look carefully for prices in the content. Prices may appear as:\n")
	sb.WriteString("- Dollar amounts like $999, $1,299, $1,299.99\n")
	sb.WriteString("- \"From $X\" or \"Starting at $X\"\n")
	sb.WriteString("- \"Was $X, Now $Y\" or \"Save $X\"\n")
	sb.WriteString("- Percentage discounts like \"20% off\" or \"Save 20%\"\n")
	sb.WriteString("- Price ranges like \"$999-$1,299\"\n")
	sb.WriteString("- Numbers that look like prices: 999.99, 1,299.99 (even without $ symbol)\n")
	sb.WriteString("- \"Full retail price\" or \"Outright purchase\" price (PRIORITIZE THIS for carrier pages)\n\n")
	sb.WriteString("Extract and return ONLY a valid JSON object with these exact fields:\n")
	sb.WriteString(`{
  "product_name": "Specific product name with model (e.g., 'MacBook Air M2 13-inch')",
  "details": "Model, color, storage, configuration (e.g., '256GB, Space Gray, 8GB RAM')",
  "price": "Current FULL RETAIL/OUTRIGHT PURCHASE price with currency symbol (e.g., '$999' or 'From $999' or '$999-$1,299'). For carrier pages, use the full retail price, NOT monthly payment plans. If it's a monthly subscription service (not a payment plan), add '/month' (e.g., '$9.99/month'). If no price found, use 'Price not available'",
  "deal_info": "Discount, savings, or promotion (e.g., 'Save $200' or '20% off' or 'Black Friday Deal'). For carrier pages, you can mention monthly savings here if available. Leave empty if none.",
  "in_stock": true
}`)
	sb.WriteString("\n\nPRICE PRIORITY (in order of preference):\n")
	sb.WriteString("1. \"Full retail price\" or \"Outright purchase\" price (ALWAYS use this if available)\n")
	sb.WriteString("2. Regular product price (one-time purchase)\n")
	sb.WriteString("3. Monthly subscription price (only for services, not payment plans)\n")
	sb.WriteString("4. \"Price not available\" (only if no price found)\n\n")
	sb.WriteString("IMPORTANT FOR MONTHLY PRICES:\n")
	sb.WriteString("- ONLY add '/month' for actual subscription services (e.g., software subscriptions, streaming services)\n")
	sb.WriteString("- DO NOT add '/month' for installment/payment plans (these are one-time purchases paid over time)\n\n")
	sb.WriteString("CRITICAL:\n")
	sb.WriteString("- Search the content thoroughly for any price information, especially in the first 1000 characters\n")
	sb.WriteString("- Look for ANY number that could be a price (with or without $, with or without decimals)\n")
	sb.WriteString("- Do NOT use \"Price not available\" unless you've searched the entire content and found NO price information\n")
	sb.WriteString("- Return ONLY valid JSON, no markdown, no explanations, no other text")
	return sb.String()
}
