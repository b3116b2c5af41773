// Package guard validates and sanitizes user queries before they reach the
// pipeline: length bounds, prompt-injection patterns, an optional moderation
// call, a deal-topic check, and per-client rate limiting.
package guard

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/llm"
)

const (
	defaultMinInputLen = 3
	defaultMaxInputLen = 1000
)

// blockedPatterns match common prompt-injection phrasings.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ignore (previous|all|your) instruction`),
	regexp.MustCompile(`you are now`),
	regexp.MustCompile(`roleplay as`),
	regexp.MustCompile(`pretend (you are|to be)`),
	regexp.MustCompile(`disregard.*rules`),
	regexp.MustCompile(`reveal.*system prompt`),
	regexp.MustCompile(`reveal.*prompt`),
}

// dealKeywords mark a query as shopping-related.
var dealKeywords = []string{
	"deal", "price", "cheap", "discount", "buy", "sale", "cost",
	"offer", "coupon", "bargain", "best", "under $",
}

// Guard performs input safety checks. Moderator may be nil, in which case the
// moderation step is skipped.
type Guard struct {
	Moderator llm.Moderator

	// MinLen/MaxLen fall back to the defaults when zero.
	MinLen int
	MaxLen int
}

// CheckInput validates a raw query. The returned error message is safe to
// show to the user. Moderation API failures fail open: an outage should not
// take the whole service down with it.
func (g *Guard) CheckInput(ctx context.Context, input string) error {
	minLen := g.MinLen
	if minLen <= 0 {
		minLen = defaultMinInputLen
	}
	maxLen := g.MaxLen
	if maxLen <= 0 {
		maxLen = defaultMaxInputLen
	}
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}
	if len(input) < minLen {
		return fmt.Errorf("input too short (minimum %d characters)", minLen)
	}
	if len(input) > maxLen {
		return fmt.Errorf("input too long (maximum %d characters)", maxLen)
	}
	lower := strings.ToLower(input)
	for _, p := range blockedPatterns {
		if p.MatchString(lower) {
			return fmt.Errorf("input contains potentially unsafe instructions")
		}
	}
	if g.Moderator != nil {
		resp, err := g.Moderator.Moderations(ctx, openai.ModerationRequest{Input: input})
		if err != nil {
			log.Warn().Err(err).Msg("moderation check failed; continuing")
		} else if len(resp.Results) > 0 && resp.Results[0].Flagged {
			return fmt.Errorf("content flagged as inappropriate")
		}
	}
	return nil
}

// IsDealQuery reports whether the query looks like a shopping/deal request.
func IsDealQuery(input string) bool {
	lower := strings.ToLower(input)
	for _, k := range dealKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

var (
	spaceRunRe   = regexp.MustCompile(`\s+`)
	urlRe        = regexp.MustCompile(`http[s]?://\S+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	sqlishRe     = regexp.MustCompile(`(?i)(union|select|insert|update|delete|drop|create|alter)\s+(all|distinct|from|into|table)`)
	punctRunRe   = regexp.MustCompile(`([!?.]){3,}`)
	disallowedRe = regexp.MustCompile(`[^\w\s.,!?\-$%]`)
)

// Sanitize normalizes a query for search: collapses whitespace, strips URLs
// and HTML tags, removes SQL-ish fragments and special characters, and
// squeezes long punctuation runs.
func Sanitize(input string) string {
	s := urlRe.ReplaceAllString(input, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = sqlishRe.ReplaceAllString(s, "")
	s = punctRunRe.ReplaceAllString(s, "$1$1")
	s = disallowedRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
