package app

import "time"

// Config holds runtime configuration for the service.
type Config struct {
	// HTTP
	ListenAddr     string
	AllowedOrigins []string

	// Search / extraction provider
	TavilyBaseURL string
	TavilyAPIKey  string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Pipeline tuning
	TargetCount   int
	MaxCandidates int

	// Rate limiting
	RateLimit  int
	RateWindow time.Duration

	// Subscriptions / rechecks
	DBPath         string
	RecheckEnabled bool

	// Alert email (optional; alerts are logged when unset)
	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// Behavior
	Verbose bool
}
