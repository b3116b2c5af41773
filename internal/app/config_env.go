package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.ListenAddr == "" {
		if v := os.Getenv("LISTEN_ADDR"); v != "" {
			cfg.ListenAddr = v
		} else if p := os.Getenv("PORT"); p != "" {
			cfg.ListenAddr = ":" + p
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
			cfg.AllowedOrigins = splitList(v)
		}
	}

	if cfg.TavilyBaseURL == "" {
		cfg.TavilyBaseURL = os.Getenv("TAVILY_BASE_URL")
	}
	if cfg.TavilyAPIKey == "" {
		cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		v := os.Getenv("LLM_API_KEY")
		if v == "" {
			v = os.Getenv("OPENAI_API_KEY")
		}
		cfg.LLMAPIKey = v
	}

	if cfg.TargetCount == 0 {
		if n, err := strconv.Atoi(os.Getenv("TARGET_PRODUCTS")); err == nil && n > 0 {
			cfg.TargetCount = n
		}
	}
	if cfg.MaxCandidates == 0 {
		if n, err := strconv.Atoi(os.Getenv("MAX_CANDIDATES")); err == nil && n > 0 {
			cfg.MaxCandidates = n
		}
	}

	if cfg.RateLimit == 0 {
		if n, err := strconv.Atoi(os.Getenv("RATE_LIMIT")); err == nil && n > 0 {
			cfg.RateLimit = n
		}
	}
	if cfg.RateWindow == 0 {
		if d, err := time.ParseDuration(os.Getenv("RATE_WINDOW")); err == nil && d > 0 {
			cfg.RateWindow = d
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("DB_PATH")
	}

	if cfg.SMTPAddr == "" {
		cfg.SMTPAddr = os.Getenv("SMTP_ADDR")
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	}
	if cfg.SMTPUsername == "" {
		cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	}
	if cfg.SMTPPassword == "" {
		cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.RecheckEnabled, "RECHECK_ENABLED")
	setBool(&cfg.Verbose, "VERBOSE")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
