package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and env.
type FileConfig struct {
	Listen  string   `yaml:"listen" json:"listen"`
	Origins []string `yaml:"origins" json:"origins"`

	Tavily struct {
		BaseURL string `yaml:"base" json:"base"`
		Key     string `yaml:"key" json:"key"`
	} `yaml:"tavily" json:"tavily"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Pipeline struct {
		TargetProducts int `yaml:"targetProducts" json:"targetProducts"`
		MaxCandidates  int `yaml:"maxCandidates" json:"maxCandidates"`
	} `yaml:"pipeline" json:"pipeline"`

	RateLimit struct {
		Requests int           `yaml:"requests" json:"requests"`
		Window   time.Duration `yaml:"window" json:"window"`
	} `yaml:"rateLimit" json:"rateLimit"`

	DB string `yaml:"db" json:"db"`

	Recheck struct {
		Enable bool `yaml:"enable" json:"enable"`
	} `yaml:"recheck" json:"recheck"`

	SMTP struct {
		Addr     string `yaml:"addr" json:"addr"`
		From     string `yaml:"from" json:"from"`
		Username string `yaml:"username" json:"username"`
		Password string `yaml:"password" json:"password"`
	} `yaml:"smtp" json:"smtp"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero. Flags should already have been parsed; file config
// supplies defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.ListenAddr == "" && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if len(cfg.AllowedOrigins) == 0 && len(fc.Origins) > 0 {
		cfg.AllowedOrigins = append([]string{}, fc.Origins...)
	}

	if cfg.TavilyBaseURL == "" && fc.Tavily.BaseURL != "" {
		cfg.TavilyBaseURL = fc.Tavily.BaseURL
	}
	if cfg.TavilyAPIKey == "" && fc.Tavily.Key != "" {
		cfg.TavilyAPIKey = fc.Tavily.Key
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if cfg.TargetCount == 0 && fc.Pipeline.TargetProducts > 0 {
		cfg.TargetCount = fc.Pipeline.TargetProducts
	}
	if cfg.MaxCandidates == 0 && fc.Pipeline.MaxCandidates > 0 {
		cfg.MaxCandidates = fc.Pipeline.MaxCandidates
	}

	if cfg.RateLimit == 0 && fc.RateLimit.Requests > 0 {
		cfg.RateLimit = fc.RateLimit.Requests
	}
	if cfg.RateWindow == 0 && fc.RateLimit.Window > 0 {
		cfg.RateWindow = fc.RateLimit.Window
	}

	if cfg.DBPath == "" && fc.DB != "" {
		cfg.DBPath = fc.DB
	}
	if !cfg.RecheckEnabled && fc.Recheck.Enable {
		cfg.RecheckEnabled = true
	}

	if cfg.SMTPAddr == "" && fc.SMTP.Addr != "" {
		cfg.SMTPAddr = fc.SMTP.Addr
	}
	if cfg.SMTPFrom == "" && fc.SMTP.From != "" {
		cfg.SMTPFrom = fc.SMTP.From
	}
	if cfg.SMTPUsername == "" && fc.SMTP.Username != "" {
		cfg.SMTPUsername = fc.SMTP.Username
	}
	if cfg.SMTPPassword == "" && fc.SMTP.Password != "" {
		cfg.SMTPPassword = fc.SMTP.Password
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.TavilyAPIKey) == "" {
		return errors.New("config: tavily.key is required (or set TAVILY_API_KEY)")
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	if cfg.TargetCount < 0 || cfg.MaxCandidates < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.RateLimit < 0 || cfg.RateWindow < 0 {
		return errors.New("config: negative rate limits are not allowed")
	}
	return nil
}
