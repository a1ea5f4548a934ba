// Package config loads the startup configuration: credentials from the
// environment and the watcher rules from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	defaultPollInterval = time.Minute

	defaultCredentialsFile = "credentials.json"
	defaultTokenFile       = "token.json"
)

// Rules defines which inbox messages qualify for quoting: the subject must
// contain the marker and the sender address must match the domain suffix.
type Rules struct {
	SubjectMarker string `json:"subjectMarker"`
	SenderDomain  string `json:"senderDomain"`
}

// Config holds everything loaded once at startup. Nothing is hot-reloaded.
type Config struct {
	CredentialsFile string
	TokenFile       string
	GroqAPIKey      string
	QualpAPIKey     string
	PollInterval    time.Duration
	CheckpointPath  string
	Rules           Rules
}

// Load reads credentials from the environment and the qualification rules
// from rulesPath. A missing rules file is created with the default rules so
// the operator has something to edit.
func Load(rulesPath string) (*Config, error) {
	cfg := &Config{
		CredentialsFile: envOr("GMAIL_CREDENTIALS_FILE", defaultCredentialsFile),
		TokenFile:       envOr("GMAIL_TOKEN_FILE", defaultTokenFile),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		QualpAPIKey:     os.Getenv("QUALP_API_KEY"),
		CheckpointPath:  os.Getenv("FRETEBOT_CHECKPOINT"),
		PollInterval:    defaultPollInterval,
	}

	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not set")
	}
	if cfg.QualpAPIKey == "" {
		return nil, fmt.Errorf("QUALP_API_KEY is not set")
	}

	if raw := os.Getenv("FRETEBOT_POLL_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FRETEBOT_POLL_INTERVAL %q: %w", raw, err)
		}
		cfg.PollInterval = interval
	}

	rules, err := loadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultRules() Rules {
	return Rules{
		SubjectMarker: "COTA",
		SenderDomain:  "@br-asgroup.com",
	}
}

func loadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			rules := defaultRules()
			return rules, saveRules(path, rules)
		}
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if rules.SubjectMarker == "" || rules.SenderDomain == "" {
		return Rules{}, fmt.Errorf("rules file %s must set subjectMarker and senderDomain", path)
	}
	return rules, nil
}

func saveRules(path string, rules Rules) error {
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
