package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Tempo       TempoConfig       `toml:"tempo"`
	Jira        JiraConfig        `toml:"jira"`
	Billability BillabilityConfig `toml:"billability"`
	AI          AIConfig          `toml:"ai"`
}

type TempoConfig struct {
	APIToken string `toml:"api_token"`
	BaseURL  string `toml:"base_url"`
}

type JiraConfig struct {
	BaseURL  string `toml:"base_url"`
	Email    string `toml:"email"`
	APIToken string `toml:"api_token"`
}

type BillabilityConfig struct {
	// IdealPercentage is the target billability ratio in percentage
	// form, e.g. 75.
	IdealPercentage float64 `toml:"ideal_percentage"`
}

type AIConfig struct {
	Provider string        `toml:"provider"` // "gemini" or "bedrock"
	Gemini   GeminiConfig  `toml:"gemini"`
	Bedrock  BedrockConfig `toml:"bedrock"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type BedrockConfig struct {
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	ModelID         string `toml:"model_id"`
}

func DefaultConfig() Config {
	return Config{
		Billability: BillabilityConfig{
			IdealPercentage: 75,
		},
		AI: AIConfig{
			Provider: "gemini",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "teampulse"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEMPO_API_TOKEN"); v != "" {
		cfg.Tempo.APIToken = v
	}
	if v := os.Getenv("TEMPO_BASE_URL"); v != "" {
		cfg.Tempo.BaseURL = v
	}
	if v := os.Getenv("JIRA_BASE_URL"); v != "" {
		cfg.Jira.BaseURL = v
	}
	if v := os.Getenv("JIRA_EMAIL"); v != "" {
		cfg.Jira.Email = v
	}
	if v := os.Getenv("JIRA_API_TOKEN"); v != "" {
		cfg.Jira.APIToken = v
	}
	if v := os.Getenv("IDEAL_BILLABILITY_PERCENTAGE"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Billability.IdealPercentage = pct
		}
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.AI.Gemini.Model = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AI.Bedrock.Region = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.AI.Bedrock.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.AI.Bedrock.SecretAccessKey = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.AI.Bedrock.ModelID = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
