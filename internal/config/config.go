// Package config loads application settings from an optional YAML file and
// the environment into one explicit struct. Nothing here is a global;
// commands pass the loaded Config to the constructors that need it.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/valpere/lingoval/internal/provider"
)

// Config is the full application configuration.
type Config struct {
	OpenAI    provider.Config `mapstructure:"openai"`
	DeepSeek  provider.Config `mapstructure:"deepseek"`
	Anthropic provider.Config `mapstructure:"anthropic"`

	// GoogleCredentials is a service account file path for the Google
	// baseline. Empty means application default credentials.
	GoogleCredentials string `mapstructure:"google_credentials"`
	MyMemoryEmail     string `mapstructure:"mymemory_email"`

	DBPath  string `mapstructure:"db_path"`
	NoCache bool   `mapstructure:"no_cache"`
}

// envBindings maps config keys to the environment variables that override
// them.
var envBindings = map[string]string{
	"openai.api_key":     "OPENAI_API_KEY",
	"deepseek.api_key":   "DEEPSEEK_API_KEY",
	"anthropic.api_key":  "ANTHROPIC_API_KEY",
	"google_credentials": "GOOGLE_APPLICATION_CREDENTIALS",
	"mymemory_email":     "MYMEMORY_EMAIL",
}

// Load reads configFile (optional, empty skips the file) and applies
// environment overrides.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("db_path", "./data/lingoval.db")

	for key, env := range envBindings {
		// A default registers the key so Unmarshal picks up env-only values.
		v.SetDefault(key, "")
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
