// internal/config/config.go
// Package config provides configuration loading, validation, and the bulk action store.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config holds the application's configuration, loaded from config/.env and the environment.
type Config struct {
	APIHost           string `validate:"required"`
	Port              int    `validate:"required,min=1,max=65535"`
	APIToken          string `validate:"required"`
	RuleEngineURL     string `validate:"required,url"`
	RuleEngineToken   string
	RuleEngineTimeout time.Duration `validate:"gt=0"`
	// ChunkSize is how many ids go into one rule engine call.
	ChunkSize int `validate:"min=1"`
	// MaxConcurrency bounds the number of in-flight rule engine calls per request.
	MaxConcurrency int `validate:"min=1"`
	// MaxIDs caps the ids of a single request; zero disables the cap.
	MaxIDs int `validate:"min=0"`
	// ActionHistory is how many bulk action records stay queryable.
	ActionHistory int `validate:"min=1"`
}

// LoadFile reads configuration from an env file plus the environment. A
// missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	appConfig := &Config{
		APIHost:           v.GetString("API_HOST"),
		Port:              v.GetInt("PORT"),
		APIToken:          v.GetString("API_TOKEN"),
		RuleEngineURL:     v.GetString("RULE_ENGINE_URL"),
		RuleEngineToken:   v.GetString("RULE_ENGINE_TOKEN"),
		RuleEngineTimeout: v.GetDuration("RULE_ENGINE_TIMEOUT"),
		ChunkSize:         v.GetInt("BULK_CHUNK_SIZE"),
		MaxConcurrency:    v.GetInt("BULK_MAX_CONCURRENCY"),
		MaxIDs:            v.GetInt("BULK_MAX_IDS"),
		ActionHistory:     v.GetInt("BULK_ACTION_HISTORY"),
	}

	if err := validate.Struct(appConfig); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "127.0.0.1")
	v.SetDefault("PORT", 5000)
	v.SetDefault("RULE_ENGINE_TIMEOUT", DefaultRuleEngineTimeout)
	v.SetDefault("BULK_CHUNK_SIZE", DefaultChunkSize)
	v.SetDefault("BULK_MAX_CONCURRENCY", DefaultMaxConcurrency)
	v.SetDefault("BULK_MAX_IDS", DefaultMaxIDs)
	v.SetDefault("BULK_ACTION_HISTORY", DefaultActionHistory)
}

// MaxIDsFromEnv returns the ids cap without requiring the server settings,
// for offline validation.
func MaxIDsFromEnv() int {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v.GetInt("BULK_MAX_IDS")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
