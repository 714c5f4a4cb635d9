// Path: internal/config/constants.go
package config

import "time"

const (
	// Server configuration defaults
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

const (
	DefaultConfigFile        = "config/.env"
	DefaultRuleEngineTimeout = 30 * time.Second
	DefaultChunkSize         = 50
	DefaultMaxConcurrency    = 4
	DefaultMaxIDs            = 10000
	DefaultActionHistory     = 1000
)
