package config

import "github.com/kelseyhightower/envconfig"

// envPrefix namespaces environment overrides, e.g. LEXQA_SERVER_URL.
const envPrefix = "LEXQA"

// parseEnv overlays Config with LEXQA_* environment variables. Unset
// variables leave the current value alone. It panics on malformed values.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		panic(err)
	}
}
