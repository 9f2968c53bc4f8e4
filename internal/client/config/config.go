package config

import (
	"time"

	"github.com/dmitrijs2005/lexqa/internal/common"
)

// Config holds runtime settings for the lexqa CLI.
//
// Units: MaxUploadMB is in binary megabytes (1 MB = 1,048,576 bytes);
// OnlineCheckInterval is a time.Duration. An empty MetricsAddr keeps the
// Prometheus endpoint off.
type Config struct {
	ServerURL           string        `envconfig:"SERVER_URL"`
	StatePath           string        `envconfig:"STATE_PATH"`
	MaxUploadMB         int64         `envconfig:"MAX_UPLOAD_MB"`
	AcceptedExtension   string        `envconfig:"ACCEPTED_EXTENSION"`
	TopK                int           `envconfig:"TOP_K"`
	Threshold           float64       `envconfig:"THRESHOLD"`
	RefreshRetries      int           `envconfig:"REFRESH_RETRIES"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	LogFormat           string        `envconfig:"LOG_FORMAT"`
	Debug               bool          `envconfig:"DEBUG"`
	MetricsAddr         string        `envconfig:"METRICS_ADDR"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.StatePath = "lexqa.db"
	c.MaxUploadMB = 10
	c.AcceptedExtension = ".pdf"
	c.TopK = 3
	c.Threshold = 0.5
	c.RefreshRetries = 2
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// MaxUploadBytes is MaxUploadMB expressed in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * common.BytesPerMB
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), LEXQA_* environment variables and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
