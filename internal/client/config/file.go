package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/lexqa/internal/flagx"
	"github.com/dmitrijs2005/lexqa/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file decoding. Pointer
// fields distinguish "absent" from zero so a partial file only overrides
// what it names.
type FileConfig struct {
	ServerURL           *string         `json:"server_url" yaml:"server_url"`
	StatePath           *string         `json:"state_path" yaml:"state_path"`
	MaxUploadMB         *int64          `json:"max_upload_mb" yaml:"max_upload_mb"`
	AcceptedExtension   *string         `json:"accepted_extension" yaml:"accepted_extension"`
	TopK                *int            `json:"top_k" yaml:"top_k"`
	Threshold           *float64        `json:"threshold" yaml:"threshold"`
	RefreshRetries      *int            `json:"refresh_retries" yaml:"refresh_retries"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
	LogFormat           *string         `json:"log_format" yaml:"log_format"`
	Debug               *bool           `json:"debug" yaml:"debug"`
	MetricsAddr         *string         `json:"metrics_addr" yaml:"metrics_addr"`
}

// parseFile overlays Config with values from the file named by -c or -config.
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
// It panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.ServerURL, fc.ServerURL)
	setIf(&cfg.StatePath, fc.StatePath)
	setIf(&cfg.MaxUploadMB, fc.MaxUploadMB)
	setIf(&cfg.AcceptedExtension, fc.AcceptedExtension)
	setIf(&cfg.TopK, fc.TopK)
	setIf(&cfg.Threshold, fc.Threshold)
	setIf(&cfg.RefreshRetries, fc.RefreshRetries)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	setIf(&cfg.Debug, fc.Debug)
	setIf(&cfg.MetricsAddr, fc.MetricsAddr)
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
