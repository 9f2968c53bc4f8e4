// Package config loads runtime configuration for the lexqa CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//     JSON by default; YAML when the name ends in .yaml or .yml.
//  3. LEXQA_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the document service
//	-d string   path of the local state database
//	-m int      maximum upload size (MB)
//	-i int      online status check interval (seconds)
//	-p string   listen address of the Prometheus endpoint, e.g. ":9100"
//
// # File schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Every key is optional:
//
//	{
//	  "server_url": "http://localhost:8000",
//	  "state_path": "lexqa.db",
//	  "max_upload_mb": 10,
//	  "accepted_extension": ".pdf",
//	  "top_k": 3,
//	  "threshold": 0.5,
//	  "refresh_retries": 2,
//	  "online_check_interval": "3s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "debug": false,
//	  "metrics_addr": ""
//	}
//
// Malformed files, environment values or flags panic at load time.
package config
