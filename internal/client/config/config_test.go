package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	want := &Config{
		ServerURL:           "http://localhost:8000",
		StatePath:           "lexqa.db",
		MaxUploadMB:         10,
		AcceptedExtension:   ".pdf",
		TopK:                3,
		Threshold:           0.5,
		RefreshRetries:      2,
		OnlineCheckInterval: 3 * time.Second,
		LogLevel:            "info",
		LogFormat:           "text",
	}

	assert.Empty(t, cmp.Diff(want, defaults()))
}

func TestMaxUploadBytes(t *testing.T) {
	c := defaults()
	assert.EqualValues(t, 10*1048576, c.MaxUploadBytes())

	c.MaxUploadMB = 0
	assert.Zero(t, c.MaxUploadBytes())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"lexqa"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempFile(t, "cfg.json", `{
		"server_url": "http://file:1",
		"state_path": "/from/file.db",
		"top_k": 7,
		"log_format": "json"
	}`)
	t.Setenv("LEXQA_STATE_PATH", "/from/env.db")
	t.Setenv("LEXQA_TOP_K", "9")

	os.Args = []string{"lexqa", "-c", path, "-a", "http://flag:2"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag:2", cfg.ServerURL)
	assert.Equal(t, "/from/env.db", cfg.StatePath)
	assert.Equal(t, 9, cfg.TopK)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.EqualValues(t, 10, cfg.MaxUploadMB)
}

func TestLoadConfig_KeepsSubSecondIntervalWithoutFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"lexqa", "-a", "http://flag:2"}

	for _, v := range []string{"500ms", "1500ms"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("LEXQA_ONLINE_CHECK_INTERVAL", v)
			want, err := time.ParseDuration(v)
			require.NoError(t, err)

			cfg := LoadConfig()

			assert.Equal(t, want, cfg.OnlineCheckInterval)
		})
	}
}
