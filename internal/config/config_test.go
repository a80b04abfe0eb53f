package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultConfigFile), cfg.Path())
	assert.FileExists(t, cfg.Path())
	assert.Equal(t, DefaultAPIPort, cfg.GetAPI().Port)
	assert.Equal(t, DefaultMaxFrameBytes, cfg.GetCapture().MaxFrameBytes)
	assert.Zero(t, cfg.GetCapture().ListenPort)
	assert.False(t, cfg.GetMQTT().Enabled)
	assert.True(t, Validate(cfg).IsValid())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"api": {"port": 6000}}`), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.GetAPI().Port)
	assert.Equal(t, "info", cfg.GetLogging().Level)
	assert.Equal(t, 1883, cfg.GetMQTT().Port)

	// the file is rewritten with every option
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_frame_bytes")
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("{"), 0644))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestGetAPICopiesOrigins(t *testing.T) {
	cfg := DefaultConfig()
	api := cfg.GetAPI()
	api.AllowedOrigins[0] = "changed"
	assert.NotEqual(t, "changed", cfg.GetAPI().AllowedOrigins[0])

	api.Port = 7000
	cfg.SetAPI(api)
	assert.Equal(t, 7000, cfg.GetAPI().Port)
}

func TestLogConfig(t *testing.T) {
	cfg := DefaultConfig()
	lc := cfg.LogConfig()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "logs", lc.Directory)
	assert.True(t, lc.Console)
}

func hasField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		errors  []string
		warning string
	}{
		{
			name:   "bad level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
			errors: []string{"logging.level"},
		},
		{
			name:    "no log output",
			mutate:  func(c *Config) { c.Logging.Console = false; c.Logging.Directory = "" },
			warning: "logging",
		},
		{
			name:   "no database",
			mutate: func(c *Config) { c.Capture.DatabasePath = " " },
			errors: []string{"capture.database_path"},
		},
		{
			name:   "zero frame size",
			mutate: func(c *Config) { c.Capture.MaxFrameBytes = 0 },
			errors: []string{"capture.max_frame_bytes"},
		},
		{
			name:    "huge frame size",
			mutate:  func(c *Config) { c.Capture.MaxFrameBytes = 2 << 20 },
			warning: "capture.max_frame_bytes",
		},
		{
			name:   "listener on api port",
			mutate: func(c *Config) { c.Capture.ListenPort = c.API.Port },
			errors: []string{"capture.listen_port"},
		},
		{
			name:   "listener port out of range",
			mutate: func(c *Config) { c.Capture.ListenPort = 70000 },
			errors: []string{"capture.listen_port"},
		},
		{
			name:   "api port",
			mutate: func(c *Config) { c.API.Port = 0 },
			errors: []string{"api.port"},
		},
		{
			name:    "wildcard origin",
			mutate:  func(c *Config) { c.API.AllowedOrigins = []string{"*"} },
			warning: "api.allowed_origins",
		},
		{
			name: "mqtt incomplete",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Port = 0
				c.MQTT.CertFile = "client.crt"
			},
			errors: []string{"mqtt.broker_url", "mqtt.port", "mqtt.cert_file"},
		},
		{
			name:   "mqtt disabled is not checked",
			mutate: func(c *Config) { c.MQTT.BrokerURL = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			result := Validate(cfg)

			for _, field := range tt.errors {
				assert.True(t, hasField(result.Errors, field), "missing error for %s: %v", field, result.Errors)
			}
			if len(tt.errors) == 0 {
				assert.True(t, result.IsValid(), "%v", result.Errors)
			}
			if tt.warning != "" {
				assert.True(t, hasField(result.Warnings, tt.warning), "missing warning %s: %v", tt.warning, result.Warnings)
			}
		})
	}
}
