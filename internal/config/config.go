// Package config handles configuration loading, validation, and persistence
// for the lupackets tooling.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/energizer-project/lupackets/internal/util"
)

const (
	DefaultConfigDir     = "config"
	DefaultConfigFile    = "lupackets.json"
	DefaultAPIPort       = 5080
	DefaultMaxFrameBytes = 64 * 1024
)

// Config is the root configuration structure.
type Config struct {
	mu   sync.RWMutex
	path string

	Logging LoggingConfig `json:"logging"`
	Capture CaptureConfig `json:"capture"`
	API     APIConfig     `json:"api"`
	MQTT    MQTTConfig    `json:"mqtt"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `json:"level"`
	Directory  string `json:"directory"`
	MaxBackups int    `json:"max_backups"`
	Console    bool   `json:"console"`
}

// CaptureConfig holds the capture store settings.
type CaptureConfig struct {
	DatabasePath  string `json:"database_path"`
	MaxFrameBytes int    `json:"max_frame_bytes"`
	// ListenPort accepts TCP capture streams on 127.0.0.1. Zero disables it.
	ListenPort int `json:"listen_port"`
}

// APIConfig holds the inspector HTTP server settings.
type APIConfig struct {
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`
	Debug          bool     `json:"debug"`
}

// MQTTConfig holds the capture feed settings.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	BrokerURL   string `json:"broker_url"`
	Port        int    `json:"port"`
	UseTLS      bool   `json:"use_tls"`
	CertFile    string `json:"cert_file"`
	KeyFile     string `json:"key_file"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig(util.DefaultLogConfig()),
		Capture: CaptureConfig{
			DatabasePath:  filepath.Join("data", "captures.db"),
			MaxFrameBytes: DefaultMaxFrameBytes,
		},
		API: APIConfig{
			Port:           DefaultAPIPort,
			AllowedOrigins: []string{"http://localhost:5080"},
		},
		MQTT: MQTTConfig{
			Port:        1883,
			TopicPrefix: "lupackets",
		},
	}
}

// Load reads configuration from a JSON file in configDir, creating the file
// with defaults when it does not exist.
func Load(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, DefaultConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", configPath).Msg("config file not found, creating default")
			cfg := DefaultConfig()
			cfg.path = configPath
			if saveErr := cfg.Save(); saveErr != nil {
				return nil, fmt.Errorf("failed to save default config: %w", saveErr)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	cfg.path = configPath
	log.Debug().Str("path", configPath).Msg("configuration loaded")

	// Re-save so the file lists every option the binary knows.
	if saveErr := cfg.Save(); saveErr != nil {
		log.Warn().Err(saveErr).Msg("failed to re-save config with updated defaults")
	}

	return cfg, nil
}

// Save writes the current configuration to disk.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Debug().Str("path", c.path).Msg("configuration saved")
	return nil
}

// GetLogging returns a copy of the logging configuration.
func (c *Config) GetLogging() LoggingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logging
}

// GetCapture returns a copy of the capture configuration.
func (c *Config) GetCapture() CaptureConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Capture
}

// GetAPI returns a copy of the API configuration.
func (c *Config) GetAPI() APIConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	api := c.API
	api.AllowedOrigins = append([]string(nil), c.API.AllowedOrigins...)
	return api
}

// GetMQTT returns a copy of the MQTT configuration.
func (c *Config) GetMQTT() MQTTConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MQTT
}

// SetAPI updates the API configuration.
func (c *Config) SetAPI(api APIConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.API = api
}

// LogConfig converts the logging section for util.InitLogger.
func (c *Config) LogConfig() util.LogConfig {
	return util.LogConfig(c.GetLogging())
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}
