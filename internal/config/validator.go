package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks every section of the configuration.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	validateLogging(cfg.GetLogging(), result)
	validateCapture(cfg.GetCapture(), result)
	if cfg.GetCapture().ListenPort != 0 && cfg.GetCapture().ListenPort == cfg.GetAPI().Port {
		result.AddError("capture.listen_port", "must differ from api.port")
	}
	validateAPI(cfg.GetAPI(), result)
	validateMQTT(cfg.GetMQTT(), result)

	return result
}

func validateLogging(l LoggingConfig, result *ValidationResult) {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		result.AddError("logging.level", fmt.Sprintf("unknown log level %q", l.Level))
	}
	if l.Directory == "" && !l.Console {
		result.AddWarning("logging", "both file and console logging are disabled")
	}
	if l.MaxBackups < 1 && l.Directory != "" {
		result.AddWarning("logging.max_backups", "old log files will be removed immediately")
	}
}

func validateCapture(c CaptureConfig, result *ValidationResult) {
	if strings.TrimSpace(c.DatabasePath) == "" {
		result.AddError("capture.database_path", "capture database path is required")
	}
	if c.MaxFrameBytes < 1 {
		result.AddError("capture.max_frame_bytes", "must allow at least 1 byte per frame")
	}
	if c.MaxFrameBytes > 1<<20 {
		result.AddWarning("capture.max_frame_bytes",
			fmt.Sprintf("frames of %d bytes exceed anything the client sends", c.MaxFrameBytes))
	}
	if c.ListenPort != 0 {
		validatePort(c.ListenPort, "capture.listen_port", result)
	}
}

func validateAPI(a APIConfig, result *ValidationResult) {
	validatePort(a.Port, "api.port", result)
	for _, origin := range a.AllowedOrigins {
		if origin == "*" {
			result.AddWarning("api.allowed_origins", "wildcard origin allows any site to call the API")
		}
	}
}

func validateMQTT(m MQTTConfig, result *ValidationResult) {
	if !m.Enabled {
		return
	}
	if strings.TrimSpace(m.BrokerURL) == "" {
		result.AddError("mqtt.broker_url", "MQTT broker URL is required when enabled")
	}
	if m.Port < 1 || m.Port > 65535 {
		result.AddError("mqtt.port", "invalid MQTT port")
	}
	if (m.CertFile == "") != (m.KeyFile == "") {
		result.AddError("mqtt.cert_file", "client certificate and key must be set together")
	}
	if strings.TrimSpace(m.TopicPrefix) == "" {
		result.AddWarning("mqtt.topic_prefix", "captures will be published at the topic root")
	}
}

func validatePort(port int, field string, result *ValidationResult) {
	if port < 1 || port > 65535 {
		result.AddError(field, fmt.Sprintf("invalid port number: %d (must be 1-65535)", port))
		return
	}
	if port < 1024 {
		result.AddWarning(field,
			fmt.Sprintf("port %d is a privileged port, may require elevated permissions", port))
	}
}

// IsPortAvailable checks if a port is available for binding.
func IsPortAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
