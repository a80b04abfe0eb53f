// Package telemetry publishes stored captures to an MQTT broker so other
// tools can follow a capture session live.
package telemetry

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/energizer-project/lupackets/internal/config"
	"github.com/energizer-project/lupackets/internal/db"
	"github.com/energizer-project/lupackets/internal/packets"
	"github.com/energizer-project/lupackets/internal/util"
)

// CaptureMessage is the JSON body published for each capture.
type CaptureMessage struct {
	Host      string           `json:"host"`
	Capture   db.Capture       `json:"capture"`
	Decoded   *packets.Decoded `json:"decoded,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// Topic returns the topic a capture in direction is published to.
func Topic(prefix, direction string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return "captures/" + direction
	}
	return prefix + "/captures/" + direction
}

// MQTTFeed publishes captures with QoS 1.
type MQTTFeed struct {
	cfg    config.MQTTConfig
	client mqtt.Client
	host   string
	logger zerolog.Logger
}

// NewMQTTFeed configures a feed. It does not connect.
func NewMQTTFeed(cfg config.MQTTConfig) (*MQTTFeed, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT is disabled")
	}

	sysInfo := util.GetSystemInfo()
	feed := &MQTTFeed{
		cfg:    cfg,
		host:   sysInfo.Hostname,
		logger: util.ComponentLogger("mqtt_feed"),
	}

	scheme := "tcp"
	if cfg.UseTLS {
		scheme = "ssl"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.BrokerURL, cfg.Port))

	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	} else {
		opts.SetClientID(fmt.Sprintf("lupackets-%s", sysInfo.Hostname))
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	if cfg.UseTLS {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load MQTT TLS certificate: %w", err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}
		opts.SetTLSConfig(tlsConfig)
	}

	opts.SetOnConnectHandler(func(mqtt.Client) {
		feed.logger.Info().Msg("MQTT connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		feed.logger.Warn().Err(err).Msg("MQTT connection lost")
	})

	feed.client = mqtt.NewClient(opts)
	return feed, nil
}

// Connect connects to the broker.
func (f *MQTTFeed) Connect() error {
	f.logger.Info().
		Str("broker", f.cfg.BrokerURL).
		Int("port", f.cfg.Port).
		Msg("connecting to MQTT broker")

	token := f.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}
	return nil
}

// PublishCapture publishes c and its decode result. It does not wait for the
// broker's acknowledgement.
func (f *MQTTFeed) PublishCapture(c db.Capture, d *packets.Decoded) {
	if !f.client.IsConnected() {
		return
	}

	topic := Topic(f.cfg.TopicPrefix, c.Direction)
	data, err := json.Marshal(CaptureMessage{
		Host:      f.host,
		Capture:   c,
		Decoded:   d,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		f.logger.Warn().Err(err).Str("topic", topic).Msg("failed to marshal capture")
		return
	}

	token := f.client.Publish(topic, 1, false, data)
	go func() {
		token.Wait()
		if token.Error() != nil {
			f.logger.Warn().Err(token.Error()).Str("topic", topic).Msg("MQTT publish failed")
		}
	}()
}

// Close disconnects, allowing in-flight messages a short grace period.
func (f *MQTTFeed) Close() {
	f.client.Disconnect(1000)
	f.logger.Info().Msg("MQTT disconnected")
}
