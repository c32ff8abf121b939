package config

import (
	"fmt"
	"os"
	"time"

	commoncfg "owl-care/owl-common/config"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

const (
	SinkLog     = "log"
	SinkMQTT    = "mqtt"
	SinkStream  = "stream"
	SinkKafka   = "kafka"
	SinkWebhook = "webhook"
)

// Config owl-medical (HTTP API + measurement consumer)
type Config struct {
	HTTP struct {
		Addr string
	}
	Repository struct {
		Backend  string // file | postgres
		FilePath string
	}
	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig

	// Consumer reads measurements from a Redis stream
	Consumer struct {
		Enabled   bool
		Stream    string
		Group     string
		Name      string
		BatchSize int64
		Block     time.Duration
	}

	// Ingest subscribes to device measurements over MQTT
	Ingest struct {
		Enabled bool
		Topic   string
	}

	Alert struct {
		Sinks     []string
		MQTTTopic string
		Stream    string
		Webhook   struct {
			URL     string
			Timeout time.Duration
			Retries int
		}
	}
	MQTT  commoncfg.MQTTConfig
	Kafka commoncfg.KafkaConfig

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the environment (after .env preload in main) and validates the result
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = commoncfg.GetEnv("HTTP_ADDR", ":8082")

	cfg.Repository.Backend = commoncfg.GetEnv("PATIENT_REPOSITORY", BackendFile)
	cfg.Repository.FilePath = commoncfg.GetEnv("PATIENT_FILE", "data/patients.json")

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "owlcare",
		SSLMode:  "disable",
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Consumer.Enabled = commoncfg.GetEnvBool("CONSUMER_ENABLED", false)
	cfg.Consumer.Stream = commoncfg.GetEnv("MEASUREMENT_STREAM", "medical:measurements")
	cfg.Consumer.Group = commoncfg.GetEnv("CONSUMER_GROUP", "owl-medical")
	cfg.Consumer.Name = commoncfg.GetEnv("CONSUMER_NAME", hostnameOr("owl-medical-1"))
	cfg.Consumer.BatchSize = int64(commoncfg.GetEnvInt("CONSUMER_BATCH_SIZE", 10))
	cfg.Consumer.Block = time.Duration(commoncfg.GetEnvInt("CONSUMER_BLOCK_MS", 5000)) * time.Millisecond

	cfg.Ingest.Enabled = commoncfg.GetEnvBool("MQTT_INGEST_ENABLED", false)
	cfg.Ingest.Topic = commoncfg.GetEnv("MQTT_INGEST_TOPIC", "owl/medical/measurements/+")

	cfg.Alert.Sinks = commoncfg.SplitList(commoncfg.GetEnv("ALERT_SINKS", SinkLog))
	cfg.Alert.MQTTTopic = commoncfg.GetEnv("ALERT_MQTT_TOPIC", "owl/medical/alerts")
	cfg.Alert.Stream = commoncfg.GetEnv("ALERT_STREAM", "medical:alerts")
	cfg.Alert.Webhook.URL = commoncfg.GetEnv("ALERT_WEBHOOK_URL", "")
	cfg.Alert.Webhook.Timeout = time.Duration(commoncfg.GetEnvInt("ALERT_WEBHOOK_TIMEOUT", 5)) * time.Second
	cfg.Alert.Webhook.Retries = commoncfg.GetEnvInt("ALERT_WEBHOOK_RETRIES", 2)

	cfg.MQTT = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "owl-medical",
		QoS:      1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.Kafka = commoncfg.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "medical-alerts",
	}
	cfg.Kafka.LoadFromEnv("KAFKA")

	cfg.Log.Level = commoncfg.GetEnv("LOG_LEVEL", "info")
	cfg.Log.Format = commoncfg.GetEnv("LOG_FORMAT", "json")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend and sink names and the settings each sink needs
func (c *Config) Validate() error {
	switch c.Repository.Backend {
	case BackendFile:
		if c.Repository.FilePath == "" {
			return fmt.Errorf("PATIENT_FILE is required for the file repository")
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("unknown PATIENT_REPOSITORY %q", c.Repository.Backend)
	}

	if len(c.Alert.Sinks) == 0 {
		return fmt.Errorf("ALERT_SINKS must name at least one sink")
	}
	for _, sink := range c.Alert.Sinks {
		switch sink {
		case SinkLog, SinkMQTT, SinkStream:
		case SinkKafka:
			if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
				return fmt.Errorf("kafka sink needs KAFKA_BROKERS and KAFKA_TOPIC")
			}
		case SinkWebhook:
			if c.Alert.Webhook.URL == "" {
				return fmt.Errorf("webhook sink needs ALERT_WEBHOOK_URL")
			}
		default:
			return fmt.Errorf("unknown alert sink %q", sink)
		}
	}

	if c.Consumer.Enabled && c.Consumer.BatchSize <= 0 {
		return fmt.Errorf("CONSUMER_BATCH_SIZE must be positive")
	}
	if c.Ingest.Enabled && c.Ingest.Topic == "" {
		return fmt.Errorf("MQTT_INGEST_TOPIC is required when MQTT_INGEST_ENABLED is set")
	}
	return nil
}

// UsesMQTT the mqtt alert sink or the MQTT ingest needs a broker connection
func (c *Config) UsesMQTT() bool {
	return c.Ingest.Enabled || c.HasSink(SinkMQTT)
}

// HasSink reports whether name is among the configured alert sinks
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Alert.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

func hostnameOr(def string) string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return def
}
