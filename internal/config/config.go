package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultZenith mirrors ephemeris.DefaultZenith (90°50′).
const DefaultZenith = 90.0 + 50.0/60.0

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Calculation settings.
	Zenith     float64
	CitiesFile string
	DateWindow time.Duration

	// Time zone inference from coordinates.
	TZInferenceEnabled bool
	TZCacheSize        int

	// Kafka batch pipeline.
	PipelineEnabled    bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	zenith, err := parseZenith()
	if err != nil {
		return nil, err
	}

	window, err := time.ParseDuration(sharedcfg.EnvOrDefault("DATE_WINDOW", "8760h"))
	if err != nil || window < 0 {
		return nil, errors.New("invalid DATE_WINDOW")
	}

	pipelineEnabled, err := parseBool("PIPELINE_ENABLED", false)
	if err != nil {
		return nil, err
	}
	tzEnabled, err := parseBool("TZ_INFERENCE_ENABLED", true)
	if err != nil {
		return nil, err
	}

	tzCacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("TZ_CACHE_SIZE", "1000"))
	if err != nil || tzCacheSize <= 0 {
		return nil, errors.New("invalid TZ_CACHE_SIZE")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Zenith:     zenith,
		CitiesFile: sharedcfg.EnvOrDefault("CITIES_FILE", ""),
		DateWindow: window,

		TZInferenceEnabled: tzEnabled,
		TZCacheSize:        tzCacheSize,

		PipelineEnabled:    pipelineEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "solar-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "solar-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "suntimes"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func parseZenith() (float64, error) {
	s := sharedcfg.EnvOrDefault("SUN_ZENITH", "")
	if s == "" {
		return DefaultZenith, nil
	}
	z, err := strconv.ParseFloat(s, 64)
	if err != nil || !(z > 0 && z < 180) {
		return 0, fmt.Errorf("invalid SUN_ZENITH %q: must be degrees between 0 and 180", s)
	}
	return z, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := sharedcfg.EnvOrDefault(key, "")
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}
