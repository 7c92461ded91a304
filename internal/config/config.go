package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	LogLevel    string

	// AWSRegion is the default region; the CLI's positional region wins.
	AWSRegion            string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
	AWSSessionToken      string
	IdentityCenterMarker string
	EnableMaxAttempts    int
	EnableRetryInterval  time.Duration
	PollMaxAttempts      int
	PollInterval         time.Duration

	TemporalAddress       string
	TemporalNamespace     string
	TemporalTaskQueue     string
	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string

	// MetricsListenAddr enables the /metrics and /healthz server when set.
	MetricsListenAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:           getEnv("SERVICE_NAME", "ouregister"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		AWSRegion:             getEnv("AWS_REGION", ""),
		AWSAccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSSessionToken:       getEnv("AWS_SESSION_TOKEN", ""),
		IdentityCenterMarker:  getEnv("IDENTITY_CENTER_MARKER", "IdentityCenter"),
		TemporalAddress:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TemporalNamespace:     getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue:     getEnv("TEMPORAL_TASK_QUEUE", "ou-registration"),
		TemporalTLSCert:       getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:        getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:     getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName: getEnv("TEMPORAL_TLS_SERVER_NAME", ""),
		MetricsListenAddr:     getEnv("METRICS_LISTEN_ADDR", ""),
	}

	var err error
	if cfg.EnableMaxAttempts, err = getEnvInt("ENABLE_MAX_ATTEMPTS", 20); err != nil {
		return nil, err
	}
	if cfg.EnableRetryInterval, err = getEnvDuration("ENABLE_RETRY_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollMaxAttempts, err = getEnvInt("POLL_MAX_ATTEMPTS", 40); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the variables required by the named component are set.
// Known components: "cli", "worker", "temporal-client".
func (c *Config) Validate(component string) error {
	var missing []string

	if c.EnableMaxAttempts < 1 {
		missing = append(missing, "ENABLE_MAX_ATTEMPTS (must be >= 1)")
	}
	if c.PollMaxAttempts < 1 {
		missing = append(missing, "POLL_MAX_ATTEMPTS (must be >= 1)")
	}
	if c.EnableRetryInterval <= 0 {
		missing = append(missing, "ENABLE_RETRY_INTERVAL (must be > 0)")
	}
	if c.PollInterval <= 0 {
		missing = append(missing, "POLL_INTERVAL (must be > 0)")
	}

	switch component {
	case "worker":
		if c.AWSRegion == "" {
			missing = append(missing, "AWS_REGION")
		}
		if c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
		if c.TemporalTaskQueue == "" {
			missing = append(missing, "TEMPORAL_TASK_QUEUE")
		}
	case "temporal-client":
		if c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
		if c.TemporalTaskQueue == "" {
			missing = append(missing, "TEMPORAL_TASK_QUEUE")
		}
	}

	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		missing = append(missing, "TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		missing = append(missing, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must both be set")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s: missing or invalid: %s", component, strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
