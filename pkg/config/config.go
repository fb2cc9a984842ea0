package config

import (
	"fmt"
	"os"
	"regexp"
	"slotboard/pkg/client"
	"slotboard/pkg/logger"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL         string
	DatabaseConnTimeout time.Duration

	Port string

	SMTPHost string
	SMTPPort string
	SMTPFrom string

	PublicBaseURL string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		DatabaseURL:         getEnvStr(EnvDatabaseURL, DefaultDatabaseURL),
		DatabaseConnTimeout: getEnvDuration(EnvDatabaseConnTimeout, DefaultDatabaseConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		SMTPHost: getEnvStr(EnvSMTPHost, ""),
		SMTPPort: getEnvStr(EnvSMTPPort, DefaultSMTPPort),
		SMTPFrom: getEnvStr(EnvSMTPFrom, ""),

		PublicBaseURL: getEnvStr(EnvPublicBaseURL, DefaultPublicBaseURL),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.DatabaseURL, cfg.DatabaseConnTimeout)
}

// SMTPEnabled reports whether outbound mail is configured. Notifications are
// skipped entirely when it is off, matching local development setups.
func (cfg *Config) SMTPEnabled() bool {
	return cfg.SMTPHost != "" && cfg.SMTPFrom != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.DatabaseURL == "" {
		errors = append(errors, "DatabaseURL cannot be empty")
	} else if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.DatabaseURL) {
		errors = append(errors, fmt.Sprintf("DatabaseURL must start with 'postgres://' or 'postgresql://', got: %s", cfg.DatabaseURL))
	}

	if cfg.DatabaseConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("DatabaseConnTimeout must be positive, got: %s", cfg.DatabaseConnTimeout))
	}

	if cfg.SMTPHost != "" {
		if port, err := strconv.Atoi(cfg.SMTPPort); err != nil || port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %s", cfg.SMTPPort))
		}
		if cfg.SMTPFrom == "" {
			errors = append(errors, "SMTPFrom cannot be empty when SMTPHost is set")
		}
	}

	if cfg.PublicBaseURL == "" {
		errors = append(errors, "PublicBaseURL cannot be empty")
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"database_url", redactDatabaseURL(cfg.DatabaseURL),
		"database_conn_timeout", cfg.DatabaseConnTimeout,
		"port", cfg.Port,
		"smtp_enabled", cfg.SMTPEnabled(),
		"smtp_host", cfg.SMTPHost,
		"public_base_url", cfg.PublicBaseURL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactDatabaseURL(url string) string {
	credentialRegex := regexp.MustCompile(`(postgres(ql)?://)[^:/@]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(url, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
