package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from various sources with priority order:
// 1. Environment variables
// 2. Configuration file (config.yaml, or the file named by CONFIG_PATH)
// 3. Default values
func Load() (*Config, error) {
	v := viper.New()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/evitalab/")
		v.AddConfigPath("./configs/")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("EVITALAB")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults
	}

	overrideWithEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		RecordValidationError()
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets reasonable default values
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	// Server defaults
	v.SetDefault("environment", d.Environment)
	v.SetDefault("port", d.Port)
	v.SetDefault("log_level", d.LogLevel)

	// Connection sources
	v.SetDefault("connections.preconfigured_file", "")
	v.SetDefault("connections.storage_key", d.Connections.StorageKey)
	v.SetDefault("connections.watch_file", d.Connections.WatchFile)

	// Transports
	v.SetDefault("driver.timeout", d.Driver.Timeout)
	v.SetDefault("driver.version_timeout", d.Driver.VersionTimeout)
	v.SetDefault("graphql.timeout", d.GraphQL.Timeout)

	// Cache defaults (Valkey)
	v.SetDefault("cache.nodes", d.Cache.Nodes)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.db", d.Cache.DB)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", d.CORS.AllowedOrigins)
	v.SetDefault("cors.allowed_methods", d.CORS.AllowedMethods)
	v.SetDefault("cors.allowed_headers", d.CORS.AllowedHeaders)
	v.SetDefault("cors.exposed_headers", d.CORS.ExposedHeaders)
	v.SetDefault("cors.allow_credentials", d.CORS.AllowCredentials)
	v.SetDefault("cors.max_age", d.CORS.MaxAge)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", d.Monitoring.Enabled)
	v.SetDefault("monitoring.metrics_path", d.Monitoring.MetricsPath)
	v.SetDefault("monitoring.prometheus_enabled", d.Monitoring.PrometheusEnabled)
	v.SetDefault("monitoring.tracing_enabled", d.Monitoring.TracingEnabled)
	v.SetDefault("monitoring.tracing_endpoint", d.Monitoring.TracingEndpoint)
	v.SetDefault("monitoring.tracing_insecure", d.Monitoring.TracingInsecure)
	v.SetDefault("monitoring.tracing_sample_rate", d.Monitoring.TracingSampleRate)
}

// overrideWithEnvVars explicitly handles environment variable overrides
func overrideWithEnvVars(v *viper.Viper) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("port", p)
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		v.Set("environment", env)
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("log_level", logLevel)
	}

	if file := os.Getenv("PRECONFIGURED_CONNECTIONS_FILE"); file != "" {
		v.Set("connections.preconfigured_file", file)
	}

	if cacheNodes := os.Getenv("VALKEY_CACHE_NODES"); cacheNodes != "" {
		v.Set("cache.nodes", splitList(cacheNodes))
	}

	if cacheTTL := os.Getenv("CACHE_TTL"); cacheTTL != "" {
		if ttl, err := strconv.Atoi(cacheTTL); err == nil {
			v.Set("cache.ttl", ttl)
		}
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		v.Set("cors.allowed_origins", splitList(origins))
	}

	// standard OpenTelemetry variable turns tracing on
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		v.Set("monitoring.tracing_endpoint", strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://"))
		v.Set("monitoring.tracing_enabled", true)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validEnvironments := []string{"development", "staging", "production", "test"}
	if !contains(validEnvironments, config.Environment) {
		return fmt.Errorf("invalid environment: %s", config.Environment)
	}

	if config.Connections.StorageKey == "" {
		return fmt.Errorf("connections storage key is required")
	}

	if err := validatePreconfigured(config.Connections.Preconfigured); err != nil {
		return err
	}

	if config.Driver.Timeout < 1 {
		return fmt.Errorf("driver timeout must be positive")
	}

	if config.GraphQL.Timeout < 1 {
		return fmt.Errorf("GraphQL timeout must be positive")
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}

	if config.Monitoring.TracingSampleRate < 0 || config.Monitoring.TracingSampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be between 0 and 1")
	}

	return config.ValidateEndpoints()
}
