package config

// LoadEnvironmentConfig loads environment-specific configuration
func LoadEnvironmentConfig(env string) (*Config, error) {
	base, err := Load()
	if err != nil {
		return nil, err
	}
	return ApplyEnvironment(base, env), nil
}

// ApplyEnvironment adjusts a loaded configuration for the given environment
func ApplyEnvironment(config *Config, env string) *Config {
	switch env {
	case "production":
		return applyProductionConfig(config)
	case "staging":
		return applyStagingConfig(config)
	case "development":
		return applyDevelopmentConfig(config)
	case "test":
		return applyTestConfig(config)
	default:
		return config
	}
}

func applyProductionConfig(config *Config) *Config {
	config.LogLevel = ProductionLogLevel
	// hot reload of deployment-owned connections is an ops decision in production
	config.Connections.WatchFile = false
	config.Monitoring.TracingSampleRate = 0.1
	return config
}

func applyStagingConfig(config *Config) *Config {
	config.LogLevel = StagingLogLevel
	config.CORS.AllowedOrigins = append(config.CORS.AllowedOrigins, "http://localhost:3000")
	return config
}

func applyDevelopmentConfig(config *Config) *Config {
	config.LogLevel = DevelopmentLogLevel

	// Permissive CORS for the lab UI dev server
	config.CORS.AllowedOrigins = []string{"*"}
	config.Connections.WatchFile = true
	return config
}

func applyTestConfig(config *Config) *Config {
	config.LogLevel = TestLogLevel
	config.Connections.WatchFile = false
	config.Monitoring.TracingEnabled = false

	// Different port for a test Valkey
	config.Cache.Nodes = []string{"localhost:6380"}
	return config
}
