package config

// GetDefaultConfig returns a configuration with all default values
func GetDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Port:        8010,
		LogLevel:    "info",

		Connections: ConnectionsConfig{
			Preconfigured: []PreconfiguredConnection{},
			StorageKey:    DefaultConnectionsKey,
			WatchFile:     true,
		},

		Driver: DriverConfig{
			Timeout:        DefaultDriverTimeout,
			VersionTimeout: DefaultVersionTimeout,
		},

		GraphQL: GraphQLConfig{
			Timeout: DefaultGraphQLTimeout,
		},

		Cache: CacheConfig{
			Nodes: []string{"localhost:6379"},
			TTL:   DefaultCacheTTL,
			DB:    0,
		},

		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           3600,
		},

		Monitoring: MonitoringConfig{
			Enabled:           true,
			MetricsPath:       "/metrics",
			PrometheusEnabled: true,
			TracingEnabled:    false,
			TracingEndpoint:   "localhost:4317",
			TracingInsecure:   true,
			TracingSampleRate: 1.0,
		},
	}
}
