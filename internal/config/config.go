package config

// Config represents the complete evitaLab core configuration
type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment" json:"environment"`
	Port        int    `mapstructure:"port" yaml:"port" json:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	Connections ConnectionsConfig `mapstructure:"connections" yaml:"connections" json:"connections"`
	Driver      DriverConfig      `mapstructure:"driver" yaml:"driver" json:"driver"`
	GraphQL     GraphQLConfig     `mapstructure:"graphql" yaml:"graphql" json:"graphql"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache" json:"cache"`
	CORS        CORSConfig        `mapstructure:"cors" yaml:"cors" json:"cors"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring" yaml:"monitoring" json:"monitoring"`
}

// ConnectionsConfig controls where evitaDB server connections come from.
// Preconfigured connections are read-only; user connections live in the cache
// under StorageKey.
type ConnectionsConfig struct {
	PreconfiguredFile string                    `mapstructure:"preconfigured_file" yaml:"preconfigured_file" json:"preconfigured_file"`
	Preconfigured     []PreconfiguredConnection `mapstructure:"preconfigured" yaml:"preconfigured" json:"preconfigured"`
	StorageKey        string                    `mapstructure:"storage_key" yaml:"storage_key" json:"storage_key"`
	WatchFile         bool                      `mapstructure:"watch_file" yaml:"watch_file" json:"watch_file"`
}

// PreconfiguredConnection is a connection supplied by the deployment
type PreconfiguredConnection struct {
	ID        string `mapstructure:"id" yaml:"id" json:"id"`
	Name      string `mapstructure:"name" yaml:"name" json:"name"`
	ServerURL string `mapstructure:"server_url" yaml:"serverUrl" json:"serverUrl"`
}

// DriverConfig configures evitaDB driver resolution and gRPC transport
type DriverConfig struct {
	Timeout        int `mapstructure:"timeout" yaml:"timeout" json:"timeout"` // milliseconds
	VersionTimeout int `mapstructure:"version_timeout" yaml:"version_timeout" json:"version_timeout"`
}

// GraphQLConfig configures the evitaDB GraphQL client
type GraphQLConfig struct {
	Timeout int `mapstructure:"timeout" yaml:"timeout" json:"timeout"` // milliseconds
}

// CacheConfig configures the Valkey connection store
type CacheConfig struct {
	Nodes    []string `mapstructure:"nodes" yaml:"nodes" json:"nodes"`
	Password string   `mapstructure:"password" yaml:"password" json:"password"`
	DB       int      `mapstructure:"db" yaml:"db" json:"db"`
	TTL      int      `mapstructure:"ttl" yaml:"ttl" json:"ttl"` // seconds
}

// CORSConfig for the HTTP API
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers" json:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers" json:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials" json:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age" json:"max_age"`
}

// MonitoringConfig configures metrics and tracing
type MonitoringConfig struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	MetricsPath       string  `mapstructure:"metrics_path" yaml:"metrics_path" json:"metrics_path"`
	PrometheusEnabled bool    `mapstructure:"prometheus_enabled" yaml:"prometheus_enabled" json:"prometheus_enabled"`
	TracingEnabled    bool    `mapstructure:"tracing_enabled" yaml:"tracing_enabled" json:"tracing_enabled"`
	TracingEndpoint   string  `mapstructure:"tracing_endpoint" yaml:"tracing_endpoint" json:"tracing_endpoint"`
	TracingInsecure   bool    `mapstructure:"tracing_insecure" yaml:"tracing_insecure" json:"tracing_insecure"`
	TracingSampleRate float64 `mapstructure:"tracing_sample_rate" yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}
