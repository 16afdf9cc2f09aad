package config

const (
	// Service information
	ServiceName    = "evitalab-core"
	ServiceVersion = "v1.0.0"
	APIVersion     = "v1"

	// Default timeouts (milliseconds)
	DefaultDriverTimeout   = 30000
	DefaultVersionTimeout  = 5000
	DefaultGraphQLTimeout  = 30000
	DefaultShutdownTimeout = 30000

	// Cache settings
	DefaultCacheTTL          = 0 // stored connections never expire
	DefaultConnectionsKey    = "evitalab:connections"
	DefaultCacheSwapInterval = 30 // seconds between Valkey reconnect attempts

	// Traffic history
	DefaultTrafficLimit = 1000

	// File size limits
	MaxConfigFileSize        = 10485760 // 10MB
	MaxPreconfiguredFileSize = 1048576  // 1MB
)

// Environment-specific constants
var (
	ProductionLogLevel  = "warn"
	StagingLogLevel     = "info"
	DevelopmentLogLevel = "debug"
	TestLogLevel        = "error"
)
