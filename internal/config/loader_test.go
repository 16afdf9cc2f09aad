package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigLoading(t *testing.T) {
	t.Run("load from file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", `
environment: test
port: 9999
log_level: debug

connections:
  storage_key: "lab:conns"
  preconfigured:
    - name: local
      server_url: "http://localhost:5555"

driver:
  timeout: 5000

cache:
  nodes:
    - "test-valkey:6379"
  ttl: 30
`)
		t.Setenv("CONFIG_PATH", path)

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test", config.Environment)
		assert.Equal(t, 9999, config.Port)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, "lab:conns", config.Connections.StorageKey)
		require.Len(t, config.Connections.Preconfigured, 1)
		assert.Equal(t, "http://localhost:5555", config.Connections.Preconfigured[0].ServerURL)
		assert.Equal(t, 5*time.Second, config.GetDriverTimeout())
		assert.Equal(t, 30*time.Second, config.GetGraphQLTimeout())
		assert.Equal(t, []string{"test-valkey:6379"}, config.Cache.Nodes)
		assert.Equal(t, 30*time.Second, config.GetCacheTTL())
	})

	t.Run("env var precedence", func(t *testing.T) {
		t.Setenv("EVITALAB_PORT", "7777")
		t.Setenv("EVITALAB_LOG_LEVEL", "warn")
		t.Setenv("VALKEY_CACHE_NODES", "a:6379, b:6379")

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 7777, config.Port)
		assert.Equal(t, "warn", config.LogLevel)
		assert.Equal(t, []string{"a:6379", "b:6379"}, config.Cache.Nodes)
		assert.Equal(t, DefaultConnectionsKey, config.Connections.StorageKey)
	})

	t.Run("otel endpoint enables tracing", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4317")

		config, err := Load()
		require.NoError(t, err)
		assert.True(t, config.Monitoring.TracingEnabled)
		assert.Equal(t, "collector:4317", config.Monitoring.TracingEndpoint)
	})

	t.Run("invalid file values fail validation", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "log_level: chatty\n")
		t.Setenv("CONFIG_PATH", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestValidateConfig(t *testing.T) {
	config := GetDefaultConfig()
	require.NoError(t, validateConfig(config))

	config.Connections.Preconfigured = []PreconfiguredConnection{
		{Name: "local", ServerURL: "http://localhost:5555"},
		{Name: "LOCAL", ServerURL: "http://other:5555"},
	}
	assert.ErrorContains(t, validateConfig(config), "duplicate preconfigured connection")

	config = GetDefaultConfig()
	config.Monitoring.TracingSampleRate = 2
	assert.Error(t, validateConfig(config))

	config = GetDefaultConfig()
	config.Cache.TTL = -1
	assert.Error(t, validateConfig(config))

	config = GetDefaultConfig()
	config.Cache.Nodes = []string{"localhost:6379", "valkey-without-port"}
	assert.ErrorContains(t, validateConfig(config), "invalid Valkey node valkey-without-port")

	config = GetDefaultConfig()
	config.Monitoring.TracingEnabled = true
	config.Monitoring.TracingEndpoint = "collector"
	assert.ErrorContains(t, validateConfig(config), "invalid tracing endpoint")

	config.Monitoring.TracingEnabled = false
	require.NoError(t, validateConfig(config))
}

func TestParsePreconfiguredConnections(t *testing.T) {
	t.Run("json list", func(t *testing.T) {
		conns, err := ParsePreconfiguredConnections([]byte(`[{"name": " demo ", "serverUrl": "https://demo.evitadb.io"}]`))
		require.NoError(t, err)
		require.Len(t, conns, 1)
		assert.Equal(t, "demo", conns[0].Name)
		assert.Equal(t, "https://demo.evitadb.io", conns[0].ServerURL)
	})

	t.Run("wrapped yaml", func(t *testing.T) {
		conns, err := ParsePreconfiguredConnections([]byte(`
connections:
  - id: fixed
    name: local
    serverUrl: http://localhost:5555
`))
		require.NoError(t, err)
		require.Len(t, conns, 1)
		assert.Equal(t, "fixed", conns[0].ID)
	})

	t.Run("empty document", func(t *testing.T) {
		conns, err := ParsePreconfiguredConnections(nil)
		require.NoError(t, err)
		assert.Empty(t, conns)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := ParsePreconfiguredConnections([]byte(`[{"name": "x", "serverUrl": "ftp://x"}]`))
		assert.Error(t, err)
	})

	t.Run("scalar document", func(t *testing.T) {
		_, err := ParsePreconfiguredConnections([]byte(`hello`))
		assert.Error(t, err)
	})
}

func TestPreconfiguredConnectionsMerge(t *testing.T) {
	path := writeFile(t, t.TempDir(), "connections.yaml", `
- name: local
  serverUrl: http://from-file:5555
- name: demo
  serverUrl: https://demo.evitadb.io
`)
	config := GetDefaultConfig()
	config.Connections.PreconfiguredFile = path
	config.Connections.Preconfigured = []PreconfiguredConnection{{Name: "Local", ServerURL: "http://inline:5555"}}

	conns, err := config.PreconfiguredConnections()
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, "http://inline:5555", conns[0].ServerURL)
	assert.Equal(t, "demo", conns[1].Name)
}

func TestSecretsLoading(t *testing.T) {
	config := GetDefaultConfig()

	t.Setenv("VALKEY_PASSWORD", "s3cret")
	require.NoError(t, LoadSecrets(config))
	assert.Equal(t, "s3cret", config.Cache.Password)
	assert.NotContains(t, config.ToJSON(), "s3cret")

	t.Setenv("VALKEY_PASSWORD", "")
	file := writeFile(t, t.TempDir(), "pw", "from-file\n")
	t.Setenv("VALKEY_PASSWORD_FILE", file)
	config = GetDefaultConfig()
	require.NoError(t, LoadSecrets(config))
	assert.Equal(t, "from-file", config.Cache.Password)

	t.Setenv("VALKEY_PASSWORD_FILE", "")
	config = GetDefaultConfig()
	config.Environment = "production"
	config.Cache.Nodes = []string{"a:6379", "b:6379"}
	assert.Error(t, LoadSecrets(config))
}

func TestApplyEnvironment(t *testing.T) {
	config := ApplyEnvironment(GetDefaultConfig(), "production")
	assert.Equal(t, ProductionLogLevel, config.LogLevel)
	assert.False(t, config.Connections.WatchFile)

	config = ApplyEnvironment(GetDefaultConfig(), "unknown")
	assert.Equal(t, "info", config.LogLevel)
}

func TestConnectionsWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "connections.yaml", "- name: local\n  serverUrl: http://localhost:5555\n")
	config := GetDefaultConfig()
	config.Connections.PreconfiguredFile = path

	w := NewConnectionsWatcher(config, logger.NewNop())
	w.debounce = 50 * time.Millisecond
	require.NoError(t, w.Reload())
	require.Len(t, w.Current(), 1)

	updates := make(chan []PreconfiguredConnection, 4)
	w.RegisterWatcher(func(c []PreconfiguredConnection) { updates <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("- name: local\n  serverUrl: http://localhost:5555\n- name: demo\n  serverUrl: https://demo.evitadb.io\n"), 0o600))

	select {
	case conns := <-updates:
		assert.Len(t, conns, 2)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload notification")
	}

	// a broken file keeps the last good list
	require.NoError(t, os.WriteFile(path, []byte("- name: \n"), 0o600))
	assert.Error(t, w.Reload())
	assert.Len(t, w.Current(), 2)
}

func BenchmarkConfigValidation(b *testing.B) {
	config := GetDefaultConfig()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := validateConfig(config); err != nil {
			b.Fatal(err)
		}
	}
}
