package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Output.Stdout)
	assert.Equal(t, 1<<20, cfg.Output.ReadBufferSize)
	assert.False(t, cfg.Sinks.Postgres.Enabled)
	assert.Equal(t, "silent", cfg.Sinks.Postgres.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Sinks.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Sinks.Kafka.Brokers)
	assert.Equal(t, "parse-quote", cfg.Profiling.ApplicationName)
	assert.Empty(t, cfg.Profiling.ServerAddress)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output:
  stdout: false
sinks:
  postgres:
    host: db
    log_level: warn
    params:
      connect_timeout: "5"
  redis:
    enabled: true
    addr: cache:6379
    batch_size: 16
  kafka:
    enabled: true
    brokers: [k1:9092, k2:9092]
    topic: kospi.quotes
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PARSEQUOTE_SINKS_REDIS_ADDR", "override:6380")
	t.Setenv("PARSEQUOTE_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Output.Stdout)
	assert.True(t, cfg.Sinks.Redis.Enabled)
	assert.Equal(t, "override:6380", cfg.Sinks.Redis.Addr)
	assert.Equal(t, 16, cfg.Sinks.Redis.BatchSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Sinks.Kafka.Brokers)
	assert.Equal(t, "kospi.quotes", cfg.Sinks.Kafka.Topic)
	assert.Equal(t, "http://pyroscope:4040", cfg.Profiling.ServerAddress)
	assert.Equal(t, "db", cfg.Sinks.Postgres.Host)
	assert.Equal(t, "warn", cfg.Sinks.Postgres.LogLevel)
	assert.Equal(t, map[string]string{"connect_timeout": "5"}, cfg.Sinks.Postgres.Params)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		desc string
		cfg  Config
		ok   bool
	}{
		{desc: "zero", cfg: Config{}, ok: true},
		{desc: "negative buffer", cfg: Config{Output: OutputConfig{ReadBufferSize: -1}}},
		{desc: "postgres without host", cfg: Config{Sinks: SinksConfig{Postgres: PostgresConfig{Enabled: true}}}},
		{desc: "postgres dsn", cfg: Config{Sinks: SinksConfig{Postgres: PostgresConfig{Enabled: true, DSN: "postgres://db"}}}, ok: true},
		{desc: "redis without addr", cfg: Config{Sinks: SinksConfig{Redis: RedisConfig{Enabled: true}}}},
		{desc: "kafka without topic", cfg: Config{Sinks: SinksConfig{Kafka: KafkaConfig{Enabled: true, Brokers: []string{"k:9092"}}}}},
		{desc: "unknown postgres log level", cfg: Config{Sinks: SinksConfig{Postgres: PostgresConfig{LogLevel: "loud"}}}},
		{desc: "negative batch", cfg: Config{Sinks: SinksConfig{Kafka: KafkaConfig{BatchSize: -1}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
