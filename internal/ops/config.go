// Package ops loads the runtime configuration of parse-quote.
//
// Values come from an optional config file, a .env file in the working
// directory and PARSEQUOTE_* environment variables, in increasing priority.
// Nested keys map to variables by replacing dots with underscores, e.g.
// sinks.redis.addr is PARSEQUOTE_SINKS_REDIS_ADDR.
package ops

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const envPrefix = "PARSEQUOTE"

// Config is the resolved configuration.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Sinks     SinksConfig     `mapstructure:"sinks"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

// OutputConfig controls the line output and input buffering.
type OutputConfig struct {
	// Stdout writes quote lines to standard output.
	Stdout bool `mapstructure:"stdout"`
	// ReadBufferSize is the read buffer over the capture file in bytes.
	ReadBufferSize int `mapstructure:"read_buffer_size"`
}

// SinksConfig groups the optional network sinks.
type SinksConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// PostgresConfig describes the quotes table sink.
type PostgresConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	DSN       string `mapstructure:"dsn"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	SSLMode   string `mapstructure:"sslmode"`
	BatchSize int    `mapstructure:"batch_size"`
	// Params are extra connection parameters. File only, maps are not read from env.
	Params       map[string]string `mapstructure:"params"`
	LogLevel     string            `mapstructure:"log_level"`
	MaxOpenConns int               `mapstructure:"max_open_conns"`
}

// RedisConfig describes the latest-quote hash and pub/sub sink.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	BatchSize int    `mapstructure:"batch_size"`
}

// KafkaConfig describes the quote topic sink.
type KafkaConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	BatchSize int      `mapstructure:"batch_size"`
}

// ProfilingConfig enables continuous profiling when ServerAddress is set.
type ProfilingConfig struct {
	ServerAddress   string `mapstructure:"server_address"`
	ApplicationName string `mapstructure:"application_name"`
}

var keys = []string{
	"output.stdout", "output.read_buffer_size",
	"sinks.postgres.enabled", "sinks.postgres.dsn", "sinks.postgres.host", "sinks.postgres.port",
	"sinks.postgres.user", "sinks.postgres.password", "sinks.postgres.database",
	"sinks.postgres.sslmode", "sinks.postgres.batch_size", "sinks.postgres.log_level",
	"sinks.postgres.max_open_conns",
	"sinks.redis.enabled", "sinks.redis.addr", "sinks.redis.password", "sinks.redis.db",
	"sinks.redis.batch_size",
	"sinks.kafka.enabled", "sinks.kafka.brokers", "sinks.kafka.topic", "sinks.kafka.batch_size",
	"profiling.server_address", "profiling.application_name",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.stdout", true)
	v.SetDefault("output.read_buffer_size", 1<<20)

	v.SetDefault("sinks.postgres.enabled", false)
	v.SetDefault("sinks.postgres.host", "localhost")
	v.SetDefault("sinks.postgres.port", 5432)
	v.SetDefault("sinks.postgres.sslmode", "disable")
	v.SetDefault("sinks.postgres.batch_size", 500)
	v.SetDefault("sinks.postgres.log_level", "silent")

	v.SetDefault("sinks.redis.enabled", false)
	v.SetDefault("sinks.redis.addr", "localhost:6379")
	v.SetDefault("sinks.redis.db", 0)
	v.SetDefault("sinks.redis.batch_size", 256)

	v.SetDefault("sinks.kafka.enabled", false)
	v.SetDefault("sinks.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("sinks.kafka.topic", "quotes")
	v.SetDefault("sinks.kafka.batch_size", 100)

	v.SetDefault("profiling.application_name", "parse-quote")
}

// Load resolves the configuration. An empty path skips the config file; a
// missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			logs.Errorf("bind env for key %s, err: %+v", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the config is usable.
func (c Config) Validate() error {
	if c.Output.ReadBufferSize < 0 {
		return errors.Errorf("invalid config: output.read_buffer_size must be >= 0")
	}

	pg := c.Sinks.Postgres
	if pg.Enabled {
		if pg.DSN == "" && pg.Host == "" {
			return errors.Errorf("invalid config: sinks.postgres needs dsn or host")
		}
		if pg.Port < 0 || pg.Port > 65535 {
			return errors.Errorf("invalid config: sinks.postgres.port %d out of range", pg.Port)
		}
	}
	if pg.BatchSize < 0 || pg.MaxOpenConns < 0 {
		return errors.Errorf("invalid config: sinks.postgres.batch_size and max_open_conns must be >= 0")
	}
	switch strings.ToLower(pg.LogLevel) {
	case "", "silent", "error", "warn", "info":
	default:
		return errors.Errorf("invalid config: sinks.postgres.log_level %q", pg.LogLevel)
	}

	rd := c.Sinks.Redis
	if rd.Enabled && rd.Addr == "" {
		return errors.Errorf("invalid config: sinks.redis.addr is empty")
	}
	if rd.BatchSize < 0 {
		return errors.Errorf("invalid config: sinks.redis.batch_size must be >= 0")
	}

	kf := c.Sinks.Kafka
	if kf.Enabled {
		if len(kf.Brokers) == 0 {
			return errors.Errorf("invalid config: sinks.kafka.brokers cannot be empty")
		}
		if kf.Topic == "" {
			return errors.Errorf("invalid config: sinks.kafka.topic is empty")
		}
	}
	if kf.BatchSize < 0 {
		return errors.Errorf("invalid config: sinks.kafka.batch_size must be >= 0")
	}
	return nil
}
