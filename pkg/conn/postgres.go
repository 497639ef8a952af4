package conn

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanun0323/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultPostgresHost    = "localhost"
	defaultPostgresPort    = 5432
	defaultPostgresSSLMode = "disable"
	defaultPostgresAppName = "parse-quote"
)

var postgresLogLevels = map[string]logger.LogLevel{
	"":       logger.Silent,
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

// PostgresOption defines how the quotes database is reached.
// DSN wins over the discrete fields when set.
type PostgresOption struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// Params are extra connection parameters, e.g. connect_timeout.
	Params map[string]string
	// LogLevel is the gorm log level: silent, error, warn or info.
	LogLevel string
	// MaxOpenConns caps the pool, zero leaves the driver default.
	MaxOpenConns int
}

// PostgresClient wraps a PostgreSQL connection pool.
type PostgresClient struct {
	db *gorm.DB
}

// NewPostgres opens the pool described by option.
func NewPostgres(option PostgresOption) (*PostgresClient, error) {
	option = option.withDefaults()
	level, ok := postgresLogLevels[strings.ToLower(option.LogLevel)]
	if !ok {
		return nil, errors.Errorf("invalid postgres log level %q", option.LogLevel)
	}
	dsn, err := option.ConnString()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if option.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "postgres pool")
		}
		sqlDB.SetMaxOpenConns(option.MaxOpenConns)
	}
	return &PostgresClient{db: db}, nil
}

// DB returns the underlying gorm.DB instance.
func (c *PostgresClient) DB() *gorm.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// Close closes the underlying connection pool.
func (c *PostgresClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (opt PostgresOption) withDefaults() PostgresOption {
	if opt.Host == "" {
		opt.Host = defaultPostgresHost
	}
	if opt.Port == 0 {
		opt.Port = defaultPostgresPort
	}
	if opt.SSLMode == "" {
		opt.SSLMode = defaultPostgresSSLMode
	}
	return opt
}

// ConnString renders the URL form of the options. Params override the
// sslmode and application_name defaults.
func (opt PostgresOption) ConnString() (string, error) {
	if opt.DSN != "" {
		return opt.DSN, nil
	}
	opt = opt.withDefaults()
	if opt.Port < 0 || opt.Port > 65535 {
		return "", errors.Errorf("invalid postgres port %d", opt.Port)
	}

	query := url.Values{
		"sslmode":          {opt.SSLMode},
		"application_name": {defaultPostgresAppName},
	}
	for key, value := range opt.Params {
		if key != "" {
			query.Set(key, value)
		}
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(opt.Host, strconv.Itoa(opt.Port)),
		RawQuery: query.Encode(),
	}
	switch {
	case opt.User != "" && opt.Password != "":
		u.User = url.UserPassword(opt.User, opt.Password)
	case opt.User != "":
		u.User = url.User(opt.User)
	}
	if opt.Database != "" {
		u.Path = "/" + opt.Database
	}
	return u.String(), nil
}
