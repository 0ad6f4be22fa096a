package config

import (
	"time"
)

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"` // dev - консольный вывод, иначе JSON
}

// ConfigServer настройки серверов
type ConfigServer struct {
	PortGRPC                int           `mapstructure:"port_grpc"`
	PortHTTP                int           `mapstructure:"port_http"`
	HTTPReadTimeout         int           `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int           `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int           `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int           `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int           `mapstructure:"graceful_shutdown_timeout"`
	HealthInterval          time.Duration `mapstructure:"health_interval"`
}

// ConfigHTTP настройки HTTP middleware
type ConfigHTTP struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
}

// ConfigDatabase настройки хранилища.
// Driver: memory, sqlite3, postgres или pgx.
type ConfigDatabase struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ConfigCache настройки Redis-кэша заметок
type ConfigCache struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Config основная структура конфигурации
type Config struct {
	Logger   *ConfigLogger   `mapstructure:"logger"`
	Server   *ConfigServer   `mapstructure:"server"`
	HTTP     *ConfigHTTP     `mapstructure:"http"`
	Database *ConfigDatabase `mapstructure:"database"`
	Cache    *ConfigCache    `mapstructure:"cache"`
}
