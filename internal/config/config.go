package config

import "time"

// PricerConfig is the root configuration for a pricer instance.
type PricerConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Database DatabaseConfig `yaml:"database"`
	Registry RegistryConfig `yaml:"registry"`
	Poller   PollerConfig   `yaml:"poller"`
	Writers  WritersConfig  `yaml:"writers"`
	Stream   StreamConfig   `yaml:"stream"`
	API      APIConfig      `yaml:"api"`
}

// InstanceConfig identifies this pricer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig holds both database connections: Postgres for market
// state, TimescaleDB for the quote time series.
type DatabaseConfig struct {
	Postgres  DBConfig `yaml:"postgres"`
	Timescale DBConfig `yaml:"timescale"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RegistryConfig holds market registry settings.
type RegistryConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

// PollerConfig holds repricing loop settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
}

// WritersConfig holds quote batch writer settings.
type WritersConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// StreamConfig holds websocket streaming server settings.
type StreamConfig struct {
	Port         int           `yaml:"port"`
	PingInterval time.Duration `yaml:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Port        int           `yaml:"port"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}
