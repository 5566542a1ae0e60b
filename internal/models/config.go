package models

import "time"

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Auth        AuthConfig
	Plans       PlansConfig
	Distributor DistributorConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	MaxConns        int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// PlansConfig holds staking plan catalog settings
type PlansConfig struct {
	File string
}

// DistributorConfig holds reward distribution job settings
type DistributorConfig struct {
	Interval time.Duration
	Workers  int
}
