package models

import "time"

// Config represents the application configuration
type Config struct {
	Cache    CacheConfig
	Remote   RemoteConfig
	Watch    WatchConfig
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	SeedFile string
}

// CacheConfig holds durable local cache settings
type CacheConfig struct {
	Path      string
	Namespace string
}

// RemoteConfig holds remote store client settings
type RemoteConfig struct {
	BaseURL string
}

// WatchConfig holds subscription/poll fallback settings
type WatchConfig struct {
	PollInterval    time.Duration
	PollCollections []string
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
	Port            int
	ShutdownTimeout time.Duration
}

// AuthConfig holds authentication settings. RootEmail/RootPassword are the
// break-glass developer credentials that authenticate regardless of the
// backing store.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	RootEmail    string
	RootPassword string
}
