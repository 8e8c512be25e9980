package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Presence   PresenceConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	// DefaultRealm is the realm subdomain used for OAuth logins that don't
	// specify one.
	DefaultRealm string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// PresenceConfig holds the presence timing knobs.
type PresenceConfig struct {
	// OfflineThresholdSecs is how stale a user's freshest heartbeat may be
	// before they are reported OFFLINE.
	OfflineThresholdSecs int
	// PingIntervalSecs is how often connected clients are expected to ping.
	PingIntervalSecs int
	// MirrorActivityWindow is how recent mirror-bot activity must be to count
	// as active in mirror realms.
	MirrorActivityWindow time.Duration
}

// OfflineThreshold returns the threshold as a duration.
func (p *PresenceConfig) OfflineThreshold() time.Duration {
	return time.Duration(p.OfflineThresholdSecs) * time.Second
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8086"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "parley:parley@tcp(localhost:3306)/parley?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "parley",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", ""),
			DefaultRealm:       env("OAUTH_DEFAULT_REALM", "main"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Presence: PresenceConfig{
			OfflineThresholdSecs: envInt("PRESENCE_OFFLINE_THRESHOLD_SECS", 140),
			PingIntervalSecs:     envInt("PRESENCE_PING_INTERVAL_SECS", 60),
			MirrorActivityWindow: 5 * time.Minute,
		},
	}
}
