// Package config loads runtime settings for the passvault CLI.
package config

import "time"

// Backend names for the remote document store.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Config holds runtime settings for the passvault CLI.
//
// Fields:
//   - Backend: which document store to use (firestore, postgres, memory).
//   - FirebaseAPIKey / AuthEndpoint: Identity Toolkit credentials; the
//     endpoint is only overridden for the auth emulator.
//   - FirestoreProject: GCP project for the firestore backend.
//   - PostgresDSN: connection string for the postgres backend.
//   - AuthTimeout: HTTP timeout for identity provider calls.
//   - Backup*: optional S3-compatible snapshot backup target.
type Config struct {
	Backend          string
	FirebaseAPIKey   string
	AuthEndpoint     string
	FirestoreProject string
	PostgresDSN      string
	AuthTimeout      time.Duration

	BackupBucket    string
	BackupRegion    string
	BackupEndpoint  string
	BackupAccessKey string
	BackupSecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendFirestore
	c.AuthTimeout = 10 * time.Second
	c.BackupRegion = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
