package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
	"github.com/dmitrijs2005/passvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the auth timeout either as a string
// like "10s" or as integer nanoseconds. After parsing, non-empty values are
// copied into the runtime Config.
type JsonConfig struct {
	Backend          string         `json:"backend"`
	FirebaseAPIKey   string         `json:"firebase_api_key"`
	AuthEndpoint     string         `json:"auth_endpoint"`
	FirestoreProject string         `json:"firestore_project"`
	PostgresDSN      string         `json:"postgres_dsn"`
	AuthTimeout      timex.Duration `json:"auth_timeout"`

	BackupBucket    string `json:"backup_bucket"`
	BackupRegion    string `json:"backup_region"`
	BackupEndpoint  string `json:"backup_endpoint"`
	BackupAccessKey string `json:"backup_access_key"`
	BackupSecretKey string `json:"backup_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags (see flagx.JsonConfigFlags); when no
// path is given, nothing is loaded. Read or unmarshal errors panic, matching
// the fail-fast startup behavior of parseFlags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Backend != "" {
		cfg.Backend = jc.Backend
	}
	if jc.FirebaseAPIKey != "" {
		cfg.FirebaseAPIKey = jc.FirebaseAPIKey
	}
	if jc.AuthEndpoint != "" {
		cfg.AuthEndpoint = jc.AuthEndpoint
	}
	if jc.FirestoreProject != "" {
		cfg.FirestoreProject = jc.FirestoreProject
	}
	if jc.PostgresDSN != "" {
		cfg.PostgresDSN = jc.PostgresDSN
	}
	if jc.AuthTimeout.Duration != 0 {
		cfg.AuthTimeout = jc.AuthTimeout.Duration
	}
	if jc.BackupBucket != "" {
		cfg.BackupBucket = jc.BackupBucket
	}
	if jc.BackupRegion != "" {
		cfg.BackupRegion = jc.BackupRegion
	}
	if jc.BackupEndpoint != "" {
		cfg.BackupEndpoint = jc.BackupEndpoint
	}
	if jc.BackupAccessKey != "" {
		cfg.BackupAccessKey = jc.BackupAccessKey
	}
	if jc.BackupSecretKey != "" {
		cfg.BackupSecretKey = jc.BackupSecretKey
	}
}
