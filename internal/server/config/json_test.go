package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_grpc":             "www.example:9000",
		"database_dsn":                   "postgres://db",
		"data_dir":                       "/tmp/stores",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "15m",
		"s3_root_user":                   "user",
		"s3_root_password":               "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
		"sync_timeout":                   "3s",
		"moderation_timeout":             int64(2 * time.Second),
		"discovery_workers":              4,
		"registration_ttl_hours":         12,
		"admin_username":                 "root",
		"admin_password":                 "toor",
		"log_level":                      "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, Config{
			EndpointAddrGRPC:            "www.example:9000",
			DatabaseDSN:                 "postgres://db",
			DataDir:                     "/tmp/stores",
			SecretKey:                   "my_secret_key",
			AccessTokenValidityDuration: 15 * time.Minute,
			S3RootUser:                  "user",
			S3RootPassword:              "password",
			S3Bucket:                    "bucket",
			S3Region:                    "region",
			S3BaseEndpoint:              "base_endpoint",
			SyncTimeout:                 3 * time.Second,
			ModerationTimeout:           2 * time.Second,
			DiscoveryWorkers:            4,
			RegistrationTTLHours:        12,
			AdminUserName:               "root",
			AdminPassword:               "toor",
			LogLevel:                    "warn",
		}, *cfg)
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		partial := writeTempJSON(t, "", "partial.json", map[string]any{"s3_bucket": "market"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "market", cfg.S3Bucket)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, 10*time.Second, cfg.SyncTimeout)
	})

	t.Run("no flag means no file", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{SecretKey: "keep"}
		parseJson(cfg)
		assert.Equal(t, "keep", cfg.SecretKey)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("malformed file panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
