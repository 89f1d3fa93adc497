package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophmarket/internal/flagx"
	"github.com/dmitrijs2005/gophmarket/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations are timex.Duration so
// that both "10s" and integer nanoseconds are accepted. Absent keys leave the
// current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	DataDir                     *string         `json:"data_dir"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	SyncTimeout                 *timex.Duration `json:"sync_timeout"`
	ModerationTimeout           *timex.Duration `json:"moderation_timeout"`
	DiscoveryWorkers            *int            `json:"discovery_workers"`
	RegistrationTTLHours        *int            `json:"registration_ttl_hours"`
	AdminUserName               *string         `json:"admin_username"`
	AdminPassword               *string         `json:"admin_password"`
	LogLevel                    *string         `json:"log_level"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays values from the file named by -c/-config, if any.
// An unreadable or malformed file is fatal.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.DataDir, c.DataDir)
	set(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.SyncTimeout != nil {
		config.SyncTimeout = c.SyncTimeout.Duration
	}
	if c.ModerationTimeout != nil {
		config.ModerationTimeout = c.ModerationTimeout.Duration
	}
	set(&config.DiscoveryWorkers, c.DiscoveryWorkers)
	set(&config.RegistrationTTLHours, c.RegistrationTTLHours)
	set(&config.AdminUserName, c.AdminUserName)
	set(&config.AdminPassword, c.AdminPassword)
	set(&config.LogLevel, c.LogLevel)
}
