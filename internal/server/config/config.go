// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the GophMarket server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps accounts, audit log and
//     registrations in memory.
//   - DataDir: directory with one SQLite file per owner. Empty keeps owner
//     stores in memory.
//   - SecretKey: HMAC secret for access tokens and listing signatures.
//   - S3*: object storage for synced listings. An empty bucket selects the
//     in-memory store.
//   - SyncTimeout / ModerationTimeout: bounds on network-bound operations.
//   - DiscoveryWorkers: how many owner stores the feed builder reads at once.
//   - RegistrationTTLHours: lifetime announced with a discovery registration.
//   - AdminUserName / AdminPassword: privileged account created on start.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	DataDir                     string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	SyncTimeout                 time.Duration
	ModerationTimeout           time.Duration
	DiscoveryWorkers            int
	RegistrationTTLHours        int
	AdminUserName               string
	AdminPassword               string
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret and admin password must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.DataDir = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SyncTimeout = 10 * time.Second
	c.ModerationTimeout = 5 * time.Second
	c.DiscoveryWorkers = 8
	c.RegistrationTTLHours = 24
	c.AdminUserName = "admin"
	c.AdminPassword = "admin"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
