package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-f", "-s", "-t", "-u", "-p", "-b", "-g", "-e",
	"-sync-timeout", "-moderation-timeout", "-w", "-ttl", "-admin", "-admin-password", "-l",
}

// parseFlags populates Config from command-line flags.
//
// Supported flags:
//
//	-a string                 gRPC bind address (e.g., ":50051")
//	-d string                 PostgreSQL DSN
//	-f string                 owner store directory
//	-s string                 HMAC secret key
//	-t int                    access token validity, minutes
//	-u string                 S3 root user
//	-p string                 S3 root password
//	-b string                 S3 bucket name
//	-g string                 S3 region
//	-e string                 S3 base endpoint
//	-sync-timeout duration    cloud sync timeout
//	-moderation-timeout duration
//	-w int                    discovery worker limit
//	-ttl int                  discovery registration TTL, hours
//	-admin string             bootstrap admin username
//	-admin-password string    bootstrap admin password
//	-l string                 log level
//
// os.Args is first narrowed with flagx.FilterArgs so that the -c/-config
// flag handled by parseJson does not trip this flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "owner store directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.DurationVar(&config.SyncTimeout, "sync-timeout", config.SyncTimeout, "cloud sync timeout")
	fs.DurationVar(&config.ModerationTimeout, "moderation-timeout", config.ModerationTimeout, "moderation timeout")
	fs.IntVar(&config.DiscoveryWorkers, "w", config.DiscoveryWorkers, "owner stores read concurrently")
	fs.IntVar(&config.RegistrationTTLHours, "ttl", config.RegistrationTTLHours, "discovery registration ttl (in hours)")
	fs.StringVar(&config.AdminUserName, "admin", config.AdminUserName, "bootstrap admin username")
	fs.StringVar(&config.AdminPassword, "admin-password", config.AdminPassword, "bootstrap admin password")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
