package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-host server host (e.g. "lastpass.com")
//	-u account username (email)
//	-d local database DSN (SQLite file path)
//	-trusted-id-file path of the trusted device identifier file
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-poll-interval vault version poll interval (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var host string
	var username string
	var databaseDSN string
	var trustedIDFile string
	var requestTimeout time.Duration
	var pollInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&host, "host", "", "Server host, without scheme")
	flag.StringVar(&username, "u", "", "Account username (email)")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.StringVar(&trustedIDFile, "trusted-id-file", "", "Trusted device identifier file")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Vault version poll interval (e.g., 5m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Host:          host,
			Username:      username,
			TrustedIDFile: trustedIDFile,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			PollInterval: pollInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
