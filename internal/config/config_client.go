package config

import (
	"fmt"
	"time"
)

// Defaults applied by GetClientConfig when a value is set nowhere else.
const (
	DefaultHost           = "lastpass.com"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPollInterval   = 5 * time.Minute
	DefaultClientVersion  = "1.3.3"
)

// ClientApp holds account-level settings used by the session layer.
type ClientApp struct {
	// Host is the server to talk to, without a scheme.
	Host string
	// Username is the account email.
	Username string
	// TrustedIDFile is the path of the trusted device identifier file.
	TrustedIDFile string
	// Version is the client version string reported to the server.
	Version string
}

// ClientAdapter holds network settings used by the transport layer.
type ClientAdapter struct {
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	// DSN is the SQLite data source name of the snapshot cache.
	DSN string
}

// ClientStorage groups local storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains background worker settings.
type ClientWorkers struct {
	// PollInterval defines how often the version poller runs.
	PollInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains account-level settings.
	App ClientApp
	// Adapter contains transport timeouts.
	Adapter ClientAdapter
	// Storage contains local storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates the client config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps the fields the
// client runtime needs, fills in defaults, and validates the resulting
// [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Host:          cfg.App.Host,
			Username:      cfg.App.Username,
			TrustedIDFile: cfg.App.TrustedIDFile,
			Version:       cfg.App.Version,
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{PollInterval: cfg.Workers.PollInterval},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.App.Host == "" {
		cfg.App.Host = DefaultHost
	}
	if cfg.App.Version == "" {
		cfg.App.Version = DefaultClientVersion
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Workers.PollInterval == 0 {
		cfg.Workers.PollInterval = DefaultPollInterval
	}
}
