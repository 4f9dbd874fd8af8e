// Package config provides environment-based configuration for the
// bookmark permission service, loaded through Viper with development
// defaults.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"ADDR"`

	// DBDriver selects the tuple store backend: sqlite or postgres.
	DBDriver string `mapstructure:"DB_DRIVER"`
	// DSN is the database connection string.
	DSN string `mapstructure:"DSN"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"` // json or console

	// IdentityMode selects the role directory: "embedded" keeps role
	// assignments in the service database, "remote" queries the
	// platform identity service, "none" resolves users without roles.
	IdentityMode     string        `mapstructure:"IDENTITY_MODE"`
	IdentityEndpoint string        `mapstructure:"IDENTITY_ENDPOINT"`
	IdentityTimeout  time.Duration `mapstructure:"IDENTITY_TIMEOUT"`

	// SweepInterval enables periodic cleanup of long-expired tuples
	// when positive. SweepRetention is how long an expired tuple stays
	// visible to administrative listings before the sweep removes it.
	SweepInterval  time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepRetention time.Duration `mapstructure:"SWEEP_RETENTION"`

	// AdminEndpoint is the admin gateway base URL for module
	// registration; empty disables registration.
	AdminEndpoint   string `mapstructure:"ADMIN_ENDPOINT"`
	AdvertiseAddr   string `mapstructure:"ADVERTISE_ADDR"`
	ModuleAuthToken string `mapstructure:"MODULE_AUTH_TOKEN"`

	// TLSCert/TLSKey enable TLS serving when both are set.
	TLSCert string `mapstructure:"TLS_CERT"`
	TLSKey  string `mapstructure:"TLS_KEY"`
}

// Load reads configuration from the environment with defaults suitable
// for local development.
func Load() (*Config, error) {
	viper.SetDefault("ADDR", ":9700")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DSN", "bookmark.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("IDENTITY_MODE", "embedded")
	viper.SetDefault("IDENTITY_ENDPOINT", "")
	viper.SetDefault("IDENTITY_TIMEOUT", 3*time.Second)
	viper.SetDefault("SWEEP_INTERVAL", time.Duration(0))
	viper.SetDefault("SWEEP_RETENTION", 24*time.Hour)
	viper.SetDefault("ADMIN_ENDPOINT", "")
	viper.SetDefault("ADVERTISE_ADDR", "")
	viper.SetDefault("MODULE_AUTH_TOKEN", "")
	viper.SetDefault("TLS_CERT", "")
	viper.SetDefault("TLS_KEY", "")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
