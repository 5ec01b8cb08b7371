package config

import (
	"github.com/crossscan/crossscan/internal/infra/api"
	redisclient "github.com/crossscan/crossscan/internal/infra/redis"
	"github.com/crossscan/crossscan/internal/infra/storage/postgres"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
	"github.com/crossscan/crossscan/internal/tracking/poller"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Upstream api.Config         `yaml:"upstream"`
	Registry RegistryConfig     `yaml:"registry"`
	Enrich   enrich.Config      `yaml:"enrich"`
	Poller   poller.Config      `yaml:"poller"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int   `yaml:"port"`
	BacklogMax int64 `yaml:"backlog_max"`
}

// RegistryConfig points at the chain and asset registry file.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
