// Package config defines the server configuration.
package config

import (
	"github.com/effective-security/x/configloader"
)

const (
	// DefaultName is the server name advertised to MCP clients.
	DefaultName = "gcp"
	// DefaultVersion is used when the config does not pin one.
	DefaultVersion = "0.1.0"
)

// Config provides the server configuration.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	GCP    GCPConfig    `json:"gcp" yaml:"gcp"`
	Logs   LogsConfig   `json:"logs" yaml:"logs"`
}

// ServerConfig describes the MCP server identity.
type ServerConfig struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// GCPConfig provides defaults applied when a tool request omits
// the project or region.
type GCPConfig struct {
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LogsConfig configures the Cloud Run logs tool.
type LogsConfig struct {
	// DefaultLimit is the number of log entries returned when the
	// request does not specify a limit.
	DefaultLimit int `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
}

// LoadConfig from file. An empty file name returns the default config.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Name returns the configured server name.
func (c *Config) Name() string {
	if c.Server.Name != "" {
		return c.Server.Name
	}
	return DefaultName
}

// Version returns the configured server version.
func (c *Config) Version() string {
	if c.Server.Version != "" {
		return c.Server.Version
	}
	return DefaultVersion
}

// UserAgent identifies this server to the Google Cloud APIs.
func (c *Config) UserAgent() string {
	return "gcpmcp/" + c.Version()
}
