// Package config holds the process configuration for onsec-mcp.
//
// Configuration is resolved once at startup into an explicit Config
// struct and injected into the API client and MCP server — there is no
// module-level mutable state. Precedence (lowest to highest): built-in
// defaults, optional YAML file, environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/duration"
)

// Transport selects how the MCP server talks to its client.
type Transport string

const (
	// TransportStdio serves a single client over stdin/stdout (default).
	TransportStdio Transport = "stdio"
	// TransportHTTP serves remote clients over streamable HTTP + SSE.
	TransportHTTP Transport = "http"
)

// Config holds all runtime configuration.
type Config struct {
	// Upstream API settings
	APIBase  string `yaml:"api_base"`
	APIToken string `yaml:"api_token"`

	// ClientID pins every query to one client (legacy single-tenant
	// mode). 0 means multi-tenant: tools accept a client_id argument.
	ClientID int `yaml:"client_id"`

	// Transport settings
	Transport      Transport `yaml:"transport"`
	Host           string    `yaml:"host"`
	Port           int       `yaml:"port"`
	AllowedOrigins []string  `yaml:"allowed_origins"`

	// Upstream HTTP behaviour
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	RateLimit   float64       `yaml:"rate_limit"` // requests/sec, 0 = unlimited
	Retries     int           `yaml:"retries"`    // total attempts, 1 = no retry

	// Observability
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// New returns a Config populated with built-in defaults.
func New() *Config {
	return &Config{
		APIBase:     defaults.APIBase,
		Transport:   TransportStdio,
		Host:        "0.0.0.0",
		Port:        3000,
		HTTPTimeout: duration.HTTPUpstream,
		Retries:     1,
	}
}

// FromEnv builds a Config from defaults overlaid with the process
// environment. The optional file path, when non-empty, is applied
// between defaults and environment.
func FromEnv(file string) (*Config, error) {
	cfg := New()

	if file != "" {
		if err := cfg.loadFile(file); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("ONSECURITY_API_BASE"); v != "" {
		cfg.APIBase = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("ONSECURITY_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("ONSECURITY_CLIENT_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ONSECURITY_CLIENT_ID: %w", err)
		}
		cfg.ClientID = id
	}
	if v := os.Getenv("MCP_TRANSPORT"); v != "" {
		cfg.Transport = Transport(strings.ToLower(v))
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitOrigins(v)
	}
	if v := os.Getenv("ONSECURITY_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ONSECURITY_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("ONSECURITY_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("ONSECURITY_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = r
	}
	if v := os.Getenv("ONSECURITY_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ONSECURITY_RETRIES: %w", err)
		}
		cfg.Retries = n
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}

	return cfg, nil
}

// loadFile overlays cfg with a YAML config file.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	c.APIBase = strings.TrimRight(c.APIBase, "/")
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("API token is required: set ONSECURITY_API_TOKEN")
	}
	if c.APIBase == "" {
		return fmt.Errorf("API base URL is required: set ONSECURITY_API_BASE")
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q: use %q or %q", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.Transport == TransportHTTP && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1 (1 = no retry)")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP transport binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OriginAllowed reports whether a browser Origin may use the HTTP
// transport. An empty allow-list means every origin is accepted.
func (c *Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
