package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Auth modes.
const (
	AuthModeOpen = "open"
	AuthModeJWT  = "jwt"
)

// Status policies.
const (
	StatusPolicyPermissive = "permissive"
	StatusPolicyLifecycle  = "lifecycle"
)

// Config holds all configuration for folio-engine.
// Values come from an optional config.yaml; environment variables always win.
// Secrets are only read from the environment.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"`

	// CORSAllowedOriginsStr is a comma-separated origin list.
	CORSAllowedOriginsStr string   `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`
	CORSAllowedOrigins    []string `yaml:"-"`

	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
	RunMigrations  bool   `yaml:"run_migrations" env:"RUN_MIGRATIONS" env-default:"true"`

	// StatusPolicy selects the portfolio status transition table.
	StatusPolicy string `yaml:"status_policy" env:"STATUS_POLICY" env-default:"permissive"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Branding BrandingConfig `yaml:"branding"`
	GitHub   GitHubConfig   `yaml:"github"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"DB_USER" env-default:"portfolio"`
	Password       string `yaml:"-" env:"DB_PASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"DB_NAME" env-default:"portfolio"`
	SSLMode        string `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"DB_MAX_CONNECTIONS" env-default:"10"`
}

// AuthConfig controls the capability check in front of mutating endpoints.
type AuthConfig struct {
	Mode      string `yaml:"mode" env:"AUTH_MODE" env-default:"open"`
	JWTSecret string `yaml:"-" env:"AUTH_JWT_SECRET"`
	JWKSURL   string `yaml:"jwks_url" env:"AUTH_JWKS_URL" env-default:""`
	Issuer    string `yaml:"issuer" env:"AUTH_ISSUER" env-default:""`
	Audience  string `yaml:"audience" env:"AUTH_AUDIENCE" env-default:""`

	// PublicCapabilitiesStr lists capabilities granted without a token in jwt mode.
	PublicCapabilitiesStr string   `yaml:"public_capabilities" env:"AUTH_PUBLIC_CAPABILITIES" env-default:"contact:submit,analytics:write"`
	PublicCapabilities    []string `yaml:"-"`
}

// BrandingConfig is printed in exported documents.
type BrandingConfig struct {
	OwnerName    string `yaml:"owner_name" env:"OWNER_NAME" env-default:"Portfolio Owner"`
	OwnerTitle   string `yaml:"owner_title" env:"OWNER_TITLE" env-default:"Software Engineer"`
	OwnerEmail   string `yaml:"owner_email" env:"OWNER_EMAIL" env-default:""`
	OwnerSummary string `yaml:"owner_summary" env:"OWNER_SUMMARY" env-default:"A selection of projects showing technical depth and delivered impact."`
}

// GitHubConfig configures the GitHub client used by the MCP tools.
type GitHubConfig struct {
	Token    string `yaml:"-" env:"GITHUB_TOKEN"`
	Username string `yaml:"username" env:"GITHUB_USERNAME" env-default:""`
	BaseURL  string `yaml:"base_url" env:"GITHUB_API_URL" env-default:"https://api.github.com"`
}

// Load reads config.yaml from the working directory when present and applies
// environment overrides. The version is set on the returned Config.
func Load(version string) (*Config, error) {
	return LoadFrom("config.yaml", version)
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg.parseComplexFields()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) parseComplexFields() {
	c.CORSAllowedOrigins = splitList(c.CORSAllowedOriginsStr)
	c.Auth.PublicCapabilities = splitList(c.Auth.PublicCapabilitiesStr)
	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
	c.StatusPolicy = strings.ToLower(strings.TrimSpace(c.StatusPolicy))
}

func (c *Config) validate() error {
	switch c.Auth.Mode {
	case AuthModeOpen:
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
			return fmt.Errorf("auth mode %q requires AUTH_JWT_SECRET or AUTH_JWKS_URL", AuthModeJWT)
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	switch c.StatusPolicy {
	case StatusPolicyPermissive, StatusPolicyLifecycle:
	default:
		return fmt.Errorf("unknown status policy %q", c.StatusPolicy)
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port must be numeric, got %q", c.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// ConnectionString returns a postgres:// URL for pgx.
func (c *DatabaseConfig) ConnectionString() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", resolveHost(c.Host), c.Port),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
