package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport    TransportConfig    `yaml:"transport"`
	Organization OrganizationConfig `yaml:"organization"`
	Tools        ToolsConfig        `yaml:"tools"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// OrganizationConfig identifies the Azure DevOps organization.
type OrganizationConfig struct {
	URL  string      `yaml:"url"`
	Auth *AuthConfig `yaml:"auth,omitempty"` // Optional - falls back to AZURE_DEVOPS_PAT
}

// AuthConfig defines authentication settings.
// Supports personal access tokens and bearer tokens.
type AuthConfig struct {
	Type  string `yaml:"type"` // "pat" or "bearer"
	Token string `yaml:"token"`
}

// ToolsConfig controls which tools are registered.
type ToolsConfig struct {
	Mode           string   `yaml:"mode,omitempty"`            // "allow" (default) or "deny"
	DefaultEnabled []string `yaml:"default_enabled,omitempty"` // replaces DefaultEnabledTools when set
}

// PATEnv is read when no token is configured.
const PATEnv = "AZURE_DEVOPS_PAT"

// AuthType defines supported authentication methods.
type AuthType int

const (
	// PATAuth sends a personal access token as basic auth with an empty user
	PATAuth AuthType = iota
	// BearerAuth sends an OAuth/Entra access token
	BearerAuth
)

// String returns the string representation of AuthType.
func (a AuthType) String() string {
	switch a {
	case PATAuth:
		return "pat"
	case BearerAuth:
		return "bearer"
	default:
		return "unknown"
	}
}

// ParseAuthType converts a string to AuthType.
func ParseAuthType(s string) AuthType {
	switch s {
	case "pat":
		return PATAuth
	case "bearer":
		return BearerAuth
	default:
		return PATAuth
	}
}

// EnablementMode returns the configured mode, defaulting to AllowMode.
func (tc ToolsConfig) EnablementMode() EnablementMode {
	if tc.Mode == string(DenyMode) {
		return DenyMode
	}
	return AllowMode
}

// DefaultEnabledTools returns the configured baseline or the built-in one.
func (tc ToolsConfig) DefaultEnabledTools() []string {
	if len(tc.DefaultEnabled) > 0 {
		return tc.DefaultEnabled
	}
	return DefaultEnabledTools
}

// LoadConfig reads and validates configuration from a YAML file.
// Returns an error if the file is missing, has invalid syntax, or fails validation.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates YAML configuration bytes.
// ${VAR} references in the token are expanded from the environment.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	if config.Organization.Auth != nil {
		config.Organization.Auth.Token = os.ExpandEnv(config.Organization.Auth.Token)
	}
	config.Organization.URL = strings.TrimRight(config.Organization.URL, "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.Organization.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.Tools.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() error {
	var errors []string

	if c.Transport.Type == "" {
		errors = append(errors, "transport type is required")
	} else if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates the organization configuration.
func (oc *OrganizationConfig) Validate() error {
	var errors []string

	if oc.URL == "" {
		errors = append(errors, "organization url is required")
	} else {
		parsedURL, err := url.Parse(oc.URL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("organization url is invalid: %v", err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, "organization url must use http or https scheme")
		} else if parsedURL.Host == "" {
			errors = append(errors, "organization url must include a host")
		}
	}

	if oc.Auth != nil {
		if err := oc.Auth.Validate(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates authentication configuration.
func (ac *AuthConfig) Validate() error {
	var errors []string

	if ac.Type == "" {
		errors = append(errors, "auth type is required")
	} else if ac.Type != "pat" && ac.Type != "bearer" {
		errors = append(errors, fmt.Sprintf("auth type '%s' is invalid: must be 'pat' or 'bearer'", ac.Type))
	}

	if ac.Token == "" {
		errors = append(errors, "auth token is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates the tools configuration.
func (tc *ToolsConfig) Validate() error {
	if tc.Mode != "" && tc.Mode != string(AllowMode) && tc.Mode != string(DenyMode) {
		return fmt.Errorf("invalid tools mode '%s': must be 'allow' or 'deny'", tc.Mode)
	}
	return nil
}
