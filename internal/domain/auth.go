package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
)

// Credentials stores authentication information for the organization.
type Credentials struct {
	Type  AuthType // PATAuth or BearerAuth
	Token string
}

// CredentialsFromConfig extracts credentials from the organization config.
// Returns nil when no auth is configured (the PAT environment is used).
func CredentialsFromConfig(config *Config) *Credentials {
	if config.Organization.Auth == nil {
		return nil
	}
	return &Credentials{
		Type:  ParseAuthType(config.Organization.Auth.Type),
		Token: config.Organization.Auth.Token,
	}
}

// NewTokenProvider returns a provider serving the configured token, or the
// AZURE_DEVOPS_PAT environment variable read at call time when creds is nil.
func NewTokenProvider(creds *Credentials) TokenProvider {
	return func(ctx context.Context) (string, error) {
		if creds != nil {
			if creds.Token == "" {
				return "", fmt.Errorf("token is required for %s authentication", creds.Type)
			}
			return creds.Token, nil
		}
		token := os.Getenv(PATEnv)
		if token == "" {
			return "", fmt.Errorf("no credentials configured: set organization.auth or %s", PATEnv)
		}
		return token, nil
	}
}

// NewUserAgentProvider returns a provider for a fixed User-Agent.
func NewUserAgentProvider(name, version string) UserAgentProvider {
	userAgent := fmt.Sprintf("%s/%s", name, version)
	return func() string {
		return userAgent
	}
}

// NewAuthenticatedClient returns an HTTP client whose requests carry the
// credential acquired from tokens and the User-Agent from userAgent.
func NewAuthenticatedClient(authType AuthType, tokens TokenProvider, userAgent UserAgentProvider) *http.Client {
	return &http.Client{
		Transport: &authenticatedTransport{
			base:      http.DefaultTransport,
			authType:  authType,
			tokens:    tokens,
			userAgent: userAgent,
		},
	}
}

// authenticatedTransport is an http.RoundTripper that adds authentication headers.
type authenticatedTransport struct {
	base      http.RoundTripper
	authType  AuthType
	tokens    TokenProvider
	userAgent UserAgentProvider
}

// RoundTrip implements http.RoundTripper by adding authentication headers to requests.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens(req.Context())
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())

	switch t.authType {
	case PATAuth:
		// PATs are sent as basic auth with an empty user name
		encoded := base64.StdEncoding.EncodeToString([]byte(":" + token))
		clonedReq.Header.Set("Authorization", "Basic "+encoded)
	case BearerAuth:
		clonedReq.Header.Set("Authorization", "Bearer "+token)
	}

	if t.userAgent != nil {
		clonedReq.Header.Set("User-Agent", t.userAgent())
	}

	return t.base.RoundTrip(clonedReq)
}
