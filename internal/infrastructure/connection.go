package infrastructure

import (
	"context"
	"fmt"

	"azure-devops-mcp-server/internal/domain"
)

// NewConnectionProvider returns a provider serving one shared client for
// orgURL. The credential is checked on every call so a missing token is
// reported by the tool that needed it rather than at startup.
func NewConnectionProvider(orgURL string, authType domain.AuthType, tokens domain.TokenProvider, userAgent domain.UserAgentProvider) domain.ConnectionProvider {
	client := NewDevOpsClient(orgURL, domain.NewAuthenticatedClient(authType, tokens, userAgent))

	return func(ctx context.Context) (domain.DevOpsClient, error) {
		if _, err := tokens(ctx); err != nil {
			return nil, fmt.Errorf("failed to acquire credentials: %w", err)
		}
		return client, nil
	}
}
