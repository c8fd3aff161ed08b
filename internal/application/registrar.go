package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"azure-devops-mcp-server/internal/domain"
	"azure-devops-mcp-server/internal/telemetry"
)

// ToolRegistrar accepts tool registrations. *server.MCPServer satisfies it.
type ToolRegistrar interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// ToolFamily is a group of tools sharing a domain.
type ToolFamily interface {
	FamilyName() string
	Tools() []domain.Tool
}

// Dependencies are the lazily consulted collaborators a family closes
// over. Nothing is called at configuration time.
type Dependencies struct {
	Connection domain.ConnectionProvider
	Token      domain.TokenProvider
	UserAgent  domain.UserAgentProvider
}

// ErrNoConnection is returned when no connection provider was wired.
var ErrNoConnection = errors.New("no Azure DevOps connection configured")

// connect resolves the upstream client for one call.
func (d Dependencies) connect(ctx context.Context) (domain.DevOpsClient, error) {
	if d.Connection == nil {
		return nil, ErrNoConnection
	}
	return d.Connection(ctx)
}

// ConfigureFamily registers every tool of family that is not disabled.
// Disabled tools are skipped silently. Returns the registered names.
func ConfigureFamily(reg ToolRegistrar, family ToolFamily, disabled domain.ToolSet) []string {
	var registered []string
	for _, tool := range family.Tools() {
		if disabled.Contains(tool.Name()) {
			continue
		}
		reg.AddTool(tool.Definition, tool.Handler)
		registered = append(registered, tool.Name())
	}
	return registered
}

// ToolRouter owns the tool families and registers them in a fixed order.
type ToolRouter struct {
	families []ToolFamily
	catalog  *domain.Catalog
	logger   *StructuredLogger
	observer *telemetry.ToolObserver
}

// NewToolRouter creates a router over the Azure DevOps families in
// registration order: core, repositories, search, wiki, work items.
func NewToolRouter(deps Dependencies, logger *StructuredLogger, observer *telemetry.ToolObserver) (*ToolRouter, error) {
	return NewToolRouterWithFamilies(logger, observer,
		NewCoreTools(deps),
		NewRepoTools(deps),
		NewSearchTools(deps),
		NewWikiTools(deps),
		NewWorkItemTools(deps),
	)
}

// NewToolRouterWithFamilies creates a router over arbitrary families.
// Fails when two tools share a name.
func NewToolRouterWithFamilies(logger *StructuredLogger, observer *telemetry.ToolObserver, families ...ToolFamily) (*ToolRouter, error) {
	tables := make([][]domain.Tool, 0, len(families))
	for _, family := range families {
		tables = append(tables, family.Tools())
	}

	catalog, err := domain.NewCatalog(tables...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool catalog: %w", err)
	}

	if logger == nil {
		logger = NewDiscardLogger()
	}

	return &ToolRouter{
		families: families,
		catalog:  catalog,
		logger:   logger,
		observer: observer,
	}, nil
}

// Families returns the families in registration order.
func (r *ToolRouter) Families() []ToolFamily {
	return r.families
}

// Catalog returns the category map of every known tool.
func (r *ToolRouter) Catalog() *domain.Catalog {
	return r.catalog
}

// Configure registers every enabled tool of every family on reg, each
// handler wrapped with invocation logging and telemetry.
func (r *ToolRouter) Configure(reg ToolRegistrar, disabled domain.ToolSet) []string {
	wrapped := &instrumentedRegistrar{next: reg, router: r}

	var registered []string
	for _, family := range r.families {
		names := ConfigureFamily(wrapped, family, disabled)
		r.logger.LogDebug("tool family configured", map[string]interface{}{
			"family": family.FamilyName(),
			"tools":  names,
		})
		registered = append(registered, names...)
	}

	r.logger.LogInfo("tools registered", map[string]interface{}{
		"registered": len(registered),
		"disabled":   disabled.Len(),
	})
	return registered
}

type instrumentedRegistrar struct {
	next   ToolRegistrar
	router *ToolRouter
}

func (i *instrumentedRegistrar) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	i.next.AddTool(tool, i.router.instrument(tool.Name, handler))
}

// instrument assigns an invocation id, logs start and finish, records
// telemetry and turns a panic into an error envelope.
func (r *ToolRouter) instrument(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	category, _ := r.catalog.CategoryOf(name)

	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		inv := telemetry.Invocation{
			ID:       uuid.NewString(),
			ToolName: name,
			Category: string(category),
		}
		fields := map[string]interface{}{
			"invocation_id": inv.ID,
			"tool":          name,
			"category":      inv.Category,
		}

		r.logger.LogDebug("tool call started", fields)
		start := time.Now()
		ctx, finish := r.observer.Start(ctx, inv)

		defer func() {
			if recovered := recover(); recovered != nil {
				panicErr := fmt.Errorf("internal error: %v", recovered)
				r.logger.LogError("tool call panicked", panicErr, fields)
				result, err = domain.ToErrorResult("running "+name, panicErr), nil
			}

			outcome := telemetry.Outcome{Elapsed: time.Since(start), Success: err == nil && result != nil && !result.IsError}
			if !outcome.Success {
				outcome.Error = failureText(result, err)
			}
			finish(outcome)

			fields["duration_ms"] = outcome.Elapsed.Milliseconds()
			fields["success"] = outcome.Success
			if outcome.Success {
				r.logger.LogInfo("tool call finished", fields)
			} else {
				r.logger.LogError("tool call failed", errors.New(outcome.Error), fields)
			}
		}()

		return handler(ctx, request)
	}
}

func failureText(result *mcp.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}
	if result == nil {
		return "empty result"
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return "tool error"
}

// invalidParams renders a validation failure.
func invalidParams(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Invalid arguments: " + err.Error())
}

// failed renders an upstream failure of action.
func failed(action string, err error) (*mcp.CallToolResult, error) {
	return domain.ToErrorResult(action, err), nil
}

// respond serializes a projection, or reports the serialization failure.
func respond(action string, value interface{}) (*mcp.CallToolResult, error) {
	result, err := domain.ToResult(value)
	if err != nil {
		return failed(action, err)
	}
	return result, nil
}

// Shared schema options.

func projectOption(required bool) mcp.ToolOption {
	if required {
		return mcp.WithString("project", mcp.Required(), mcp.Description("The project name or ID"))
	}
	return mcp.WithString("project", mcp.Description("The project name or ID (optional)"))
}

func repositoryIDOption() mcp.ToolOption {
	return mcp.WithString("repositoryId", mcp.Required(), mcp.Description("The repository name or ID"))
}

func pullRequestIDOption() mcp.ToolOption {
	return mcp.WithNumber("pullRequestId", mcp.Required(), mcp.Description("The pull request ID"), mcp.Min(1))
}

func topOption(def int) mcp.ToolOption {
	return mcp.WithNumber("top", mcp.Description(fmt.Sprintf("Maximum number of items to return (default %d)", def)), mcp.DefaultNumber(float64(def)), mcp.Min(0))
}

func skipOption() mcp.ToolOption {
	return mcp.WithNumber("skip", mcp.Description("Number of items to skip (default 0)"), mcp.DefaultNumber(0), mcp.Min(0))
}
