package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"azure-devops-mcp-server/internal/application"
	"azure-devops-mcp-server/internal/domain"
	"azure-devops-mcp-server/internal/infrastructure"
	"azure-devops-mcp-server/internal/telemetry"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "azure-devops-mcp-server",
		Short: "MCP server exposing Azure DevOps as tools",
		Long: "Serves Azure DevOps projects, repositories, pull requests, search, wikis and work items " +
			"as MCP tools over stdio or HTTP/SSE.",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.PersistentFlags().String("config", "config.yaml", "Path to configuration file")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	root.AddCommand(newToolsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List every tool with its category and whether it is enabled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}

			router, disabled, err := buildRouter(config, logger, nil)
			if err != nil {
				return err
			}

			return printTools(cmd.OutOrStdout(), router.Catalog(), disabled)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", application.ServerName, version)
		},
	}
}

// runServe loads configuration, registers the enabled tools and serves
// them until the transport ends or a signal arrives.
func runServe(cmd *cobra.Command, _ []string) error {
	config, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	observer, err := telemetry.NewGlobalToolObserver()
	if err != nil {
		return fmt.Errorf("failed to create telemetry: %w", err)
	}

	router, disabled, err := buildRouter(config, logger, observer)
	if err != nil {
		logger.LogError("failed to build tool router", err, nil)
		return err
	}

	server := application.NewServer(config, router, disabled, version, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

// loadRuntime reads the persistent flags, the configuration file and
// builds the stderr logger. Stdout belongs to the stdio transport.
func loadRuntime(cmd *cobra.Command) (*domain.Config, *application.StructuredLogger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	levelName, _ := cmd.Flags().GetString("log-level")

	level, err := application.ParseLogLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	logger := application.NewStructuredLogger(cmd.ErrOrStderr(), level)

	config, err := domain.LoadConfig(configPath)
	if err != nil {
		logger.LogError("failed to load configuration", err, map[string]interface{}{"path": configPath})
		return nil, nil, err
	}

	logger.LogDebug("configuration loaded", map[string]interface{}{
		"path":           configPath,
		"organization":   config.Organization.URL,
		"transport_type": config.Transport.Type,
		"tools_mode":     string(config.Tools.EnablementMode()),
	})
	return config, logger, nil
}

// buildRouter wires credentials and the upstream connection into the tool
// families, then computes the disabled-set from the configured mode and
// its environment override.
func buildRouter(config *domain.Config, logger *application.StructuredLogger, observer *telemetry.ToolObserver) (*application.ToolRouter, domain.ToolSet, error) {
	creds := domain.CredentialsFromConfig(config)
	authType := domain.PATAuth
	if creds != nil {
		authType = creds.Type
	}

	tokens := domain.NewTokenProvider(creds)
	userAgent := domain.NewUserAgentProvider(application.ServerName, version)

	deps := application.Dependencies{
		Connection: infrastructure.NewConnectionProvider(config.Organization.URL, authType, tokens, userAgent),
		Token:      tokens,
		UserAgent:  userAgent,
	}

	router, err := application.NewToolRouter(deps, logger, observer)
	if err != nil {
		return nil, domain.ToolSet{}, err
	}

	mode := config.Tools.EnablementMode()
	envName := domain.OverrideEnv(mode)
	override := os.Getenv(envName)
	disabled := domain.ComputeDisabledTools(mode, router.Catalog(), config.Tools.DefaultEnabledTools(), override)

	logger.LogInfo("tool enablement computed", map[string]interface{}{
		"mode":     string(mode),
		"env":      envName,
		"override": override,
		"disabled": disabled.Len(),
	})
	return router, disabled, nil
}

func printTools(w io.Writer, catalog *domain.Catalog, disabled domain.ToolSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tENABLED")
	for _, category := range domain.Categories() {
		for _, name := range catalog.Tools(category) {
			fmt.Fprintf(tw, "%s\t%s\t%t\n", name, category, !disabled.Contains(name))
		}
	}
	return tw.Flush()
}
