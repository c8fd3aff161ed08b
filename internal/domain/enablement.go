package domain

import (
	"strings"
)

// Environment variables consulted by the enablement gate.
const (
	EnabledToolsEnv  = "AZURE_DEVOPS_ENABLED_TOOLS"
	DisabledToolsEnv = "AZURE_DEVOPS_DISABLED_TOOLS"
)

// DefaultEnabledTools is the baseline of the allow-list mode. Names listed
// here stay enabled even when their category is not mentioned.
var DefaultEnabledTools = []string{
	"list_azure_devops_repositories",
	"list_azure_devops_pull_requests_by_repo",
	"get_azure_devops_pull_request_by_id",
}

// EnablementMode selects how the override string is interpreted.
type EnablementMode string

const (
	// AllowMode starts with everything disabled; the override re-enables.
	AllowMode EnablementMode = "allow"
	// DenyMode starts with everything enabled; the override disables.
	DenyMode EnablementMode = "deny"
)

// DisabledTools computes the disabled-set for the allow-list mode.
// Every catalog tool starts disabled; tools named by the override (directly
// or through their category) and every name in defaults are removed from it.
func DisabledTools(catalog *Catalog, defaults []string, override string) ToolSet {
	enable := resolveTokens(catalog, override)
	for _, name := range defaults {
		enable[name] = struct{}{}
	}

	var disabled []string
	for _, category := range Categories() {
		for _, name := range catalog.Tools(category) {
			if _, ok := enable[name]; !ok {
				disabled = append(disabled, name)
			}
		}
	}
	return NewToolSet(disabled...)
}

// DeniedTools computes the disabled-set for the deny-list mode: exactly the
// tools named by the override, directly or through their category.
func DeniedTools(catalog *Catalog, override string) ToolSet {
	denied := resolveTokens(catalog, override)
	names := make([]string, 0, len(denied))
	for name := range denied {
		names = append(names, name)
	}
	return NewToolSet(names...)
}

// ComputeDisabledTools dispatches on mode. An unrecognised mode behaves like
// AllowMode, which is the configuration default.
func ComputeDisabledTools(mode EnablementMode, catalog *Catalog, defaults []string, override string) ToolSet {
	if mode == DenyMode {
		return DeniedTools(catalog, override)
	}
	return DisabledTools(catalog, defaults, override)
}

// OverrideEnv returns the environment variable read for mode.
func OverrideEnv(mode EnablementMode) string {
	if mode == DenyMode {
		return DisabledToolsEnv
	}
	return EnabledToolsEnv
}

// resolveTokens splits a comma-separated override into tool names.
// Category tokens expand to their members; empty tokens are skipped.
func resolveTokens(catalog *Catalog, override string) map[string]struct{} {
	resolved := make(map[string]struct{})
	for _, token := range strings.Split(override, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if catalog.HasCategory(token) {
			for _, name := range catalog.Tools(Category(token)) {
				resolved[name] = struct{}{}
			}
			continue
		}
		resolved[token] = struct{}{}
	}
	return resolved
}
