package domain

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDisabledTools_EmptyOverride(t *testing.T) {
	catalog := testCatalog(t)

	disabled := DisabledTools(catalog, DefaultEnabledTools, "")

	for _, name := range DefaultEnabledTools {
		assert.False(t, disabled.Contains(name), "default %s should stay enabled", name)
	}
	assert.Equal(t, len(catalog.AllTools())-len(DefaultEnabledTools), disabled.Len())
	assert.True(t, disabled.Contains("list_azure_devops_projects"))
	assert.True(t, disabled.Contains("search_azure_devops_code"))
}

func TestDisabledTools_CategoryAndLiteral(t *testing.T) {
	catalog := testCatalog(t)

	disabled := DisabledTools(catalog, DefaultEnabledTools, "category_repo,get_azure_devops_pull_request_by_id")

	for _, name := range catalog.Tools(CategoryRepo) {
		assert.False(t, disabled.Contains(name), "%s should be enabled", name)
	}
	assert.Equal(t, []string{
		"get_azure_devops_work_item",
		"list_azure_devops_project_teams",
		"list_azure_devops_projects",
		"list_azure_devops_wikis",
		"search_azure_devops_code",
	}, disabled.Names())
}

func TestDisabledTools_TokenHandling(t *testing.T) {
	catalog := testCatalog(t)

	tests := []struct {
		name     string
		override string
		enabled  []string
		disabled []string
	}{
		{
			name:     "whitespace is trimmed",
			override: "  category_wiki , search_azure_devops_code ",
			enabled:  []string{"list_azure_devops_wikis", "search_azure_devops_code"},
		},
		{
			name:     "empty tokens are skipped",
			override: ",,category_core,,",
			enabled:  []string{"list_azure_devops_projects", "list_azure_devops_project_teams"},
		},
		{
			name:     "unknown literal is harmless",
			override: "not_a_tool",
			disabled: []string{"list_azure_devops_projects"},
		},
		{
			name:     "category tokens are case sensitive",
			override: "CATEGORY_WIKI",
			disabled: []string{"list_azure_devops_wikis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disabled := DisabledTools(catalog, DefaultEnabledTools, tt.override)
			for _, name := range tt.enabled {
				assert.False(t, disabled.Contains(name), "%s should be enabled", name)
			}
			for _, name := range tt.disabled {
				assert.True(t, disabled.Contains(name), "%s should be disabled", name)
			}
			assert.False(t, disabled.Contains("not_a_tool"))
		})
	}
}

func TestDeniedTools(t *testing.T) {
	catalog := testCatalog(t)

	assert.Equal(t, 0, DeniedTools(catalog, "").Len())

	denied := DeniedTools(catalog, "category_core, search_azure_devops_code")
	assert.Equal(t, []string{
		"list_azure_devops_project_teams",
		"list_azure_devops_projects",
		"search_azure_devops_code",
	}, denied.Names())
}

func TestComputeDisabledTools(t *testing.T) {
	catalog := testCatalog(t)

	assert.Equal(t, DeniedTools(catalog, "category_wiki").Names(),
		ComputeDisabledTools(DenyMode, catalog, DefaultEnabledTools, "category_wiki").Names())
	assert.Equal(t, DisabledTools(catalog, DefaultEnabledTools, "category_wiki").Names(),
		ComputeDisabledTools(AllowMode, catalog, DefaultEnabledTools, "category_wiki").Names())

	assert.Equal(t, EnabledToolsEnv, OverrideEnv(AllowMode))
	assert.Equal(t, DisabledToolsEnv, OverrideEnv(DenyMode))
}

// TestProperty_DisabledToolsPartition checks that, for any subset of catalog
// tokens, a tool is disabled exactly when it is neither a default nor named,
// directly or through its category.
func TestProperty_DisabledToolsPartition(t *testing.T) {
	catalog := testCatalog(t)

	var tokens []string
	for _, category := range Categories() {
		tokens = append(tokens, string(category))
	}
	tokens = append(tokens, catalog.AllTools()...)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	tokenGen := gen.IntRange(0, len(tokens)-1).Map(func(i int) string { return tokens[i] })

	properties.Property("disabled set is the complement of enabled", prop.ForAll(
		func(picked []string) bool {
			override := strings.Join(picked, ",")
			disabled := DisabledTools(catalog, DefaultEnabledTools, override)

			named := make(map[string]bool)
			for _, token := range picked {
				if catalog.HasCategory(token) {
					for _, name := range catalog.Tools(Category(token)) {
						named[name] = true
					}
				} else {
					named[token] = true
				}
			}
			for _, name := range DefaultEnabledTools {
				named[name] = true
			}

			for _, name := range catalog.AllTools() {
				if disabled.Contains(name) == named[name] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(tokenGen),
	))

	properties.Property("deny set is exactly the named tools", prop.ForAll(
		func(picked []string) bool {
			denied := DeniedTools(catalog, strings.Join(picked, ","))

			named := make(map[string]bool)
			for _, token := range picked {
				if catalog.HasCategory(token) {
					for _, name := range catalog.Tools(Category(token)) {
						named[name] = true
					}
				} else {
					named[token] = true
				}
			}

			if denied.Len() != len(named) {
				return false
			}
			for name := range named {
				if !denied.Contains(name) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(tokenGen),
	))

	properties.TestingRun(t)
}
