package domain

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTool(category Category, name string) Tool {
	return Tool{Category: category, Definition: mcp.NewTool(name)}
}

// testCatalog mirrors the production catalog shape.
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(
		[]Tool{
			testTool(CategoryCore, "list_azure_devops_projects"),
			testTool(CategoryCore, "list_azure_devops_project_teams"),
		},
		[]Tool{
			testTool(CategoryRepo, "list_azure_devops_repositories"),
			testTool(CategoryRepo, "get_azure_devops_repository_by_name"),
			testTool(CategoryRepo, "list_azure_devops_branches"),
			testTool(CategoryRepo, "list_azure_devops_pull_requests_by_repo"),
			testTool(CategoryRepo, "get_azure_devops_pull_request_by_id"),
		},
		[]Tool{
			testTool(CategorySearch, "search_azure_devops_code"),
		},
		[]Tool{
			testTool(CategoryWiki, "list_azure_devops_wikis"),
		},
		[]Tool{
			testTool(CategoryWorkItems, "get_azure_devops_work_item"),
		},
	)
	require.NoError(t, err)
	return catalog
}

func TestNewCatalog(t *testing.T) {
	catalog := testCatalog(t)

	assert.Equal(t, []string{"list_azure_devops_projects", "list_azure_devops_project_teams"}, catalog.Tools(CategoryCore))
	assert.Len(t, catalog.AllTools(), 10)

	category, ok := catalog.CategoryOf("search_azure_devops_code")
	assert.True(t, ok)
	assert.Equal(t, CategorySearch, category)

	_, ok = catalog.CategoryOf("unknown_tool")
	assert.False(t, ok)
}

func TestNewCatalog_DuplicateName(t *testing.T) {
	_, err := NewCatalog(
		[]Tool{testTool(CategoryCore, "list_azure_devops_projects")},
		[]Tool{testTool(CategoryRepo, "list_azure_devops_projects")},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate tool name "list_azure_devops_projects"`)
}

func TestNewCatalog_EmptyName(t *testing.T) {
	_, err := NewCatalog([]Tool{{Category: CategoryWiki}})
	require.Error(t, err)
}

func TestCatalogHasCategory(t *testing.T) {
	catalog := testCatalog(t)

	for _, category := range Categories() {
		assert.True(t, catalog.HasCategory(string(category)), "category %s", category)
	}
	assert.False(t, catalog.HasCategory("Category_Repo"), "matching is exact")
	assert.False(t, catalog.HasCategory("category_"))
	assert.False(t, catalog.HasCategory("list_azure_devops_projects"))
}

func TestToolSet(t *testing.T) {
	var zero ToolSet
	assert.False(t, zero.Contains("anything"))
	assert.Equal(t, 0, zero.Len())
	assert.Empty(t, zero.Names())

	set := NewToolSet("b", "a", "b")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("a"))
	assert.Equal(t, []string{"a", "b"}, set.Names())
}
