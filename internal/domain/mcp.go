package domain

import (
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Category groups tools for bulk enable/disable addressing.
// The values are the tokens accepted by the environment override.
type Category string

const (
	CategoryCore      Category = "category_core"
	CategoryRepo      Category = "category_repo"
	CategorySearch    Category = "category_search"
	CategoryWiki      Category = "category_wiki"
	CategoryWorkItems Category = "category_work_items"
)

// Categories returns the closed set of categories in catalog order.
func Categories() []Category {
	return []Category{CategoryCore, CategoryRepo, CategorySearch, CategoryWiki, CategoryWorkItems}
}

// Tool describes one MCP tool: its definition (name, description and
// input schema), the handler that serves it and the category it belongs to.
type Tool struct {
	Category   Category
	Definition mcp.Tool
	Handler    server.ToolHandlerFunc
}

// Name returns the tool's unique name.
func (t Tool) Name() string {
	return t.Definition.Name
}

// Catalog maps each category to the tool names it owns.
// It is built once at startup and read-only afterwards.
type Catalog struct {
	categories map[Category][]string
	owner      map[string]Category
}

// NewCatalog builds a catalog from tool tables. A tool name declared twice
// is a programming error and is reported rather than silently merged.
func NewCatalog(tools ...[]Tool) (*Catalog, error) {
	c := &Catalog{
		categories: make(map[Category][]string),
		owner:      make(map[string]Category),
	}

	for _, table := range tools {
		for _, tool := range table {
			name := tool.Name()
			if name == "" {
				return nil, fmt.Errorf("tool in category %s has no name", tool.Category)
			}
			if existing, dup := c.owner[name]; dup {
				return nil, fmt.Errorf("duplicate tool name %q (declared in %s and %s)", name, existing, tool.Category)
			}
			c.owner[name] = tool.Category
			c.categories[tool.Category] = append(c.categories[tool.Category], name)
		}
	}

	return c, nil
}

// Tools returns the tool names owned by a category, in declaration order.
func (c *Catalog) Tools(category Category) []string {
	return c.categories[category]
}

// HasCategory reports whether token names a known category. Matching is exact.
func (c *Catalog) HasCategory(token string) bool {
	_, ok := c.categories[Category(token)]
	if ok {
		return true
	}
	for _, known := range Categories() {
		if string(known) == token {
			return true
		}
	}
	return false
}

// CategoryOf returns the category owning a tool name.
func (c *Catalog) CategoryOf(name string) (Category, bool) {
	category, ok := c.owner[name]
	return category, ok
}

// AllTools returns every tool name in the catalog, sorted.
func (c *Catalog) AllTools() []string {
	names := make([]string, 0, len(c.owner))
	for name := range c.owner {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToolSet is an immutable set of tool names. The startup-computed
// disabled-set is a ToolSet.
type ToolSet struct {
	names map[string]struct{}
}

// NewToolSet builds a set from names.
func NewToolSet(names ...string) ToolSet {
	set := ToolSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.names[name] = struct{}{}
	}
	return set
}

// Contains reports membership. The zero ToolSet is empty.
func (s ToolSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s ToolSet) Len() int {
	return len(s.names)
}

// Names returns the members, sorted.
func (s ToolSet) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
