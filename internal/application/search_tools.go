package application

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"azure-devops-mcp-server/internal/domain"
)

// Tool name constants for search operations
const (
	ToolSearchCode      = "search_azure_devops_code"
	ToolSearchWiki      = "search_azure_devops_wiki"
	ToolSearchWorkItems = "search_azure_devops_work_items"
)

// SearchTools serves code, wiki and work item search.
type SearchTools struct {
	deps Dependencies
}

func NewSearchTools(deps Dependencies) *SearchTools {
	return &SearchTools{deps: deps}
}

func (f *SearchTools) FamilyName() string {
	return "search"
}

func searchTextOption() mcp.ToolOption {
	return mcp.WithString("searchText", mcp.Required(), mcp.Description("The text to search for"))
}

// Tools returns the search tool table.
func (f *SearchTools) Tools() []domain.Tool {
	return []domain.Tool{
		{
			Category: domain.CategorySearch,
			Definition: mcp.NewTool(ToolSearchCode,
				mcp.WithDescription("Search source code across the organization"),
				searchTextOption(),
				projectOption(false),
				mcp.WithString("repository", mcp.Description("Restrict to a repository name")),
				mcp.WithString("path", mcp.Description("Restrict to a path within the repository")),
				mcp.WithString("branch", mcp.Description("Restrict to a branch")),
				topOption(domain.DefaultCodeTop),
				skipOption(),
			),
			Handler: f.handleSearchCode,
		},
		{
			Category: domain.CategorySearch,
			Definition: mcp.NewTool(ToolSearchWiki,
				mcp.WithDescription("Search wiki pages across the organization"),
				searchTextOption(),
				projectOption(false),
				topOption(domain.DefaultSearchTop),
				skipOption(),
			),
			Handler: f.handleSearchWiki,
		},
		{
			Category: domain.CategorySearch,
			Definition: mcp.NewTool(ToolSearchWorkItems,
				mcp.WithDescription("Search work items across the organization"),
				searchTextOption(),
				projectOption(false),
				mcp.WithString("areaPath", mcp.Description("Restrict to an area path")),
				mcp.WithString("workItemType", mcp.Description("Restrict to a work item type, e.g. Bug")),
				mcp.WithString("state", mcp.Description("Restrict to a state, e.g. Active")),
				mcp.WithString("assignedTo", mcp.Description("Restrict to an assignee")),
				topOption(domain.DefaultSearchTop),
				skipOption(),
			),
			Handler: f.handleSearchWorkItems,
		},
	}
}

// filterArg maps an optional argument to an upstream search filter.
type filterArg struct {
	param  string
	filter string
}

// searchRequest builds the upstream body. Empty optional filters are
// left out; the project filter is added whenever project is set.
func searchRequest(args map[string]interface{}, defaultTop int, filters ...filterArg) (project string, req *domain.SearchRequest, err error) {
	text, err := getStringParam(args, "searchText", true)
	if err != nil {
		return "", nil, err
	}
	project, err = getStringParam(args, "project", false)
	if err != nil {
		return "", nil, err
	}
	top, skip, err := getPageParams(args, defaultTop)
	if err != nil {
		return "", nil, err
	}

	req = &domain.SearchRequest{SearchText: text, Top: top, Skip: skip}
	if project != "" {
		filters = append([]filterArg{{param: "project", filter: "Project"}}, filters...)
	}
	for _, f := range filters {
		value, err := getStringParam(args, f.param, false)
		if err != nil {
			return "", nil, err
		}
		if value == "" {
			continue
		}
		if req.Filters == nil {
			req.Filters = make(map[string][]string)
		}
		req.Filters[f.filter] = []string{value}
	}
	return project, req, nil
}

// handleSearchCode handles the search_azure_devops_code tool call.
func (f *SearchTools) handleSearchCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "searching code"

	project, req, err := searchRequest(request.GetArguments(), domain.DefaultCodeTop,
		filterArg{param: "repository", filter: "Repository"},
		filterArg{param: "path", filter: "Path"},
		filterArg{param: "branch", filter: "Branch"},
	)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	resp, err := client.SearchCode(ctx, project, req)
	if err != nil {
		return failed(action, err)
	}

	results := domain.SearchResults[domain.CodeSearchHit]{Results: []domain.CodeSearchHit{}}
	if resp != nil {
		results.Count = resp.Count
		for _, hit := range resp.Results {
			results.Results = append(results.Results, domain.ProjectCodeSearchResult(hit))
		}
	}
	return respond(action, results)
}

// handleSearchWiki handles the search_azure_devops_wiki tool call.
func (f *SearchTools) handleSearchWiki(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "searching wiki"

	project, req, err := searchRequest(request.GetArguments(), domain.DefaultSearchTop)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	resp, err := client.SearchWiki(ctx, project, req)
	if err != nil {
		return failed(action, err)
	}

	results := domain.SearchResults[domain.WikiSearchHit]{Results: []domain.WikiSearchHit{}}
	if resp != nil {
		results.Count = resp.Count
		for _, hit := range resp.Results {
			results.Results = append(results.Results, domain.ProjectWikiSearchResult(hit))
		}
	}
	return respond(action, results)
}

// handleSearchWorkItems handles the search_azure_devops_work_items tool call.
func (f *SearchTools) handleSearchWorkItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "searching work items"

	project, req, err := searchRequest(request.GetArguments(), domain.DefaultSearchTop,
		filterArg{param: "areaPath", filter: domain.FieldAreaPath},
		filterArg{param: "workItemType", filter: domain.FieldWorkItemType},
		filterArg{param: "state", filter: domain.FieldState},
		filterArg{param: "assignedTo", filter: domain.FieldAssignedTo},
	)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	resp, err := client.SearchWorkItems(ctx, project, req)
	if err != nil {
		return failed(action, err)
	}

	results := domain.SearchResults[domain.WorkItemSearchHit]{Results: []domain.WorkItemSearchHit{}}
	if resp != nil {
		results.Count = resp.Count
		for _, hit := range resp.Results {
			results.Results = append(results.Results, domain.ProjectWorkItemSearchResult(hit))
		}
	}
	return respond(action, results)
}
