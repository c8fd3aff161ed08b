package application

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"azure-devops-mcp-server/internal/domain"
)

// Tool name constants for wiki operations
const (
	ToolListWikis          = "list_azure_devops_wikis"
	ToolGetWikiPageContent = "get_azure_devops_wiki_page_content"
)

// WikiTools serves wikis and wiki pages.
type WikiTools struct {
	deps Dependencies
}

func NewWikiTools(deps Dependencies) *WikiTools {
	return &WikiTools{deps: deps}
}

func (f *WikiTools) FamilyName() string {
	return "wiki"
}

// Tools returns the wiki tool table.
func (f *WikiTools) Tools() []domain.Tool {
	return []domain.Tool{
		{
			Category: domain.CategoryWiki,
			Definition: mcp.NewTool(ToolListWikis,
				mcp.WithDescription("List the wikis of a project, or of the whole organization, sorted by name"),
				projectOption(false),
			),
			Handler: f.handleListWikis,
		},
		{
			Category: domain.CategoryWiki,
			Definition: mcp.NewTool(ToolGetWikiPageContent,
				mcp.WithDescription("Get the content of a wiki page"),
				projectOption(true),
				mcp.WithString("wikiIdentifier", mcp.Required(), mcp.Description("The wiki name or ID")),
				mcp.WithString("path", mcp.Required(), mcp.Description("The page path, e.g. /Home")),
			),
			Handler: f.handleGetWikiPageContent,
		},
	}
}

func (f *WikiTools) handleListWikis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing wikis"

	project, err := getStringParam(request.GetArguments(), "project", false)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	wikis, err := client.ListWikis(ctx, project)
	if err != nil {
		return failed(action, err)
	}

	domain.SortWikisByName(wikis)
	results := make([]domain.WikiResult, 0, len(wikis))
	for _, wiki := range wikis {
		results = append(results, domain.ProjectWiki(wiki))
	}
	return respond(action, results)
}

// handleGetWikiPageContent handles the get_azure_devops_wiki_page_content tool call.
// A missing page is reported as an error, never as an empty page.
func (f *WikiTools) handleGetWikiPageContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "fetching wiki page"
	args := request.GetArguments()

	project, err := getStringParam(args, "project", true)
	if err != nil {
		return invalidParams(err), nil
	}
	wikiIdentifier, err := getStringParam(args, "wikiIdentifier", true)
	if err != nil {
		return invalidParams(err), nil
	}
	path, err := getStringParam(args, "path", true)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	page, err := client.GetWikiPage(ctx, project, wikiIdentifier, path)
	if err != nil {
		return failed(action, err)
	}
	if page == nil {
		return failed(action, &domain.NotFoundError{Kind: "Wiki page", Name: path, Scope: "wiki " + wikiIdentifier})
	}

	return respond(action, domain.ProjectWikiPage(page))
}
