package application

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"azure-devops-mcp-server/internal/domain"
)

// Tool name constants for organization and project operations
const (
	ToolListProjects     = "list_azure_devops_projects"
	ToolListProjectTeams = "list_azure_devops_project_teams"
)

// CoreTools serves projects and teams.
type CoreTools struct {
	deps Dependencies
}

// NewCoreTools creates the core family.
func NewCoreTools(deps Dependencies) *CoreTools {
	return &CoreTools{deps: deps}
}

// FamilyName returns the identifier for this family.
func (f *CoreTools) FamilyName() string {
	return "core"
}

// Tools returns the core tool table.
func (f *CoreTools) Tools() []domain.Tool {
	return []domain.Tool{
		{
			Category: domain.CategoryCore,
			Definition: mcp.NewTool(ToolListProjects,
				mcp.WithDescription("List the projects of the Azure DevOps organization, sorted by name"),
				topOption(domain.DefaultTop),
				skipOption(),
			),
			Handler: f.handleListProjects,
		},
		{
			Category: domain.CategoryCore,
			Definition: mcp.NewTool(ToolListProjectTeams,
				mcp.WithDescription("List the teams of an Azure DevOps project, sorted by name"),
				projectOption(true),
				topOption(domain.DefaultTop),
				skipOption(),
			),
			Handler: f.handleListProjectTeams,
		},
	}
}

// handleListProjects handles the list_azure_devops_projects tool call.
// Projects are fetched in full so the name order spans every page.
func (f *CoreTools) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing projects"
	args := request.GetArguments()

	top, skip, err := getPageParams(args, domain.DefaultTop)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return failed(action, err)
	}

	domain.SortProjectsByName(projects)
	page := domain.Paginate(projects, skip, top)

	results := make([]domain.ProjectResult, 0, len(page))
	for _, project := range page {
		results = append(results, domain.ProjectProject(project))
	}
	return respond(action, results)
}

// handleListProjectTeams handles the list_azure_devops_project_teams tool call.
func (f *CoreTools) handleListProjectTeams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing project teams"
	args := request.GetArguments()

	project, err := getStringParam(args, "project", true)
	if err != nil {
		return invalidParams(err), nil
	}
	top, skip, err := getPageParams(args, domain.DefaultTop)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	teams, err := client.ListTeams(ctx, project)
	if err != nil {
		return failed(action, err)
	}

	domain.SortTeamsByName(teams)
	page := domain.Paginate(teams, skip, top)

	results := make([]domain.TeamResult, 0, len(page))
	for _, team := range page {
		results = append(results, domain.ProjectTeam(team))
	}
	return respond(action, results)
}
