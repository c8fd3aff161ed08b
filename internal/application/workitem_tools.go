package application

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"azure-devops-mcp-server/internal/domain"
)

// Tool name constants for work item operations
const (
	ToolGetWorkItem        = "get_azure_devops_work_item"
	ToolListWorkItemsBatch = "list_azure_devops_work_items_batch"
)

// WorkItemTools serves work item lookups.
type WorkItemTools struct {
	deps Dependencies
}

func NewWorkItemTools(deps Dependencies) *WorkItemTools {
	return &WorkItemTools{deps: deps}
}

func (f *WorkItemTools) FamilyName() string {
	return "work_items"
}

// Tools returns the work item tool table.
func (f *WorkItemTools) Tools() []domain.Tool {
	return []domain.Tool{
		{
			Category: domain.CategoryWorkItems,
			Definition: mcp.NewTool(ToolGetWorkItem,
				mcp.WithDescription("Get a work item by ID"),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("The work item ID"), mcp.Min(1)),
				projectOption(false),
			),
			Handler: f.handleGetWorkItem,
		},
		{
			Category: domain.CategoryWorkItems,
			Definition: mcp.NewTool(ToolListWorkItemsBatch,
				mcp.WithDescription("Get several work items by ID, in the order given"),
				mcp.WithArray("ids",
					mcp.Required(),
					mcp.Description("The work item IDs"),
					mcp.Items(map[string]any{"type": "number"}),
				),
				projectOption(false),
			),
			Handler: f.handleListWorkItemsBatch,
		},
	}
}

func (f *WorkItemTools) handleGetWorkItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "fetching work item"
	args := request.GetArguments()

	id, err := getRequiredID(args, "id")
	if err != nil {
		return invalidParams(err), nil
	}
	project, err := getStringParam(args, "project", false)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	item, err := client.GetWorkItem(ctx, project, id)
	if err != nil {
		return failed(action, err)
	}
	if item == nil {
		return failed(action, &domain.NotFoundError{Kind: "Work item", Name: strconv.Itoa(id)})
	}

	return respond(action, domain.ProjectWorkItem(item))
}

// handleListWorkItemsBatch handles the list_azure_devops_work_items_batch tool call.
// Results follow the order of the requested ids; ids the upstream did not
// return are left out.
func (f *WorkItemTools) handleListWorkItemsBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "fetching work items"
	args := request.GetArguments()

	ids, err := getIntSliceParam(args, "ids")
	if err != nil {
		return invalidParams(err), nil
	}
	project, err := getStringParam(args, "project", false)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	items, err := client.GetWorkItemsBatch(ctx, project, ids)
	if err != nil {
		return failed(action, err)
	}

	byID := make(map[int]*domain.WorkItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	results := make([]domain.WorkItemResult, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			results = append(results, *domain.ProjectWorkItem(item))
			delete(byID, id)
		}
	}
	return respond(action, results)
}
