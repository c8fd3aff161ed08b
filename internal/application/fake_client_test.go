package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"azure-devops-mcp-server/internal/domain"
)

var errNotStubbed = errors.New("not stubbed")

// fakeClient is a DevOpsClient whose behaviour is set per test. Calls to
// unset operations fail with errNotStubbed.
type fakeClient struct {
	calls []string

	listProjects          func() ([]domain.TeamProject, error)
	listTeams             func(project string) ([]domain.WebAPITeam, error)
	listRepositories      func(project string) ([]domain.GitRepository, error)
	listRefs              func(project, repositoryID, filter string) ([]domain.GitRef, error)
	listCommits           func(project, repositoryID string, criteria domain.CommitSearchCriteria) ([]domain.GitCommitRef, error)
	getCommitDiffs        func(project, repositoryID, base, target string) (*domain.GitCommitDiffs, error)
	listPullRequestsRepo  func(project, repositoryID string, criteria domain.PullRequestSearchCriteria) ([]domain.GitPullRequest, error)
	listPullRequestsProj  func(project string, criteria domain.PullRequestSearchCriteria) ([]domain.GitPullRequest, error)
	getPullRequest        func(project, repositoryID string, id int) (*domain.GitPullRequest, error)
	getPullRequestCommits func(project, repositoryID string, id int) ([]domain.GitCommitRef, error)
	createPullRequest     func(project, repositoryID string, create *domain.PullRequestCreate) (*domain.GitPullRequest, error)
	listThreads           func(project, repositoryID string, id int) ([]domain.GitPullRequestCommentThread, error)
	listThreadComments    func(project, repositoryID string, id, threadID int) ([]domain.Comment, error)
	createThreadComment   func(project, repositoryID string, id, threadID int, comment *domain.CommentCreate) (*domain.Comment, error)
	searchCode            func(project string, req *domain.SearchRequest) (*domain.CodeSearchResponse, error)
	searchWiki            func(project string, req *domain.SearchRequest) (*domain.WikiSearchResponse, error)
	searchWorkItems       func(project string, req *domain.SearchRequest) (*domain.WorkItemSearchResponse, error)
	listWikis             func(project string) ([]domain.WikiV2, error)
	getWikiPage           func(project, wiki, path string) (*domain.WikiPage, error)
	getWorkItem           func(project string, id int) (*domain.WorkItem, error)
	getWorkItemsBatch     func(project string, ids []int) ([]domain.WorkItem, error)
}

func (f *fakeClient) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeClient) ListProjects(_ context.Context) ([]domain.TeamProject, error) {
	f.record("ListProjects")
	if f.listProjects == nil {
		return nil, errNotStubbed
	}
	return f.listProjects()
}

func (f *fakeClient) ListTeams(_ context.Context, project string) ([]domain.WebAPITeam, error) {
	f.record("ListTeams")
	if f.listTeams == nil {
		return nil, errNotStubbed
	}
	return f.listTeams(project)
}

func (f *fakeClient) ListRepositories(_ context.Context, project string) ([]domain.GitRepository, error) {
	f.record("ListRepositories")
	if f.listRepositories == nil {
		return nil, errNotStubbed
	}
	return f.listRepositories(project)
}

func (f *fakeClient) ListRefs(_ context.Context, project, repositoryID, filter string) ([]domain.GitRef, error) {
	f.record("ListRefs")
	if f.listRefs == nil {
		return nil, errNotStubbed
	}
	return f.listRefs(project, repositoryID, filter)
}

func (f *fakeClient) ListCommits(_ context.Context, project, repositoryID string, criteria domain.CommitSearchCriteria) ([]domain.GitCommitRef, error) {
	f.record("ListCommits")
	if f.listCommits == nil {
		return nil, errNotStubbed
	}
	return f.listCommits(project, repositoryID, criteria)
}

func (f *fakeClient) GetCommitDiffs(_ context.Context, project, repositoryID, base, target string) (*domain.GitCommitDiffs, error) {
	f.record("GetCommitDiffs")
	if f.getCommitDiffs == nil {
		return nil, errNotStubbed
	}
	return f.getCommitDiffs(project, repositoryID, base, target)
}

func (f *fakeClient) ListPullRequestsByRepository(_ context.Context, project, repositoryID string, criteria domain.PullRequestSearchCriteria) ([]domain.GitPullRequest, error) {
	f.record("ListPullRequestsByRepository")
	if f.listPullRequestsRepo == nil {
		return nil, errNotStubbed
	}
	return f.listPullRequestsRepo(project, repositoryID, criteria)
}

func (f *fakeClient) ListPullRequestsByProject(_ context.Context, project string, criteria domain.PullRequestSearchCriteria) ([]domain.GitPullRequest, error) {
	f.record("ListPullRequestsByProject")
	if f.listPullRequestsProj == nil {
		return nil, errNotStubbed
	}
	return f.listPullRequestsProj(project, criteria)
}

func (f *fakeClient) GetPullRequest(_ context.Context, project, repositoryID string, id int) (*domain.GitPullRequest, error) {
	f.record("GetPullRequest")
	if f.getPullRequest == nil {
		return nil, errNotStubbed
	}
	return f.getPullRequest(project, repositoryID, id)
}

func (f *fakeClient) GetPullRequestCommits(_ context.Context, project, repositoryID string, id int) ([]domain.GitCommitRef, error) {
	f.record("GetPullRequestCommits")
	if f.getPullRequestCommits == nil {
		return nil, errNotStubbed
	}
	return f.getPullRequestCommits(project, repositoryID, id)
}

func (f *fakeClient) CreatePullRequest(_ context.Context, project, repositoryID string, create *domain.PullRequestCreate) (*domain.GitPullRequest, error) {
	f.record("CreatePullRequest")
	if f.createPullRequest == nil {
		return nil, errNotStubbed
	}
	return f.createPullRequest(project, repositoryID, create)
}

func (f *fakeClient) ListPullRequestThreads(_ context.Context, project, repositoryID string, id int) ([]domain.GitPullRequestCommentThread, error) {
	f.record("ListPullRequestThreads")
	if f.listThreads == nil {
		return nil, errNotStubbed
	}
	return f.listThreads(project, repositoryID, id)
}

func (f *fakeClient) ListThreadComments(_ context.Context, project, repositoryID string, id, threadID int) ([]domain.Comment, error) {
	f.record("ListThreadComments")
	if f.listThreadComments == nil {
		return nil, errNotStubbed
	}
	return f.listThreadComments(project, repositoryID, id, threadID)
}

func (f *fakeClient) CreateThreadComment(_ context.Context, project, repositoryID string, id, threadID int, comment *domain.CommentCreate) (*domain.Comment, error) {
	f.record("CreateThreadComment")
	if f.createThreadComment == nil {
		return nil, errNotStubbed
	}
	return f.createThreadComment(project, repositoryID, id, threadID, comment)
}

func (f *fakeClient) SearchCode(_ context.Context, project string, req *domain.SearchRequest) (*domain.CodeSearchResponse, error) {
	f.record("SearchCode")
	if f.searchCode == nil {
		return nil, errNotStubbed
	}
	return f.searchCode(project, req)
}

func (f *fakeClient) SearchWiki(_ context.Context, project string, req *domain.SearchRequest) (*domain.WikiSearchResponse, error) {
	f.record("SearchWiki")
	if f.searchWiki == nil {
		return nil, errNotStubbed
	}
	return f.searchWiki(project, req)
}

func (f *fakeClient) SearchWorkItems(_ context.Context, project string, req *domain.SearchRequest) (*domain.WorkItemSearchResponse, error) {
	f.record("SearchWorkItems")
	if f.searchWorkItems == nil {
		return nil, errNotStubbed
	}
	return f.searchWorkItems(project, req)
}

func (f *fakeClient) ListWikis(_ context.Context, project string) ([]domain.WikiV2, error) {
	f.record("ListWikis")
	if f.listWikis == nil {
		return nil, errNotStubbed
	}
	return f.listWikis(project)
}

func (f *fakeClient) GetWikiPage(_ context.Context, project, wiki, path string) (*domain.WikiPage, error) {
	f.record("GetWikiPage")
	if f.getWikiPage == nil {
		return nil, errNotStubbed
	}
	return f.getWikiPage(project, wiki, path)
}

func (f *fakeClient) GetWorkItem(_ context.Context, project string, id int) (*domain.WorkItem, error) {
	f.record("GetWorkItem")
	if f.getWorkItem == nil {
		return nil, errNotStubbed
	}
	return f.getWorkItem(project, id)
}

func (f *fakeClient) GetWorkItemsBatch(_ context.Context, project string, ids []int) ([]domain.WorkItem, error) {
	f.record("GetWorkItemsBatch")
	if f.getWorkItemsBatch == nil {
		return nil, errNotStubbed
	}
	return f.getWorkItemsBatch(project, ids)
}

var _ domain.DevOpsClient = (*fakeClient)(nil)

// depsFor wires a fixed client into family dependencies.
func depsFor(client domain.DevOpsClient) Dependencies {
	return Dependencies{
		Connection: func(context.Context) (domain.DevOpsClient, error) {
			return client, nil
		},
	}
}

// findTool returns the named tool of family or fails the test.
func findTool(t *testing.T, family ToolFamily, name string) domain.Tool {
	t.Helper()
	for _, tool := range family.Tools() {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found in family %s", name, family.FamilyName())
	return domain.Tool{}
}

// callTool invokes the named tool of family with args.
func callTool(t *testing.T, family ToolFamily, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	return invoke(t, findTool(t, family, name).Handler, name, args)
}

func invoke(t *testing.T, handler server.ToolHandlerFunc, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if result == nil {
		t.Fatal("handler returned nil result")
	}
	return result
}

// resultText returns the single text block of result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// decodeResult fails unless result is a success and decodes its payload.
func decodeResult(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", text)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("invalid JSON payload %q: %v", text, err)
	}
}

// errorText fails unless result is an error envelope and returns its text.
func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text := resultText(t, result)
	if !result.IsError {
		t.Fatalf("expected error result, got success: %s", text)
	}
	return text
}

func intPtr(v int) *int {
	return &v
}
