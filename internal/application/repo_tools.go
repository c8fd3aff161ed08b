package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"azure-devops-mcp-server/internal/domain"
)

// Tool name constants for repository and pull request operations
const (
	ToolListRepositories              = "list_azure_devops_repositories"
	ToolGetRepositoryByName           = "get_azure_devops_repository_by_name"
	ToolListBranches                  = "list_azure_devops_branches"
	ToolGetBranchByName               = "get_azure_devops_branch_by_name"
	ToolListCommits                   = "list_azure_devops_commits"
	ToolListPullRequestsByRepo        = "list_azure_devops_pull_requests_by_repo"
	ToolListPullRequestsByProject     = "list_azure_devops_pull_requests_by_project"
	ToolGetPullRequestByID            = "get_azure_devops_pull_request_by_id"
	ToolListPullRequestThreads        = "list_azure_devops_pull_request_threads"
	ToolListPullRequestThreadComments = "list_azure_devops_pull_request_thread_comments"
	ToolReplyToComment                = "reply_to_azure_devops_comment"
	ToolCreatePullRequest             = "create_azure_devops_pull_request"
)

// textCommentType is the upstream code of a plain text comment.
const textCommentType = 1

// RepoTools serves repositories, branches, commits, pull requests and threads.
type RepoTools struct {
	deps Dependencies
}

// NewRepoTools creates the repository family.
func NewRepoTools(deps Dependencies) *RepoTools {
	return &RepoTools{deps: deps}
}

// FamilyName returns the identifier for this family.
func (f *RepoTools) FamilyName() string {
	return "repositories"
}

func pullRequestFilterOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("status",
			mcp.Description("Pull request status filter (default active)"),
			mcp.Enum(domain.PullRequestStatusTokens...),
			mcp.DefaultString("active"),
		),
		mcp.WithString("creatorId", mcp.Description("Only pull requests created by this identity ID")),
		mcp.WithString("reviewerId", mcp.Description("Only pull requests reviewed by this identity ID")),
		topOption(domain.DefaultTop),
		skipOption(),
	}
}

func toolOptions(description string, opts ...[]mcp.ToolOption) []mcp.ToolOption {
	all := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, group := range opts {
		all = append(all, group...)
	}
	return all
}

// Tools returns the repository tool table.
func (f *RepoTools) Tools() []domain.Tool {
	tool := func(name string, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), opts ...mcp.ToolOption) domain.Tool {
		return domain.Tool{Category: domain.CategoryRepo, Definition: mcp.NewTool(name, opts...), Handler: handler}
	}

	return []domain.Tool{
		tool(ToolListRepositories, f.handleListRepositories,
			mcp.WithDescription("List the Git repositories of a project, sorted by name"),
			projectOption(true),
			topOption(domain.DefaultTop),
			skipOption(),
		),
		tool(ToolGetRepositoryByName, f.handleGetRepositoryByName,
			mcp.WithDescription("Get a Git repository of a project by its name"),
			projectOption(true),
			mcp.WithString("repositoryName", mcp.Required(), mcp.Description("The repository name")),
		),
		tool(ToolListBranches, f.handleListBranches,
			mcp.WithDescription("List branch names of a repository, sorted descending"),
			projectOption(true),
			repositoryIDOption(),
			topOption(domain.DefaultTop),
		),
		tool(ToolGetBranchByName, f.handleGetBranchByName,
			mcp.WithDescription("Get a branch of a repository by its name"),
			projectOption(true),
			repositoryIDOption(),
			mcp.WithString("branchName", mcp.Required(), mcp.Description("The branch name, with or without refs/heads/")),
		),
		tool(ToolListCommits, f.handleListCommits,
			mcp.WithDescription("List commits of a repository, optionally on a branch"),
			projectOption(true),
			repositoryIDOption(),
			mcp.WithString("branchName", mcp.Description("The branch to list commits from (default: repository default branch)")),
			topOption(domain.DefaultCommitTop),
			skipOption(),
		),
		tool(ToolListPullRequestsByRepo, f.handleListPullRequestsByRepo,
			toolOptions("List pull requests of a repository",
				[]mcp.ToolOption{projectOption(true), repositoryIDOption()},
				pullRequestFilterOptions(),
			)...,
		),
		tool(ToolListPullRequestsByProject, f.handleListPullRequestsByProject,
			toolOptions("List pull requests across every repository of a project",
				[]mcp.ToolOption{projectOption(true)},
				pullRequestFilterOptions(),
			)...,
		),
		tool(ToolGetPullRequestByID, f.handleGetPullRequestByID,
			mcp.WithDescription("Get a pull request with its commits and the diff between its merge target and source"),
			projectOption(true),
			repositoryIDOption(),
			pullRequestIDOption(),
		),
		tool(ToolListPullRequestThreads, f.handleListPullRequestThreads,
			mcp.WithDescription("List the comment threads of a pull request, ordered by thread ID"),
			projectOption(true),
			repositoryIDOption(),
			pullRequestIDOption(),
			topOption(domain.DefaultTop),
			skipOption(),
		),
		tool(ToolListPullRequestThreadComments, f.handleListPullRequestThreadComments,
			mcp.WithDescription("List the comments of a pull request thread, ordered by comment ID"),
			projectOption(true),
			repositoryIDOption(),
			pullRequestIDOption(),
			mcp.WithNumber("threadId", mcp.Required(), mcp.Description("The thread ID"), mcp.Min(1)),
			topOption(domain.DefaultTop),
			skipOption(),
		),
		tool(ToolReplyToComment, f.handleReplyToComment,
			mcp.WithDescription("Reply in a pull request comment thread"),
			projectOption(true),
			repositoryIDOption(),
			pullRequestIDOption(),
			mcp.WithNumber("threadId", mcp.Required(), mcp.Description("The thread ID"), mcp.Min(1)),
			mcp.WithString("content", mcp.Required(), mcp.Description("The reply text (markdown)")),
		),
		tool(ToolCreatePullRequest, f.handleCreatePullRequest,
			mcp.WithDescription("Create a pull request"),
			projectOption(true),
			repositoryIDOption(),
			mcp.WithString("sourceRefName", mcp.Required(), mcp.Description("The source branch, e.g. refs/heads/feature")),
			mcp.WithString("targetRefName", mcp.Required(), mcp.Description("The target branch, e.g. refs/heads/main")),
			mcp.WithString("title", mcp.Required(), mcp.Description("The pull request title")),
			mcp.WithString("description", mcp.Description("The pull request description (optional)")),
			mcp.WithBoolean("isDraft", mcp.Description("Create the pull request as a draft"), mcp.DefaultBool(false)),
		),
	}
}

// repoArgs extracts the project and repositoryId pair.
func repoArgs(args map[string]interface{}) (project, repositoryID string, err error) {
	project, err = getStringParam(args, "project", true)
	if err != nil {
		return "", "", err
	}
	repositoryID, err = getStringParam(args, "repositoryId", true)
	if err != nil {
		return "", "", err
	}
	return project, repositoryID, nil
}

// handleListRepositories handles the list_azure_devops_repositories tool call.
func (f *RepoTools) handleListRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing repositories"
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

	repos, err := client.ListRepositories(ctx, project)
	if err != nil {
		return failed(action, err)
	}

	domain.SortRepositoriesByName(repos)
	page := domain.Paginate(repos, skip, top)

	results := make([]domain.RepositoryResult, 0, len(page))
	for i := range page {
		results = append(results, *domain.ProjectRepository(&page[i]))
	}
	return respond(action, results)
}

// handleGetRepositoryByName handles the get_azure_devops_repository_by_name tool call.
func (f *RepoTools) handleGetRepositoryByName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "fetching repository"
	args := request.GetArguments()

	project, err := getStringParam(args, "project", true)
	if err != nil {
		return invalidParams(err), nil
	}
	name, err := getStringParam(args, "repositoryName", true)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	repos, err := client.ListRepositories(ctx, project)
	if err != nil {
		return failed(action, err)
	}

	for i := range repos {
		if strings.EqualFold(repos[i].Name, name) {
			return respond(action, domain.ProjectRepository(&repos[i]))
		}
	}

	return failed(action, &domain.NotFoundError{Kind: "Repository", Name: name, Scope: "project " + project})
}

// handleListBranches handles the list_azure_devops_branches tool call.
func (f *RepoTools) handleListBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing branches"
	args := request.GetArguments()

	project, repositoryID, err := repoArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	top, err := getIntParamDefault(args, "top", domain.DefaultTop, 0)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	refs, err := client.ListRefs(ctx, project, repositoryID, "heads/")
	if err != nil {
		return failed(action, err)
	}

	return respond(action, domain.Paginate(domain.BranchNames(refs), 0, top))
}

// handleGetBranchByName handles the get_azure_devops_branch_by_name tool call.
func (f *RepoTools) handleGetBranchByName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "fetching branch"
	args := request.GetArguments()

	project, repositoryID, err := repoArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	branchName, err := getStringParam(args, "branchName", true)
	if err != nil {
		return invalidParams(err), nil
	}
	branchName = strings.TrimPrefix(branchName, domain.BranchRefPrefix)

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	// The filter is a prefix match; keep only the exact ref.
	refs, err := client.ListRefs(ctx, project, repositoryID, "heads/"+branchName)
	if err != nil {
		return failed(action, err)
	}

	for i := range refs {
		if refs[i].Name == domain.BranchRefPrefix+branchName {
			return respond(action, domain.ProjectBranch(&refs[i]))
		}
	}

	return failed(action, &domain.NotFoundError{Kind: "Branch", Name: branchName, Scope: "repository " + repositoryID})
}

// handleListCommits handles the list_azure_devops_commits tool call.
func (f *RepoTools) handleListCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing commits"
	args := request.GetArguments()

	project, repositoryID, err := repoArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	branchName, err := getStringParam(args, "branchName", false)
	if err != nil {
		return invalidParams(err), nil
	}
	top, skip, err := getPageParams(args, domain.DefaultCommitTop)
	if err != nil {
		return invalidParams(err), nil
	}
	// Upstream reads a missing $top as its default page size.
	if top == 0 {
		return respond(action, []domain.CommitResult{})
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	commits, err := client.ListCommits(ctx, project, repositoryID, domain.CommitSearchCriteria{
		BranchName: branchName,
		Top:        top,
		Skip:       skip,
	})
	if err != nil {
		return failed(action, err)
	}

	return respond(action, projectCommits(commits))
}

func projectCommits(commits []domain.GitCommitRef) []domain.CommitResult {
	results := make([]domain.CommitResult, 0, len(commits))
	for i := range commits {
		results = append(results, *domain.ProjectCommit(&commits[i]))
	}
	return results
}

// pullRequestCriteria extracts the shared pull request filters.
func pullRequestCriteria(args map[string]interface{}) (domain.PullRequestSearchCriteria, error) {
	token, err := getEnumParam(args, "status", "active", domain.PullRequestStatusTokens)
	if err != nil {
		return domain.PullRequestSearchCriteria{}, err
	}
	status, err := domain.ParsePullRequestStatus(token)
	if err != nil {
		return domain.PullRequestSearchCriteria{}, &ParamError{Field: "status", Message: err.Error()}
	}
	creatorID, err := getStringParam(args, "creatorId", false)
	if err != nil {
		return domain.PullRequestSearchCriteria{}, err
	}
	reviewerID, err := getStringParam(args, "reviewerId", false)
	if err != nil {
		return domain.PullRequestSearchCriteria{}, err
	}
	top, skip, err := getPageParams(args, domain.DefaultTop)
	if err != nil {
		return domain.PullRequestSearchCriteria{}, err
	}

	return domain.PullRequestSearchCriteria{
		Status:     status,
		CreatorID:  creatorID,
		ReviewerID: reviewerID,
		Top:        top,
		Skip:       skip,
	}, nil
}

func projectPullRequests(prs []domain.GitPullRequest) []domain.PullRequestResult {
	results := make([]domain.PullRequestResult, 0, len(prs))
	for i := range prs {
		results = append(results, *domain.ProjectPullRequest(&prs[i]))
	}
	return results
}

// handleListPullRequestsByRepo handles the list_azure_devops_pull_requests_by_repo tool call.
func (f *RepoTools) handleListPullRequestsByRepo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing pull requests"
	args := request.GetArguments()

	project, repositoryID, err := repoArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	criteria, err := pullRequestCriteria(args)
	if err != nil {
		return invalidParams(err), nil
	}
	if criteria.Top == 0 {
		return respond(action, []domain.PullRequestResult{})
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	prs, err := client.ListPullRequestsByRepository(ctx, project, repositoryID, criteria)
	if err != nil {
		return failed(action, err)
	}

	return respond(action, projectPullRequests(prs))
}

// handleListPullRequestsByProject handles the list_azure_devops_pull_requests_by_project tool call.
func (f *RepoTools) handleListPullRequestsByProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing pull requests"
	args := request.GetArguments()

	project, err := getStringParam(args, "project", true)
	if err != nil {
		return invalidParams(err), nil
	}
	criteria, err := pullRequestCriteria(args)
	if err != nil {
		return invalidParams(err), nil
	}
	if criteria.Top == 0 {
		return respond(action, []domain.PullRequestResult{})
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	prs, err := client.ListPullRequestsByProject(ctx, project, criteria)
	if err != nil {
		return failed(action, err)
	}

	return respond(action, projectPullRequests(prs))
}

// handleGetPullRequestByID handles the get_azure_devops_pull_request_by_id tool call.
// The pull request, its commits and the merge diff are fetched in sequence;
// any failure aborts the whole call.
func (f *RepoTools) handleGetPullRequestByID(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "fetching pull request"
	args := request.GetArguments()

	project, repositoryID, err := repoArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	pullRequestID, err := getRequiredID(args, "pullRequestId")
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	pr, err := client.GetPullRequest(ctx, project, repositoryID, pullRequestID)
	if err != nil {
		return failed(action, err)
	}

	commits, err := client.GetPullRequestCommits(ctx, project, repositoryID, pullRequestID)
	if err != nil {
		return failed("fetching pull request commits", err)
	}

	result := domain.PullRequestWithChangesResult{
		PullRequest: domain.ProjectPullRequestDetail(pr),
		Commits:     projectCommits(commits),
	}

	// A pull request without computed merge commits has nothing to diff.
	if pr.LastMergeTargetCommit != nil && pr.LastMergeSourceCommit != nil {
		diffs, err := client.GetCommitDiffs(ctx, project, repositoryID,
			pr.LastMergeTargetCommit.CommitID, pr.LastMergeSourceCommit.CommitID)
		if err != nil {
			return failed("fetching pull request changes", err)
		}
		result.Diff = domain.ProjectCommitDiffs(diffs)
	}

	return respond(action, result)
}

// threadArgs extracts project, repositoryId and pullRequestId.
func threadArgs(args map[string]interface{}) (project, repositoryID string, pullRequestID int, err error) {
	project, repositoryID, err = repoArgs(args)
	if err != nil {
		return "", "", 0, err
	}
	pullRequestID, err = getRequiredID(args, "pullRequestId")
	if err != nil {
		return "", "", 0, err
	}
	return project, repositoryID, pullRequestID, nil
}

// handleListPullRequestThreads handles the list_azure_devops_pull_request_threads tool call.
func (f *RepoTools) handleListPullRequestThreads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing pull request threads"
	args := request.GetArguments()

	project, repositoryID, pullRequestID, err := threadArgs(args)
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

	threads, err := client.ListPullRequestThreads(ctx, project, repositoryID, pullRequestID)
	if err != nil {
		return failed(action, err)
	}

	domain.SortThreadsByID(threads)
	page := domain.Paginate(threads, skip, top)

	results := make([]domain.ThreadResult, 0, len(page))
	for i := range page {
		results = append(results, *domain.ProjectThread(&page[i]))
	}
	return respond(action, results)
}

// handleListPullRequestThreadComments handles the list_azure_devops_pull_request_thread_comments tool call.
func (f *RepoTools) handleListPullRequestThreadComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "listing thread comments"
	args := request.GetArguments()

	project, repositoryID, pullRequestID, err := threadArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	threadID, err := getRequiredID(args, "threadId")
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

	comments, err := client.ListThreadComments(ctx, project, repositoryID, pullRequestID, threadID)
	if err != nil {
		return failed(action, err)
	}

	domain.SortCommentsByID(comments)
	page := domain.Paginate(comments, skip, top)

	results := make([]domain.CommentResult, 0, len(page))
	for i := range page {
		results = append(results, *domain.ProjectComment(&page[i]))
	}
	return respond(action, results)
}

// handleReplyToComment handles the reply_to_azure_devops_comment tool call.
// The reply is parented to the thread's first comment.
func (f *RepoTools) handleReplyToComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "replying to comment"
	args := request.GetArguments()

	project, repositoryID, pullRequestID, err := threadArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	threadID, err := getRequiredID(args, "threadId")
	if err != nil {
		return invalidParams(err), nil
	}
	content, err := getStringParam(args, "content", true)
	if err != nil {
		return invalidParams(err), nil
	}

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	comment, err := client.CreateThreadComment(ctx, project, repositoryID, pullRequestID, threadID, &domain.CommentCreate{
		Content:         content,
		ParentCommentID: 1,
		CommentType:     textCommentType,
	})
	if err != nil {
		return failed(action, err)
	}

	return respond(action, domain.ProjectComment(comment))
}

// handleCreatePullRequest handles the create_azure_devops_pull_request tool call.
func (f *RepoTools) handleCreatePullRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const action = "creating pull request"
	args := request.GetArguments()

	project, repositoryID, err := repoArgs(args)
	if err != nil {
		return invalidParams(err), nil
	}
	create := &domain.PullRequestCreate{}
	for _, field := range []struct {
		name   string
		target *string
	}{
		{"sourceRefName", &create.SourceRefName},
		{"targetRefName", &create.TargetRefName},
		{"title", &create.Title},
	} {
		value, err := getStringParam(args, field.name, true)
		if err != nil {
			return invalidParams(err), nil
		}
		*field.target = value
	}
	if create.Description, err = getStringParam(args, "description", false); err != nil {
		return invalidParams(err), nil
	}
	if create.IsDraft, err = getBoolParam(args, "isDraft", false); err != nil {
		return invalidParams(err), nil
	}
	create.SourceRefName = qualifyBranch(create.SourceRefName)
	create.TargetRefName = qualifyBranch(create.TargetRefName)

	client, err := f.deps.connect(ctx)
	if err != nil {
		return failed(action, err)
	}

	pr, err := client.CreatePullRequest(ctx, project, repositoryID, create)
	if err != nil {
		return failed(action, err)
	}

	return respond(action, domain.ProjectPullRequest(pr))
}

// qualifyBranch turns a short branch name into a full ref name.
func qualifyBranch(name string) string {
	if strings.HasPrefix(name, "refs/") {
		return name
	}
	return fmt.Sprintf("%s%s", domain.BranchRefPrefix, name)
}
