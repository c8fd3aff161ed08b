package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"azure-devops-mcp-server/internal/domain"
)

// APIVersion is sent with every request.
const APIVersion = "7.1"

// DevOpsClient handles Azure DevOps REST API interactions.
// It implements domain.DevOpsClient.
type DevOpsClient struct {
	baseURL    string
	searchURL  string
	httpClient *http.Client
}

// NewDevOpsClient creates a new Azure DevOps API client.
// The baseURL is the organization URL (e.g., "https://dev.azure.com/contoso").
// The httpClient should come from domain.NewAuthenticatedClient.
func NewDevOpsClient(baseURL string, httpClient *http.Client) *DevOpsClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &DevOpsClient{
		baseURL:    baseURL,
		searchURL:  SearchBaseURL(baseURL),
		httpClient: httpClient,
	}
}

// BaseURL returns the organization URL.
func (c *DevOpsClient) BaseURL() string {
	return c.baseURL
}

// SearchURL returns the organization URL on the search host.
func (c *DevOpsClient) SearchURL() string {
	return c.searchURL
}

// SearchBaseURL maps an organization URL to the search service.
// dev.azure.com/{org} becomes almsearch.dev.azure.com/{org} and
// {org}.visualstudio.com becomes {org}.almsearch.visualstudio.com.
// Any other host (Azure DevOps Server) serves search itself.
func SearchBaseURL(orgURL string) string {
	parsed, err := url.Parse(orgURL)
	if err != nil {
		return orgURL
	}

	host := parsed.Hostname()
	switch {
	case strings.EqualFold(host, "dev.azure.com"):
		parsed.Host = replaceHostname(parsed.Host, "almsearch.dev.azure.com")
	case strings.HasSuffix(strings.ToLower(host), ".visualstudio.com"):
		org := strings.TrimSuffix(host, host[len(host)-len(".visualstudio.com"):])
		parsed.Host = replaceHostname(parsed.Host, org+".almsearch.visualstudio.com")
	default:
		return orgURL
	}
	return strings.TrimRight(parsed.String(), "/")
}

func replaceHostname(hostport, hostname string) string {
	if i := strings.LastIndex(hostport, ":"); i >= 0 && !strings.Contains(hostport[i:], "]") {
		return hostname + hostport[i:]
	}
	return hostname
}

// Do executes an HTTP request with authentication.
func (c *DevOpsClient) Do(req *http.Request) (*http.Response, error) {
	// Set common headers
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// listResponse is the envelope of every Azure DevOps collection.
type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// endpoint builds base/{project}/_apis/{path}?{query}&api-version=7.1.
// An empty project addresses the organization.
func endpoint(base, project, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(base)
	if project != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(project))
	}
	b.WriteString("/_apis/")
	b.WriteString(path)

	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", APIVersion)
	b.WriteString("?")
	b.WriteString(query.Encode())
	return b.String()
}

// call sends a request and decodes a JSON response into out.
// Non-2xx statuses are returned as domain.HTTPError.
func (c *DevOpsClient) call(ctx context.Context, method, target string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	// Create the HTTP request
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Execute the request
	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Check for error status codes
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(respBody))
	}

	if out == nil {
		return nil
	}

	// Parse the response
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func pageQuery(top, skip int) url.Values {
	query := url.Values{}
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}
	if skip > 0 {
		query.Set("$skip", strconv.Itoa(skip))
	}
	return query
}

func repoPath(repositoryID, rest string) string {
	path := "git/repositories/" + url.PathEscape(repositoryID)
	if rest != "" {
		path += "/" + rest
	}
	return path
}

// collectionPageSize is the $top sent when walking a whole collection.
const collectionPageSize = 100

// listAll walks a $top/$skip collection until a short page comes back.
func listAll[T any](ctx context.Context, c *DevOpsClient, project, path string) ([]T, error) {
	var all []T
	for skip := 0; ; {
		var response listResponse[T]
		target := endpoint(c.baseURL, project, path, pageQuery(collectionPageSize, skip))
		if err := c.call(ctx, http.MethodGet, target, nil, &response); err != nil {
			return nil, err
		}
		all = append(all, response.Value...)
		if len(response.Value) < collectionPageSize {
			return all, nil
		}
		skip += len(response.Value)
	}
}

// ListProjects retrieves every project of the organization.
func (c *DevOpsClient) ListProjects(ctx context.Context) ([]domain.TeamProject, error) {
	return listAll[domain.TeamProject](ctx, c, "", "projects")
}

// ListTeams retrieves every team of a project.
func (c *DevOpsClient) ListTeams(ctx context.Context, project string) ([]domain.WebAPITeam, error) {
	return listAll[domain.WebAPITeam](ctx, c, "", "projects/"+url.PathEscape(project)+"/teams")
}

// ListRepositories retrieves all repositories of a project.
// Azure DevOps REST API: {project}/_apis/git/repositories
func (c *DevOpsClient) ListRepositories(ctx context.Context, project string) ([]domain.GitRepository, error) {
	var response listResponse[domain.GitRepository]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, "git/repositories", nil), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// ListRefs retrieves refs of a repository. The filter is a ref name prefix
// without "refs/", e.g. "heads/" or "heads/main".
func (c *DevOpsClient) ListRefs(ctx context.Context, project, repositoryID, filter string) ([]domain.GitRef, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	var response listResponse[domain.GitRef]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, repoPath(repositoryID, "refs"), query), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// ListCommits retrieves commits, optionally on a branch, using upstream paging.
func (c *DevOpsClient) ListCommits(ctx context.Context, project, repositoryID string, criteria domain.CommitSearchCriteria) ([]domain.GitCommitRef, error) {
	query := url.Values{}
	if criteria.BranchName != "" {
		query.Set("searchCriteria.itemVersion.version", strings.TrimPrefix(criteria.BranchName, domain.BranchRefPrefix))
		query.Set("searchCriteria.itemVersion.versionType", "branch")
	}
	if criteria.Top > 0 {
		query.Set("searchCriteria.$top", strconv.Itoa(criteria.Top))
	}
	if criteria.Skip > 0 {
		query.Set("searchCriteria.$skip", strconv.Itoa(criteria.Skip))
	}

	var response listResponse[domain.GitCommitRef]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, repoPath(repositoryID, "commits"), query), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// GetCommitDiffs retrieves the changes between two commits.
func (c *DevOpsClient) GetCommitDiffs(ctx context.Context, project, repositoryID, baseCommit, targetCommit string) (*domain.GitCommitDiffs, error) {
	query := url.Values{}
	query.Set("baseVersion", baseCommit)
	query.Set("baseVersionType", "commit")
	query.Set("targetVersion", targetCommit)
	query.Set("targetVersionType", "commit")

	var diffs domain.GitCommitDiffs
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, repoPath(repositoryID, "diffs/commits"), query), nil, &diffs); err != nil {
		return nil, err
	}
	return &diffs, nil
}

func pullRequestQuery(criteria domain.PullRequestSearchCriteria) url.Values {
	query := pageQuery(criteria.Top, criteria.Skip)
	query.Set("searchCriteria.status", criteria.Status.String())
	if criteria.CreatorID != "" {
		query.Set("searchCriteria.creatorId", criteria.CreatorID)
	}
	if criteria.ReviewerID != "" {
		query.Set("searchCriteria.reviewerId", criteria.ReviewerID)
	}
	return query
}

// ListPullRequestsByRepository retrieves pull requests of one repository.
func (c *DevOpsClient) ListPullRequestsByRepository(ctx context.Context, project, repositoryID string, criteria domain.PullRequestSearchCriteria) ([]domain.GitPullRequest, error) {
	var response listResponse[domain.GitPullRequest]
	target := endpoint(c.baseURL, project, repoPath(repositoryID, "pullrequests"), pullRequestQuery(criteria))
	if err := c.call(ctx, http.MethodGet, target, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// ListPullRequestsByProject retrieves pull requests across a project.
func (c *DevOpsClient) ListPullRequestsByProject(ctx context.Context, project string, criteria domain.PullRequestSearchCriteria) ([]domain.GitPullRequest, error) {
	var response listResponse[domain.GitPullRequest]
	target := endpoint(c.baseURL, project, "git/pullrequests", pullRequestQuery(criteria))
	if err := c.call(ctx, http.MethodGet, target, nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

func pullRequestPath(repositoryID string, pullRequestID int, rest string) string {
	path := "pullrequests/" + strconv.Itoa(pullRequestID)
	if rest != "" {
		path += "/" + rest
	}
	return repoPath(repositoryID, path)
}

// GetPullRequest retrieves a single pull request.
func (c *DevOpsClient) GetPullRequest(ctx context.Context, project, repositoryID string, pullRequestID int) (*domain.GitPullRequest, error) {
	var pr domain.GitPullRequest
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, pullRequestPath(repositoryID, pullRequestID, ""), nil), nil, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetPullRequestCommits retrieves the commits of a pull request.
func (c *DevOpsClient) GetPullRequestCommits(ctx context.Context, project, repositoryID string, pullRequestID int) ([]domain.GitCommitRef, error) {
	var response listResponse[domain.GitCommitRef]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, pullRequestPath(repositoryID, pullRequestID, "commits"), nil), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// CreatePullRequest opens a pull request.
func (c *DevOpsClient) CreatePullRequest(ctx context.Context, project, repositoryID string, create *domain.PullRequestCreate) (*domain.GitPullRequest, error) {
	var pr domain.GitPullRequest
	if err := c.call(ctx, http.MethodPost, endpoint(c.baseURL, project, repoPath(repositoryID, "pullrequests"), nil), create, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// ListPullRequestThreads retrieves the discussion threads of a pull request.
func (c *DevOpsClient) ListPullRequestThreads(ctx context.Context, project, repositoryID string, pullRequestID int) ([]domain.GitPullRequestCommentThread, error) {
	var response listResponse[domain.GitPullRequestCommentThread]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, pullRequestPath(repositoryID, pullRequestID, "threads"), nil), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// ListThreadComments retrieves the comments of a thread.
func (c *DevOpsClient) ListThreadComments(ctx context.Context, project, repositoryID string, pullRequestID, threadID int) ([]domain.Comment, error) {
	path := pullRequestPath(repositoryID, pullRequestID, "threads/"+strconv.Itoa(threadID)+"/comments")
	var response listResponse[domain.Comment]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, path, nil), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// CreateThreadComment posts a comment into a thread.
func (c *DevOpsClient) CreateThreadComment(ctx context.Context, project, repositoryID string, pullRequestID, threadID int, comment *domain.CommentCreate) (*domain.Comment, error) {
	path := pullRequestPath(repositoryID, pullRequestID, "threads/"+strconv.Itoa(threadID)+"/comments")
	var created domain.Comment
	if err := c.call(ctx, http.MethodPost, endpoint(c.baseURL, project, path, nil), comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SearchCode runs a code search on the search host.
func (c *DevOpsClient) SearchCode(ctx context.Context, project string, req *domain.SearchRequest) (*domain.CodeSearchResponse, error) {
	var response domain.CodeSearchResponse
	if err := c.call(ctx, http.MethodPost, endpoint(c.searchURL, project, "search/codesearchresults", nil), req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SearchWiki runs a wiki search on the search host.
func (c *DevOpsClient) SearchWiki(ctx context.Context, project string, req *domain.SearchRequest) (*domain.WikiSearchResponse, error) {
	var response domain.WikiSearchResponse
	if err := c.call(ctx, http.MethodPost, endpoint(c.searchURL, project, "search/wikisearchresults", nil), req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SearchWorkItems runs a work item search on the search host.
func (c *DevOpsClient) SearchWorkItems(ctx context.Context, project string, req *domain.SearchRequest) (*domain.WorkItemSearchResponse, error) {
	var response domain.WorkItemSearchResponse
	if err := c.call(ctx, http.MethodPost, endpoint(c.searchURL, project, "search/workitemsearchresults", nil), req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListWikis retrieves the wikis of a project, or of the organization.
func (c *DevOpsClient) ListWikis(ctx context.Context, project string) ([]domain.WikiV2, error) {
	var response listResponse[domain.WikiV2]
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, "wiki/wikis", nil), nil, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// GetWikiPage retrieves a wiki page with its content.
func (c *DevOpsClient) GetWikiPage(ctx context.Context, project, wikiIdentifier, path string) (*domain.WikiPage, error) {
	query := url.Values{}
	query.Set("path", path)
	query.Set("includeContent", "true")

	var page domain.WikiPage
	target := endpoint(c.baseURL, project, "wiki/wikis/"+url.PathEscape(wikiIdentifier)+"/pages", query)
	if err := c.call(ctx, http.MethodGet, target, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetWorkItem retrieves one work item with all fields.
func (c *DevOpsClient) GetWorkItem(ctx context.Context, project string, id int) (*domain.WorkItem, error) {
	var item domain.WorkItem
	if err := c.call(ctx, http.MethodGet, endpoint(c.baseURL, project, "wit/workitems/"+strconv.Itoa(id), nil), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetWorkItemsBatch retrieves several work items in one call.
func (c *DevOpsClient) GetWorkItemsBatch(ctx context.Context, project string, ids []int) ([]domain.WorkItem, error) {
	body := struct {
		IDs []int `json:"ids"`
	}{IDs: ids}

	var response listResponse[domain.WorkItem]
	if err := c.call(ctx, http.MethodPost, endpoint(c.baseURL, project, "wit/workitemsbatch", nil), body, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

var _ domain.DevOpsClient = (*DevOpsClient)(nil)
