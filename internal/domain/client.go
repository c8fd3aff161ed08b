package domain

import (
	"context"
)

// DevOpsClient defines the upstream operations the tools consume.
// An empty project argument addresses organization-scoped endpoints.
type DevOpsClient interface {
	// Core
	// ListProjects and ListTeams return the whole collection, walking
	// upstream pages.
	ListProjects(ctx context.Context) ([]TeamProject, error)
	ListTeams(ctx context.Context, project string) ([]WebAPITeam, error)

	// Repositories
	ListRepositories(ctx context.Context, project string) ([]GitRepository, error)
	ListRefs(ctx context.Context, project, repositoryID, filter string) ([]GitRef, error)
	ListCommits(ctx context.Context, project, repositoryID string, criteria CommitSearchCriteria) ([]GitCommitRef, error)
	GetCommitDiffs(ctx context.Context, project, repositoryID, baseCommit, targetCommit string) (*GitCommitDiffs, error)

	// Pull requests
	ListPullRequestsByRepository(ctx context.Context, project, repositoryID string, criteria PullRequestSearchCriteria) ([]GitPullRequest, error)
	ListPullRequestsByProject(ctx context.Context, project string, criteria PullRequestSearchCriteria) ([]GitPullRequest, error)
	GetPullRequest(ctx context.Context, project, repositoryID string, pullRequestID int) (*GitPullRequest, error)
	GetPullRequestCommits(ctx context.Context, project, repositoryID string, pullRequestID int) ([]GitCommitRef, error)
	CreatePullRequest(ctx context.Context, project, repositoryID string, create *PullRequestCreate) (*GitPullRequest, error)
	ListPullRequestThreads(ctx context.Context, project, repositoryID string, pullRequestID int) ([]GitPullRequestCommentThread, error)
	ListThreadComments(ctx context.Context, project, repositoryID string, pullRequestID, threadID int) ([]Comment, error)
	CreateThreadComment(ctx context.Context, project, repositoryID string, pullRequestID, threadID int, comment *CommentCreate) (*Comment, error)

	// Search
	SearchCode(ctx context.Context, project string, req *SearchRequest) (*CodeSearchResponse, error)
	SearchWiki(ctx context.Context, project string, req *SearchRequest) (*WikiSearchResponse, error)
	SearchWorkItems(ctx context.Context, project string, req *SearchRequest) (*WorkItemSearchResponse, error)

	// Wiki
	ListWikis(ctx context.Context, project string) ([]WikiV2, error)
	GetWikiPage(ctx context.Context, project, wikiIdentifier, path string) (*WikiPage, error)

	// Work items
	GetWorkItem(ctx context.Context, project string, id int) (*WorkItem, error)
	GetWorkItemsBatch(ctx context.Context, project string, ids []int) ([]WorkItem, error)
}

// ConnectionProvider returns an authenticated upstream client.
type ConnectionProvider func(ctx context.Context) (DevOpsClient, error)

// TokenProvider returns the credential passed upstream.
type TokenProvider func(ctx context.Context) (string, error)

// UserAgentProvider returns the User-Agent sent upstream.
type UserAgentProvider func() string
