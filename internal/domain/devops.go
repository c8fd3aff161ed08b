package domain

// TeamProject represents an Azure DevOps project.
type TeamProject struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	URL            string `json:"url,omitempty"`
	State          string `json:"state,omitempty"`
	Revision       int64  `json:"revision,omitempty"`
	Visibility     string `json:"visibility,omitempty"`
	LastUpdateTime string `json:"lastUpdateTime,omitempty"`
}

// WebAPITeam represents a team within a project.
type WebAPITeam struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	IdentityURL string `json:"identityUrl,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
}

// IdentityRef is an upstream identity reference.
type IdentityRef struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	UniqueName  string `json:"uniqueName,omitempty"`
	URL         string `json:"url,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Descriptor  string `json:"descriptor,omitempty"`
}

// IdentityRefWithVote is a pull request reviewer.
type IdentityRefWithVote struct {
	IdentityRef
	Vote        int                   `json:"vote"`
	IsRequired  bool                  `json:"isRequired,omitempty"`
	HasDeclined bool                  `json:"hasDeclined,omitempty"`
	IsFlagged   bool                  `json:"isFlagged,omitempty"`
	ReviewerURL string                `json:"reviewerUrl,omitempty"`
	VotedFor    []IdentityRefWithVote `json:"votedFor,omitempty"`
}

// GitRepository represents a Git repository.
type GitRepository struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	URL             string       `json:"url,omitempty"`
	Project         *TeamProject `json:"project,omitempty"`
	DefaultBranch   string       `json:"defaultBranch,omitempty"`
	Size            *int64       `json:"size,omitempty"`
	RemoteURL       string       `json:"remoteUrl,omitempty"`
	SSHURL          string       `json:"sshUrl,omitempty"`
	WebURL          string       `json:"webUrl,omitempty"`
	IsDisabled      *bool        `json:"isDisabled,omitempty"`
	IsFork          *bool        `json:"isFork,omitempty"`
	IsInMaintenance *bool        `json:"isInMaintenance,omitempty"`
}

// GitRef is a ref (branch, tag, ...) in a repository.
type GitRef struct {
	Name     string       `json:"name"`
	ObjectID string       `json:"objectId,omitempty"`
	Creator  *IdentityRef `json:"creator,omitempty"`
	IsLocked bool         `json:"isLocked,omitempty"`
	URL      string       `json:"url,omitempty"`
}

// GitUserDate is the author or committer stamp of a commit.
type GitUserDate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date,omitempty"`
}

// GitCommitRef is a commit reference.
type GitCommitRef struct {
	CommitID         string         `json:"commitId"`
	Author           *GitUserDate   `json:"author,omitempty"`
	Committer        *GitUserDate   `json:"committer,omitempty"`
	Comment          string         `json:"comment,omitempty"`
	CommentTruncated bool           `json:"commentTruncated,omitempty"`
	ChangeCounts     map[string]int `json:"changeCounts,omitempty"`
	Parents          []string       `json:"parents,omitempty"`
	URL              string         `json:"url,omitempty"`
	RemoteURL        string         `json:"remoteUrl,omitempty"`
}

// GitPullRequest represents a pull request.
type GitPullRequest struct {
	PullRequestID         int                   `json:"pullRequestId"`
	CodeReviewID          int                   `json:"codeReviewId,omitempty"`
	Status                PullRequestStatus     `json:"status"`
	CreatedBy             *IdentityRef          `json:"createdBy,omitempty"`
	CreationDate          string                `json:"creationDate,omitempty"`
	ClosedDate            string                `json:"closedDate,omitempty"`
	Title                 string                `json:"title"`
	Description           string                `json:"description,omitempty"`
	SourceRefName         string                `json:"sourceRefName,omitempty"`
	TargetRefName         string                `json:"targetRefName,omitempty"`
	MergeStatus           string                `json:"mergeStatus,omitempty"`
	IsDraft               *bool                 `json:"isDraft,omitempty"`
	MergeID               string                `json:"mergeId,omitempty"`
	LastMergeSourceCommit *GitCommitRef         `json:"lastMergeSourceCommit,omitempty"`
	LastMergeTargetCommit *GitCommitRef         `json:"lastMergeTargetCommit,omitempty"`
	LastMergeCommit       *GitCommitRef         `json:"lastMergeCommit,omitempty"`
	Reviewers             []IdentityRefWithVote `json:"reviewers,omitempty"`
	Repository            *GitRepository        `json:"repository,omitempty"`
	URL                   string                `json:"url,omitempty"`
	SupportsIterations    bool                  `json:"supportsIterations,omitempty"`
}

// GitItem is a file or folder at a commit.
type GitItem struct {
	ObjectID         string `json:"objectId,omitempty"`
	OriginalObjectID string `json:"originalObjectId,omitempty"`
	GitObjectType    string `json:"gitObjectType,omitempty"`
	CommitID         string `json:"commitId,omitempty"`
	Path             string `json:"path,omitempty"`
	IsFolder         bool   `json:"isFolder,omitempty"`
	URL              string `json:"url,omitempty"`
}

// GitChange is one changed item in a diff.
type GitChange struct {
	ChangeID         *int        `json:"changeId,omitempty"`
	ChangeType       *ChangeType `json:"changeType,omitempty"`
	Item             *GitItem    `json:"item,omitempty"`
	SourceServerItem string      `json:"sourceServerItem,omitempty"`
	OriginalPath     string      `json:"originalPath,omitempty"`
	URL              string      `json:"url,omitempty"`
}

// GitCommitDiffs is the diff between two commits.
type GitCommitDiffs struct {
	AheadCount         *int           `json:"aheadCount,omitempty"`
	BehindCount        *int           `json:"behindCount,omitempty"`
	AllChangesIncluded bool           `json:"allChangesIncluded,omitempty"`
	ChangeCounts       map[string]int `json:"changeCounts,omitempty"`
	Changes            []GitChange    `json:"changes,omitempty"`
	CommonCommit       string         `json:"commonCommit,omitempty"`
	BaseCommit         string         `json:"baseCommit,omitempty"`
	TargetCommit       string         `json:"targetCommit,omitempty"`
}

// CommentThreadContext locates a thread in a file.
type CommentThreadContext struct {
	FilePath string `json:"filePath,omitempty"`
}

// GitPullRequestCommentThread is a discussion thread on a pull request.
type GitPullRequestCommentThread struct {
	ID              *int                  `json:"id,omitempty"`
	PublishedDate   string                `json:"publishedDate,omitempty"`
	LastUpdatedDate string                `json:"lastUpdatedDate,omitempty"`
	Status          ThreadStatus          `json:"status,omitempty"`
	Comments        []Comment             `json:"comments,omitempty"`
	ThreadContext   *CommentThreadContext `json:"threadContext,omitempty"`
	IsDeleted       bool                  `json:"isDeleted,omitempty"`
}

// Comment is a single comment in a thread.
type Comment struct {
	ID                     *int         `json:"id,omitempty"`
	ParentCommentID        *int         `json:"parentCommentId,omitempty"`
	Author                 *IdentityRef `json:"author,omitempty"`
	Content                string       `json:"content,omitempty"`
	PublishedDate          string       `json:"publishedDate,omitempty"`
	LastUpdatedDate        string       `json:"lastUpdatedDate,omitempty"`
	LastContentUpdatedDate string       `json:"lastContentUpdatedDate,omitempty"`
	CommentType            CommentType  `json:"commentType,omitempty"`
	IsDeleted              bool         `json:"isDeleted,omitempty"`
}

// WikiV2 is a project or code wiki.
type WikiV2 struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
	RepositoryID string `json:"repositoryId,omitempty"`
	MappedPath   string `json:"mappedPath,omitempty"`
	RemoteURL    string `json:"remoteUrl,omitempty"`
	URL          string `json:"url,omitempty"`
}

// WikiPage is a wiki page with optional content.
type WikiPage struct {
	ID           *int   `json:"id,omitempty"`
	Path         string `json:"path"`
	GitItemPath  string `json:"gitItemPath,omitempty"`
	Content      string `json:"content,omitempty"`
	IsParentPage bool   `json:"isParentPage,omitempty"`
	RemoteURL    string `json:"remoteUrl,omitempty"`
	URL          string `json:"url,omitempty"`
}

// WorkItem is a work item with its raw field bag.
type WorkItem struct {
	ID     int            `json:"id"`
	Rev    int            `json:"rev,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
	URL    string         `json:"url,omitempty"`
}

// SearchProjectRef names the project of a search hit.
type SearchProjectRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// SearchRepositoryRef names the repository of a code search hit.
type SearchRepositoryRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// SearchVersion is a branch/commit pair of a code search hit.
type SearchVersion struct {
	BranchName string `json:"branchName,omitempty"`
	ChangeID   string `json:"changeId,omitempty"`
}

// SearchHit is a highlighted field of a wiki or work item search hit.
type SearchHit struct {
	FieldReferenceName string   `json:"fieldReferenceName,omitempty"`
	Highlights         []string `json:"highlights,omitempty"`
}

// CodeSearchResult is one code search hit.
type CodeSearchResult struct {
	FileName   string               `json:"fileName"`
	Path       string               `json:"path"`
	Project    *SearchProjectRef    `json:"project,omitempty"`
	Repository *SearchRepositoryRef `json:"repository,omitempty"`
	Versions   []SearchVersion      `json:"versions,omitempty"`
	ContentID  string               `json:"contentId,omitempty"`
}

// CodeSearchResponse is the upstream code search payload.
type CodeSearchResponse struct {
	Count   int                `json:"count"`
	Results []CodeSearchResult `json:"results"`
}

// WikiSearchWikiRef names the wiki of a wiki search hit.
type WikiSearchWikiRef struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	MappedPath string `json:"mappedPath,omitempty"`
	Version    string `json:"version,omitempty"`
}

// WikiSearchResult is one wiki search hit.
type WikiSearchResult struct {
	FileName string             `json:"fileName"`
	Path     string             `json:"path"`
	Wiki     *WikiSearchWikiRef `json:"wiki,omitempty"`
	Project  *SearchProjectRef  `json:"project,omitempty"`
	Hits     []SearchHit        `json:"hits,omitempty"`
}

// WikiSearchResponse is the upstream wiki search payload.
type WikiSearchResponse struct {
	Count   int                `json:"count"`
	Results []WikiSearchResult `json:"results"`
}

// WorkItemSearchResult is one work item search hit.
type WorkItemSearchResult struct {
	Project *SearchProjectRef `json:"project,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Hits    []SearchHit       `json:"hits,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// WorkItemSearchResponse is the upstream work item search payload.
type WorkItemSearchResponse struct {
	Count   int                    `json:"count"`
	Results []WorkItemSearchResult `json:"results"`
}

// SearchRequest is the body posted to the search endpoints.
type SearchRequest struct {
	SearchText    string              `json:"searchText"`
	Skip          int                 `json:"$skip"`
	Top           int                 `json:"$top"`
	Filters       map[string][]string `json:"filters,omitempty"`
	IncludeFacets bool                `json:"includeFacets"`
}

// PullRequestSearchCriteria filters pull request listings.
type PullRequestSearchCriteria struct {
	Status     PullRequestStatus
	CreatorID  string
	ReviewerID string
	Top        int
	Skip       int
}

// CommitSearchCriteria filters commit listings.
type CommitSearchCriteria struct {
	BranchName string // optional; defaults to the repository default branch upstream
	Top        int
	Skip       int
}

// PullRequestCreate is the request body for creating a pull request.
type PullRequestCreate struct {
	SourceRefName string `json:"sourceRefName"`
	TargetRefName string `json:"targetRefName"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	IsDraft       bool   `json:"isDraft"`
}

// CommentCreate is the request body for replying in a thread.
type CommentCreate struct {
	Content         string `json:"content"`
	ParentCommentID int    `json:"parentCommentId"`
	CommentType     int    `json:"commentType"`
}
