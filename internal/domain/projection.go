package domain

import (
	"strings"
)

// Projections are the compact result shapes returned to callers. Every
// Project* function is total: nil input yields nil, and nil nested entities
// are omitted from the output.

// IdentityResult is an identity reduced to id, display name and unique name.
type IdentityResult struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	UniqueName  string `json:"uniqueName,omitempty"`
}

// ReviewerResult is an identity with its vote.
type ReviewerResult struct {
	IdentityResult
	Vote       int  `json:"vote"`
	IsRequired bool `json:"isRequired,omitempty"`
}

// ProjectResult is a compact project.
type ProjectResult struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	State          string `json:"state,omitempty"`
	Visibility     string `json:"visibility,omitempty"`
	LastUpdateTime string `json:"lastUpdateTime,omitempty"`
}

// TeamResult is a compact team.
type TeamResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RepositoryResult is a compact repository.
type RepositoryResult struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DefaultBranch   string `json:"defaultBranch,omitempty"`
	IsDisabled      *bool  `json:"isDisabled,omitempty"`
	IsFork          *bool  `json:"isFork,omitempty"`
	IsInMaintenance *bool  `json:"isInMaintenance,omitempty"`
	WebURL          string `json:"webUrl,omitempty"`
	Size            *int64 `json:"size,omitempty"`
	ProjectName     string `json:"projectName,omitempty"`
}

// CommitResult is a compact commit.
type CommitResult struct {
	CommitID  string       `json:"commitId"`
	Author    *GitUserDate `json:"author,omitempty"`
	Committer *GitUserDate `json:"committer,omitempty"`
	Comment   string       `json:"comment,omitempty"`
}

// PullRequestResult is a compact pull request as returned by listings.
type PullRequestResult struct {
	PullRequestID  int               `json:"pullRequestId"`
	CodeReviewID   int               `json:"codeReviewId,omitempty"`
	RepositoryName string            `json:"repositoryName,omitempty"`
	Status         PullRequestStatus `json:"status"`
	CreatedBy      *IdentityResult   `json:"createdBy,omitempty"`
	CreationDate   string            `json:"creationDate,omitempty"`
	Title          string            `json:"title"`
	IsDraft        *bool             `json:"isDraft,omitempty"`
	SourceRefName  string            `json:"sourceRefName,omitempty"`
	TargetRefName  string            `json:"targetRefName,omitempty"`
}

// PullRequestDetailResult adds description, merge state and reviewers.
type PullRequestDetailResult struct {
	PullRequestResult
	Description           string           `json:"description,omitempty"`
	ClosedDate            string           `json:"closedDate,omitempty"`
	MergeStatus           string           `json:"mergeStatus,omitempty"`
	LastMergeSourceCommit *CommitResult    `json:"lastMergeSourceCommit,omitempty"`
	LastMergeTargetCommit *CommitResult    `json:"lastMergeTargetCommit,omitempty"`
	Reviewers             []ReviewerResult `json:"reviewers,omitempty"`
}

// ItemResult is a compact git item.
type ItemResult struct {
	ObjectID      string `json:"objectId,omitempty"`
	GitObjectType string `json:"gitObjectType,omitempty"`
	CommitID      string `json:"commitId,omitempty"`
	Path          string `json:"path,omitempty"`
	IsFolder      bool   `json:"isFolder,omitempty"`
}

// ChangeResult is a compact change with its symbolic change type.
type ChangeResult struct {
	ChangeType   *string     `json:"changeType,omitempty"`
	Item         *ItemResult `json:"item,omitempty"`
	OriginalPath string      `json:"originalPath,omitempty"`
}

// CommitDiffResult is a compact diff between two commits.
type CommitDiffResult struct {
	AheadCount   *int           `json:"aheadCount,omitempty"`
	BehindCount  *int           `json:"behindCount,omitempty"`
	CommonCommit string         `json:"commonCommit,omitempty"`
	BaseCommit   string         `json:"baseCommit,omitempty"`
	TargetCommit string         `json:"targetCommit,omitempty"`
	Changes      []ChangeResult `json:"changes"`
}

// PullRequestWithChangesResult is the composite pull request lookup.
type PullRequestWithChangesResult struct {
	PullRequest *PullRequestDetailResult `json:"pullRequest"`
	Commits     []CommitResult           `json:"commits"`
	Diff        *CommitDiffResult        `json:"diff,omitempty"`
}

// BranchResult is a single branch.
type BranchResult struct {
	Name     string          `json:"name"`
	ObjectID string          `json:"objectId,omitempty"`
	Creator  *IdentityResult `json:"creator,omitempty"`
	IsLocked bool            `json:"isLocked,omitempty"`
}

// CommentResult is a compact thread comment.
type CommentResult struct {
	ID              *int            `json:"id,omitempty"`
	ParentCommentID *int            `json:"parentCommentId,omitempty"`
	Author          *IdentityResult `json:"author,omitempty"`
	Content         string          `json:"content,omitempty"`
	PublishedDate   string          `json:"publishedDate,omitempty"`
	LastUpdatedDate string          `json:"lastUpdatedDate,omitempty"`
	CommentType     CommentType     `json:"commentType,omitempty"`
}

// ThreadResult is a compact comment thread.
type ThreadResult struct {
	ID              *int            `json:"id,omitempty"`
	Status          ThreadStatus    `json:"status,omitempty"`
	FilePath        string          `json:"filePath,omitempty"`
	PublishedDate   string          `json:"publishedDate,omitempty"`
	LastUpdatedDate string          `json:"lastUpdatedDate,omitempty"`
	Comments        []CommentResult `json:"comments,omitempty"`
}

// WikiResult is a compact wiki.
type WikiResult struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
	RepositoryID string `json:"repositoryId,omitempty"`
	MappedPath   string `json:"mappedPath,omitempty"`
}

// WikiPageResult is a wiki page and its content.
type WikiPageResult struct {
	Path        string `json:"path"`
	GitItemPath string `json:"gitItemPath,omitempty"`
	Content     string `json:"content"`
}

// WorkItemResult keeps the identifying and commonly read fields of a work item.
type WorkItemResult struct {
	ID            int             `json:"id"`
	Rev           int             `json:"rev,omitempty"`
	Title         string          `json:"title,omitempty"`
	WorkItemType  string          `json:"workItemType,omitempty"`
	State         string          `json:"state,omitempty"`
	AssignedTo    *IdentityResult `json:"assignedTo,omitempty"`
	AreaPath      string          `json:"areaPath,omitempty"`
	IterationPath string          `json:"iterationPath,omitempty"`
	CreatedDate   string          `json:"createdDate,omitempty"`
	ChangedDate   string          `json:"changedDate,omitempty"`
}

// CodeSearchHit is a compact code search hit.
type CodeSearchHit struct {
	FileName   string   `json:"fileName"`
	Path       string   `json:"path"`
	Project    string   `json:"project,omitempty"`
	Repository string   `json:"repository,omitempty"`
	Branches   []string `json:"branches,omitempty"`
}

// WikiSearchHit is a compact wiki search hit.
type WikiSearchHit struct {
	FileName   string   `json:"fileName"`
	Path       string   `json:"path"`
	Wiki       string   `json:"wiki,omitempty"`
	Project    string   `json:"project,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// WorkItemSearchHit is a compact work item search hit.
type WorkItemSearchHit struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title,omitempty"`
	WorkItemType string   `json:"workItemType,omitempty"`
	State        string   `json:"state,omitempty"`
	AssignedTo   string   `json:"assignedTo,omitempty"`
	Project      string   `json:"project,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// SearchResults wraps a page of hits with the upstream total.
type SearchResults[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// ProjectIdentity reduces an identity.
func ProjectIdentity(identity *IdentityRef) *IdentityResult {
	if identity == nil {
		return nil
	}
	return &IdentityResult{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		UniqueName:  identity.UniqueName,
	}
}

// ProjectReviewer reduces an identity with vote.
func ProjectReviewer(reviewer IdentityRefWithVote) ReviewerResult {
	return ReviewerResult{
		IdentityResult: *ProjectIdentity(&reviewer.IdentityRef),
		Vote:           reviewer.Vote,
		IsRequired:     reviewer.IsRequired,
	}
}

// ProjectProject reduces a team project.
func ProjectProject(project TeamProject) ProjectResult {
	return ProjectResult{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		State:          project.State,
		Visibility:     project.Visibility,
		LastUpdateTime: project.LastUpdateTime,
	}
}

// ProjectTeam reduces a team.
func ProjectTeam(team WebAPITeam) TeamResult {
	return TeamResult{ID: team.ID, Name: team.Name, Description: team.Description}
}

// ProjectRepository reduces a repository.
func ProjectRepository(repo *GitRepository) *RepositoryResult {
	if repo == nil {
		return nil
	}
	result := &RepositoryResult{
		ID:              repo.ID,
		Name:            repo.Name,
		DefaultBranch:   repo.DefaultBranch,
		IsDisabled:      repo.IsDisabled,
		IsFork:          repo.IsFork,
		IsInMaintenance: repo.IsInMaintenance,
		WebURL:          repo.WebURL,
		Size:            repo.Size,
	}
	if repo.Project != nil {
		result.ProjectName = repo.Project.Name
	}
	return result
}

// ProjectCommit reduces a commit.
func ProjectCommit(commit *GitCommitRef) *CommitResult {
	if commit == nil {
		return nil
	}
	return &CommitResult{
		CommitID:  commit.CommitID,
		Author:    commit.Author,
		Committer: commit.Committer,
		Comment:   commit.Comment,
	}
}

// ProjectPullRequest reduces a pull request for listings.
func ProjectPullRequest(pr *GitPullRequest) *PullRequestResult {
	if pr == nil {
		return nil
	}
	result := &PullRequestResult{
		PullRequestID: pr.PullRequestID,
		CodeReviewID:  pr.CodeReviewID,
		Status:        pr.Status,
		CreatedBy:     ProjectIdentity(pr.CreatedBy),
		CreationDate:  pr.CreationDate,
		Title:         pr.Title,
		IsDraft:       pr.IsDraft,
		SourceRefName: pr.SourceRefName,
		TargetRefName: pr.TargetRefName,
	}
	if pr.Repository != nil {
		result.RepositoryName = pr.Repository.Name
	}
	return result
}

// ProjectPullRequestDetail reduces a pull request for single lookups.
func ProjectPullRequestDetail(pr *GitPullRequest) *PullRequestDetailResult {
	if pr == nil {
		return nil
	}
	result := &PullRequestDetailResult{
		PullRequestResult:     *ProjectPullRequest(pr),
		Description:           pr.Description,
		ClosedDate:            pr.ClosedDate,
		MergeStatus:           pr.MergeStatus,
		LastMergeSourceCommit: ProjectCommit(pr.LastMergeSourceCommit),
		LastMergeTargetCommit: ProjectCommit(pr.LastMergeTargetCommit),
	}
	for _, reviewer := range pr.Reviewers {
		result.Reviewers = append(result.Reviewers, ProjectReviewer(reviewer))
	}
	return result
}

// ProjectItem reduces a git item.
func ProjectItem(item *GitItem) *ItemResult {
	if item == nil {
		return nil
	}
	return &ItemResult{
		ObjectID:      item.ObjectID,
		GitObjectType: item.GitObjectType,
		CommitID:      item.CommitID,
		Path:          item.Path,
		IsFolder:      item.IsFolder,
	}
}

// ProjectChangeType renders a change type by name. Nil stays nil.
func ProjectChangeType(changeType *ChangeType) *string {
	if changeType == nil {
		return nil
	}
	name := changeType.String()
	return &name
}

// ProjectChange reduces a change.
func ProjectChange(change GitChange) ChangeResult {
	return ChangeResult{
		ChangeType:   ProjectChangeType(change.ChangeType),
		Item:         ProjectItem(change.Item),
		OriginalPath: change.OriginalPath,
	}
}

// ProjectCommitDiffs reduces a commit diff.
func ProjectCommitDiffs(diffs *GitCommitDiffs) *CommitDiffResult {
	if diffs == nil {
		return nil
	}
	result := &CommitDiffResult{
		AheadCount:   diffs.AheadCount,
		BehindCount:  diffs.BehindCount,
		CommonCommit: diffs.CommonCommit,
		BaseCommit:   diffs.BaseCommit,
		TargetCommit: diffs.TargetCommit,
		Changes:      make([]ChangeResult, 0, len(diffs.Changes)),
	}
	for _, change := range diffs.Changes {
		result.Changes = append(result.Changes, ProjectChange(change))
	}
	return result
}

// ProjectBranch reduces a ref that is known to be a branch.
func ProjectBranch(ref *GitRef) *BranchResult {
	if ref == nil {
		return nil
	}
	return &BranchResult{
		Name:     strings.TrimPrefix(ref.Name, BranchRefPrefix),
		ObjectID: ref.ObjectID,
		Creator:  ProjectIdentity(ref.Creator),
		IsLocked: ref.IsLocked,
	}
}

// ProjectComment reduces a comment.
func ProjectComment(comment *Comment) *CommentResult {
	if comment == nil {
		return nil
	}
	return &CommentResult{
		ID:              comment.ID,
		ParentCommentID: comment.ParentCommentID,
		Author:          ProjectIdentity(comment.Author),
		Content:         comment.Content,
		PublishedDate:   comment.PublishedDate,
		LastUpdatedDate: comment.LastUpdatedDate,
		CommentType:     comment.CommentType,
	}
}

// ProjectThread reduces a thread; its comments are kept in id order.
func ProjectThread(thread *GitPullRequestCommentThread) *ThreadResult {
	if thread == nil {
		return nil
	}
	result := &ThreadResult{
		ID:              thread.ID,
		Status:          thread.Status,
		PublishedDate:   thread.PublishedDate,
		LastUpdatedDate: thread.LastUpdatedDate,
	}
	if thread.ThreadContext != nil {
		result.FilePath = thread.ThreadContext.FilePath
	}
	comments := append([]Comment(nil), thread.Comments...)
	SortCommentsByID(comments)
	for i := range comments {
		result.Comments = append(result.Comments, *ProjectComment(&comments[i]))
	}
	return result
}

// ProjectWiki reduces a wiki.
func ProjectWiki(wiki WikiV2) WikiResult {
	return WikiResult{
		ID:           wiki.ID,
		Name:         wiki.Name,
		Type:         wiki.Type,
		ProjectID:    wiki.ProjectID,
		RepositoryID: wiki.RepositoryID,
		MappedPath:   wiki.MappedPath,
	}
}

// ProjectWikiPage reduces a wiki page.
func ProjectWikiPage(page *WikiPage) *WikiPageResult {
	if page == nil {
		return nil
	}
	return &WikiPageResult{Path: page.Path, GitItemPath: page.GitItemPath, Content: page.Content}
}

// Work item field reference names.
const (
	FieldTitle         = "System.Title"
	FieldWorkItemType  = "System.WorkItemType"
	FieldState         = "System.State"
	FieldAssignedTo    = "System.AssignedTo"
	FieldAreaPath      = "System.AreaPath"
	FieldIterationPath = "System.IterationPath"
	FieldCreatedDate   = "System.CreatedDate"
	FieldChangedDate   = "System.ChangedDate"
	FieldTeamProject   = "System.TeamProject"
	FieldID            = "System.Id"
)

// ProjectWorkItem reduces a work item to its common fields.
func ProjectWorkItem(item *WorkItem) *WorkItemResult {
	if item == nil {
		return nil
	}
	return &WorkItemResult{
		ID:            item.ID,
		Rev:           item.Rev,
		Title:         stringField(item.Fields, FieldTitle),
		WorkItemType:  stringField(item.Fields, FieldWorkItemType),
		State:         stringField(item.Fields, FieldState),
		AssignedTo:    identityField(item.Fields, FieldAssignedTo),
		AreaPath:      stringField(item.Fields, FieldAreaPath),
		IterationPath: stringField(item.Fields, FieldIterationPath),
		CreatedDate:   stringField(item.Fields, FieldCreatedDate),
		ChangedDate:   stringField(item.Fields, FieldChangedDate),
	}
}

// ProjectCodeSearchResult reduces a code search hit.
func ProjectCodeSearchResult(hit CodeSearchResult) CodeSearchHit {
	result := CodeSearchHit{FileName: hit.FileName, Path: hit.Path}
	if hit.Project != nil {
		result.Project = hit.Project.Name
	}
	if hit.Repository != nil {
		result.Repository = hit.Repository.Name
	}
	for _, version := range hit.Versions {
		if version.BranchName != "" {
			result.Branches = append(result.Branches, version.BranchName)
		}
	}
	return result
}

// ProjectWikiSearchResult reduces a wiki search hit.
func ProjectWikiSearchResult(hit WikiSearchResult) WikiSearchHit {
	result := WikiSearchHit{FileName: hit.FileName, Path: hit.Path, Highlights: highlights(hit.Hits)}
	if hit.Wiki != nil {
		result.Wiki = hit.Wiki.Name
	}
	if hit.Project != nil {
		result.Project = hit.Project.Name
	}
	return result
}

// ProjectWorkItemSearchResult reduces a work item search hit.
func ProjectWorkItemSearchResult(hit WorkItemSearchResult) WorkItemSearchHit {
	result := WorkItemSearchHit{
		ID:           hit.Fields[FieldID],
		Title:        hit.Fields[FieldTitle],
		WorkItemType: hit.Fields[FieldWorkItemType],
		State:        hit.Fields[FieldState],
		AssignedTo:   hit.Fields[FieldAssignedTo],
		Highlights:   highlights(hit.Hits),
	}
	if hit.Project != nil {
		result.Project = hit.Project.Name
	}
	if result.Project == "" {
		result.Project = hit.Fields[FieldTeamProject]
	}
	return result
}

func highlights(hits []SearchHit) []string {
	var out []string
	for _, hit := range hits {
		out = append(out, hit.Highlights...)
	}
	return out
}

func stringField(fields map[string]any, name string) string {
	if value, ok := fields[name].(string); ok {
		return value
	}
	return ""
}

// identityField reads an identity-valued field, which arrives either as an
// identity object or as a "Display Name <unique@name>" string.
func identityField(fields map[string]any, name string) *IdentityResult {
	switch value := fields[name].(type) {
	case map[string]any:
		identity := &IdentityResult{}
		identity.ID, _ = value["id"].(string)
		identity.DisplayName, _ = value["displayName"].(string)
		identity.UniqueName, _ = value["uniqueName"].(string)
		return identity
	case string:
		if value == "" {
			return nil
		}
		return &IdentityResult{DisplayName: value}
	default:
		return nil
	}
}
