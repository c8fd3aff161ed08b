package domain

import (
	"sort"
	"strings"
)

// BranchRefPrefix is the namespace of branch refs.
const BranchRefPrefix = "refs/heads/"

// Default page sizes.
const (
	DefaultTop       = 100
	DefaultCommitTop = 10
	DefaultSearchTop = 10
	DefaultCodeTop   = 5
)

// Paginate returns items[skip : skip+top]. Out-of-range bounds never fail:
// a skip past the end yields an empty slice and a short tail is returned
// as is. Negative arguments are treated as zero.
func Paginate[T any](items []T, skip, top int) []T {
	if skip < 0 {
		skip = 0
	}
	if top < 0 {
		top = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := skip + top
	if end > len(items) || end < skip {
		end = len(items)
	}
	page := make([]T, end-skip)
	copy(page, items[skip:end])
	return page
}

// SortRepositoriesByName orders repositories by name, ascending.
func SortRepositoriesByName(repos []GitRepository) {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})
}

// SortProjectsByName orders projects by name, ascending.
func SortProjectsByName(projects []TeamProject) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})
}

// SortTeamsByName orders teams by name, ascending.
func SortTeamsByName(teams []WebAPITeam) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})
}

// SortWikisByName orders wikis by name, ascending.
func SortWikisByName(wikis []WikiV2) {
	sort.SliceStable(wikis, func(i, j int) bool {
		return wikis[i].Name < wikis[j].Name
	})
}

// BranchNames keeps refs under refs/heads/, strips the prefix and sorts
// the names in descending order.
func BranchNames(refs []GitRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !strings.HasPrefix(ref.Name, BranchRefPrefix) {
			continue
		}
		names = append(names, strings.TrimPrefix(ref.Name, BranchRefPrefix))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}

// SortThreadsByID orders threads by id, ascending. A missing id sorts as 0.
func SortThreadsByID(threads []GitPullRequestCommentThread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return idOrZero(threads[i].ID) < idOrZero(threads[j].ID)
	})
}

// SortCommentsByID orders comments by id, ascending. A missing id sorts as 0.
func SortCommentsByID(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return idOrZero(comments[i].ID) < idOrZero(comments[j].ID)
	})
}

func idOrZero(id *int) int {
	if id == nil {
		return 0
	}
	return *id
}
