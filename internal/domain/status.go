package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PullRequestStatus is the upstream numeric pull request status.
type PullRequestStatus int

const (
	PullRequestStatusNotSet    PullRequestStatus = 0
	PullRequestStatusActive    PullRequestStatus = 1
	PullRequestStatusAbandoned PullRequestStatus = 2
	PullRequestStatusCompleted PullRequestStatus = 3
	PullRequestStatusAll       PullRequestStatus = 4
)

// PullRequestStatusTokens lists the caller-facing status tokens.
var PullRequestStatusTokens = []string{"abandoned", "active", "all", "completed", "notSet"}

// ErrUnknownPullRequestStatus is returned for a token outside PullRequestStatusTokens.
var ErrUnknownPullRequestStatus = errors.New("unknown pull request status")

var pullRequestStatusByToken = map[string]PullRequestStatus{
	"abandoned": PullRequestStatusAbandoned,
	"active":    PullRequestStatusActive,
	"all":       PullRequestStatusAll,
	"completed": PullRequestStatusCompleted,
	"notSet":    PullRequestStatusNotSet,
}

// ParsePullRequestStatus converts a caller token to the upstream status.
// Tokens match exactly; anything else is an error, never a default.
func ParsePullRequestStatus(token string) (PullRequestStatus, error) {
	status, ok := pullRequestStatusByToken[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownPullRequestStatus, token, strings.Join(PullRequestStatusTokens, ", "))
	}
	return status, nil
}

// String returns the caller token for the status.
func (s PullRequestStatus) String() string {
	for token, status := range pullRequestStatusByToken {
		if status == s {
			return token
		}
	}
	return strconv.Itoa(int(s))
}

// UnmarshalJSON accepts the numeric form and the REST string form. A name
// added upstream after this client decodes as NotSet.
func (s *PullRequestStatus) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = PullRequestStatus(n)
		return nil
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("pull request status: %w", err)
	}
	for known, status := range pullRequestStatusByToken {
		if strings.EqualFold(known, token) {
			*s = status
			return nil
		}
	}
	*s = PullRequestStatusNotSet
	return nil
}

// ChangeType is the upstream version control change type bit set.
type ChangeType int

const (
	ChangeTypeNone         ChangeType = 0
	ChangeTypeAdd          ChangeType = 1
	ChangeTypeEdit         ChangeType = 2
	ChangeTypeEncoding     ChangeType = 4
	ChangeTypeRename       ChangeType = 8
	ChangeTypeDelete       ChangeType = 16
	ChangeTypeUndelete     ChangeType = 32
	ChangeTypeBranch       ChangeType = 64
	ChangeTypeMerge        ChangeType = 128
	ChangeTypeLock         ChangeType = 256
	ChangeTypeRollback     ChangeType = 512
	ChangeTypeSourceRename ChangeType = 1024
	ChangeTypeTargetRename ChangeType = 2048
	ChangeTypeProperty     ChangeType = 4096
)

var changeTypeNames = []struct {
	flag ChangeType
	name string
}{
	{ChangeTypeAdd, "Add"},
	{ChangeTypeEdit, "Edit"},
	{ChangeTypeEncoding, "Encoding"},
	{ChangeTypeRename, "Rename"},
	{ChangeTypeDelete, "Delete"},
	{ChangeTypeUndelete, "Undelete"},
	{ChangeTypeBranch, "Branch"},
	{ChangeTypeMerge, "Merge"},
	{ChangeTypeLock, "Lock"},
	{ChangeTypeRollback, "Rollback"},
	{ChangeTypeSourceRename, "SourceRename"},
	{ChangeTypeTargetRename, "TargetRename"},
	{ChangeTypeProperty, "Property"},
}

// String renders the symbolic name; combined flags are joined with ", ".
func (c ChangeType) String() string {
	if c == ChangeTypeNone {
		return "None"
	}
	var parts []string
	rest := c
	for _, entry := range changeTypeNames {
		if c&entry.flag != 0 {
			parts = append(parts, entry.name)
			rest &^= entry.flag
		}
	}
	if rest != 0 {
		parts = append(parts, strconv.Itoa(int(rest)))
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON accepts a number or a comma-separated list of names.
// Names it does not know are skipped.
func (c *ChangeType) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = ChangeType(n)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("change type: %w", err)
	}
	var result ChangeType
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "none") {
			continue
		}
		for _, entry := range changeTypeNames {
			if strings.EqualFold(entry.name, part) {
				result |= entry.flag
				break
			}
		}
	}
	*c = result
	return nil
}

// enumString decodes an upstream enum that arrives either as its REST
// string form or as its numeric index into names.
func enumString(data []byte, names []string) (string, error) {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n >= 0 && n < len(names) {
			return names[n], nil
		}
		return strconv.Itoa(n), nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return "", err
	}
	return text, nil
}

// ThreadStatus is a pull request comment thread status.
type ThreadStatus string

var threadStatusNames = []string{"unknown", "active", "fixed", "wontFix", "closed", "byDesign", "pending"}

// UnmarshalJSON accepts the numeric and string forms.
func (s *ThreadStatus) UnmarshalJSON(data []byte) error {
	text, err := enumString(data, threadStatusNames)
	if err != nil {
		return fmt.Errorf("thread status: %w", err)
	}
	*s = ThreadStatus(text)
	return nil
}

// CommentType is a pull request comment type.
type CommentType string

var commentTypeNames = []string{"unknown", "text", "codeChange", "system"}

// UnmarshalJSON accepts the numeric and string forms.
func (t *CommentType) UnmarshalJSON(data []byte) error {
	text, err := enumString(data, commentTypeNames)
	if err != nil {
		return fmt.Errorf("comment type: %w", err)
	}
	*t = CommentType(text)
	return nil
}
