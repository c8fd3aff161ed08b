package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePullRequestStatus(t *testing.T) {
	tests := []struct {
		token string
		want  PullRequestStatus
	}{
		{"notSet", PullRequestStatusNotSet},
		{"active", PullRequestStatusActive},
		{"abandoned", PullRequestStatusAbandoned},
		{"completed", PullRequestStatusCompleted},
		{"all", PullRequestStatusAll},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParsePullRequestStatus(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.token, got.String())
		})
	}
}

func TestParsePullRequestStatus_Unknown(t *testing.T) {
	for _, token := range []string{"merged", "", "Active"} {
		_, err := ParsePullRequestStatus(token)
		require.Error(t, err, "token %q", token)
		assert.True(t, errors.Is(err, ErrUnknownPullRequestStatus))
	}
}

func TestPullRequestStatusJSON(t *testing.T) {
	var pr GitPullRequest
	require.NoError(t, json.Unmarshal([]byte(`{"pullRequestId":1,"status":"completed","title":"x"}`), &pr))
	assert.Equal(t, PullRequestStatusCompleted, pr.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"pullRequestId":1,"status":2,"title":"x"}`), &pr))
	assert.Equal(t, PullRequestStatusAbandoned, pr.Status)

	out, err := json.Marshal(PullRequestStatusActive)
	require.NoError(t, err)
	assert.Equal(t, "1", string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"pullRequestId":1,"status":"merged","title":"x"}`), &pr))
	assert.Equal(t, PullRequestStatusNotSet, pr.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":{"name":"active"}}`), &pr))
}

func TestPullRequestStatusJSON_UnknownNameKeepsList(t *testing.T) {
	var prs []GitPullRequest
	payload := `[{"pullRequestId":1,"status":"active"},{"pullRequestId":2,"status":"queued"}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &prs))

	require.Len(t, prs, 2)
	assert.Equal(t, PullRequestStatusActive, prs[0].Status)
	assert.Equal(t, PullRequestStatusNotSet, prs[1].Status)
}

func TestChangeTypeString(t *testing.T) {
	assert.Equal(t, "Edit", ChangeTypeEdit.String())
	assert.Equal(t, "None", ChangeTypeNone.String())
	assert.Equal(t, "Add, Edit", (ChangeTypeAdd | ChangeTypeEdit).String())
	assert.Equal(t, "Rename, 8192", (ChangeTypeRename | 8192).String())
}

func TestChangeTypeJSON(t *testing.T) {
	var change GitChange
	require.NoError(t, json.Unmarshal([]byte(`{"changeType":"edit"}`), &change))
	require.NotNil(t, change.ChangeType)
	assert.Equal(t, ChangeTypeEdit, *change.ChangeType)

	require.NoError(t, json.Unmarshal([]byte(`{"changeType":"add, rename"}`), &change))
	assert.Equal(t, ChangeTypeAdd|ChangeTypeRename, *change.ChangeType)

	require.NoError(t, json.Unmarshal([]byte(`{"changeType":16}`), &change))
	assert.Equal(t, ChangeTypeDelete, *change.ChangeType)

	var empty GitChange
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.ChangeType)

	require.NoError(t, json.Unmarshal([]byte(`{"changeType":"edit, teleport"}`), &change))
	assert.Equal(t, ChangeTypeEdit, *change.ChangeType)

	require.NoError(t, json.Unmarshal([]byte(`{"changeType":"teleport"}`), &change))
	assert.Equal(t, ChangeTypeNone, *change.ChangeType)

	assert.Error(t, json.Unmarshal([]byte(`{"changeType":true}`), &change))
}

func TestThreadAndCommentEnums(t *testing.T) {
	var thread GitPullRequestCommentThread
	require.NoError(t, json.Unmarshal([]byte(`{"status":2,"comments":[{"commentType":1},{"commentType":"system"}]}`), &thread))

	assert.Equal(t, ThreadStatus("fixed"), thread.Status)
	assert.Equal(t, CommentType("text"), thread.Comments[0].CommentType)
	assert.Equal(t, CommentType("system"), thread.Comments[1].CommentType)
}
