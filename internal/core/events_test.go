package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushEvent(ref string) *github.PushEvent {
	return &github.PushEvent{
		Ref:   github.Ptr(ref),
		After: github.Ptr("abc123"),
		Repo: &github.PushEventRepository{
			Name:     github.Ptr("brigantine"),
			FullName: github.Ptr("brigantine-ci/brigantine"),
			Owner:    &github.User{Login: github.Ptr("brigantine-ci")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	}
}

func TestEventFromPush(t *testing.T) {
	event, err := EventFromPush(pushEvent("refs/tags/v1.0.0"))

	require.NoError(t, err)
	assert.Equal(t, "push", event.Category)
	assert.Equal(t, "", event.Action)
	assert.Equal(t, "refs/tags/v1.0.0", event.Revision.Ref)
	assert.Equal(t, "abc123", event.Revision.Commit)
	assert.Equal(t, "brigantine-ci", event.RepoOwner)
	assert.Equal(t, int64(42), event.InstallationID)
	assert.NotEmpty(t, event.BuildID)
	assert.Empty(t, event.Payload.CommentBody())
	assert.Empty(t, event.Payload.CheckName())
}

func TestEventFromPushMissingRepo(t *testing.T) {
	_, err := EventFromPush(&github.PushEvent{Ref: github.Ptr("refs/heads/master")})
	assert.Error(t, err)
}

func TestEventFromPushMissingRef(t *testing.T) {
	raw := pushEvent("")
	_, err := EventFromPush(raw)
	assert.Error(t, err)
}

func TestBuildIDsAreDistinct(t *testing.T) {
	first, err := EventFromPush(pushEvent("refs/heads/master"))
	require.NoError(t, err)
	second, err := EventFromPush(pushEvent("refs/heads/master"))
	require.NoError(t, err)

	assert.NotEqual(t, first.BuildID, second.BuildID)
}

func TestEventFromCheckSuite(t *testing.T) {
	raw := &github.CheckSuiteEvent{
		Action: github.Ptr("requested"),
		CheckSuite: &github.CheckSuite{
			HeadBranch: github.Ptr("feature/x"),
			HeadSHA:    github.Ptr("def456"),
		},
		Repo: &github.Repository{
			Name:     github.Ptr("brigantine"),
			FullName: github.Ptr("brigantine-ci/brigantine"),
			Owner:    &github.User{Login: github.Ptr("brigantine-ci")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	}

	event, err := EventFromCheckSuite(raw)

	require.NoError(t, err)
	assert.Equal(t, "check_suite", event.Category)
	assert.Equal(t, "requested", event.Action)
	assert.Equal(t, "feature/x", event.Revision.Ref)
	assert.Equal(t, "def456", event.Revision.Commit)
}

func TestEventFromCheckRun(t *testing.T) {
	raw := &github.CheckRunEvent{
		Action: github.Ptr("rerequested"),
		CheckRun: &github.CheckRun{
			Name:    github.Ptr("tests"),
			HeadSHA: github.Ptr("def456"),
			CheckSuite: &github.CheckSuite{
				HeadBranch: github.Ptr("feature/x"),
			},
		},
		Repo: &github.Repository{
			Name:     github.Ptr("brigantine"),
			FullName: github.Ptr("brigantine-ci/brigantine"),
			Owner:    &github.User{Login: github.Ptr("brigantine-ci")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	}

	event, err := EventFromCheckRun(raw)

	require.NoError(t, err)
	assert.Equal(t, "check_run", event.Category)
	assert.Equal(t, "tests", event.Payload.CheckName())
	assert.Equal(t, "feature/x", event.Revision.Ref)
}

func TestEventFromCheckRunMissingName(t *testing.T) {
	raw := &github.CheckRunEvent{
		Action:   github.Ptr("rerequested"),
		CheckRun: &github.CheckRun{},
		Repo: &github.Repository{
			Name:  github.Ptr("brigantine"),
			Owner: &github.User{Login: github.Ptr("brigantine-ci")},
		},
	}
	_, err := EventFromCheckRun(raw)
	assert.Error(t, err)
}

func TestEventFromIssueComment(t *testing.T) {
	raw := &github.IssueCommentEvent{
		Action:  github.Ptr("created"),
		Comment: &github.IssueComment{Body: github.Ptr("/brig run")},
		Repo: &github.Repository{
			Name:          github.Ptr("brigantine"),
			FullName:      github.Ptr("brigantine-ci/brigantine"),
			Owner:         &github.User{Login: github.Ptr("brigantine-ci")},
			DefaultBranch: github.Ptr("main"),
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	}

	event, err := EventFromIssueComment(raw)

	require.NoError(t, err)
	assert.Equal(t, "issue_comment", event.Category)
	assert.Equal(t, "created", event.Action)
	assert.Equal(t, "/brig run", event.Payload.CommentBody())
	assert.Equal(t, "main", event.Revision.Ref)
}

func TestNewExecEvent(t *testing.T) {
	event := NewExecEvent("refs/heads/master", "abc123")

	assert.Equal(t, "exec", event.Category)
	assert.Equal(t, "refs/heads/master", event.Revision.Ref)
	assert.NotEmpty(t, event.BuildID)
	assert.NotNil(t, event.Payload)
}

func TestProjectSecret(t *testing.T) {
	var nilProject *Project
	assert.Equal(t, "", nilProject.Secret("dockerRegistry"))

	project := &Project{Secrets: map[string]string{"dockerOrg": "shipyard"}}
	assert.Equal(t, "shipyard", project.Secret("dockerOrg"))
	assert.Equal(t, "", project.Secret("dockerRegistry"))
}
