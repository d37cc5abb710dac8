package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
)

type fakeDispatcher struct {
	events []*core.Event
	err    error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event *core.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newTestHandler(dispatcher *fakeDispatcher) *WebhookHandler {
	// An empty webhook secret makes signature validation a no-op, which is
	// what we want in tests.
	cfg := &config.Config{}
	return NewWebhookHandler(cfg, dispatcher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func postWebhook(t *testing.T, h *WebhookHandler, eventType string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)

	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandlePushEvent(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newTestHandler(dispatcher)

	rec := postWebhook(t, h, "push", &github.PushEvent{
		Ref:   github.Ptr("refs/heads/master"),
		After: github.Ptr("abc123"),
		Repo: &github.PushEventRepository{
			Name:     github.Ptr("brigantine"),
			FullName: github.Ptr("brigantine-ci/brigantine"),
			Owner:    &github.User{Login: github.Ptr("brigantine-ci")},
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, "push", dispatcher.events[0].Category)
	assert.Equal(t, "refs/heads/master", dispatcher.events[0].Revision.Ref)
}

func TestHandleIssueCommentEvent(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newTestHandler(dispatcher)

	rec := postWebhook(t, h, "issue_comment", &github.IssueCommentEvent{
		Action:  github.Ptr("created"),
		Comment: &github.IssueComment{Body: github.Ptr("/brig run")},
		Repo: &github.Repository{
			Name:          github.Ptr("brigantine"),
			FullName:      github.Ptr("brigantine-ci/brigantine"),
			Owner:         &github.User{Login: github.Ptr("brigantine-ci")},
			DefaultBranch: github.Ptr("main"),
		},
		Installation: &github.Installation{ID: github.Ptr(int64(42))},
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, "/brig run", dispatcher.events[0].Payload.CommentBody())
}

func TestHandleUnknownEventType(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newTestHandler(dispatcher)

	rec := postWebhook(t, h, "gollum", map[string]any{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleMalformedEventIsIgnored(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newTestHandler(dispatcher)

	// A push with no repository fails event conversion but is not a client
	// error worth retrying on GitHub's side.
	rec := postWebhook(t, h, "push", &github.PushEvent{Ref: github.Ptr("refs/heads/master")})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleQueueFull(t *testing.T) {
	dispatcher := &fakeDispatcher{err: assert.AnError}
	h := newTestHandler(dispatcher)

	rec := postWebhook(t, h, "push", &github.PushEvent{
		Ref:   github.Ptr("refs/heads/master"),
		After: github.Ptr("abc123"),
		Repo: &github.PushEventRepository{
			Name:  github.Ptr("brigantine"),
			Owner: &github.User{Login: github.Ptr("brigantine-ci")},
		},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
