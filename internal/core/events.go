// Package core defines the essential interfaces and data structures that form
// the backbone of the application. These components are designed to be
// abstract, allowing for flexible and decoupled implementations of the
// orchestration logic.
package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
	"github.com/google/uuid"
)

// Revision identifies the git state an event refers to.
type Revision struct {
	Ref    string
	Commit string
}

// Payload exposes the only two fields of the raw webhook payload the
// orchestration core ever consults. Everything else in the payload is
// irrelevant to routing and stays behind this boundary.
type Payload interface {
	// CommentBody returns the body of the triggering comment, or "" when the
	// event carries no comment.
	CommentBody() string
	// CheckName returns the name of the check run the event refers to, or ""
	// when the event carries no check run.
	CheckName() string
}

// Event is the internal representation of one repository lifecycle event.
// It is immutable once constructed; all work derived from it is correlated
// by BuildID.
type Event struct {
	Category string
	Action   string
	Revision Revision

	RepoOwner    string
	RepoName     string
	RepoFullName string

	InstallationID int64

	// BuildID correlates every job and status report produced while
	// handling this event.
	BuildID string

	Payload Payload
}

// eventPayload is the concrete Payload carried by events built from
// webhooks. Zero values mean "not present".
type eventPayload struct {
	commentBody string
	checkName   string
}

func (p eventPayload) CommentBody() string { return p.commentBody }
func (p eventPayload) CheckName() string   { return p.checkName }

// EventFromPush transforms a raw GitHub PushEvent into the internal Event
// representation. It acts as an anti-corruption layer, validating that the
// incoming webhook carries everything the push policy needs.
func EventFromPush(event *github.PushEvent) (*Event, error) {
	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}
	if event.GetRef() == "" {
		return nil, fmt.Errorf("push event has no ref")
	}

	return &Event{
		Category:       "push",
		Revision:       Revision{Ref: event.GetRef(), Commit: event.GetAfter()},
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		InstallationID: event.GetInstallation().GetID(),
		BuildID:        uuid.NewString(),
		Payload:        eventPayload{},
	}, nil
}

// EventFromCheckSuite transforms a raw GitHub CheckSuiteEvent into the
// internal Event representation.
func EventFromCheckSuite(event *github.CheckSuiteEvent) (*Event, error) {
	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}
	suite := event.GetCheckSuite()
	if suite == nil {
		return nil, fmt.Errorf("check suite information is missing from the event")
	}

	return &Event{
		Category:       "check_suite",
		Action:         event.GetAction(),
		Revision:       Revision{Ref: suite.GetHeadBranch(), Commit: suite.GetHeadSHA()},
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		InstallationID: event.GetInstallation().GetID(),
		BuildID:        uuid.NewString(),
		Payload:        eventPayload{},
	}, nil
}

// EventFromCheckRun transforms a raw GitHub CheckRunEvent into the internal
// Event representation, preserving the name of the check being re-requested.
func EventFromCheckRun(event *github.CheckRunEvent) (*Event, error) {
	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}
	run := event.GetCheckRun()
	if run == nil || run.GetName() == "" {
		return nil, fmt.Errorf("check run information is missing from the event")
	}

	return &Event{
		Category: "check_run",
		Action:   event.GetAction(),
		Revision: Revision{
			Ref:    run.GetCheckSuite().GetHeadBranch(),
			Commit: run.GetHeadSHA(),
		},
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		InstallationID: event.GetInstallation().GetID(),
		BuildID:        uuid.NewString(),
		Payload:        eventPayload{checkName: run.GetName()},
	}, nil
}

// EventFromIssueComment transforms a raw GitHub IssueCommentEvent into the
// internal Event representation. The comment body is carried through the
// Payload boundary; whether it is a recognized command is decided later by
// the comment parser, not here.
func EventFromIssueComment(event *github.IssueCommentEvent) (*Event, error) {
	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}
	if event.GetComment() == nil {
		return nil, fmt.Errorf("comment information is missing from the event")
	}

	return &Event{
		Category:       "issue_comment",
		Action:         event.GetAction(),
		Revision:       Revision{Ref: repo.GetDefaultBranch()},
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		InstallationID: event.GetInstallation().GetID(),
		BuildID:        uuid.NewString(),
		Payload:        eventPayload{commentBody: event.GetComment().GetBody()},
	}, nil
}

// NewExecEvent builds the synthetic event used by the CLI to trigger the
// test pipeline directly, outside of any webhook.
func NewExecEvent(ref, commit string) *Event {
	return &Event{
		Category: "exec",
		Revision: Revision{Ref: ref, Commit: commit},
		BuildID:  uuid.NewString(),
		Payload:  eventPayload{},
	}
}

// Project is a read-only handle on the secrets available to action builders
// while handling one event. It is supplied once per invocation and never
// mutated by the core.
type Project struct {
	Name    string
	Secrets map[string]string
}

// Secret returns the named secret, or "" when it is absent.
func (p *Project) Secret(name string) string {
	if p == nil || p.Secrets == nil {
		return ""
	}
	return p.Secrets[name]
}
