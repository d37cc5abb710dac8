// Package handler provides the HTTP handlers for the Brigantine service.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
)

// WebhookHandler processes incoming webhooks from GitHub. It validates the
// payload signature, converts the webhook into the internal event shape,
// and queues it; all pipeline side effects happen on the worker pool.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given
// configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes GitHub webhook requests.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(h.cfg.GitHub.WebhookSecret))
	if err != nil {
		h.logger.Error("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	webhook, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	var event *core.Event
	switch e := webhook.(type) {
	case *github.PushEvent:
		event, err = core.EventFromPush(e)
	case *github.CheckSuiteEvent:
		event, err = core.EventFromCheckSuite(e)
	case *github.CheckRunEvent:
		event, err = core.EventFromCheckRun(e)
	case *github.IssueCommentEvent:
		event, err = core.EventFromIssueComment(e)
	default:
		h.logger.Debug("ignoring unhandled webhook event type", "type", github.WebHookType(r))
		_, _ = fmt.Fprint(w, "Event type not handled")
		return
	}
	if err != nil {
		h.logger.Debug("ignoring malformed webhook", "type", github.WebHookType(r), "reason", err.Error())
		_, _ = fmt.Fprint(w, "Event ignored")
		return
	}

	h.dispatch(r.Context(), w, event)
}

// dispatch queues the event, translating queue backpressure into a 500.
func (h *WebhookHandler) dispatch(ctx context.Context, w http.ResponseWriter, event *core.Event) {
	if err := h.dispatcher.Dispatch(ctx, event); err != nil {
		h.logger.Error("failed to dispatch event",
			"category", event.Category,
			"action", event.Action,
			"error", err,
		)
		http.Error(w, "Failed to queue event", http.StatusInternalServerError)
		return
	}

	h.logger.Info("event dispatched",
		"category", event.Category,
		"action", event.Action,
		"build_id", event.BuildID,
	)
	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "Event accepted")
}
