package submit

import (
	"context"
	"errors"
	"strings"

	"github.com/idilsaglam/formpost/internal/model"
	"github.com/idilsaglam/formpost/internal/notify"
)

// Notice texts for a missing endpoint and for a 2xx answer.
const (
	MsgNoEndpoint = "Please enter an API endpoint"
	MsgSuccess    = "Data submitted successfully!"
)

// ErrNoEndpoint is returned by ValidateEndpoint for blank input.
var ErrNoEndpoint = errors.New(MsgNoEndpoint)

// ValidateEndpoint rejects an empty or whitespace-only endpoint.
func ValidateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return ErrNoEndpoint
	}
	return nil
}

// Submitter is the part of Client the handler needs.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, p model.Payload) error
}

// NoticeFor maps the result of ValidateEndpoint or Submit to what the
// user is told.
func NoticeFor(err error) notify.Notice {
	if err == nil {
		return notify.Notice{Kind: notify.KindSuccess, Text: MsgSuccess}
	}
	if errors.Is(err, ErrNoEndpoint) {
		return notify.Notice{Kind: notify.KindValidation, Text: MsgNoEndpoint}
	}
	var se *Error
	if errors.As(err, &se) {
		kind := notify.KindTransport
		if se.Kind == KindServer {
			kind = notify.KindServer
		}
		return notify.Notice{Kind: kind, Text: "Error: " + se.Message}
	}
	return notify.Notice{Kind: notify.KindTransport, Text: "Error: " + MsgServerError}
}

// Handler runs one submission against a form state.
type Handler struct {
	Client   Submitter
	Notifier notify.Notifier
}

// Run checks the endpoint, posts the payload, notifies the outcome and
// clears IsLoading last. IsLoading is never set when the endpoint is
// missing.
func (h Handler) Run(ctx context.Context, s *model.FormState) notify.Notice {
	if err := ValidateEndpoint(s.APIEndpoint); err != nil {
		n := NoticeFor(err)
		h.notify(n)
		return n
	}

	s.IsLoading = true
	err := h.Client.Submit(ctx, s.APIEndpoint, s.Payload())
	n := NoticeFor(err)
	h.notify(n)
	s.IsLoading = false
	return n
}

func (h Handler) notify(n notify.Notice) {
	if h.Notifier == nil {
		return
	}
	h.Notifier.Notify(n)
}
