// Package submit posts the form payload to a user-supplied endpoint and
// turns the outcome into a notice.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/formpost/internal/model"
)

// Largest error body we look at for an "error" field.
const maxErrorBody = 1 << 20

// ErrorKind tells apart the ways a submission can fail after the
// endpoint check passed.
type ErrorKind int

const (
	// KindServer: the server answered with a non-2xx status.
	KindServer ErrorKind = iota
	// KindNoResponse: the request went out and nothing came back.
	KindNoResponse
	// KindOther: the request never got built or sent.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNoResponse:
		return "no-response"
	case KindOther:
		return "other"
	}
	return "unknown"
}

// Messages shown after "Error: " for failures without a server answer.
const (
	MsgNoResponse  = "No response from server"
	MsgServerError = "Server error"
)

// Error is a classified submission failure. Message is what the user sees
// after the "Error: " prefix.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("submit %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Client sends submissions. The embedded HTTP client carries the cookie
// jar, which is how credentials get included.
type Client struct {
	HTTP   *http.Client
	Logger *zap.Logger
}

// NewClient returns a client with no timeout that sends cookies from jar.
// jar may be nil.
func NewClient(jar http.CookieJar, logger *zap.Logger) *Client {
	return &Client{
		HTTP:   &http.Client{Jar: jar},
		Logger: logger,
	}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() { c.httpClient().CloseIdleConnections() }

// Submit makes exactly one POST of p to endpoint. It returns nil on any 2xx
// status and an *Error otherwise. There is no retry.
func (c *Client) Submit(ctx context.Context, endpoint string, p model.Payload) error {
	log := c.logger().With(zap.String("submission", uuid.NewString()))

	target, err := parseEndpoint(endpoint)
	if err != nil {
		log.Warn("submission failed", zap.String("endpoint", endpoint), zap.Error(err))
		return &Error{Kind: KindOther, Message: MsgServerError, Err: err}
	}
	body, err := json.Marshal(p)
	if err != nil {
		return &Error{Kind: KindOther, Message: MsgServerError, Err: fmt.Errorf("json marshal: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		log.Warn("submission failed", zap.String("endpoint", target), zap.Error(err))
		return &Error{Kind: KindOther, Message: MsgServerError, Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug("sending submission",
		zap.String("endpoint", target),
		zap.String("name", p.Name),
		zap.String("email", p.Email))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Warn("submission failed", zap.String("endpoint", target), zap.Error(err))
		return &Error{Kind: KindNoResponse, Message: MsgNoResponse, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		log.Info("submission accepted", zap.Int("status", resp.StatusCode))
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := errorField(raw)
	if msg == "" {
		msg = reasonPhrase(resp)
	}
	log.Warn("submission failed", zap.Int("status", resp.StatusCode), zap.String("message", msg))
	return &Error{Kind: KindServer, Status: resp.StatusCode, Message: msg}
}

// parseEndpoint trims the input and insists on an absolute http(s) URL.
func parseEndpoint(endpoint string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", raw)
	}
	return u.String(), nil
}

// errorField pulls a truthy "error" member out of a JSON object body.
// Anything else yields "".
func errorField(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	switch v := obj["error"].(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
	case float64:
		if v != 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	return ""
}

// reasonPhrase returns the text after the code in the status line, or the
// standard text for the code when the line has none (HTTP/2).
func reasonPhrase(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
