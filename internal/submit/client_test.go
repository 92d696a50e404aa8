package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/idilsaglam/formpost/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stubResponse(r *http.Request, status string, code int, body string) *http.Response {
	return &http.Response{
		Status:     status,
		StatusCode: code,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

type captured struct {
	method      string
	path        string
	contentType string
	cookie      string
	body        []byte
}

// newServer answers every request with status/body and reports what it saw.
func newServer(t *testing.T, status int, body string) (*httptest.Server, <-chan captured) {
	t.Helper()
	seen := make(chan captured, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c := captured{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: b}
		if ck, err := r.Cookie("session"); err == nil {
			c.cookie = ck.Value
		}
		seen <- c
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func newTestClient(t *testing.T, jar http.CookieJar) *Client {
	t.Helper()
	c := NewClient(jar, zaptest.NewLogger(t))
	t.Cleanup(c.CloseIdleConnections)
	return c
}

func TestSubmitPostsJSONWithCookies(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, "")

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc123"}})

	c := newTestClient(t, jar)
	err = c.Submit(context.Background(), srv.URL+"/api", model.Payload{Name: "Alice", Email: "a@example.com"})
	require.NoError(t, err)

	got := <-seen
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "abc123", got.cookie)
	assert.JSONEq(t, `{"name":"Alice","email":"a@example.com"}`, string(got.body))

	var p model.Payload
	require.NoError(t, json.Unmarshal(got.body, &p))
	if diff := cmp.Diff(model.Payload{Name: "Alice", Email: "a@example.com"}, p); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, seen, 0, "exactly one request")
}

func TestSubmitExactBodyBytes(t *testing.T) {
	var body string
	c := &Client{HTTP: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		assert.Equal(t, "https://example.com/api", r.URL.String())
		return stubResponse(r, "201 Created", http.StatusCreated, ""), nil
	})}}

	err := c.Submit(context.Background(), "https://example.com/api", model.Payload{Name: "Alice", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Alice","email":"a@example.com"}`, body)
}

func TestSubmitServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Invalid email"}`, "Invalid email"},
		{"no body", http.StatusBadRequest, "", "Bad Request"},
		{"no error field", http.StatusUnauthorized, `{"message":"nope"}`, "Unauthorized"},
		{"empty error field", http.StatusConflict, `{"error":""}`, "Conflict"},
		{"not json", http.StatusInternalServerError, "<html>oops</html>", "Internal Server Error"},
		{"numeric error", http.StatusTeapot, `{"error":42}`, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			c := newTestClient(t, nil)

			err := c.Submit(context.Background(), srv.URL, model.Payload{Name: "A", Email: "a@example.com"})

			var se *Error
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, KindServer, se.Kind)
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.want, se.Message)
		})
	}
}

func TestSubmitNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := newTestClient(t, nil)
	err := c.Submit(context.Background(), endpoint, model.Payload{})

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNoResponse, se.Kind)
	assert.Equal(t, MsgNoResponse, se.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestSubmitUnbuildableRequest(t *testing.T) {
	c := &Client{HTTP: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected request to %s", r.URL)
		return nil, nil
	})}}

	for _, endpoint := range []string{"ftp://example.com/api", "example.com/api", "http://", "http://%zz"} {
		err := c.Submit(context.Background(), endpoint, model.Payload{})
		var se *Error
		require.True(t, errors.As(err, &se), endpoint)
		assert.Equal(t, KindOther, se.Kind, endpoint)
		assert.Equal(t, MsgServerError, se.Message, endpoint)
	}
}

func TestSubmitLogsDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := &Client{
		Logger: zap.New(core),
		HTTP: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return stubResponse(r, "400 Bad Request", http.StatusBadRequest, `{"error":"Invalid email"}`), nil
		})},
	}

	_ = c.Submit(context.Background(), "https://example.com/api", model.Payload{Name: "Alice", Email: "a@example.com"})

	sent := logs.FilterMessage("sending submission").All()
	require.Len(t, sent, 1)
	assert.Equal(t, "https://example.com/api", sent[0].ContextMap()["endpoint"])
	assert.NotEmpty(t, sent[0].ContextMap()["submission"])

	failed := logs.FilterMessage("submission failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
}

func TestReasonPhrase(t *testing.T) {
	assert.Equal(t, "Bad Request", reasonPhrase(&http.Response{Status: "400 Bad Request", StatusCode: 400}))
	assert.Equal(t, "Custom Words", reasonPhrase(&http.Response{Status: "499 Custom Words", StatusCode: 499}))
	assert.Equal(t, "Bad Request", reasonPhrase(&http.Response{Status: "400", StatusCode: 400}))
	assert.Equal(t, "Not Found", reasonPhrase(&http.Response{StatusCode: 404}))
}

func TestErrorField(t *testing.T) {
	assert.Equal(t, "Invalid email", errorField([]byte(`{"error":"Invalid email"}`)))
	assert.Equal(t, "true", errorField([]byte(`{"error":true}`)))
	assert.Equal(t, "", errorField([]byte(`{"error":false}`)))
	assert.Equal(t, "", errorField([]byte(`{"error":0}`)))
	assert.Equal(t, "", errorField([]byte(`{"error":null}`)))
	assert.Equal(t, `{"code":7}`, errorField([]byte(`{"error":{"code":7}}`)))
	assert.Equal(t, "", errorField([]byte(`"just a string"`)))
	assert.Equal(t, "", errorField(nil))
}
