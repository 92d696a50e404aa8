package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("FORMPOST_HOME", home)
	for _, k := range []string{"FORMPOST_ENDPOINT", "FORMPOST_THEME", "FORMPOST_LOG_FILE", "FORMPOST_LOG_LEVEL", "FORMPOST_COOKIE", "FORMPOST_COOKIE_URL"} {
		t.Setenv(k, "")
	}
	return home
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), append([]string{"--no-color"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

type hit struct {
	body   string
	cookie string
}

func server(t *testing.T, status int, body string) (*httptest.Server, <-chan hit) {
	t.Helper()
	hits := make(chan hit, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		h := hit{body: string(b)}
		if c, err := r.Cookie("session"); err == nil {
			h.cookie = c.Value
		}
		hits <- h
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestSubmitSuccessWithStoredCookie(t *testing.T) {
	isolate(t)
	srv, hits := server(t, http.StatusOK, "")

	code, out, _ := run(t, "cookies", "add", srv.URL, "session=abc123")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "stored session")

	code, out, errOut := run(t, "submit", "--name", "Alice", "--email", "a@example.com", "--endpoint", srv.URL+"/api")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "✔ Data submitted successfully!")
	assert.Empty(t, errOut)

	h := <-hits
	assert.JSONEq(t, `{"name":"Alice","email":"a@example.com"}`, h.body)
	assert.Equal(t, "abc123", h.cookie)
}

func TestSubmitWithoutEndpoint(t *testing.T) {
	isolate(t)
	code, out, errOut := run(t, "submit", "--name", "Alice", "--email", "a@example.com")
	assert.Equal(t, 2, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Please enter an API endpoint")
}

func TestSubmitServerError(t *testing.T) {
	isolate(t)
	srv, _ := server(t, http.StatusBadRequest, `{"error":"Invalid email"}`)

	code, _, errOut := run(t, "submit", "--name", "Alice", "--email", "a@example.com", "--endpoint", srv.URL)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "✖ Error: Invalid email")
}

func TestSubmitNoResponse(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	code, _, errOut := run(t, "submit", "--name", "Alice", "--email", "a@example.com", "--endpoint", endpoint)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: No response from server")
}

func TestSubmitEndpointFromEnv(t *testing.T) {
	isolate(t)
	srv, hits := server(t, http.StatusCreated, "")
	t.Setenv("FORMPOST_ENDPOINT", srv.URL)

	code, _, errOut := run(t, "submit", "--name", "Alice", "--email", "a@example.com")
	require.Equal(t, 0, code, errOut)
	assert.Len(t, hits, 1)
}

func TestSubmitConstraints(t *testing.T) {
	isolate(t)
	srv, hits := server(t, http.StatusOK, "")

	code, _, errOut := run(t, "submit", "--email", "a@example.com", "--endpoint", srv.URL)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "--name: Please fill out this field.")

	code, _, errOut = run(t, "submit", "--name", "Alice", "--email", "alice", "--endpoint", srv.URL)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "--email: Please enter an email address.")
	assert.Len(t, hits, 0)
}

func TestCookiesLifecycle(t *testing.T) {
	home := isolate(t)

	code, out, _ := run(t, "cookies", "ls")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "no cookies stored")

	code, _, _ = run(t, "cookies", "add", "https://example.com", "session=abc")
	require.Equal(t, 0, code)
	_, err := os.Stat(filepath.Join(home, "cookies.json"))
	require.NoError(t, err)

	code, out, _ = run(t, "cookies", "ls")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "session")

	code, _, errOut := run(t, "cookies", "rm", "https://example.com", "missing")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "no cookie")

	code, _, _ = run(t, "cookies", "rm", "https://example.com", "session")
	assert.Equal(t, 0, code)

	code, out, _ = run(t, "cookies", "clear")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "cleared")
}

func TestCookiesUsageErrors(t *testing.T) {
	isolate(t)
	code, _, errOut := run(t, "cookies", "add", "https://example.com")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: formpost cookies add")

	code, _, _ = run(t, "cookies", "add", "https://example.com", "novalue")
	assert.Equal(t, 2, code)

	code, _, _ = run(t, "cookies", "add", "not-a-url", "a=b")
	assert.Equal(t, 1, code)
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "--theme", "light", "--endpoint", "https://example.com/api", "config")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "theme: light")
	assert.Contains(t, out, "https://example.com/api")
	assert.Contains(t, out, "toast_duration: 4s")
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	isolate(t)
	code, _, errOut := run(t, "--theme", "neon", "config")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown theme")
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)
	code, _, _ := run(t, "submit", "--bogus")
	assert.Equal(t, 2, code)
}
