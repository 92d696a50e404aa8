// Package credentials holds the cookies that accompany a submission.
//
// Cookies are read from a JSON file under the formpost home directory,
// or from the FORMPOST_COOKIE env var for a single run, and seeded into an
// in-memory jar. Cookies set by servers during a run are never written
// back.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cookieFileName = "cookies.json"

	EnvHome      = "FORMPOST_HOME"
	EnvCookie    = "FORMPOST_COOKIE"
	EnvCookieURL = "FORMPOST_COOKIE_URL"
)

// Cookie is one stored cookie together with the URL it belongs to.
type Cookie struct {
	URL      string     `json:"url"`
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Path     string     `json:"path,omitempty"`
	Domain   string     `json:"domain,omitempty"`
	Secure   bool       `json:"secure,omitempty"`
	HTTPOnly bool       `json:"http_only,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
	Source   string     `json:"-"` // "env" | "file"
}

// HTTPCookie converts to the net/http form.
func (c Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
	if c.Expires != nil {
		hc.Expires = *c.Expires
	}
	return hc
}

// HomeDir is $FORMPOST_HOME or ~/.formpost.
func HomeDir() (string, error) {
	if h := strings.TrimSpace(os.Getenv(EnvHome)); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".formpost"), nil
}

// Store reads and writes the cookie file.
type Store struct {
	Path string
}

// DefaultStore points at cookies.json in HomeDir.
func DefaultStore() (*Store, error) {
	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return &Store{Path: filepath.Join(dir, cookieFileName)}, nil
}

// Load returns the stored cookies. A missing file is an empty store.
func (s *Store) Load() ([]Cookie, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Cookie{}, nil
		}
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	var cookies []Cookie
	if err := json.Unmarshal(b, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookies: %w", err)
	}
	for i := range cookies {
		cookies[i].Source = "file"
	}
	return cookies, nil
}

// Save replaces the file contents. The directory is created 0700 and the
// file written 0600.
func (s *Store) Save(cookies []Cookie) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if cookies == nil {
		cookies = []Cookie{}
	}
	b, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.Path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Add stores a cookie, replacing any with the same URL and name.
func (s *Store) Add(c Cookie) error {
	if err := validate(c); err != nil {
		return err
	}
	cookies, err := s.Load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range cookies {
		if cookies[i].URL == c.URL && cookies[i].Name == c.Name {
			cookies[i] = c
			replaced = true
		}
	}
	if !replaced {
		cookies = append(cookies, c)
	}
	return s.Save(cookies)
}

// Remove deletes the cookie with the given URL and name. It reports
// whether anything was removed.
func (s *Store) Remove(rawURL, name string) (bool, error) {
	cookies, err := s.Load()
	if err != nil {
		return false, err
	}
	out := cookies[:0]
	for _, c := range cookies {
		if c.URL == rawURL && c.Name == name {
			continue
		}
		out = append(out, c)
	}
	if len(out) == len(cookies) {
		return false, nil
	}
	return true, s.Save(out)
}

// Clear deletes the cookie file.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Resolve returns the cookies for this run: the env override when
// FORMPOST_COOKIE is set, the file otherwise.
func (s *Store) Resolve() ([]Cookie, error) {
	if env := strings.TrimSpace(os.Getenv(EnvCookie)); env != "" {
		return FromHeader(os.Getenv(EnvCookieURL), env)
	}
	return s.Load()
}

// FromHeader parses a "name=value; name2=value2" string into cookies for
// rawURL.
func FromHeader(rawURL, header string) ([]Cookie, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("%s is set but %s is empty", EnvCookie, EnvCookieURL)
	}
	parsed, err := http.ParseCookie(header)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", EnvCookie, err)
	}
	out := make([]Cookie, 0, len(parsed))
	for _, hc := range parsed {
		c := Cookie{URL: rawURL, Name: hc.Name, Value: hc.Value, Source: "env"}
		if err := validate(c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParsePair splits a "name=value" argument.
func ParsePair(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("want name=value, got %q", s)
	}
	return name, value, nil
}

func validate(c Cookie) error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("cookie url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("cookie url %q must be an absolute http(s) URL", c.URL)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("empty cookie name")
	}
	return nil
}
