package credentials

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// NewJar builds an in-memory cookie jar seeded with cookies.
func NewJar(cookies []Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	for _, c := range cookies {
		u, err := url.Parse(c.URL)
		if err != nil {
			return nil, fmt.Errorf("cookie %s: %w", c.Name, err)
		}
		jar.SetCookies(u, []*http.Cookie{c.HTTPCookie()})
	}
	return jar, nil
}
