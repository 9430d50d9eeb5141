package api

import (
	"fmt"
	"net/url"
	"strings"
)

// GoogleLoginURL is the page that starts Google sign-in in a browser. The
// server finishes the flow by redirecting to its own landing page with the
// access token in the query string.
func (c *Client) GoogleLoginURL() string {
	return c.baseURL + "/auth/google/login"
}

// ParseGoogleRedirect extracts the session from the landing page address the
// server redirects to after Google sign-in
// ("/?google_login=success&token=...&name=...").
func ParseGoogleRedirect(raw string) (*AuthResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty redirect address")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect address: %w", err)
	}
	q := u.Query()
	if q.Get("google_login") != "success" {
		return nil, fmt.Errorf("redirect address does not report a successful Google login")
	}
	token := q.Get("token")
	if token == "" {
		return nil, fmt.Errorf("redirect address has no token")
	}
	return &AuthResult{AccessToken: token, Name: q.Get("name")}, nil
}
