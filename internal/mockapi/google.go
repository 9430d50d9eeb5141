package mockapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// handleGoogleLogin stands in for the Google sign-in round trip. The real
// server sends the browser to Google and back to its callback; the fake
// skips the consent screen and redirects straight to the landing page with
// the token, the way the callback does.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.opts.GoogleEmail == "" {
		writeDetail(w, http.StatusInternalServerError, "Google OAuth not configured")
		return
	}
	email := normaliseEmail(s.opts.GoogleEmail)

	s.mu.Lock()
	u, ok := s.users[email]
	if !ok {
		name := s.opts.GoogleName
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		// Google accounts have no password.
		u = &user{ID: uuid.New().String(), Name: name, Email: email}
		s.users[email] = u
	}
	s.mu.Unlock()

	tok, err := s.issueToken(email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	q := url.Values{
		"google_login": {"success"},
		"token":        {tok},
		"name":         {u.Name},
		"user_id":      {u.ID},
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if r.URL.Query().Get("google_login") == "success" {
		_, _ = w.Write([]byte("Signed in. Copy this page's address into tflow to finish logging in.\n"))
		return
	}
	_, _ = w.Write([]byte("TranscribeFlow dev server\n"))
}
