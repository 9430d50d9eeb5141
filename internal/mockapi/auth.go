package mockapi

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/transcribeflow/tflow/internal/password"
)

const (
	otpTTL   = 10 * time.Minute
	resetTTL = 30 * time.Minute
)

type user struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

type pendingRegistration struct {
	Name         string
	PasswordHash string
	OTP          string
	Expires      time.Time
}

type resetToken struct {
	Email   string
	Expires time.Time
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := normaliseEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" || email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Missing required fields (name, email, password)")
		return
	}
	if err := password.Validate(req.Password); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	otp := randomOTP()

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "This email is already registered. Please login instead.")
		return
	}
	s.pending[email] = &pendingRegistration{
		Name:         name,
		PasswordHash: hashPassword(req.Password),
		OTP:          otp,
		Expires:      time.Now().Add(otpTTL),
	}
	s.mu.Unlock()

	s.notify("otp", email, otp)
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email. Please verify to continue registration."})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := normaliseEmail(req.Email)
	otp := strings.TrimSpace(req.OTP)
	if email == "" || otp == "" {
		writeDetail(w, http.StatusBadRequest, "Missing email or OTP")
		return
	}

	s.mu.Lock()
	p, ok := s.pending[email]
	switch {
	case !ok:
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Invalid or expired OTP.")
		return
	case time.Now().After(p.Expires):
		delete(s.pending, email)
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "OTP has expired. Please request a new one.")
		return
	case p.OTP != otp:
		s.mu.Unlock()
		writeDetail(w, http.StatusUnauthorized, "Incorrect OTP.")
		return
	}
	u := &user{ID: uuid.New().String(), Name: p.Name, Email: email, PasswordHash: p.PasswordHash}
	s.users[email] = u
	delete(s.pending, email)
	s.mu.Unlock()

	s.writeToken(w, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	identifier := normaliseEmail(req.Identifier)
	if identifier == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Missing identifier (email/phone) or password")
		return
	}

	s.mu.Lock()
	u, ok := s.users[identifier]
	s.mu.Unlock()
	if !ok || u.PasswordHash != hashPassword(req.Password) {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.writeToken(w, u)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := normaliseEmail(req.Email)
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "Missing email address")
		return
	}

	s.mu.Lock()
	_, registered := s.users[email]
	var token string
	if registered {
		token = uuid.New().String()
		s.resetTokens[token] = &resetToken{Email: email, Expires: time.Now().Add(resetTTL)}
	}
	s.mu.Unlock()

	if registered {
		s.notify("reset", email, token)
	}
	// Same answer whether or not the account exists.
	writeJSON(w, http.StatusOK, map[string]string{"message": "If that email is registered, a reset link has been sent."})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		writeDetail(w, http.StatusBadRequest, "Missing token or new_password")
		return
	}

	s.mu.Lock()
	rt, ok := s.resetTokens[req.Token]
	if !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Invalid or expired reset token.")
		return
	}
	if time.Now().After(rt.Expires) {
		delete(s.resetTokens, req.Token)
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Reset token has expired. Please request a new one.")
		return
	}
	if err := password.Validate(req.NewPassword); err != nil {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	u, ok := s.users[rt.Email]
	if !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "User not found.")
		return
	}
	u.PasswordHash = hashPassword(req.NewPassword)
	delete(s.resetTokens, req.Token)
	s.mu.Unlock()

	s.writeToken(w, u)
}

func (s *Server) writeToken(w http.ResponseWriter, u *user) {
	tok, err := s.issueToken(u.Email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": tok,
		"user_id":      u.ID,
		"name":         u.Name,
	})
}

// IssueToken returns a signed access token for email, as the login endpoint
// would. Useful for seeding clients in tests.
func (s *Server) IssueToken(email string) (string, error) {
	return s.issueToken(normaliseEmail(email))
}

func (s *Server) issueToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(s.opts.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// subjectFromRequest returns the email in a valid bearer token, or "".
func (s *Server) subjectFromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || raw == "" {
		return ""
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return ""
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeDetail(w, http.StatusUnauthorized, "Token is missing")
			return
		}
		if s.subjectFromRequest(r) == "" {
			writeDetail(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AddUser registers an account directly, bypassing the OTP flow.
func (s *Server) AddUser(name, email, pw string) {
	email = normaliseEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &user{ID: uuid.New().String(), Name: name, Email: email, PasswordHash: hashPassword(pw)}
}

// PendingOTP returns the outstanding registration OTP for email.
func (s *Server) PendingOTP(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[normaliseEmail(email)]
	if !ok {
		return "", false
	}
	return p.OTP, true
}

// ResetTokenFor returns an outstanding reset token for email.
func (s *Server) ResetTokenFor(email string) (string, bool) {
	email = normaliseEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, rt := range s.resetTokens {
		if rt.Email == email {
			return tok, true
		}
	}
	return "", false
}

func (s *Server) notify(kind, email, code string) {
	if s.opts.OnOTP != nil {
		s.opts.OnOTP(kind, email, code)
	}
}

func normaliseEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func hashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}

func randomOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "123456"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}
