package mockapi

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the fake server.
type Options struct {
	// TrialLimit is the number of anonymous uploads allowed. Default 2;
	// negative disables anonymous uploads.
	TrialLimit int
	// PollsToComplete is how many /check_status calls a job takes to finish.
	// Default 3.
	PollsToComplete int
	// Secret signs access tokens. A random secret is used when empty.
	Secret string
	// TokenTTL is the access token lifetime. Default 6h.
	TokenTTL time.Duration
	// LogRequests enables chi's request logger.
	LogRequests bool
	// OnOTP, when set, receives every OTP and reset token the server "emails".
	OnOTP func(kind, email, code string)
	// GoogleEmail is the account /auth/google/login signs in as. Google
	// sign-in is reported as not configured when empty.
	GoogleEmail string
	// GoogleName is the display name of that account; defaults to the
	// email local part.
	GoogleName string
}

// Server is an in-memory stand-in for the TranscribeFlow API.
type Server struct {
	opts   Options
	secret []byte
	router chi.Router

	requests atomic.Int64

	mu          sync.Mutex
	users       map[string]*user
	pending     map[string]*pendingRegistration
	resetTokens map[string]*resetToken
	jobs        map[string]*job
	trialUsed   int
}

// New creates a fake server with the given options.
func New(opts Options) *Server {
	if opts.TrialLimit == 0 {
		opts.TrialLimit = 2
	}
	if opts.PollsToComplete <= 0 {
		opts.PollsToComplete = 3
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 6 * time.Hour
	}
	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		secret = []byte(randomHex(32))
	}

	s := &Server{
		opts:        opts,
		secret:      secret,
		users:       make(map[string]*user),
		pending:     make(map[string]*pendingRegistration),
		resetTokens: make(map[string]*resetToken),
		jobs:        make(map[string]*job),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(s.countRequests)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.opts.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleHome)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/send_otp", s.handleSendOTP)
		r.Post("/verify_otp", s.handleVerifyOTP)
		r.Post("/login", s.handleLogin)
		r.Post("/forgot_password", s.handleForgotPassword)
		r.Post("/reset_password", s.handleResetPassword)
		r.Get("/google/login", s.handleGoogleLogin)
	})

	r.Post("/upload", s.handleUpload)
	r.Get("/check_status/{filename}", s.handleCheckStatus)
	r.Post("/translate_on_fly", s.handleTranslate)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/download/{filename}", s.handleDownload)
		r.Post("/delete/{filename}", s.handleDelete)
		r.Post("/clear_all", s.handleClearAll)
	})

	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Requests returns the number of requests handled so far.
func (s *Server) Requests() int64 { return s.requests.Load() }

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}
