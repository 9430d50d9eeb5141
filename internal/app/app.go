package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/history"
	"github.com/transcribeflow/tflow/internal/progress"
	"github.com/transcribeflow/tflow/internal/prompt"
	"github.com/transcribeflow/tflow/internal/session"
	"github.com/transcribeflow/tflow/internal/transcript"
)

// Problem is an error whose text is shown to the user as is.
type Problem string

func (p Problem) Error() string { return string(p) }

const (
	ErrRegisterFields   Problem = "Name, email and password are required."
	ErrCredentials      Problem = "Please enter your credentials."
	ErrEmailRequired    Problem = "Please enter your email address."
	ErrOTPRequired      Problem = "Please enter OTP."
	ErrResetFields      Problem = "Please fill in both fields."
	ErrResetToken       Problem = "Invalid or missing reset token. Please request a new password reset link."
	ErrPasswordMismatch Problem = "Passwords do not match."
	ErrPasswordRules    Problem = "Password does not meet all the requirements above."
	ErrNetwork          Problem = "Network error. Please try again."
	ErrLoginRequired    Problem = "Login required"
	ErrCancelled        Problem = "Cancelled."
	ErrNoTranscript     Problem = "No transcript loaded. Upload a file or pass a filename."
	ErrGoogleRedirect   Problem = "Google sign-in did not complete. Copy the full address from the browser after signing in."
	ErrLanguage         Problem = "Unknown language code. Use a code such as en, es or zh-CN."
)

// ErrProcessingFailed is wrapped by upload and wait errors when the server
// reports that transcription failed.
var ErrProcessingFailed = errors.New("processing failed")

// Options wires an App to its collaborators.
type Options struct {
	Client      *api.Client
	History     *history.Store
	Prompt      prompt.Prompter
	Reporter    progress.Reporter
	Out         io.Writer
	Logger      *log.Logger
	SessionPath string

	PollInterval time.Duration
	Language     string
	DownloadDir  string
	Style        transcript.Style
	AutoScroll   bool

	// OpenURL opens a page in the user's browser. Google sign-in only
	// prints the address when nil.
	OpenURL func(url string) error
}

// App runs the user-facing flows against the TranscribeFlow API.
type App struct {
	client      *api.Client
	history     *history.Store
	prompt      prompt.Prompter
	reporter    progress.Reporter
	out         io.Writer
	logger      *log.Logger
	sessionPath string

	pollInterval time.Duration
	language     string
	downloadDir  string
	style        transcript.Style
	openURL      func(string) error

	session *session.Session
	view    transcript.ViewState
}

// New creates an App and restores the saved session, if any.
func New(opts Options) (*App, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	a := &App{
		client:       opts.Client,
		history:      opts.History,
		prompt:       opts.Prompt,
		reporter:     opts.Reporter,
		out:          opts.Out,
		logger:       opts.Logger,
		sessionPath:  opts.SessionPath,
		pollInterval: opts.PollInterval,
		language:     opts.Language,
		downloadDir:  opts.DownloadDir,
		style:        opts.Style,
		openURL:      opts.OpenURL,
	}
	if a.prompt == nil {
		a.prompt = prompt.Terminal{}
	}
	if a.reporter == nil {
		a.reporter = progress.Nop{}
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}
	if a.language == "" {
		a.language = transcript.DefaultLanguage
	}
	if a.downloadDir == "" {
		a.downloadDir = "."
	}
	if a.sessionPath == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		a.sessionPath = p
	}
	a.view.AutoScroll = opts.AutoScroll

	s, err := session.Load(a.sessionPath)
	if err != nil {
		return nil, err
	}
	a.session = s
	if s.AccessToken != "" {
		a.client.SetToken(s.AccessToken)
	}
	return a, nil
}

// Session returns the current session.
func (a *App) Session() *session.Session { return a.session }

// Current returns the transcript currently loaded.
func (a *App) Current() *transcript.ViewState { return &a.view }

func (a *App) setSession(token, name string) error {
	s := &session.Session{AccessToken: token, Name: name}
	if err := session.Save(a.sessionPath, s); err != nil {
		return err
	}
	a.session = s
	a.client.SetToken(token)
	a.logger.Printf("session saved for %s", name)
	return nil
}

func (a *App) clearSession() error {
	a.session = &session.Session{}
	a.client.SetToken("")
	return session.Clear(a.sessionPath)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// explain turns an API failure into the message the user should see.
func explain(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var p Problem
	if errors.As(err, &p) || errors.Is(err, prompt.ErrAborted) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, api.ErrNetwork) {
		return ErrNetwork
	}
	return Problem(api.DetailOf(err, fallback))
}

// nameFromToken derives a display name from the token subject for flows
// where the user never typed an email.
func nameFromToken(token string) string {
	if c, err := session.ParseClaims(token); err == nil && c.Subject != "" {
		return localPart(c.Subject)
	}
	return "there"
}

// localPart returns the part of an email address before the @.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
