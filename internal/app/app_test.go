package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/audio"
	"github.com/transcribeflow/tflow/internal/db"
	"github.com/transcribeflow/tflow/internal/history"
	"github.com/transcribeflow/tflow/internal/mockapi"
	"github.com/transcribeflow/tflow/internal/prompt"
	"github.com/transcribeflow/tflow/internal/session"
	"github.com/transcribeflow/tflow/internal/transcript"
)

const (
	testName     = "Ada"
	testEmail    = "ada@example.com"
	testPassword = "Secret#123"
)

type fixture struct {
	srv     *mockapi.Server
	app     *App
	prompt  *prompt.Scripted
	history *history.Store
	out     *bytes.Buffer
	dir     string
	url     string
}

func newFixture(t *testing.T, opts mockapi.Options, answers ...string) *fixture {
	t.Helper()
	srv := mockapi.New(opts)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	dir := t.TempDir()
	f := &fixture{
		srv:     srv,
		prompt:  prompt.NewScripted(answers...),
		history: history.NewStore(d),
		out:     &bytes.Buffer{},
		dir:     dir,
		url:     ts.URL,
	}
	f.app, err = New(Options{
		Client:       api.NewClient(ts.URL, 5*time.Second),
		History:      f.history,
		Prompt:       f.prompt,
		Out:          f.out,
		SessionPath:  filepath.Join(dir, "session.json"),
		PollInterval: 5 * time.Millisecond,
		DownloadDir:  filepath.Join(dir, "downloads"),
		Style:        transcript.PlainStyle,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.srv.AddUser(testName, testEmail, testPassword)
	if err := f.app.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func writeAudio(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// otpPrompter answers the OTP prompt with whatever the server just issued.
type otpPrompter struct {
	*prompt.Scripted
	srv *mockapi.Server
}

func (p otpPrompter) Input(label, def string, validate func(string) error) (string, error) {
	if strings.HasPrefix(label, "Enter the OTP") {
		otp, _ := p.srv.PendingOTP(testEmail)
		return otp, nil
	}
	return p.Scripted.Input(label, def, validate)
}

func TestRegister(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	f.app.prompt = otpPrompter{Scripted: f.prompt, srv: f.srv}
	ctx := context.Background()

	if err := f.app.Register(ctx, "", testEmail, testPassword); !errors.Is(err, ErrRegisterFields) {
		t.Errorf("err = %v, want ErrRegisterFields", err)
	}
	if f.srv.Requests() != 0 {
		t.Errorf("validation failure made %d requests", f.srv.Requests())
	}

	if err := f.app.Register(ctx, testName, testEmail, testPassword); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !f.app.Session().LoggedIn() || f.app.Session().Name != testName {
		t.Errorf("session = %+v", f.app.Session())
	}
	saved, err := session.Load(f.app.sessionPath)
	if err != nil || !saved.LoggedIn() {
		t.Errorf("session not persisted: %+v, %v", saved, err)
	}
	if !strings.Contains(f.out.String(), "Strong") {
		t.Errorf("password meter not shown: %q", f.out.String())
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	err := f.app.Register(context.Background(), testName, testEmail, "weak")
	var p Problem
	if !errors.As(err, &p) || !strings.Contains(string(p), "8") {
		t.Errorf("err = %v, want server's length message", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()
	f.srv.AddUser(testName, testEmail, testPassword)

	if err := f.app.Login(ctx, " ", testPassword); !errors.Is(err, ErrCredentials) {
		t.Errorf("err = %v, want ErrCredentials", err)
	}
	if err := f.app.Login(ctx, testEmail, "Wrong#123"); err == nil || err.Error() != "Invalid credentials" {
		t.Errorf("err = %v, want Invalid credentials", err)
	}
	if err := f.app.Login(ctx, testEmail, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if f.app.client.Token() == "" {
		t.Error("client token not set")
	}

	if err := f.app.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.app.Session().LoggedIn() || f.app.client.Token() != "" {
		t.Error("logout kept credentials")
	}
}

func TestLoginNetworkError(t *testing.T) {
	ts := httptest.NewServer(mockapi.New(mockapi.Options{}))
	url := ts.URL
	ts.Close()

	a, err := New(Options{
		Client:      api.NewClient(url, time.Second),
		Out:         &bytes.Buffer{},
		SessionPath: filepath.Join(t.TempDir(), "session.json"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Login(context.Background(), testEmail, testPassword); !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestGoogleLogin(t *testing.T) {
	f := newFixture(t, mockapi.Options{GoogleEmail: "grace@example.com", GoogleName: "Grace"})
	var opened string
	f.app.openURL = func(u string) error {
		opened = u
		return nil
	}

	noFollow := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := noFollow.Get(f.url + "/auth/google/login")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	landing := f.url + resp.Header.Get("Location")

	f.prompt.Answers = []string{"http://example.com/", landing, "y"}
	if err := f.app.GoogleLogin(); !errors.Is(err, ErrGoogleRedirect) {
		t.Errorf("err = %v, want ErrGoogleRedirect", err)
	}
	if err := f.app.GoogleLogin(); err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if opened != f.url+"/auth/google/login" {
		t.Errorf("opened %q", opened)
	}
	if s := f.app.Session(); !s.LoggedIn() || s.Name != "Grace" {
		t.Errorf("session = %+v", s)
	}

	if err := f.app.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll with Google session: %v", err)
	}
	for _, label := range f.prompt.Asked {
		if label == "Email or phone" {
			t.Error("Google session still asked for a password login")
		}
	}
}

func TestForgotAndReset(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()
	f.srv.AddUser(testName, testEmail, testPassword)

	if err := f.app.ForgotPassword(ctx, ""); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("err = %v, want ErrEmailRequired", err)
	}
	if err := f.app.ForgotPassword(ctx, testEmail); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	token, ok := f.srv.ResetTokenFor(testEmail)
	if !ok {
		t.Fatal("no reset token issued")
	}

	tests := []struct {
		name          string
		token, pw, cf string
		want          error
	}{
		{"missing token", "", "New#Pass1", "New#Pass1", ErrResetToken},
		{"missing fields", token, "", "", ErrResetFields},
		{"mismatch", token, "New#Pass1", "New#Pass2", ErrPasswordMismatch},
		{"weak", token, "newpass", "newpass", ErrPasswordRules},
	}
	before := f.srv.Requests()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.app.ResetPassword(ctx, tt.token, tt.pw, tt.cf); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if f.srv.Requests() != before {
		t.Error("client-side validation failures reached the server")
	}

	if err := f.app.ResetPassword(ctx, token, "New#Pass1", "New#Pass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if !f.app.Session().LoggedIn() {
		t.Error("reset should log the user in")
	}
	if err := f.app.Login(ctx, testEmail, "New#Pass1"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestResetPasswordWithoutNameStaysLoggedIn(t *testing.T) {
	token, err := mockapi.New(mockapi.Options{}).IssueToken(testEmail)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + token + `"}`))
	}))
	defer ts.Close()

	dir := t.TempDir()
	a, err := New(Options{
		Client:      api.NewClient(ts.URL, time.Second),
		Prompt:      prompt.NewScripted(),
		Out:         &bytes.Buffer{},
		SessionPath: filepath.Join(dir, "session.json"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := a.ResetPassword(context.Background(), "reset-token", "New#Pass1", "New#Pass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if !a.Session().LoggedIn() {
		t.Error("session without a name is not logged in")
	}
	if a.Session().Name != "ada" {
		t.Errorf("name = %q, want the email local part", a.Session().Name)
	}
}

func TestUploadRejectsUnsupportedBeforeNetwork(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	path := writeAudio(t, f.dir, "notes.txt")

	_, err := f.app.Upload(context.Background(), path)
	if !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if f.srv.Requests() != 0 {
		t.Errorf("made %d requests", f.srv.Requests())
	}
}

func TestUploadPollsToCompletion(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()
	path := writeAudio(t, f.dir, "talk.mp3")

	res, err := f.app.Upload(ctx, path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Status.Status != api.StatusCompleted {
		t.Fatalf("status = %s", res.Status.Status)
	}

	j, err := f.history.Get(ctx, res.Filename)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if j.Status != api.StatusCompleted || !strings.Contains(j.Transcript, "talk.mp3") || j.SizeBytes == 0 {
		t.Errorf("history job = %+v", j)
	}
	if got := f.app.Current().Filename; got != res.Filename {
		t.Errorf("current filename = %q", got)
	}
	if !strings.Contains(f.out.String(), "TRANSCRIPT") {
		t.Errorf("transcript not rendered: %q", f.out.String())
	}
}

func TestUploadProcessingError(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()
	path := filepath.Join(f.dir, "silence.wav")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := f.app.Upload(ctx, path)
	if !errors.Is(err, ErrProcessingFailed) {
		t.Fatalf("err = %v, want ErrProcessingFailed", err)
	}
	j, err := f.history.Get(ctx, res.Filename)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != api.StatusError || j.Message == "" {
		t.Errorf("history job = %+v", j)
	}
}

func TestUploadTrialEndedPromptsLogin(t *testing.T) {
	f := newFixture(t, mockapi.Options{TrialLimit: -1}, testEmail, testPassword)
	f.srv.AddUser(testName, testEmail, testPassword)
	path := writeAudio(t, f.dir, "talk.mp3")

	res, err := f.app.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.Contains(f.out.String(), "Free Trial Ended") {
		t.Errorf("trial notice not shown: %q", f.out.String())
	}
	if !f.app.Session().LoggedIn() || res.Status.Status != api.StatusCompleted {
		t.Errorf("session=%+v status=%+v", f.app.Session(), res.Status)
	}
}

func TestUploadTrialEndedCancelled(t *testing.T) {
	f := newFixture(t, mockapi.Options{TrialLimit: -1})
	path := writeAudio(t, f.dir, "talk.mp3")

	if _, err := f.app.Upload(context.Background(), path); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("err = %v, want ErrLoginRequired", err)
	}
	if f.srv.JobCount() != 0 {
		t.Error("upload should not have been accepted")
	}
}

func TestUploadBatch(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	f.login(t)
	writeAudio(t, f.dir, "a.mp3")
	writeAudio(t, f.dir, "b.flac")
	writeAudio(t, f.dir, "readme.md")

	results, err := f.app.UploadBatch(context.Background(), []string{filepath.Join(f.dir, "*")})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	jobs, _ := f.app.History(context.Background(), 0)
	if len(jobs) != 2 {
		t.Errorf("history has %d jobs", len(jobs))
	}
}

func TestDownloadPromptsLoginBeforeNetwork(t *testing.T) {
	f := newFixture(t, mockapi.Options{})

	_, err := f.app.Download(context.Background(), "talk_1_abc.mp3", DownloadOptions{Type: api.TypeTXT})
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("err = %v, want ErrLoginRequired", err)
	}
	if f.srv.Requests() != 0 {
		t.Errorf("made %d requests before authenticating", f.srv.Requests())
	}
	if len(f.prompt.Asked) == 0 || f.prompt.Asked[0] != "Email or phone" {
		t.Errorf("login form not shown: %v", f.prompt.Asked)
	}
}

func TestDownloadFromHistoryOffersRegistration(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	_, err := f.app.Download(context.Background(), "x.mp3", DownloadOptions{Type: api.TypeTXT, FromHistory: true})
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("err = %v, want ErrLoginRequired", err)
	}
	if len(f.prompt.Asked) == 0 || f.prompt.Asked[0] != "Name" {
		t.Errorf("registration form not shown: %v", f.prompt.Asked)
	}
}

func TestDownloadReauthenticatesOnUnauthorized(t *testing.T) {
	f := newFixture(t, mockapi.Options{}, testEmail, testPassword)
	f.login(t)
	ctx := context.Background()
	res, err := f.app.Upload(ctx, writeAudio(t, f.dir, "talk.mp3"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Simulate an expired token that still looks like a session.
	if err := f.app.setSession("expired-token", testName); err != nil {
		t.Fatal(err)
	}

	path, err := f.app.Download(ctx, "", DownloadOptions{Type: api.TypeTXT, Lang: "es"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != res.Filename+"_es.txt" {
		t.Errorf("saved as %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[es]") {
		t.Errorf("content = %q", data)
	}
	if !strings.Contains(f.out.String(), "session has expired") {
		t.Errorf("expiry notice not shown: %q", f.out.String())
	}
}

func TestDownloadPDF(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	f.login(t)
	ctx := context.Background()
	res, err := f.app.Upload(ctx, writeAudio(t, f.dir, "talk.mp3"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	path, err := f.app.Download(ctx, res.Filename, DownloadOptions{Type: api.TypePDF})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != res.Filename+"_en.pdf" {
		t.Errorf("saved as %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("not a pdf: %q", data)
	}
}

func TestDownloadInvalidType(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	f.login(t)
	before := f.srv.Requests()
	if _, err := f.app.Download(context.Background(), "a.mp3", DownloadOptions{Type: "exe"}); err == nil {
		t.Error("expected error for unsupported type")
	}
	if f.srv.Requests() != before {
		t.Error("invalid type reached the server")
	}
}

func TestTranslate(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()

	if err := f.app.Translate(ctx, "es"); !errors.Is(err, ErrNoTranscript) {
		t.Errorf("err = %v, want ErrNoTranscript", err)
	}

	f.app.Current().SetResults("talk.mp3", "[00:00 - 00:05] Hello.", "Greeting.")
	if err := f.app.Translate(ctx, "en"); err != nil {
		t.Fatal(err)
	}
	if f.srv.Requests() != 0 {
		t.Error("English should not contact the server")
	}

	if err := f.app.Translate(ctx, "es"); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	v := f.app.Current()
	if v.DisplayTranscript != "[es] [00:00 - 00:05] Hello." || v.MasterTranscript != "[00:00 - 00:05] Hello." {
		t.Errorf("view = %+v", v)
	}

	if err := f.app.Translate(ctx, "xx"); err == nil {
		t.Error("expected translation error")
	}
	if v.Language != "es" {
		t.Error("failed translation changed the view")
	}
}

func TestRejectsBadLanguageBeforeNetwork(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	f.login(t)
	ctx := context.Background()
	f.app.Current().SetResults("talk.mp3", "[00:00 - 00:05] Hello.", "Greeting.")
	before := f.srv.Requests()

	if err := f.app.Translate(ctx, "not a language!!"); !errors.Is(err, ErrLanguage) {
		t.Errorf("Translate err = %v, want ErrLanguage", err)
	}
	if _, err := f.app.Download(ctx, "talk.mp3", DownloadOptions{Type: api.TypeTXT, Lang: "../../etc"}); !errors.Is(err, ErrLanguage) {
		t.Errorf("Download err = %v, want ErrLanguage", err)
	}
	if f.srv.Requests() != before {
		t.Errorf("invalid language reached the server (%d requests)", f.srv.Requests()-before)
	}
	if v := f.app.Current(); v.Language != transcript.DefaultLanguage {
		t.Errorf("language changed to %q", v.Language)
	}
}

func TestViewAndSearch(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()
	res, err := f.app.Upload(ctx, writeAudio(t, f.dir, "talk.mp3"))
	if err != nil {
		t.Fatal(err)
	}

	f.out.Reset()
	n, err := f.app.Search(ctx, res.Filename, "LISTENING")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if n != 1 || !strings.Contains(f.out.String(), "**listening**") {
		t.Errorf("n=%d out=%q", n, f.out.String())
	}

	if _, err := f.app.Search(ctx, res.Filename, "a"); err == nil {
		t.Error("single character search should be rejected")
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	f := newFixture(t, mockapi.Options{}, "n", "y", "y")
	f.login(t)
	ctx := context.Background()

	res, err := f.app.Upload(ctx, writeAudio(t, f.dir, "talk.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.app.Upload(ctx, writeAudio(t, f.dir, "other.ogg")); err != nil {
		t.Fatal(err)
	}

	before := f.srv.Requests()
	if err := f.app.Delete(ctx, res.Filename); !errors.Is(err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
	if f.srv.Requests() != before {
		t.Error("cancelled delete reached the server")
	}

	if err := f.app.Delete(ctx, res.Filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.srv.JobCount() != 1 {
		t.Errorf("server holds %d jobs", f.srv.JobCount())
	}
	if _, err := f.history.Get(ctx, res.Filename); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("history kept deleted job: %v", err)
	}

	if err := f.app.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if f.srv.JobCount() != 0 {
		t.Error("server still holds jobs")
	}
	if jobs, _ := f.app.History(ctx, 0); len(jobs) != 0 {
		t.Errorf("history has %d jobs", len(jobs))
	}
}

func TestDeleteAsksForLoginFirst(t *testing.T) {
	f := newFixture(t, mockapi.Options{})

	if err := f.app.Delete(context.Background(), "a.mp3"); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("Delete err = %v, want ErrLoginRequired", err)
	}
	if len(f.prompt.Asked) == 0 || f.prompt.Asked[0] != "Email or phone" {
		t.Errorf("asked = %v, want the login form first", f.prompt.Asked)
	}

	f.prompt.Asked = nil
	if err := f.app.ClearAll(context.Background()); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("ClearAll err = %v, want ErrLoginRequired", err)
	}
	if len(f.prompt.Asked) == 0 || f.prompt.Asked[0] != "Email or phone" {
		t.Errorf("asked = %v, want the login form first", f.prompt.Asked)
	}
	if f.srv.Requests() != 0 {
		t.Errorf("made %d requests without a session", f.srv.Requests())
	}
}

func TestHistoryEntryIgnoresLimit(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	ctx := context.Background()
	for _, name := range []string{"old.mp3", "mid.mp3", "new.mp3"} {
		if err := f.history.Create(ctx, &history.Job{Filename: name}); err != nil {
			t.Fatal(err)
		}
	}

	jobs, err := f.app.History(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Filename != "new.mp3" {
		t.Fatalf("History(1) = %+v", jobs)
	}

	j, err := f.app.HistoryEntry(ctx, "old.mp3")
	if err != nil {
		t.Fatalf("HistoryEntry: %v", err)
	}
	if j.Filename != "old.mp3" {
		t.Errorf("got %s", j.Filename)
	}
	if _, err := f.app.HistoryEntry(ctx, "missing.mp3"); err == nil {
		t.Error("expected error for unknown file")
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t, mockapi.Options{})
	f.app.Current().SetResults("talk_1_abc.mp3", "[00:00 - 00:05] Hello.", "Greeting.")

	path, err := f.app.Export(context.Background(), "", ExportHTML, "")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "talk_1_abc_en.html" {
		t.Errorf("path = %s", path)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<code>00:00 - 00:05</code>") {
		t.Errorf("unexpected html: %s", data)
	}
	if f.srv.Requests() != 0 {
		t.Error("export of loaded transcript contacted the server")
	}
}
