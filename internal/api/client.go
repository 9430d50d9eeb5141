package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client talks to the TranscribeFlow HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the server at baseURL.
// timeout defaults to 60s if zero.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(io.Discard, "", 0),
	}
}

// SetToken sets the bearer token sent on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

// SetLogger directs request logging to l.
func (c *Client) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// BaseURL returns the server URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// SendOTP starts registration; the server emails a one-time password.
func (c *Client) SendOTP(ctx context.Context, name, email, password string) (string, error) {
	env, err := c.postJSON(ctx, "/auth/send_otp", sendOTPRequest{Name: name, Email: email, Password: password}, false)
	if err != nil {
		return "", err
	}
	if env.Message == "" {
		return "", &APIError{StatusCode: http.StatusOK, Detail: env.Detail}
	}
	return env.Message, nil
}

// VerifyOTP completes registration and returns the issued token.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	env, err := c.postJSON(ctx, "/auth/verify_otp", verifyOTPRequest{Email: email, OTP: otp}, false)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

// Login authenticates by email or phone identifier.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	env, err := c.postJSON(ctx, "/auth/login", loginRequest{Identifier: identifier, Password: password}, false)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

// ForgotPassword asks the server to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := c.postJSON(ctx, "/auth/forgot_password", forgotPasswordRequest{Email: email}, false)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*AuthResult, error) {
	env, err := c.postJSON(ctx, "/auth/reset_password", resetPasswordRequest{Token: token, NewPassword: newPassword}, false)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

func authResult(env *envelope) (*AuthResult, error) {
	if env.AccessToken == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Detail: env.Detail}
	}
	return &AuthResult{AccessToken: env.AccessToken, Name: env.Name}, nil
}

// Upload sends the audio file at path as multipart field "audio" and returns
// the server-side filename used for polling and downloads.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeAudioPart(writer, filepath.Base(path), f))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", pr, true)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	env, err := c.doEnvelope(req)
	if err != nil {
		return "", err
	}
	if env.Filename == "" {
		detail := env.Error
		if detail == "" {
			detail = "Unknown Error"
		}
		return "", &APIError{StatusCode: http.StatusOK, Detail: detail}
	}
	return env.Filename, nil
}

// writeAudioPart streams r into the "audio" form field and closes the form.
func writeAudioPart(w *multipart.Writer, name string, r io.Reader) error {
	part, err := w.CreateFormFile("audio", name)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copying %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}
	return nil
}

// CheckStatus fetches the processing state of an uploaded file.
func (c *Client) CheckStatus(ctx context.Context, filename string) (*JobStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/check_status/"+url.PathEscape(filename), nil, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var status JobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding status: %w", err)
	}
	return &status, nil
}

// Translate asks the server to translate transcript and summary into target.
func (c *Client) Translate(ctx context.Context, transcript, summary, target string) (*Translation, error) {
	req, err := c.newJSONRequest(ctx, "/translate_on_fly", translateRequest{Transcript: transcript, Summary: summary, Target: target}, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	var tr Translation
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decoding translation: %w", err)
	}
	if !tr.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: tr.Error}
	}
	return &tr, nil
}

// Download fetches a report for filename in the given format and language.
func (c *Client) Download(ctx context.Context, filename string, typ DownloadType, lang string) (*Download, error) {
	q := url.Values{}
	q.Set("type", string(typ))
	q.Set("lang", lang)

	req, err := c.newRequest(ctx, http.MethodGet, "/download/"+url.PathEscape(filename)+"?"+q.Encode(), nil, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}

	name := FilenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filename + "." + string(typ)
	}
	return &Download{Name: name, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// Delete removes a single uploaded file and its results.
func (c *Client) Delete(ctx context.Context, filename string) error {
	return c.postSuccess(ctx, "/delete/"+url.PathEscape(filename))
}

// ClearAll purges every uploaded file and result.
func (c *Client) ClearAll(ctx context.Context) error {
	return c.postSuccess(ctx, "/clear_all")
}

func (c *Client) postSuccess(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, true)
	if err != nil {
		return err
	}
	env, err := c.doEnvelope(req)
	if err != nil {
		return err
	}
	if !env.Success {
		return &APIError{StatusCode: http.StatusOK, Detail: env.Error}
	}
	return nil
}

var dispositionRe = regexp.MustCompile(`filename="?([^";]+)"?`)

// FilenameFromDisposition extracts the filename parameter from a
// Content-Disposition header, returning "" when there is none. Only the base
// name is kept so a server cannot direct writes outside the target directory.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	var name string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	}
	if name == "" {
		if m := dispositionRe.FindStringSubmatch(header); m != nil {
			name = m[1]
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = filepath.Base(filepath.FromSlash(name))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, auth bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any, auth bool) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data), auth)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, auth bool) (*envelope, error) {
	req, err := c.newJSONRequest(ctx, path, payload, auth)
	if err != nil {
		return nil, err
	}
	return c.doEnvelope(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("%s %s failed after %s: %v", req.Method, req.URL.Path, time.Since(start), err)
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, req.URL.Path, err)
	}
	c.logger.Printf("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// doEnvelope performs req and decodes the JSON envelope. Non-2xx responses
// become *APIError.
func (c *Client) doEnvelope(req *http.Request) (*envelope, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &env, nil
}

// errorFromResponse builds an APIError from a failed response. JSON bodies
// contribute detail/error/message; anything else is used as plain text.
func errorFromResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		apiErr.TrialEnded = env.TrialEnded
		switch {
		case env.Detail != "":
			apiErr.Detail = env.Detail
		case env.Error != "":
			apiErr.Detail = env.Error
		case env.Message != "":
			apiErr.Detail = env.Message
		}
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(data))
	return apiErr
}
