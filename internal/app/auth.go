package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/password"
	"github.com/transcribeflow/tflow/internal/prompt"
)

// AuthMode selects which form is shown when authentication is needed.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

// Register sends a one-time password, asks for it, and saves the session
// once the server verifies it.
func (a *App) Register(ctx context.Context, name, email, pw string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || pw == "" {
		return ErrRegisterFields
	}
	a.printf("%s\n", password.Render(pw))

	msg, err := a.client.SendOTP(ctx, name, email, pw)
	if err != nil {
		return explain(err, "Registration failed.")
	}
	a.printf("%s\n", msg)

	otp, err := a.prompt.Input("Enter the OTP sent to "+email, "", nil)
	if err != nil {
		return err
	}
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return ErrOTPRequired
	}

	res, err := a.client.VerifyOTP(ctx, email, otp)
	if err != nil {
		return explain(err, "OTP verification failed.")
	}
	display := res.Name
	if display == "" {
		display = localPart(email)
	}
	if err := a.setSession(res.AccessToken, display); err != nil {
		return err
	}
	a.printf("Account created successfully! Hi, %s\n", display)
	return nil
}

// Login authenticates with an email or phone identifier.
func (a *App) Login(ctx context.Context, identifier, pw string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || pw == "" {
		return ErrCredentials
	}
	res, err := a.client.Login(ctx, identifier, pw)
	if err != nil {
		return explain(err, "Login failed.")
	}
	display := res.Name
	if display == "" {
		display = localPart(identifier)
	}
	if err := a.setSession(res.AccessToken, display); err != nil {
		return err
	}
	a.printf("Logged in successfully! Hi, %s\n", display)
	return nil
}

// GoogleLogin signs in through the server's Google flow. The server keeps
// the OAuth redirect for itself and lands the browser on its own page with
// the token in the address, so the user pastes that address back here.
func (a *App) GoogleLogin() error {
	loginURL := a.client.GoogleLoginURL()
	a.printf("Sign in with Google in your browser. If it doesn't open, visit:\n%s\n\n", loginURL)
	if a.openURL != nil {
		if err := a.openURL(loginURL); err != nil {
			a.logger.Printf("opening browser: %v", err)
		}
	}

	raw, err := a.prompt.Input("Paste the address your browser ended on", "", nil)
	if err != nil {
		return err
	}
	res, err := api.ParseGoogleRedirect(raw)
	if err != nil {
		a.logger.Printf("google redirect: %v", err)
		return ErrGoogleRedirect
	}
	display := res.Name
	if display == "" {
		display = nameFromToken(res.AccessToken)
	}
	if err := a.setSession(res.AccessToken, display); err != nil {
		return err
	}
	a.printf("Logged in successfully! Hi, %s\n", display)
	return nil
}

// ForgotPassword asks the server to email a reset link.
func (a *App) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	msg, err := a.client.ForgotPassword(ctx, email)
	if err != nil {
		return explain(err, "Something went wrong.")
	}
	a.printf("%s\n", msg)
	return nil
}

// ResetPassword sets a new password with an emailed token and logs in.
func (a *App) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	if strings.TrimSpace(token) == "" {
		return ErrResetToken
	}
	if newPassword == "" || confirm == "" {
		return ErrResetFields
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if !password.Check(newPassword).All() {
		return ErrPasswordRules
	}

	res, err := a.client.ResetPassword(ctx, strings.TrimSpace(token), newPassword)
	if err != nil {
		return explain(err, "Something went wrong.")
	}
	display := res.Name
	if display == "" {
		display = nameFromToken(res.AccessToken)
	}
	if err := a.setSession(res.AccessToken, display); err != nil {
		return err
	}
	a.printf("New password created!\n")
	return nil
}

// Logout forgets the saved session.
func (a *App) Logout() error {
	if err := a.clearSession(); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}

// ensureAuth makes sure a session exists, prompting for one if needed.
// Nothing is sent to the server unless the user fills in the form.
func (a *App) ensureAuth(ctx context.Context, mode AuthMode) error {
	if a.session.LoggedIn() {
		return nil
	}
	a.printf("Please log in to continue.\n")
	return a.authenticate(ctx, mode)
}

// authenticate prompts for credentials and runs the chosen flow.
func (a *App) authenticate(ctx context.Context, mode AuthMode) error {
	err := a.promptAuth(ctx, mode)
	if errors.Is(err, prompt.ErrAborted) {
		return ErrLoginRequired
	}
	return err
}

func (a *App) promptAuth(ctx context.Context, mode AuthMode) error {
	if mode == ModeRegister {
		name, err := a.prompt.Input("Name", "", nil)
		if err != nil {
			return err
		}
		email, err := a.prompt.Input("Email", "", nil)
		if err != nil {
			return err
		}
		pw, err := a.prompt.Password("Password", nil)
		if err != nil {
			return err
		}
		return a.Register(ctx, name, email, pw)
	}

	identifier, err := a.prompt.Input("Email or phone", "", nil)
	if err != nil {
		return err
	}
	pw, err := a.prompt.Password("Password", nil)
	if err != nil {
		return err
	}
	return a.Login(ctx, identifier, pw)
}

// withAuth runs fn with a session in place. If the server rejects the
// token, the user is asked to authenticate again and fn runs once more.
func (a *App) withAuth(ctx context.Context, mode AuthMode, fn func(context.Context) error) error {
	if err := a.ensureAuth(ctx, mode); err != nil {
		return err
	}
	err := fn(ctx)
	if !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	a.logger.Printf("server rejected token: %v", err)
	a.printf("Your session has expired. Please log in again.\n")
	if err := a.clearSession(); err != nil {
		return err
	}
	if err := a.authenticate(ctx, mode); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("after re-authenticating: %w", err)
	}
	return nil
}
