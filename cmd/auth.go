package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/app"
	"github.com/transcribeflow/tflow/internal/config"
	"github.com/transcribeflow/tflow/internal/password"
	"github.com/transcribeflow/tflow/internal/prompt"
	"github.com/transcribeflow/tflow/internal/session"
)

var (
	authName     string
	authEmail    string
	authPassword string
	resetToken   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your TranscribeFlow account",
	Long: `Create an account, log in and out, and recover a forgotten password.

The session is stored in ~/.tflow/session.json (see session_file) and is
sent with uploads, downloads and deletions.`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account (a one-time password is emailed to you)",
	RunE:  runAuthRegister,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your email or phone number",
	RunE:  runAuthLogin,
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Log in with your Google account in the browser",
	Long: `Opens the server's Google sign-in page in your browser. After signing in
the browser lands on a TranscribeFlow page whose address carries your
session; paste that address when asked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			return a.GoogleLogin()
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
			return a.Logout()
		})
	},
}

var authForgotCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Email a password reset link",
	RunE:  runAuthForgot,
}

var authResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password using the token from the reset link",
	RunE:  runAuthReset,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE:  runAuthStatus,
}

var authStrengthCmd = &cobra.Command{
	Use:   "strength",
	Short: "Check a password against the account password rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := prompt.Terminal{}.Password("Password", nil)
		if err != nil {
			return err
		}
		fmt.Println(password.Render(pw))
		return password.Validate(pw)
	},
}

func init() {
	authRegisterCmd.Flags().StringVar(&authName, "name", "", "your name")
	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "your email address")
	authRegisterCmd.Flags().StringVar(&authPassword, "password", "", "password (prompted when empty)")

	authLoginCmd.Flags().StringVar(&authEmail, "identifier", "", "email or phone number")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "password (prompted when empty)")

	authForgotCmd.Flags().StringVar(&authEmail, "email", "", "account email address")

	authResetCmd.Flags().StringVar(&resetToken, "token", "", "token from the reset link")

	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authGoogleCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authForgotCmd)
	authCmd.AddCommand(authResetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authStrengthCmd)
}

// ask returns value when set and prompts for it otherwise.
func ask(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return prompt.Terminal{}.Password(label, nil)
	}
	return prompt.Terminal{}.Input(label, "", nil)
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	name, err := ask(authName, "Name", false)
	if err != nil {
		return err
	}
	email, err := ask(authEmail, "Email", false)
	if err != nil {
		return err
	}
	pw, err := ask(authPassword, "Password", true)
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
		return a.Register(ctx, name, email, pw)
	})
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	identifier, err := ask(authEmail, "Email or phone", false)
	if err != nil {
		return err
	}
	pw, err := ask(authPassword, "Password", true)
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
		return a.Login(ctx, identifier, pw)
	})
}

func runAuthForgot(cmd *cobra.Command, args []string) error {
	email, err := ask(authEmail, "Email", false)
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
		return a.ForgotPassword(ctx, email)
	})
}

func runAuthReset(cmd *cobra.Command, args []string) error {
	token, err := ask(resetToken, "Reset token", false)
	if err != nil {
		return err
	}
	pw, err := ask("", "New password", true)
	if err != nil {
		return err
	}
	fmt.Println(password.Render(pw))
	confirm, err := ask("", "Confirm password", true)
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config) error {
		return a.ResetPassword(ctx, token, pw, confirm)
	})
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := session.Load(cfg.SessionFile)
	if err != nil {
		return err
	}
	if !s.LoggedIn() {
		fmt.Println("Not logged in. Run `tflow auth login` or `tflow auth register`.")
		return nil
	}

	fmt.Printf("Logged in as %s\n", s.Name)
	claims, err := session.ParseClaims(s.AccessToken)
	if err != nil {
		fmt.Printf("  Token: unreadable (%v)\n", err)
		return nil
	}
	if claims.Subject != "" {
		fmt.Printf("  Account: %s\n", claims.Subject)
	}
	if !claims.ExpiresAt.IsZero() {
		state := "expires"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Printf("  Token %s %s\n", state, humanize.Time(claims.ExpiresAt))
	}
	return nil
}
