package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/app"
	"github.com/transcribeflow/tflow/internal/config"
	"github.com/transcribeflow/tflow/internal/db"
	"github.com/transcribeflow/tflow/internal/history"
	"github.com/transcribeflow/tflow/internal/progress"
	"github.com/transcribeflow/tflow/internal/prompt"
	"github.com/transcribeflow/tflow/internal/transcript"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `tflow init` to create a config file", err)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger returns a logger on stderr when --verbose is set.
func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "tflow: ", log.LstdFlags)
}

// openApp builds the App from config. The returned func closes the history
// database.
func openApp() (*app.App, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger()

	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	client.SetLogger(logger)

	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening history: %w", err)
	}

	style := transcript.PlainStyle
	if isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == "" {
		style = transcript.ANSIStyle
	}

	a, err := app.New(app.Options{
		Client:       client,
		History:      history.NewStore(database),
		Prompt:       prompt.Terminal{},
		Reporter:     progress.NewReporter(),
		Out:          os.Stdout,
		Logger:       logger,
		SessionPath:  cfg.SessionFile,
		PollInterval: cfg.PollInterval,
		Language:     cfg.Language,
		DownloadDir:  cfg.DownloadDir,
		Style:        style,
		AutoScroll:   cfg.AutoScroll,
		OpenURL:      openBrowser,
	})
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}
	logger.Printf("server %s, history %s", cfg.ServerURL, cfg.HistoryDB)
	return a, cfg, func() { database.Close() }, nil
}

// commandContext is cancelled on Ctrl-C or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// runWithApp opens the App, runs fn with a signal-aware context and
// releases everything afterwards.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, cfg *config.Config) error) error {
	a, cfg, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := commandContext(cmd)
	defer stop()
	return fn(ctx, a, cfg)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
