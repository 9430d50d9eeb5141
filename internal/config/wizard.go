package config

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"time"

	"github.com/transcribeflow/tflow/internal/prompt"
)

// RunWizard asks for the main settings, saves them to path and returns the
// resulting Config. Values already in base are offered as defaults.
func RunWizard(p prompt.Prompter, out io.Writer, base *Config, path string) (*Config, error) {
	fmt.Fprintln(out, "Welcome to tflow! Let's configure your client.")
	fmt.Fprintln(out)

	cfg := *base

	// 1. Server URL.
	server, err := p.Input("TranscribeFlow server URL", cfg.ServerURL, func(s string) error {
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("enter an http(s) URL")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	cfg.ServerURL = server

	// 2. Report language.
	codes := languageCodes()
	items := make([]string, len(codes))
	for i, c := range codes {
		items[i] = fmt.Sprintf("%s (%s)", c, Languages[c])
	}
	idx, err := p.Select("Default report language", items)
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}
	cfg.Language = codes[idx]

	// 3. Download directory.
	dir, err := p.Input("Directory for downloaded reports", cfg.DownloadDir, nil)
	if err != nil {
		return nil, fmt.Errorf("download dir: %w", err)
	}
	cfg.DownloadDir = dir

	// 4. Poll interval.
	interval, err := p.Input("Status poll interval", cfg.PollInterval.String(), func(s string) error {
		d, err := time.ParseDuration(s)
		if err != nil || d < 100*time.Millisecond {
			return fmt.Errorf("enter a duration of at least 100ms, e.g. 1.5s")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("poll interval: %w", err)
	}
	cfg.PollInterval, _ = time.ParseDuration(interval)

	// 5. Auto-scroll.
	autoScroll, err := p.Confirm("Show the end of the transcript last (auto-scroll)")
	if err != nil {
		return nil, fmt.Errorf("auto-scroll: %w", err)
	}
	cfg.AutoScroll = autoScroll

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", path)
	return &cfg, nil
}

// languageCodes returns the known language codes with English first.
func languageCodes() []string {
	codes := make([]string, 0, len(Languages))
	for c := range Languages {
		if c != "en" {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return append([]string{"en"}, codes...)
}
