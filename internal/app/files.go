package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/history"
	"github.com/transcribeflow/tflow/internal/transcript"
)

// DownloadOptions selects the report to fetch.
type DownloadOptions struct {
	Type api.DownloadType
	// Lang defaults to the configured language.
	Lang string
	// Dir defaults to the configured download directory.
	Dir string
	// FromHistory offers registration rather than login when no session exists.
	FromHistory bool
}

// Download fetches a report for filename (or the current transcript) and
// writes it to disk. Without a session the user is asked to authenticate
// before any request is made.
func (a *App) Download(ctx context.Context, filename string, opts DownloadOptions) (string, error) {
	if !opts.Type.Valid() {
		return "", Problem(fmt.Sprintf("Unsupported report type %q (use txt, docx or pdf).", opts.Type))
	}
	if filename == "" {
		filename = a.view.Filename
	}
	if filename == "" {
		return "", ErrNoTranscript
	}
	lang := strings.ToLower(strings.TrimSpace(opts.Lang))
	if lang == "" {
		lang = a.language
	}
	if !transcript.ValidLanguage(lang) {
		return "", ErrLanguage
	}
	dir := opts.Dir
	if dir == "" {
		dir = a.downloadDir
	}
	mode := ModeLogin
	if opts.FromHistory {
		mode = ModeRegister
	}

	var d *api.Download
	err := a.withAuth(ctx, mode, func(ctx context.Context) error {
		var err error
		d, err = a.client.Download(ctx, filename, opts.Type, lang)
		return err
	})
	if err != nil {
		return "", explain(err, "Download failed.")
	}

	path, err := writeFile(dir, d.Name, d.Data)
	if err != nil {
		return "", err
	}
	a.printf("Saved %s (%s)\n", path, humanize.Bytes(uint64(len(d.Data))))
	return path, nil
}

// ExportFormat is a report rendered locally from the loaded transcript.
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "md"
	ExportHTML     ExportFormat = "html"
)

// Export renders the transcript for filename (or the current one) as a
// Markdown or HTML report without contacting the server for the file itself.
func (a *App) Export(ctx context.Context, filename string, format ExportFormat, dir string) (string, error) {
	if err := a.Load(ctx, filename); err != nil {
		return "", err
	}
	if dir == "" {
		dir = a.downloadDir
	}

	var data []byte
	switch format {
	case ExportMarkdown:
		data = []byte(transcript.Markdown(&a.view))
	case ExportHTML:
		page, err := transcript.HTML(&a.view)
		if err != nil {
			return "", err
		}
		data = page
	default:
		return "", Problem(fmt.Sprintf("Unsupported export format %q (use md or html).", format))
	}

	if !transcript.ValidLanguage(a.view.Language) {
		return "", ErrLanguage
	}
	stem := strings.TrimSuffix(a.view.Filename, filepath.Ext(a.view.Filename))
	name := fmt.Sprintf("%s_%s.%s", stem, a.view.Language, format)
	path, err := writeFile(dir, name, data)
	if err != nil {
		return "", err
	}
	a.printf("Saved %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return path, nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Delete removes one file from the server after confirmation, then drops
// its local history entry. Without a session the login form comes first.
func (a *App) Delete(ctx context.Context, filename string) error {
	if err := a.ensureAuth(ctx, ModeLogin); err != nil {
		return err
	}
	ok, err := a.prompt.Confirm(fmt.Sprintf("Delete %s", filename))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	err = a.withAuth(ctx, ModeLogin, func(ctx context.Context) error {
		return a.client.Delete(ctx, filename)
	})
	if err != nil {
		return explain(err, "Could not delete file.")
	}

	if a.history != nil {
		if err := a.history.Delete(ctx, filename); err != nil && !errors.Is(err, history.ErrNotFound) {
			a.logger.Printf("removing %s from history: %v", filename, err)
		}
	}
	if a.view.Filename == filename {
		a.view = transcript.ViewState{AutoScroll: a.view.AutoScroll}
	}
	a.printf("File deleted\n")
	return nil
}

// ClearAll purges every recording and transcript after confirmation.
func (a *App) ClearAll(ctx context.Context) error {
	if err := a.ensureAuth(ctx, ModeLogin); err != nil {
		return err
	}
	ok, err := a.prompt.Confirm("This will permanently delete all recordings and transcripts! Purge all")
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	err = a.withAuth(ctx, ModeLogin, func(ctx context.Context) error {
		return a.client.ClearAll(ctx)
	})
	if err != nil {
		return explain(err, "Could not purge files.")
	}

	if a.history != nil {
		if _, err := a.history.Clear(ctx); err != nil {
			a.logger.Printf("clearing history: %v", err)
		}
	}
	a.view = transcript.ViewState{AutoScroll: a.view.AutoScroll}
	a.printf("History purged\n")
	return nil
}

// History lists locally recorded uploads, newest first.
func (a *App) History(ctx context.Context, limit int) ([]history.Job, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.List(ctx, limit)
}

// HistoryEntry returns the local history record for filename regardless of
// how old it is.
func (a *App) HistoryEntry(ctx context.Context, filename string) (*history.Job, error) {
	if a.history == nil {
		return nil, Problem(fmt.Sprintf("No history for %s.", filename))
	}
	j, err := a.history.Get(ctx, filename)
	if errors.Is(err, history.ErrNotFound) {
		return nil, Problem(fmt.Sprintf("No history for %s.", filename))
	}
	return j, err
}
