package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/audio"
	"github.com/transcribeflow/tflow/internal/history"
	"github.com/transcribeflow/tflow/internal/poller"
	"github.com/transcribeflow/tflow/internal/transcript"
)

// trialNotice is shown when the server refuses an anonymous upload.
const trialNotice = "Free Trial Ended: you've reached your free limit. Please sign in to continue."

// Result is the outcome of one upload.
type Result struct {
	Path     string
	Filename string
	Status   *api.JobStatus
	Err      error
}

// Upload validates and uploads one audio file, waits for the transcription
// and renders it. The extension is checked before anything is sent.
func (a *App) Upload(ctx context.Context, path string) (*Result, error) {
	size, err := audio.CheckFile(path)
	if err != nil {
		return nil, err
	}

	filename, err := a.client.Upload(ctx, path)
	if errors.Is(err, api.ErrTrialEnded) {
		a.printf("%s\n", trialNotice)
		if err := a.authenticate(ctx, ModeLogin); err != nil {
			return nil, err
		}
		filename, err = a.client.Upload(ctx, path)
	}
	if err != nil {
		return nil, explain(err, "Unknown Error")
	}
	a.printf("Upload successful: %s\n", filename)

	if a.history != nil {
		j := &history.Job{Filename: filename, SourcePath: path, SizeBytes: size}
		if err := a.history.Create(ctx, j); err != nil {
			a.logger.Printf("recording %s: %v", filename, err)
		}
	}

	res := &Result{Path: path, Filename: filename}
	st, err := a.wait(ctx, filename, "Transcribing "+filepath.Base(path))
	res.Status = st
	if err != nil {
		return res, err
	}
	if _, err := transcript.Render(a.out, &a.view, a.style, ""); err != nil {
		return res, err
	}
	return res, nil
}

// UploadBatch expands the patterns and uploads every matching file in
// turn. Unsupported files are rejected before the first upload starts.
func (a *App) UploadBatch(ctx context.Context, patterns []string) ([]Result, error) {
	paths, err := audio.Expand(patterns)
	if err != nil {
		return nil, err
	}

	var (
		results []Result
		failed  int
	)
	for i, p := range paths {
		a.printf("[%d/%d] %s\n", i+1, len(paths), p)
		res, err := a.Upload(ctx, p)
		if res == nil {
			res = &Result{Path: p}
		}
		res.Err = err
		results = append(results, *res)
		if err == nil {
			continue
		}
		failed++
		a.printf("%s: %v\n", p, err)
		if errors.Is(err, ErrLoginRequired) || ctx.Err() != nil {
			return results, err
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return results, nil
}

// Wait polls an existing job until it finishes and renders the result.
func (a *App) Wait(ctx context.Context, filename string) (*api.JobStatus, error) {
	st, err := a.wait(ctx, filename, "Waiting for "+filename)
	if err != nil {
		return st, err
	}
	_, err = transcript.Render(a.out, &a.view, a.style, "")
	return st, err
}

func (a *App) wait(ctx context.Context, filename, description string) (*api.JobStatus, error) {
	a.reporter.Start(100, description)
	st, err := poller.Poll(ctx, a.client, filename, poller.Options{
		Interval: a.pollInterval,
		Logger:   a.logger,
	}, func(u poller.Update) {
		a.reporter.Update(u.Status.Progress, u.Message)
		if u.Status.Status == api.StatusProcessing {
			a.recordProgress(ctx, filename, u.Status.Progress, u.Message)
		}
	})
	a.reporter.Finish()
	if err != nil {
		return nil, err
	}
	return st, a.record(ctx, filename, st)
}

// Status fetches the current state of a job once.
func (a *App) Status(ctx context.Context, filename string) (*api.JobStatus, error) {
	st, err := a.client.CheckStatus(ctx, filename)
	if err != nil {
		return nil, explain(err, "Could not fetch status.")
	}
	if st.Status == api.StatusProcessing {
		a.recordProgress(ctx, filename, st.Progress, poller.Message(st))
		return st, nil
	}
	return st, a.record(ctx, filename, st)
}

// record stores a terminal status locally and loads a completed result
// into the view.
func (a *App) record(ctx context.Context, filename string, st *api.JobStatus) error {
	switch st.Status {
	case api.StatusCompleted:
		a.view.SetResults(filename, st.Transcript, st.Summary)
		if a.history != nil {
			if err := a.history.SaveResult(ctx, filename, st.Transcript, st.Summary); err != nil && !errors.Is(err, history.ErrNotFound) {
				a.logger.Printf("saving result for %s: %v", filename, err)
			}
		}
	case api.StatusError:
		if a.history != nil {
			if err := a.history.MarkFailed(ctx, filename, st.Message); err != nil && !errors.Is(err, history.ErrNotFound) {
				a.logger.Printf("marking %s failed: %v", filename, err)
			}
		}
		return fmt.Errorf("%w: %s", ErrProcessingFailed, poller.Message(st))
	}
	return nil
}

func (a *App) recordProgress(ctx context.Context, filename string, pct int, msg string) {
	if a.history == nil {
		return
	}
	if err := a.history.UpdateProgress(ctx, filename, pct, msg); err != nil && !errors.Is(err, history.ErrNotFound) {
		a.logger.Printf("updating %s: %v", filename, err)
	}
}

// Load makes filename the current transcript, reading it from local history
// when available and from the server otherwise. An empty filename keeps the
// transcript already loaded.
func (a *App) Load(ctx context.Context, filename string) error {
	if filename == "" {
		if !a.view.HasResults() {
			return ErrNoTranscript
		}
		return nil
	}
	if a.history != nil {
		j, err := a.history.Get(ctx, filename)
		if err == nil && j.Status == api.StatusCompleted {
			a.view.SetResults(j.Filename, j.Transcript, j.Summary)
			return nil
		}
	}
	st, err := a.Status(ctx, filename)
	if err != nil {
		return err
	}
	if st.Status != api.StatusCompleted {
		return Problem(fmt.Sprintf("%s is still processing (%d%%).", filename, st.Progress))
	}
	return nil
}

// View loads filename, optionally translates it, and renders it with the
// query highlighted. It returns the number of matches.
func (a *App) View(ctx context.Context, filename, lang, query string) (int, error) {
	if err := a.Load(ctx, filename); err != nil {
		return 0, err
	}
	if lang != "" {
		if err := a.Translate(ctx, lang); err != nil {
			return 0, err
		}
	}
	return transcript.Render(a.out, &a.view, a.style, query)
}

// Search prints the transcript with every match of query highlighted.
func (a *App) Search(ctx context.Context, filename, query string) (int, error) {
	if len([]rune(strings.TrimSpace(query))) < transcript.MinQueryLength {
		return 0, Problem(fmt.Sprintf("Search for at least %d characters.", transcript.MinQueryLength))
	}
	n, err := a.View(ctx, filename, "", strings.TrimSpace(query))
	if err != nil {
		return 0, err
	}
	a.printf("\n%d match(es) for %q\n", n, query)
	return n, nil
}

// Translate shows the current transcript in lang. English restores the
// original without contacting the server.
func (a *App) Translate(ctx context.Context, lang string) error {
	if !a.view.HasResults() {
		return ErrNoTranscript
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == transcript.DefaultLanguage {
		a.view.ShowOriginal()
		return nil
	}
	if !transcript.ValidLanguage(lang) {
		return ErrLanguage
	}

	tr, err := a.client.Translate(ctx, a.view.MasterTranscript, a.view.MasterSummary, lang)
	if err != nil {
		a.logger.Printf("translating to %s: %v", lang, err)
		return explain(err, "Translation Error")
	}
	a.view.Display(lang, tr.TranslatedText, tr.TranslatedSummary)
	a.printf("Language Updated!\n")
	return nil
}
