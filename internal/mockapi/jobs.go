package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/transcribeflow/tflow/internal/audio"
)

const maxUploadBytes = 50 << 20

type job struct {
	Original   string
	Size       int64
	Polls      int
	Status     string
	Progress   int
	Message    string
	Transcript string
	Summary    string
}

// unsupportedTargets lists language codes the translate stub rejects.
var unsupportedTargets = map[string]bool{"xx": true, "zz": true}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	loggedIn := s.subjectFromRequest(r) != ""

	if !loggedIn {
		s.mu.Lock()
		ended := s.trialUsed >= s.opts.TrialLimit
		s.mu.Unlock()
		if ended {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"trial_ended": true,
				"message":     "Free Trial Ended. Please login to continue.",
			})
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file"})
		return
	}
	defer file.Close()

	if !audio.IsAllowed(header.Filename) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid file"})
		return
	}
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Could not read file"})
		return
	}

	original := filepath.Base(header.Filename)
	ext := filepath.Ext(original)
	stem := strings.TrimSuffix(original, ext)
	filename := fmt.Sprintf("%s_%d_%s%s", stem, time.Now().Unix(), uuid.New().String()[:6], ext)

	s.mu.Lock()
	s.jobs[filename] = &job{Original: original, Size: size, Status: "processing", Progress: 5}
	if !loggedIn {
		s.trialUsed++
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload successful", "filename": filename})
}

func (s *Server) handleCheckStatus(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	s.mu.Lock()
	j, ok := s.jobs[filename]
	if !ok {
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": "processing", "progress": 5})
		return
	}
	s.advance(j)
	body := map[string]any{"status": j.Status, "progress": j.Progress}
	if j.Message != "" {
		body["message"] = j.Message
	}
	if j.Status == "completed" {
		body["transcript"] = j.Transcript
		body["summary"] = j.Summary
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

// advance moves a job one poll closer to completion. Must hold s.mu.
func (s *Server) advance(j *job) {
	if j.Status != "processing" {
		return
	}
	j.Polls++
	if j.Size == 0 {
		j.Status = "error"
		j.Message = "Audio file is empty or unreadable."
		return
	}
	if j.Polls >= s.opts.PollsToComplete {
		j.Status = "completed"
		j.Progress = 100
		j.Message = "Done"
		j.Transcript = fmt.Sprintf("[00:00 - 00:05] Transcript of %s.\n[00:05 - 00:10] Thanks for listening.", j.Original)
		j.Summary = fmt.Sprintf("A short recording named %s.", j.Original)
		return
	}
	j.Progress = 5 + j.Polls*90/s.opts.PollsToComplete
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transcript string `json:"transcript"`
		Summary    string `json:"summary"`
		Target     string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid request body"})
		return
	}
	target := req.Target
	if target == "" {
		target = "en"
	}
	if unsupportedTargets[target] {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "unsupported language: " + target})
		return
	}

	summary := ""
	if req.Summary != "" {
		summary = translateStub(req.Summary, target)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"translated_text":    translateStub(req.Transcript, target),
		"translated_summary": summary,
	})
}

// translateStub tags each line with the target language.
func translateStub(text, target string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "[" + target + "] " + l
	}
	return strings.Join(lines, "\n")
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	typ := r.URL.Query().Get("type")
	if typ == "" {
		typ = "txt"
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	s.mu.Lock()
	j, ok := s.jobs[filename]
	var transcript, summary string
	if ok && j.Status == "completed" {
		transcript, summary = j.Transcript, j.Summary
	}
	s.mu.Unlock()

	if transcript == "" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if lang != "en" {
		transcript = translateStub(transcript, lang)
		if summary != "" {
			summary = translateStub(summary, lang)
		}
	}

	var (
		content  string
		mimeType string
	)
	switch typ {
	case "docx":
		// Not a real document; the client only cares about bytes and headers.
		content = fmt.Sprintf("TranscribeFlow Report\n\nSummary\n%s\n\nTranscript\n%s", summary, transcript)
		mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		content = fakePDF(summary, transcript)
		mimeType = "application/pdf"
	default:
		// Unknown types fall back to plain text.
		typ = "txt"
		content = fmt.Sprintf("SUMMARY:\n%s\n\nTRANSCRIPT:\n%s", summary, transcript)
		mimeType = "text/plain"
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=%s_%s.%s", filename, lang, typ))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

// fakePDF wraps the report in a PDF header and trailer. Viewers will not
// open it, but it carries the same text a real report would.
func fakePDF(summary, transcript string) string {
	return fmt.Sprintf("%%PDF-1.4\n%% TranscribeFlow Report\nSummary\n%s\n\nTranscript\n%s\n%%%%EOF\n", summary, transcript)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	s.mu.Lock()
	delete(s.jobs, filename)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.jobs = make(map[string]*job)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// JobCount returns the number of uploaded files the server holds.
func (s *Server) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
