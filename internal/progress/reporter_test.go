package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LineReporter{Out: &buf}

	r.Start(100, "Transcribing talk.mp3")
	r.Update(5, "Waking up the AI models...")
	r.Update(5, "Waking up the AI models...")
	r.Update(40, "Filtering out background noise...")
	r.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Transcribing talk.mp3",
		"[5/100] Waking up the AI models...",
		"[40/100] Filtering out background noise...",
		"Done",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestNewReporterUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*LineReporter); !ok {
		t.Error("expected LineReporter under CI")
	}
}
