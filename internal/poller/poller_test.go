package poller

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/transcribeflow/tflow/internal/api"
)

// scriptedFetcher returns the queued responses in order, repeating the last.
type scriptedFetcher struct {
	mu    sync.Mutex
	steps []step
	calls int
}

type step struct {
	status *api.JobStatus
	err    error
}

func (f *scriptedFetcher) CheckStatus(ctx context.Context, filename string) (*api.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	f.calls++
	return f.steps[i].status, f.steps[i].err
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func processing(p int) step {
	return step{status: &api.JobStatus{Status: api.StatusProcessing, Progress: p}}
}

func testOptions() Options {
	return Options{Interval: time.Millisecond, Rand: rand.New(rand.NewSource(1))}
}

func TestPollStopsOnCompleted(t *testing.T) {
	f := &scriptedFetcher{steps: []step{
		processing(10),
		processing(70),
		{status: &api.JobStatus{Status: api.StatusCompleted, Progress: 100, Transcript: "hi", Summary: "s"}},
		processing(5), // must never be reached
	}}

	var updates []Update
	st, err := Poll(context.Background(), f, "a.mp3", testOptions(), func(u Update) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if st.Status != api.StatusCompleted || st.Transcript != "hi" {
		t.Errorf("final status %+v", st)
	}
	if f.Calls() != 3 {
		t.Errorf("calls = %d, want 3", f.Calls())
	}
	if len(updates) != 3 {
		t.Fatalf("updates = %d, want 3", len(updates))
	}
	if updates[1].Message != SummaryMessage {
		t.Errorf("progress 70 message = %q, want summary message", updates[1].Message)
	}
}

func TestPollStopsOnError(t *testing.T) {
	f := &scriptedFetcher{steps: []step{
		processing(10),
		{status: &api.JobStatus{Status: api.StatusError, Message: "bad audio"}},
		processing(5),
	}}

	st, err := Poll(context.Background(), f, "a.mp3", testOptions(), nil)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if st.Status != api.StatusError || st.Message != "bad audio" {
		t.Errorf("final status %+v", st)
	}
	if f.Calls() != 2 {
		t.Errorf("calls = %d, want 2", f.Calls())
	}
}

func TestPollContinuesAfterFetchError(t *testing.T) {
	f := &scriptedFetcher{steps: []step{
		{err: errors.New("connection reset")},
		{err: errors.New("connection reset")},
		{status: &api.JobStatus{Status: api.StatusCompleted, Progress: 100}},
	}}

	st, err := Poll(context.Background(), f, "a.mp3", testOptions(), nil)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if st.Status != api.StatusCompleted {
		t.Errorf("final status %+v", st)
	}
	if f.Calls() != 3 {
		t.Errorf("calls = %d, want 3", f.Calls())
	}
}

func TestPollCancelled(t *testing.T) {
	f := &scriptedFetcher{steps: []step{processing(10)}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Poll(ctx, f, "a.mp3", testOptions(), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// No further fetches once Poll has returned.
	n := f.Calls()
	time.Sleep(10 * time.Millisecond)
	if f.Calls() != n {
		t.Errorf("fetches continued after return: %d -> %d", n, f.Calls())
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		st      api.JobStatus
		summary bool
	}{
		{api.JobStatus{Status: api.StatusProcessing, Progress: 65}, false},
		{api.JobStatus{Status: api.StatusProcessing, Progress: 66}, true},
		{api.JobStatus{Status: api.StatusProcessing, Progress: 84}, true},
		{api.JobStatus{Status: api.StatusProcessing, Progress: 85}, false},
	}
	for _, tt := range tests {
		got := Message(&tt.st)
		if (got == SummaryMessage) != tt.summary {
			t.Errorf("Message(progress=%d) = %q", tt.st.Progress, got)
		}
		if !tt.summary {
			found := false
			for _, m := range LoadingMessages {
				if m == got {
					found = true
				}
			}
			if !found {
				t.Errorf("Message(progress=%d) = %q, not a loading message", tt.st.Progress, got)
			}
		}
	}

	if got := Message(&api.JobStatus{Status: api.StatusError, Message: "boom"}); got != "boom" {
		t.Errorf("error message = %q", got)
	}
}
