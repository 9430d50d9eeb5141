package poller

import (
	"context"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/transcribeflow/tflow/internal/api"
)

// DefaultInterval matches the web client's polling cadence.
const DefaultInterval = 1500 * time.Millisecond

// The server is summarising while progress is strictly between these bounds.
const (
	summaryLow  = 65
	summaryHigh = 85
)

// LoadingMessages are shown while a job is processing outside the summary window.
var LoadingMessages = []string{
	"Waking up the AI models...",
	"Listening closely to every frequency...",
	"Whisper AI is translating thoughts to text...",
	"Filtering out background noise...",
	"Extracting core intelligence...",
	"Polishing the final transcript...",
	"Synthesizing your report...",
	"Finalizing the linguistic structure...",
}

// SummaryMessage is shown while progress is inside the summary window.
const SummaryMessage = "AI generating concise summary..."

// Fetcher returns the current status of a job. *api.Client satisfies it.
type Fetcher interface {
	CheckStatus(ctx context.Context, filename string) (*api.JobStatus, error)
}

// Options tunes a Poll call.
type Options struct {
	Interval time.Duration
	Logger   *log.Logger
	// Rand picks loading messages; tests pass a seeded source.
	Rand *rand.Rand
}

// Update is delivered to the callback after every successful fetch.
type Update struct {
	Status  *api.JobStatus
	Message string
}

// Poll fetches the status of filename on a fixed interval until the job
// reaches a terminal state or ctx is done. Fetch errors are logged and the
// next tick tries again. The returned status is the terminal one.
func Poll(ctx context.Context, f Fetcher, filename string, opts Options, onUpdate func(Update)) (*api.JobStatus, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		st, err := f.CheckStatus(ctx, filename)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Printf("polling %s: %v", filename, err)
			continue
		}

		if onUpdate != nil {
			onUpdate(Update{Status: st, Message: message(st, rng)})
		}
		if st.Status.IsTerminal() {
			return st, nil
		}
	}
}

// Message returns the text to show for a status update.
func Message(st *api.JobStatus) string {
	return message(st, nil)
}

func message(st *api.JobStatus, rng *rand.Rand) string {
	switch st.Status {
	case api.StatusProcessing:
		if st.Progress > summaryLow && st.Progress < summaryHigh {
			return SummaryMessage
		}
		if rng == nil {
			return LoadingMessages[rand.Intn(len(LoadingMessages))]
		}
		return LoadingMessages[rng.Intn(len(LoadingMessages))]
	case api.StatusError:
		if st.Message != "" {
			return st.Message
		}
		return "Processing Failed"
	case api.StatusCompleted:
		return "Transcription complete"
	}
	return st.Message
}
