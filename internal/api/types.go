package api

// Status is the processing state reported by /check_status.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusError      Status = "error"
	StatusCompleted  Status = "completed"
)

// IsTerminal returns true once the job can no longer change state.
func (s Status) IsTerminal() bool {
	return s == StatusError || s == StatusCompleted
}

// JobStatus is the body returned by GET /check_status/{filename}.
type JobStatus struct {
	Status     Status `json:"status"`
	Progress   int    `json:"progress"`
	Message    string `json:"message,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// AuthResult is returned by the endpoints that issue an access token.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
}

// Translation is the body returned by POST /translate_on_fly.
type Translation struct {
	Success           bool   `json:"success"`
	TranslatedText    string `json:"translated_text"`
	TranslatedSummary string `json:"translated_summary"`
	Error             string `json:"error,omitempty"`
}

// Download is a fetched report.
type Download struct {
	// Name is taken from Content-Disposition when present.
	Name        string
	ContentType string
	Data        []byte
}

// DownloadType selects the report format.
type DownloadType string

const (
	TypeTXT  DownloadType = "txt"
	TypeDOCX DownloadType = "docx"
	TypePDF  DownloadType = "pdf"
)

// Valid reports whether t is a known report format.
func (t DownloadType) Valid() bool {
	return t == TypeTXT || t == TypeDOCX || t == TypePDF
}

// Request bodies.

type sendOTPRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type translateRequest struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	Target     string `json:"target"`
}

// envelope captures every field the API uses to signal outcome, so a single
// decode serves all endpoints.
type envelope struct {
	Message     string `json:"message"`
	Detail      string `json:"detail"`
	Error       string `json:"error"`
	Filename    string `json:"filename"`
	TrialEnded  bool   `json:"trial_ended"`
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
}
