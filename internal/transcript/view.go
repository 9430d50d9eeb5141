package transcript

import "regexp"

// DefaultLanguage is the language transcripts are produced in.
const DefaultLanguage = "en"

// NoSummary is displayed when the server produced no summary.
const NoSummary = "No summary available (text might be too short)"

var languageRe = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)

// ValidLanguage reports whether code looks like a language code such as
// "en", "es" or "zh-CN".
func ValidLanguage(code string) bool {
	return languageRe.MatchString(code)
}

// ViewState is the transcript currently on screen, together with the
// untranslated original it came from.
type ViewState struct {
	Filename string

	// Master* hold the original transcription; translations never overwrite them.
	MasterTranscript string
	MasterSummary    string

	DisplayTranscript string
	DisplaySummary    string
	Language          string

	AutoScroll bool
}

// SetResults replaces the master and displayed text with a fresh result.
func (v *ViewState) SetResults(filename, transcript, summary string) {
	v.Filename = filename
	v.MasterTranscript = transcript
	v.MasterSummary = summary
	v.ShowOriginal()
}

// ShowOriginal displays the master transcript and summary.
func (v *ViewState) ShowOriginal() {
	v.DisplayTranscript = v.MasterTranscript
	v.DisplaySummary = v.MasterSummary
	v.Language = DefaultLanguage
}

// Display displays translated text while keeping the master intact.
func (v *ViewState) Display(lang, transcript, summary string) {
	v.DisplayTranscript = transcript
	v.DisplaySummary = summary
	v.Language = lang
}

// ToggleAutoScroll flips auto-scroll and returns the new value.
func (v *ViewState) ToggleAutoScroll() bool {
	v.AutoScroll = !v.AutoScroll
	return v.AutoScroll
}

// HasResults reports whether a transcript has been loaded.
func (v *ViewState) HasResults() bool {
	return v.MasterTranscript != ""
}

// Summary returns the displayed summary or the NoSummary placeholder.
func (v *ViewState) Summary() string {
	if v.DisplaySummary == "" {
		return NoSummary
	}
	return v.DisplaySummary
}
