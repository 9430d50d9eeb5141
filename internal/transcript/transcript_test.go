package transcript

import (
	"bytes"
	"strings"
	"testing"
)

const sample = "[00:00 - 00:05] Hello world.\n[00:05 - 00:10] The world is round."

func TestViewStateTranslationKeepsMaster(t *testing.T) {
	var v ViewState
	v.SetResults("talk.mp3", sample, "A greeting.")
	if v.Language != DefaultLanguage || v.DisplayTranscript != sample {
		t.Fatalf("unexpected state after SetResults: %+v", v)
	}

	v.Display("es", "[00:00 - 00:05] Hola mundo.", "Un saludo.")
	if v.MasterTranscript != sample || v.MasterSummary != "A greeting." {
		t.Error("translation overwrote master text")
	}
	if v.DisplaySummary != "Un saludo." || v.Language != "es" {
		t.Errorf("display not updated: %+v", v)
	}

	v.ShowOriginal()
	if v.DisplayTranscript != sample || v.Language != DefaultLanguage {
		t.Errorf("ShowOriginal did not restore master: %+v", v)
	}
}

func TestToggleAutoScroll(t *testing.T) {
	var v ViewState
	if !v.ToggleAutoScroll() || v.ToggleAutoScroll() {
		t.Error("toggle should alternate true, false")
	}
}

func TestSummaryPlaceholder(t *testing.T) {
	v := ViewState{}
	if v.Summary() != NoSummary {
		t.Errorf("Summary() = %q", v.Summary())
	}
}

func TestHighlightTimestamps(t *testing.T) {
	st := Style{TimestampOpen: "<ts>", TimestampClose: "</ts>"}
	got := HighlightTimestamps("[00:00 - 00:05] a [01:02:03-01:02:09] b [bad] c", st)
	want := "<ts>00:00 - 00:05</ts> a <ts>01:02:03-01:02:09</ts> b [bad] c"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSearch(t *testing.T) {
	st := Style{TimestampOpen: "[", TimestampClose: "]", MatchOpen: "<", MatchClose: ">"}

	tests := []struct {
		name  string
		query string
		want  string
		count int
	}{
		{"case insensitive", "WORLD", "[00:00 - 00:05] Hello <world>.\n[00:05 - 00:10] The <world> is round.", 2},
		{"single char ignored", "o", sample, 0},
		{"empty", "", sample, 0},
		{"regex metacharacters literal", "d.", "[00:00 - 00:05] Hello worl<d.>\n[00:05 - 00:10] The world is roun<d.>", 2},
		{"dot is not a wildcard", "o.", sample, 0},
		{"inside timestamp", "00:05", "[00:00 - <00:05>] Hello world.\n[<00:05> - 00:10] The world is round.", 2},
		{"no match", "xyz", sample, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Search(sample, tt.query, st)
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
			if n != tt.count {
				t.Errorf("count = %d, want %d", n, tt.count)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	segs := Segments("intro\n" + sample)
	if len(segs) != 3 {
		t.Fatalf("got %d segments: %+v", len(segs), segs)
	}
	if segs[0].Range != "" || segs[0].Text != "intro" {
		t.Errorf("lead segment = %+v", segs[0])
	}
	if segs[2].Range != "00:05 - 00:10" || segs[2].Text != "The world is round." {
		t.Errorf("last segment = %+v", segs[2])
	}
	if got := Segments("   "); len(got) != 0 {
		t.Errorf("blank text gave %+v", got)
	}
}

func TestRenderOrder(t *testing.T) {
	v := ViewState{}
	v.SetResults("talk.mp3", sample, "")

	var buf bytes.Buffer
	if _, err := Render(&buf, &v, PlainStyle, ""); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "== talk.mp3 ==") {
		t.Errorf("missing header: %q", out)
	}
	if strings.Index(out, "TRANSCRIPT") > strings.Index(out, "SUMMARY") {
		t.Error("transcript should come first without auto-scroll")
	}
	if !strings.Contains(out, NoSummary) {
		t.Error("missing summary placeholder")
	}

	v.ToggleAutoScroll()
	buf.Reset()
	n, err := Render(&buf, &v, PlainStyle, "world")
	if err != nil {
		t.Fatal(err)
	}
	out = buf.String()
	if strings.Index(out, "SUMMARY") > strings.Index(out, "TRANSCRIPT") {
		t.Error("summary should come first with auto-scroll")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "round.") {
		t.Errorf("output should end on the last transcript line: %q", out)
	}
	if n != 2 {
		t.Errorf("matches = %d, want 2", n)
	}
}

func TestMarkdownAndHTML(t *testing.T) {
	v := ViewState{}
	v.SetResults("my_talk.mp3", sample, "Short *summary*.")

	md := Markdown(&v)
	for _, want := range []string{
		"# TranscribeFlow Report",
		`**File:** my\_talk.mp3`,
		"`00:00 - 00:05` Hello world.",
		`Short \*summary\*.`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	page, err := HTML(&v)
	if err != nil {
		t.Fatal(err)
	}
	html := string(page)
	for _, want := range []string{
		`<html lang="en">`,
		`<title>TranscribeFlow Report - my_talk.mp3</title>`,
		`<h1 id="transcribeflow-report">`,
		"<code>00:00 - 00:05</code>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q:\n%s", want, html)
		}
	}
}

func TestValidLanguage(t *testing.T) {
	for _, code := range []string{"en", "es", "fil", "zh-CN", "pt-br"} {
		if !ValidLanguage(code) {
			t.Errorf("ValidLanguage(%q) = false", code)
		}
	}
	for _, code := range []string{"", "e", "English", "EN", "not a language!!", "../en", "en-"} {
		if ValidLanguage(code) {
			t.Errorf("ValidLanguage(%q) = true", code)
		}
	}
}
