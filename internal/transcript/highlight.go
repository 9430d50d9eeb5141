package transcript

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// timestampRe matches segment markers such as "[00:05 - 00:10]" or
// "[01:02:03 - 01:02:09]". Group 1 is the inner range.
var timestampRe = regexp.MustCompile(`\[(\d{2}:\d{2}(?::\d{2})?\s*-\s*\d{2}:\d{2}(?::\d{2})?)\]`)

// Style holds the markup placed around timestamps and search matches.
type Style struct {
	TimestampOpen  string
	TimestampClose string
	MatchOpen      string
	MatchClose     string
}

var (
	// PlainStyle keeps timestamps bracketed and marks matches like Markdown bold.
	PlainStyle = Style{TimestampOpen: "[", TimestampClose: "]", MatchOpen: "**", MatchClose: "**"}
	// ANSIStyle colours timestamps cyan and shows matches black on yellow.
	ANSIStyle = Style{
		TimestampOpen:  "\x1b[36m",
		TimestampClose: "\x1b[0m",
		MatchOpen:      "\x1b[30;43m",
		MatchClose:     "\x1b[0m",
	}
)

// MinQueryLength is the shortest query that is highlighted.
const MinQueryLength = 2

// HighlightTimestamps wraps every timestamp marker in the style's markup.
func HighlightTimestamps(text string, st Style) string {
	out, _ := Search(text, "", st)
	return out
}

// Search highlights timestamps and every case-insensitive literal occurrence
// of query. Queries shorter than MinQueryLength only get timestamp styling.
// It returns the marked-up text and the number of matches.
func Search(text, query string, st Style) (string, int) {
	var q *regexp.Regexp
	if utf8.RuneCountInString(query) >= MinQueryLength {
		q = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}

	var (
		b     strings.Builder
		count int
		last  int
	)
	for _, loc := range timestampRe.FindAllStringSubmatchIndex(text, -1) {
		count += mark(&b, text[last:loc[0]], q, st)
		b.WriteString(st.TimestampOpen)
		count += mark(&b, text[loc[2]:loc[3]], q, st)
		b.WriteString(st.TimestampClose)
		last = loc[1]
	}
	count += mark(&b, text[last:], q, st)
	return b.String(), count
}

func mark(b *strings.Builder, s string, q *regexp.Regexp, st Style) int {
	if q == nil {
		b.WriteString(s)
		return 0
	}
	locs := q.FindAllStringIndex(s, -1)
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		b.WriteString(st.MatchOpen)
		b.WriteString(s[loc[0]:loc[1]])
		b.WriteString(st.MatchClose)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return len(locs)
}

// Segment is one timestamped line of a transcript.
type Segment struct {
	Range string
	Text  string
}

// Segments splits a transcript into its timestamped lines. Text before the
// first marker, if any, becomes a segment with an empty Range.
func Segments(text string) []Segment {
	locs := timestampRe.FindAllStringSubmatchIndex(text, -1)
	var segs []Segment
	if len(locs) == 0 {
		if t := strings.TrimSpace(text); t != "" {
			segs = append(segs, Segment{Text: t})
		}
		return segs
	}
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		segs = append(segs, Segment{Text: lead})
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segs = append(segs, Segment{
			Range: text[loc[2]:loc[3]],
			Text:  strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return segs
}
