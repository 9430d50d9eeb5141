package transcript

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Render writes the displayed transcript and summary to w. With auto-scroll
// on the summary comes first so the output ends on the transcript's last line.
func Render(w io.Writer, v *ViewState, st Style, query string) (int, error) {
	body, matches := Search(v.DisplayTranscript, query, st)

	var sections [2]string
	transcriptSection := "TRANSCRIPT\n" + body + "\n"
	summarySection := "SUMMARY\n" + v.Summary() + "\n"
	if v.AutoScroll {
		sections = [2]string{summarySection, transcriptSection}
	} else {
		sections = [2]string{transcriptSection, summarySection}
	}

	header := v.Filename
	if v.Language != "" && v.Language != DefaultLanguage {
		header += " (" + v.Language + ")"
	}
	if header != "" {
		if _, err := fmt.Fprintf(w, "== %s ==\n\n", header); err != nil {
			return matches, err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n%s", sections[0], sections[1])
	return matches, err
}

// Markdown renders the displayed text as a Markdown report.
func Markdown(v *ViewState) string {
	var b strings.Builder
	b.WriteString("# TranscribeFlow Report\n\n")
	if v.Filename != "" {
		fmt.Fprintf(&b, "**File:** %s  \n", escapeMarkdown(v.Filename))
	}
	lang := v.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	fmt.Fprintf(&b, "**Language:** %s\n\n", lang)

	b.WriteString("## Summary\n\n")
	b.WriteString(escapeMarkdown(v.Summary()))
	b.WriteString("\n\n## Transcript\n\n")

	for _, seg := range Segments(v.DisplayTranscript) {
		if seg.Range != "" {
			fmt.Fprintf(&b, "`%s` ", seg.Range)
		}
		b.WriteString(escapeMarkdown(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"#", `\#`, "<", "&lt;", ">", "&gt;", "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.6; }
code { background: #eef; padding: 0 .3em; border-radius: 3px; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

// HTML renders the Markdown report as a standalone HTML page.
func HTML(v *ViewState) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	var content bytes.Buffer
	if err := md.Convert([]byte(Markdown(v)), &content); err != nil {
		return nil, fmt.Errorf("converting report: %w", err)
	}

	lang := v.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	title := "TranscribeFlow Report"
	if v.Filename != "" {
		title += " - " + v.Filename
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Lang    string
		Title   string
		Content template.HTML
	}{Lang: lang, Title: title, Content: template.HTML(content.String())})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return page.Bytes(), nil
}
