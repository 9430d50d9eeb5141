package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest password the service accepts.
const MinLength = 8

// Rules records which of the three password rules a candidate satisfies.
type Rules struct {
	Length  bool
	Upper   bool
	Special bool
}

// Level is one step of the strength meter.
type Level struct {
	Score   int
	Percent int
	Label   string
}

// levels maps a score (number of satisfied rules) to its meter level.
var levels = [...]Level{
	{Score: 0, Percent: 0, Label: "Enter a password"},
	{Score: 1, Percent: 33, Label: "Weak"},
	{Score: 2, Percent: 66, Label: "Fair"},
	{Score: 3, Percent: 100, Label: "Strong ✓"},
}

var (
	ErrTooShort  = fmt.Errorf("Password must be at least %d characters long.", MinLength)
	ErrNoUpper   = errors.New("Password must contain at least one uppercase letter.")
	ErrNoSpecial = errors.New("Password must contain at least one special character (e.g. @, #, $, !).")
)

// Check evaluates the password against each rule.
// Length counts characters, not bytes.
func Check(pw string) Rules {
	r := Rules{Length: utf8.RuneCountInString(pw) >= MinLength}
	// Only ASCII letters and digits count as alphanumeric.
	for _, c := range pw {
		switch {
		case c >= 'A' && c <= 'Z':
			r.Upper = true
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			r.Special = true
		}
	}
	return r
}

// Satisfied returns the number of rules met.
func (r Rules) Satisfied() int {
	n := 0
	for _, ok := range []bool{r.Length, r.Upper, r.Special} {
		if ok {
			n++
		}
	}
	return n
}

// All reports whether every rule is met.
func (r Rules) All() bool {
	return r.Satisfied() == len(levels)-1
}

// Score returns the number of satisfied rules, 0 through 3.
func Score(pw string) int {
	return Check(pw).Satisfied()
}

// Meter returns the meter level for a score. Out-of-range scores are clamped.
func Meter(score int) Level {
	if score < 0 {
		score = 0
	}
	if score >= len(levels) {
		score = len(levels) - 1
	}
	return levels[score]
}

// Validate returns the first rule the password fails, or nil.
func Validate(pw string) error {
	r := Check(pw)
	switch {
	case !r.Length:
		return ErrTooShort
	case !r.Upper:
		return ErrNoUpper
	case !r.Special:
		return ErrNoSpecial
	}
	return nil
}

// Render draws a single-line meter with the rule checklist, e.g.
//
//	[######------] Fair  ✓ 8+ chars  ✓ uppercase  ✗ special
func Render(pw string) string {
	r := Check(pw)
	lvl := Meter(r.Satisfied())

	const width = 12
	filled := width * lvl.Percent / 100

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("#", filled))
	b.WriteString(strings.Repeat("-", width-filled))
	b.WriteString("] ")
	b.WriteString(lvl.Label)
	b.WriteString("  ")
	b.WriteString(mark(r.Length) + " 8+ chars  ")
	b.WriteString(mark(r.Upper) + " uppercase  ")
	b.WriteString(mark(r.Special) + " special")
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
