package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// detailWidth is the column detail text is wrapped at.
const detailWidth = 72

// ANSI escapes. Colors are on unless NO_COLOR is set or DisableColors is
// called.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
	ansiBlue  = "\033[34m"
	ansiDim   = "\033[90m"
)

var colorEnabled = os.Getenv("NO_COLOR") == ""

func DisableColors() { colorEnabled = false }

func EnableColors() { colorEnabled = true }

func paint(text string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// Format renders the error for a terminal:
//
//	ERROR E202: Route table syntax error
//
//	  docs/.docusaurus/routes.js:14:5
//	     13 │   },
//	  →  14 │   {{
//	        │     ^
//
//	  unexpected token
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint("ERROR ", ansiBold, ansiRed))
	b.WriteString(paint(e.Error(), ansiBold))
	b.WriteString("\n\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n", paint(e.Location.String(), ansiCyan))
		e.writeExcerpt(&b)
		b.WriteString("\n")
	}

	for _, f := range e.Findings {
		fmt.Fprintf(&b, "  %s %s\n", paint("•", ansiRed), f)
	}
	if len(e.Findings) > 0 {
		b.WriteString("\n")
	}

	if e.Detail != "" {
		for _, line := range wrap(e.Detail, detailWidth) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s %s\n\n", paint("Cause:", ansiDim), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint("Hint:", ansiCyan), e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", paint("Example:", ansiCyan))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", paint("Learn more:", ansiDim), paint(e.DocURL, ansiBlue))
	}
	return b.String()
}

// writeExcerpt prints the numbered excerpt with an arrow on the error line
// and a caret under the column.
func (e *Error) writeExcerpt(b *strings.Builder) {
	if e.Excerpt == nil {
		return
	}
	bar := paint(" │ ", ansiDim)
	for i, text := range e.Excerpt.Lines {
		n := e.Excerpt.First + i
		marker := "   "
		if n == e.Location.Line {
			marker = paint("→", ansiRed) + "  "
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", marker, n, bar, text)
		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "         %s%s%s\n", bar, strings.Repeat(" ", e.Location.Column-1), paint("^", ansiRed))
		}
	}
}

// FormatCompact renders the error on one line, "file:line:col: CODE: message",
// for log records.
func (e *Error) FormatCompact() string {
	if e.Location == nil {
		return e.Error()
	}
	return e.Location.String() + ": " + e.Error()
}

// wrap breaks text into lines of at most width bytes, splitting only at
// spaces. Words longer than width get a line of their own.
func wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// FprintError writes err to w in terminal form. Plain errors are
// classified first so they still carry a code.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, Classify(err).Format())
}
