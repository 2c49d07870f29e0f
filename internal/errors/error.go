package errors

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// Category names the stage of the pipeline that failed.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryLoad       Category = "load"
	CategoryParse      Category = "parse"
	CategoryValidation Category = "validation"
	CategoryResolve    Category = "resolve"
	CategoryServer     Category = "server"
	CategoryCLI        Category = "cli"
)

// excerptRadius is how many lines are shown on each side of a location.
const excerptRadius = 2

// Location is a position in a route table document. Column is 0 when only
// the line is known.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	default:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
}

// Excerpt is a run of document lines, the first of which is line First.
type Excerpt struct {
	First int
	Lines []string
}

// Error is a coded failure as shown to CLI users and API clients.
type Error struct {
	Code     string
	Category Category
	Message  string
	Detail   string

	// Location and Excerpt point into the document for parse errors.
	Location *Location
	Excerpt  *Excerpt

	// Findings lists every problem when there is no single location,
	// such as the violations of an invalid table.
	Findings []string

	Suggestion string
	Example    string
	DocURL     string

	Wrapped error
}

// New starts an error from the registered template for code. Unregistered
// codes still produce an error so a typo never hides the failure.
func New(code string) *Error {
	tmpl, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: tmpl.Category,
		Message:  tmpl.Message,
		Detail:   tmpl.Detail,
		DocURL:   tmpl.DocURL,
	}
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Wrapped }

func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

func (e *Error) WithExample(example string) *Error {
	e.Example = example
	return e
}

func (e *Error) WithFindings(findings []string) *Error {
	e.Findings = findings
	return e
}

// WithSource points the error at line and column of the named document and
// keeps the surrounding lines of data. Documents fetched from S3 or stdin
// get an excerpt too since the bytes are already in memory.
func (e *Error) WithSource(name string, data []byte, line, column int) *Error {
	e.Location = &Location{File: name, Line: line, Column: column}
	e.Excerpt = excerpt(data, line, excerptRadius)
	return e
}

// excerpt returns the lines within radius of line, or nil if line is past
// the end of data.
func excerpt(data []byte, line, radius int) *Excerpt {
	first := max(line-radius, 1)
	last := line + radius

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(nil, len(data)+1)
	for n := 1; n <= last && sc.Scan(); n++ {
		if n >= first {
			lines = append(lines, sc.Text())
		}
	}
	if len(lines) == 0 || first+len(lines) <= line {
		return nil
	}
	return &Excerpt{First: first, Lines: lines}
}

// MarshalJSON renders the error for API responses. Excerpts stay out; the
// location is enough for a client to find the line.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Code       string    `json:"code,omitempty"`
		Category   Category  `json:"category"`
		Message    string    `json:"message"`
		Detail     string    `json:"detail,omitempty"`
		Location   *Location `json:"location,omitempty"`
		Findings   []string  `json:"findings,omitempty"`
		Cause      string    `json:"cause,omitempty"`
		Suggestion string    `json:"suggestion,omitempty"`
		DocURL     string    `json:"docUrl,omitempty"`
	}{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Findings:   e.Findings,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	return json.Marshal(out)
}
