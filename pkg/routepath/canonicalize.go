// Package routepath normalizes request paths and route patterns before they
// are compared by the matcher.
package routepath

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Canonical is a request path or route pattern in canonical form.
type Canonical struct {
	// Path starts with "/", has no empty, "." or ".." segments and no
	// trailing slash. Percent escapes are kept as written.
	Path string

	// Query is the text between "?" and any "#", without the "?".
	Query string

	// Changed reports whether Path differs from the input's path part.
	Changed bool
}

var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath brings a path into the form both route patterns and
// request paths are compared in. Docs sites link to headings with
// fragments ("/docs/api/parse#parse_module") and generated index routes
// end in "/" ("/docs/api/"), so both are folded away:
//
//	"/docs/api/"                  → "/docs/api"
//	"docs//api/./parse#anchor"    → "/docs/api/parse"
//	"/blog/archive?page=2#top"    → "/blog/archive", query "page=2"
//
// An empty input is the root. Segments are checked one by one: a
// backslash, a NUL byte (literal or %00), a malformed escape or a ".."
// above the root fails the whole path.
func CanonicalizePath(input string) (Canonical, error) {
	rest, _, _ := strings.Cut(input, "#")
	raw, query, _ := strings.Cut(rest, "?")

	var kept []string
	for seg := range strings.SplitSeq(raw, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) == 0 {
				return Canonical{}, ErrPathEscapesRoot
			}
			kept = kept[:len(kept)-1]
			continue
		}
		if err := checkSegment(seg); err != nil {
			return Canonical{}, err
		}
		kept = append(kept, seg)
	}

	path := "/" + strings.Join(kept, "/")
	return Canonical{Path: path, Query: query, Changed: path != raw}, nil
}

// checkSegment rejects bytes no route can match. Escapes must be two hex
// digits and may not decode to NUL.
func checkSegment(seg string) error {
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '\\':
			return ErrBackslashInPath
		case 0:
			return ErrNullByteInPath
		case '%':
			if i+2 >= len(seg) || unhex(seg[i+1]) < 0 || unhex(seg[i+2]) < 0 {
				return fmt.Errorf("%w in %q", ErrInvalidPercentEscape, seg)
			}
			if unhex(seg[i+1]) == 0 && unhex(seg[i+2]) == 0 {
				return ErrNullByteInPath
			}
			i += 2
		}
	}
	return nil
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// DecodePathSegments splits a canonical path into percent-decoded segments
// for matching. The root path yields none. An encoded "/" stays inside its
// segment, so "/a%2Fb" is one segment "a/b".
func DecodePathSegments(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	var segments []string
	for seg := range strings.SplitSeq(trimmed, "/") {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", ErrInvalidPercentEscape, seg)
		}
		segments = append(segments, decoded)
	}
	return segments, nil
}
