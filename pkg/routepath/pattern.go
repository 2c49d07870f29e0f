package routepath

import "strings"

// Wildcard is the catch-all route path.
const Wildcard = "*"

// Segment is one compiled segment of a route pattern.
type Segment struct {
	// Value is the literal segment text (empty for parameters).
	Value string

	// Param is the parameter name for ":name" segments.
	Param string
}

// IsParam reports whether the segment captures a parameter.
func (s Segment) IsParam() bool {
	return s.Param != ""
}

// Join resolves a nested route path against its parent's effective path.
// Absolute children ("/docs/api") and the wildcard are returned unchanged;
// relative children are appended to the parent.
func Join(parent, child string) string {
	if child == Wildcard || strings.HasPrefix(child, "/") {
		return child
	}
	if parent == "" || parent == Wildcard {
		return "/" + child
	}
	return strings.TrimSuffix(parent, "/") + "/" + child
}

// CompilePattern canonicalizes a route pattern and splits it into segments.
// ":name" segments become parameters. The wildcard compiles to no segments;
// callers check for it before compiling.
func CompilePattern(pattern string) ([]Segment, error) {
	result, err := CanonicalizePath(pattern)
	if err != nil {
		return nil, err
	}
	parts, err := DecodePathSegments(result.Path)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, len(parts))
	for i, part := range parts {
		if strings.HasPrefix(part, ":") && len(part) > 1 {
			segments[i] = Segment{Param: part[1:]}
			continue
		}
		segments[i] = Segment{Value: part}
	}
	return segments, nil
}

// StaticCount returns how many segments are literals.
func StaticCount(segments []Segment) int {
	n := 0
	for _, s := range segments {
		if !s.IsParam() {
			n++
		}
	}
	return n
}
