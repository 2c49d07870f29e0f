package routetable

import (
	"fmt"
	"strings"

	"github.com/vango-dev/docroutes/pkg/routepath"
)

// =============================================================================
// Structural Validation
// =============================================================================

// ValidationError represents one structural problem in a table.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Location addresses the offending entry (see Visit.Location)
	Location string

	// Path is the offending entry's raw path
	Path string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Location != "" {
		b.WriteString(" at ")
		b.WriteString(e.Location)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, " (%s)", e.Details)
	}
	return b.String()
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicatePath indicates two siblings share a path.
	ErrorDuplicatePath ValidationErrorType = "DUPLICATE_PATH"

	// ErrorWildcardNotLast indicates a "*" entry followed by more siblings,
	// which would shadow them.
	ErrorWildcardNotLast ValidationErrorType = "WILDCARD_NOT_LAST"

	// ErrorExactWithChildren indicates an exact entry that also nests routes.
	ErrorExactWithChildren ValidationErrorType = "EXACT_WITH_CHILDREN"

	// ErrorMissingFallback indicates the top level does not end in "*".
	ErrorMissingFallback ValidationErrorType = "MISSING_FALLBACK"

	// ErrorEmptyPath indicates an entry without a path.
	ErrorEmptyPath ValidationErrorType = "EMPTY_PATH"

	// ErrorInvalidPath indicates a path that cannot be canonicalized.
	ErrorInvalidPath ValidationErrorType = "INVALID_PATH"

	// ErrorMissingComponent indicates an entry without a component module.
	ErrorMissingComponent ValidationErrorType = "MISSING_COMPONENT"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route table validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Has reports whether any collected error is of type typ.
func (e *MultiValidationError) Has(typ ValidationErrorType) bool {
	for _, err := range e.Errors {
		if err.Type == typ {
			return true
		}
	}
	return false
}

// ValidateOptions relaxes individual checks.
type ValidateOptions struct {
	// AllowMissingFallback accepts tables whose top level has no trailing
	// wildcard. Resolution can then fail with no match.
	AllowMissingFallback bool

	// Sensitive compares sibling paths case-sensitively, as a matcher
	// built with router.WithSensitive(true) does.
	Sensitive bool
}

// Validator checks a table against the structural invariants.
type Validator struct {
	table  *Table
	opts   ValidateOptions
	errors []ValidationError
}

// NewValidator creates a new table validator.
func NewValidator(t *Table, opts ValidateOptions) *Validator {
	return &Validator{table: t, opts: opts}
}

// Validate is shorthand for NewValidator(t, opts).Validate().
func Validate(t *Table, opts ValidateOptions) error {
	return NewValidator(t, opts).Validate()
}

// Validate checks every invariant and returns nil, or a
// *MultiValidationError carrying every problem found.
func (v *Validator) Validate() error {
	v.errors = nil

	if v.table != nil {
		v.validateSiblings(v.table.Routes, "", "")
		_ = v.table.Walk(func(visit Visit) error {
			v.validateEntry(visit)
			if len(visit.Entry.Routes) > 0 {
				v.validateSiblings(visit.Entry.Routes, visit.Location+".", visit.Path)
			}
			return nil
		})
	}
	if !v.opts.AllowMissingFallback {
		v.validateFallback()
	}

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validateSiblings checks path uniqueness and wildcard placement within
// one sibling list. Paths are compared the way the matcher sees them, so
// "/blog", "/blog/" and "/Blog" collide.
func (v *Validator) validateSiblings(entries []Entry, prefix, parentPath string) {
	seen := make(map[string]int, len(entries))
	for i := range entries {
		path := entries[i].Path
		loc := prefix + fmt.Sprintf("routes[%d]", i)

		key := v.siblingKey(parentPath, path)
		if first, ok := seen[key]; ok && path != "" {
			details := fmt.Sprintf("first declared at %sroutes[%d]", prefix, first)
			if other := entries[first].Path; other != path {
				details += " as " + other
			}
			v.errors = append(v.errors, ValidationError{
				Type:     ErrorDuplicatePath,
				Message:  fmt.Sprintf("Duplicate sibling path %s", path),
				Location: loc,
				Path:     path,
				Details:  details,
			})
		} else {
			seen[key] = i
		}

		if path == Wildcard && i != len(entries)-1 {
			v.errors = append(v.errors, ValidationError{
				Type:     ErrorWildcardNotLast,
				Message:  "Wildcard route must be the last sibling",
				Location: loc,
				Path:     path,
				Details:  fmt.Sprintf("%d sibling(s) after it can never match", len(entries)-1-i),
			})
		}
	}
}

// siblingKey returns the canonical form of a sibling's effective path.
// Paths that fail canonicalization keep their raw form; validateEntry
// reports them.
func (v *Validator) siblingKey(parentPath, path string) string {
	if path == Wildcard || path == "" {
		return path
	}
	canon, err := routepath.CanonicalizePath(routepath.Join(parentPath, path))
	if err != nil {
		return path
	}
	if v.opts.Sensitive {
		return canon.Path
	}
	return strings.ToLower(canon.Path)
}

// validateEntry checks the per-entry invariants.
func (v *Validator) validateEntry(visit Visit) {
	e := visit.Entry

	switch {
	case e.Path == "":
		v.errors = append(v.errors, ValidationError{
			Type:     ErrorEmptyPath,
			Message:  "Route has no path",
			Location: visit.Location,
		})
	case e.Path != Wildcard:
		if _, err := routepath.CanonicalizePath(visit.Path); err != nil {
			v.errors = append(v.errors, ValidationError{
				Type:     ErrorInvalidPath,
				Message:  fmt.Sprintf("Invalid route path %q", e.Path),
				Location: visit.Location,
				Path:     e.Path,
				Details:  err.Error(),
			})
		}
	}

	if e.Exact && len(e.Routes) > 0 {
		v.errors = append(v.errors, ValidationError{
			Type:     ErrorExactWithChildren,
			Message:  fmt.Sprintf("Exact route %s also declares nested routes", e.Path),
			Location: visit.Location,
			Path:     e.Path,
			Details:  fmt.Sprintf("%d nested route(s)", len(e.Routes)),
		})
	}

	if e.Component.Module == "" {
		v.errors = append(v.errors, ValidationError{
			Type:     ErrorMissingComponent,
			Message:  fmt.Sprintf("Route %s has no component", e.Path),
			Location: visit.Location,
			Path:     e.Path,
		})
	}
}

// validateFallback checks that the top level ends with the wildcard.
func (v *Validator) validateFallback() {
	n := v.table.Len()
	if n > 0 && v.table.Routes[n-1].Path == Wildcard {
		return
	}
	v.errors = append(v.errors, ValidationError{
		Type:    ErrorMissingFallback,
		Message: "Route table has no trailing wildcard route",
		Details: "some request paths will not match any route",
	})
}

// FormatValidationError formats a validation error for display:
//
//	ERROR: Duplicate sibling path /docs/api/parse
//	  routes[8].routes[0].routes[0].routes[6] → /docs/api/parse
//	  Details: first declared at routes[8].routes[0].routes[0].routes[5]
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ERROR: %s\n", err.Message)
	if err.Location != "" {
		fmt.Fprintf(&sb, "  %s → %s\n", err.Location, err.Path)
	}
	if err.Details != "" {
		fmt.Fprintf(&sb, "  Details: %s\n", err.Details)
	}

	return sb.String()
}
