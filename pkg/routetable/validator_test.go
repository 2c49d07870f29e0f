package routetable_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/routetest"
)

func validationErrors(t *testing.T, err error) []routetable.ValidationError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var multi *routetable.MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("expected *MultiValidationError, got %T", err)
	}
	return multi.Errors
}

func TestValidateGeneratedTable(t *testing.T) {
	if err := routetable.Validate(routetest.Docusaurus(), routetable.ValidateOptions{}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateDuplicateSiblingPath(t *testing.T) {
	table := routetest.NewTable().
		Leaf("/blog", "a6a").
		Leaf("/blog", "a6b").
		Fallback().
		Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Type != routetable.ErrorDuplicatePath {
		t.Errorf("Type = %s, want %s", errs[0].Type, routetable.ErrorDuplicatePath)
	}
	if errs[0].Location != "routes[1]" {
		t.Errorf("Location = %q, want routes[1]", errs[0].Location)
	}
}

func TestValidateEquivalentSiblingPaths(t *testing.T) {
	table := routetest.NewTable().
		Leaf("/blog", "a01").
		Leaf("/blog/", "a02").
		Leaf("/Blog", "a03").
		Fallback().
		Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	for i, loc := range []string{"routes[1]", "routes[2]"} {
		if errs[i].Type != routetable.ErrorDuplicatePath || errs[i].Location != loc {
			t.Errorf("errs[%d] = %v, want DUPLICATE_PATH at %s", i, errs[i], loc)
		}
		if errs[i].Details != "first declared at routes[0] as /blog" {
			t.Errorf("errs[%d].Details = %q", i, errs[i].Details)
		}
	}

	// Case-sensitive matching tells /Blog apart, but not the trailing slash.
	errs = validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{Sensitive: true}))
	if len(errs) != 1 || errs[0].Location != "routes[1]" {
		t.Errorf("sensitive errors = %v, want one at routes[1]", errs)
	}
}

func TestValidateRelativeChildCollidesWithAbsolute(t *testing.T) {
	table := routetest.NewTable().
		Branch("/docs", "0e7", routetest.NewTable().
			Leaf("/docs/api", "5e5").
			Leaf("api", "5e6")).
		Fallback().
		Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	if len(errs) != 1 || errs[0].Location != "routes[0].routes[1]" {
		t.Errorf("errors = %v, want one DUPLICATE_PATH at routes[0].routes[1]", errs)
	}
}

func TestValidateSamePathAtDifferentDepthsIsAllowed(t *testing.T) {
	// The generator nests "/docs" inside "/docs" for plugin, version and
	// sidebar layouts.
	table := routetest.NewTable().
		Branch("/docs", "0e7", routetest.NewTable().
			Branch("/docs", "133", routetest.NewTable().
				Leaf("/docs/api/", "5e5"))).
		Fallback().
		Build()

	if err := routetable.Validate(table, routetable.ValidateOptions{}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateWildcardNotLast(t *testing.T) {
	table := routetest.NewTable().
		Branch("/docs", "0e7", routetest.NewTable().
			Fallback().
			Leaf("/docs/api/", "5e5")).
		Fallback().
		Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	if len(errs) != 1 || errs[0].Type != routetable.ErrorWildcardNotLast {
		t.Fatalf("errors = %v, want one WILDCARD_NOT_LAST", errs)
	}
	if errs[0].Location != "routes[0].routes[0]" {
		t.Errorf("Location = %q", errs[0].Location)
	}
}

func TestValidateExactWithChildren(t *testing.T) {
	entry := routetable.Entry{
		Path:      "/docs",
		Component: routetable.ComponentRef{Module: "/docs", Hash: "0e7"},
		Exact:     true,
		Routes: []routetable.Entry{
			{Path: "/docs/api/", Component: routetable.ComponentRef{Module: "/docs/api/", Hash: "5e5"}, Exact: true},
		},
	}
	table := routetest.NewTable().Entry(entry).Fallback().Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	if len(errs) != 1 || errs[0].Type != routetable.ErrorExactWithChildren {
		t.Fatalf("errors = %v, want one EXACT_WITH_CHILDREN", errs)
	}
}

func TestValidateMissingFallback(t *testing.T) {
	table := routetest.NewTable().Leaf("/", "e5f").Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	if len(errs) != 1 || errs[0].Type != routetable.ErrorMissingFallback {
		t.Fatalf("errors = %v, want one MISSING_FALLBACK", errs)
	}

	if err := routetable.Validate(table, routetable.ValidateOptions{AllowMissingFallback: true}); err != nil {
		t.Errorf("Validate() with AllowMissingFallback error = %v", err)
	}
}

func TestValidateEmptyTable(t *testing.T) {
	errs := validationErrors(t, routetable.Validate(&routetable.Table{}, routetable.ValidateOptions{}))
	if errs[0].Type != routetable.ErrorMissingFallback {
		t.Errorf("Type = %s, want MISSING_FALLBACK", errs[0].Type)
	}
	if err := routetable.Validate(nil, routetable.ValidateOptions{AllowMissingFallback: true}); err != nil {
		t.Errorf("Validate(nil) error = %v", err)
	}
}

func TestValidatePathAndComponentProblems(t *testing.T) {
	table := routetest.NewTable().
		Entry(routetable.Entry{Component: routetable.ComponentRef{Module: "/x"}}).
		Entry(routetable.Entry{Path: `/docs\api`, Component: routetable.ComponentRef{Module: "/docs"}}).
		Entry(routetable.Entry{Path: "/blog"}).
		Fallback().
		Build()

	errs := validationErrors(t, routetable.Validate(table, routetable.ValidateOptions{}))
	want := []routetable.ValidationErrorType{
		routetable.ErrorEmptyPath,
		routetable.ErrorInvalidPath,
		routetable.ErrorMissingComponent,
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for i, typ := range want {
		if errs[i].Type != typ {
			t.Errorf("errs[%d].Type = %s, want %s", i, errs[i].Type, typ)
		}
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	table := routetest.NewTable().
		Fallback().
		Leaf("/blog", "a6a").
		Leaf("/blog", "a6b").
		Build()

	err := routetable.Validate(table, routetable.ValidateOptions{})
	errs := validationErrors(t, err)
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}

	var multi *routetable.MultiValidationError
	errors.As(err, &multi)
	for _, typ := range []routetable.ValidationErrorType{
		routetable.ErrorWildcardNotLast,
		routetable.ErrorDuplicatePath,
		routetable.ErrorMissingFallback,
	} {
		if !multi.Has(typ) {
			t.Errorf("missing %s", typ)
		}
	}
	if !strings.HasPrefix(err.Error(), "3 route table validation errors:") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFormatValidationError(t *testing.T) {
	err := routetable.ValidationError{
		Type:     routetable.ErrorDuplicatePath,
		Message:  "Duplicate sibling path /blog",
		Location: "routes[1]",
		Path:     "/blog",
		Details:  "first declared at routes[0]",
	}

	got := routetable.FormatValidationError(err)
	for _, want := range []string{
		"ERROR: Duplicate sibling path /blog",
		"routes[1] → /blog",
		"Details: first declared at routes[0]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatValidationError() missing %q:\n%s", want, got)
		}
	}

	if s := err.Error(); s != "DUPLICATE_PATH: Duplicate sibling path /blog at routes[1] (first declared at routes[0])" {
		t.Errorf("Error() = %q", s)
	}
}
