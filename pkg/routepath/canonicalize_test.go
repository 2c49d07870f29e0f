package routepath

import (
	"errors"
	"reflect"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
	}{
		{"/", "/", "", false},
		{"", "/", "", true},
		{"markdown-page", "/markdown-page", "", true},
		{"/docs/api/", "/docs/api", "", true},
		{"/docs//api/./parse", "/docs/api/parse", "", true},
		{"/docs/api/../models", "/docs/models", "", true},
		{"/docs/..", "/", "", true},
		{"/docs/api/parse#parse_module", "/docs/api/parse", "", false},
		{"/docs/api/#top", "/docs/api", "", true},
		{"/blog/archive?page=2", "/blog/archive", "page=2", false},
		{"/blog/archive?page=2#top", "/blog/archive", "page=2", false},
		{"/blog/#comments?not=query", "/blog", "", true},
		{"/blog?bad=%GG", "/blog", "bad=%GG", false},
		{"/docs/%E6%96%87%E6%A1%A3", "/docs/%E6%96%87%E6%A1%A3", "", false},
		{"/__docusaurus/debug/routes", "/__docusaurus/debug/routes", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := CanonicalizePath(tc.input)
			if err != nil {
				t.Fatalf("CanonicalizePath(%q) error = %v", tc.input, err)
			}
			want := Canonical{Path: tc.wantPath, Query: tc.wantQuery, Changed: tc.wantChanged}
			if got != want {
				t.Errorf("CanonicalizePath(%q) = %+v, want %+v", tc.input, got, want)
			}
		})
	}
}

func TestCanonicalizePathErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{`/docs\api`, ErrBackslashInPath},
		{"/docs/\x00", ErrNullByteInPath},
		{"/docs/%00", ErrNullByteInPath},
		{"/docs/%2", ErrInvalidPercentEscape},
		{"/docs/%GG/..", ErrInvalidPercentEscape},
		{"/docs/100%", ErrInvalidPercentEscape},
		{"/../secret", ErrPathEscapesRoot},
		{"/docs/../../secret", ErrPathEscapesRoot},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := CanonicalizePath(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("CanonicalizePath(%q) error = %v, want %v", tc.input, err, tc.wantErr)
			}
		})
	}
}

func TestDecodePathSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"", nil},
		{"/docs/api/parse", []string{"docs", "api", "parse"}},
		{"/docs/%E6%96%87%E6%A1%A3", []string{"docs", "文档"}},
		{"/blog/hello%20world", []string{"blog", "hello world"}},
		{"/a%2Fb/c", []string{"a/b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := DecodePathSegments(tc.path)
			if err != nil {
				t.Fatalf("DecodePathSegments(%q) error = %v", tc.path, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("DecodePathSegments(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}

	if _, err := DecodePathSegments("/bad/%GG"); !errors.Is(err, ErrInvalidPercentEscape) {
		t.Errorf("DecodePathSegments(/bad/%%GG) error = %v", err)
	}
}
