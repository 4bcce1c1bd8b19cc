package routepath

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/vroute/internal/errors"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPath  string
		wantQuery string
		wantErr   error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/"},
		{name: "no leading slash", input: "about", wantPath: "/about"},
		{name: "collapse slashes", input: "/blog//post", wantPath: "/blog/post"},
		{name: "single dot", input: "/blog/./post", wantPath: "/blog/post"},
		{name: "double dot", input: "/blog/posts/../other", wantPath: "/blog/other"},
		{name: "double dot to root", input: "/blog/../", wantPath: "/"},
		{name: "trailing slash", input: "/projects/", wantPath: "/projects"},
		{name: "query preserved", input: "/projects/123/?tab=details", wantPath: "/projects/123", wantQuery: "tab=details"},
		{name: "query escapes not validated", input: "/projects?bad=%GG", wantPath: "/projects", wantQuery: "bad=%GG"},
		{name: "backslash", input: `/a\b`, wantErr: ErrBackslashInPath},
		{name: "encoded nul", input: "/a%00b", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%G1", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizePath(tt.input)
			if tt.wantErr != nil {
				if !stderrors.Is(err, tt.wantErr) {
					t.Fatalf("CanonicalizePath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CanonicalizePath(%q) unexpected error: %v", tt.input, err)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.QueryString != tt.wantQuery {
				t.Errorf("QueryString = %q, want %q", got.QueryString, tt.wantQuery)
			}
		})
	}
}

func TestCleanNavPath(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "/users//7/?tab=a", want: "/users/7?tab=a"},
		{input: "/", want: "/"},
		{input: "https://evil.com", wantErr: ErrExternalPath},
		{input: "//evil.com", wantErr: ErrExternalPath},
		{input: "users", wantErr: ErrRelativePath},
		{input: "/../etc", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		got, err := CleanNavPath(tt.input)
		if tt.wantErr != nil {
			if !stderrors.Is(err, tt.wantErr) {
				t.Errorf("CleanNavPath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if !stderrors.Is(err, errors.ErrInvalidTarget) {
				t.Errorf("CleanNavPath(%q) should be an R002 error, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("CleanNavPath(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanNavPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
