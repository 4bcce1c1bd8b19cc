package routepath

import "testing"

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		path   string
		from   string
		want   string
		wantOK bool
	}{
		{name: "normalize base", base: "base", want: "/base", wantOK: true},
		{name: "normalize path", path: "path", want: "/path", wantOK: true},
		{name: "normalize from", from: "from", want: "/from", wantOK: true},
		{name: "all empty", want: "/", wantOK: true},
		{name: "root path ignores from", base: "/base", path: "/", from: "/base/foo", want: "/base", wantOK: true},
		{name: "rooted path ignores from", base: "/base", path: "/bar", from: "/base/foo", want: "/base/bar", wantOK: true},
		{name: "empty path resolves to from", base: "/base", from: "/base/foo", want: "/base/foo", wantOK: true},
		{name: "relative path against from", base: "/base", path: "bar", from: "/base/foo", want: "/base/foo/bar", wantOK: true},
		{name: "prepend base when from lacks it", base: "/base", path: "bar", from: "/foo", want: "/base/foo/bar", wantOK: true},
		{name: "base check is case-insensitive", base: "/base", path: "bar", from: "BASE/foo", want: "/BASE/foo/bar", wantOK: true},
		{name: "casing preserved", base: "/Base", path: "Users/:ID", want: "/Base/Users/:ID", wantOK: true},
		{name: "whitespace dropped", base: " /base/ ", path: " bar ", want: "/base/bar", wantOK: true},
		{name: "colon path is not a scheme", path: "://", want: "/:", wantOK: true},
		{name: "http scheme", path: "http://example.com", wantOK: false},
		{name: "uppercase scheme", path: "HTTPS://example.com", wantOK: false},
		{name: "protocol relative", base: "/base", path: "//cdn.example.com/x", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolvePath(tt.base, tt.path, tt.from)
			if ok != tt.wantOK {
				t.Fatalf("ResolvePath(%q, %q, %q) ok = %v, want %v", tt.base, tt.path, tt.from, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q, %q, %q) = %q, want %q", tt.base, tt.path, tt.from, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "/", "//", "foo", "/foo/", " /a b/c/ ", "///x///"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestHasScheme(t *testing.T) {
	tests := map[string]bool{
		"http://a":   true,
		"mailto://x": true,
		"//a":        true,
		"/a":         false,
		"a:b":        false,
		"://":        false,
		"":           false,
	}
	for in, want := range tests {
		if got := HasScheme(in); got != want {
			t.Errorf("HasScheme(%q) = %v, want %v", in, got, want)
		}
	}
}
