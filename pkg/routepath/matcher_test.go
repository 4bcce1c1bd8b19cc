package routepath

import (
	stderrors "errors"
	"reflect"
	"testing"
)

func TestCreateMatcher(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		end     bool
		path    string
		want    *Match
	}{
		{
			name:    "simple path",
			pattern: "/foo/bar",
			path:    "/foo/bar",
			want:    &Match{Path: "/foo/bar", Params: map[string]string{}},
		},
		{
			name:    "no match",
			pattern: "/foo/bar",
			path:    "/foo/baz",
		},
		{
			name:    "parameter",
			pattern: "/foo/:id",
			path:    "/foo/abc-123",
			want:    &Match{Path: "/foo/abc-123", Params: map[string]string{"id": "abc-123"}},
		},
		{
			name:    "prefix match past end",
			pattern: "/foo/bar",
			path:    "/foo/bar/baz",
			want:    &Match{Path: "/foo/bar", Params: map[string]string{}},
		},
		{
			name:    "prefix needs segment boundary",
			pattern: "/foo/bar",
			path:    "/foo/barbaz",
		},
		{
			name:    "exact rejects past end",
			pattern: "/foo/bar",
			end:     true,
			path:    "/foo/bar/baz",
		},
		{
			name:    "exact tolerates trailing slash",
			pattern: "/foo/bar",
			end:     true,
			path:    "/foo/bar/",
			want:    &Match{Path: "/foo/bar/", Params: map[string]string{}},
		},
		{
			name:    "case-insensitive",
			pattern: "/Users/:id",
			path:    "/users/42",
			want:    &Match{Path: "/users/42", Params: map[string]string{"id": "42"}},
		},
		{
			name:    "root pattern prefix",
			pattern: "/",
			path:    "/anything",
			want:    &Match{Path: "/", Params: map[string]string{}},
		},
		{
			name:    "root pattern exact",
			pattern: "/",
			end:     true,
			path:    "/anything",
		},
		{
			name:    "optional present",
			pattern: "/posts/:slug?",
			end:     true,
			path:    "/posts/hello",
			want:    &Match{Path: "/posts/hello", Params: map[string]string{"slug": "hello"}},
		},
		{
			name:    "optional absent",
			pattern: "/posts/:slug?",
			end:     true,
			path:    "/posts",
			want:    &Match{Path: "/posts", Params: map[string]string{}},
		},
		{
			name:    "suffix",
			pattern: "/files/:name.json",
			end:     true,
			path:    "/files/report.json",
			want:    &Match{Path: "/files/report.json", Params: map[string]string{"name": "report"}},
		},
		{
			name:    "suffix is literal",
			pattern: "/files/:name.json",
			end:     true,
			path:    "/files/reportxjson",
		},
		{
			name:    "wildcard",
			pattern: "/docs/*",
			end:     true,
			path:    "/docs/a/b/c",
			want:    &Match{Path: "/docs/a/b/c", Params: map[string]string{"wild": "a/b/c"}},
		},
		{
			name:    "wildcard prefix takes the remainder",
			pattern: "/docs/*",
			path:    "/docs/a/b/c",
			want:    &Match{Path: "/docs/a/b/c", Params: map[string]string{"wild": "a/b/c"}},
		},
		{
			name:    "wildcard empty remainder",
			pattern: "/docs/*",
			path:    "/docs/",
			want:    &Match{Path: "/docs/", Params: map[string]string{"wild": ""}},
		},
		{
			name:    "wildcard needs its slash",
			pattern: "/docs/*",
			path:    "/docs",
		},
		{
			name:    "wildcard before static",
			pattern: "/files/*/raw",
			end:     true,
			path:    "/files/a/b/raw",
			want:    &Match{Path: "/files/a/b/raw", Params: map[string]string{"wild": "a/b"}},
		},
		{
			name:    "suffix prefix match",
			pattern: "/files/:name.json",
			path:    "/files/report.json/meta",
			want:    &Match{Path: "/files/report.json", Params: map[string]string{"name": "report"}},
		},
		{
			name:    "suffix case-insensitive",
			pattern: "/files/:name.json",
			end:     true,
			path:    "/files/Report.JSON",
			want:    &Match{Path: "/files/Report.JSON", Params: map[string]string{"name": "Report"}},
		},
		{
			name:    "suffix needs a value",
			pattern: "/files/:name.json",
			end:     true,
			path:    "/files/.json",
		},
		{
			name:    "optional suffix absent",
			pattern: "/v/:ver?.json",
			end:     true,
			path:    "/v/.json",
			want:    &Match{Path: "/v/.json", Params: map[string]string{}},
		},
		{
			name:    "optional suffix present",
			pattern: "/v/:ver?.json",
			end:     true,
			path:    "/v/2.json",
			want:    &Match{Path: "/v/2.json", Params: map[string]string{"ver": "2"}},
		},
		{
			name:    "optional before static skipped",
			pattern: "/:lang?/about",
			end:     true,
			path:    "/about",
			want:    &Match{Path: "/about", Params: map[string]string{}},
		},
		{
			name:    "optional before static present",
			pattern: "/:lang?/about",
			end:     true,
			path:    "/en/about",
			want:    &Match{Path: "/en/about", Params: map[string]string{"lang": "en"}},
		},
		{
			name:    "static segment is literal",
			pattern: "/v1.0/items",
			path:    "/v1x0/items",
		},
		{
			name:    "multiple params",
			pattern: "/orgs/:org/repos/:repo",
			path:    "/orgs/acme/repos/web/issues",
			want:    &Match{Path: "/orgs/acme/repos/web", Params: map[string]string{"org": "acme", "repo": "web"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := CreateMatcher(tt.pattern, MatcherOptions{End: tt.end})
			if err != nil {
				t.Fatalf("CreateMatcher(%q) error: %v", tt.pattern, err)
			}
			got := m(tt.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("match(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCreateMatcherDeterministic(t *testing.T) {
	m, err := CreateMatcher("/users/:id", MatcherOptions{})
	if err != nil {
		t.Fatal(err)
	}
	first := m("/users/7/edit")
	for i := 0; i < 10; i++ {
		if got := m("/users/7/edit"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestCreateMatcherInvalidPattern(t *testing.T) {
	_, err := CreateMatcher("/users/:", MatcherOptions{})
	if !stderrors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestParseParamSegment(t *testing.T) {
	tests := []struct {
		body         string
		wantName     string
		wantOptional bool
		wantSuffix   string
	}{
		{"id", "id", false, ""},
		{"id?", "id", true, ""},
		{"file.json", "file", false, ".json"},
		{"file?.json", "file", true, ".json"},
		{"file.json?", "file", true, ".json"},
	}
	for _, tt := range tests {
		name, optional, suffix := ParseParamSegment(tt.body)
		if name != tt.wantName || optional != tt.wantOptional || suffix != tt.wantSuffix {
			t.Errorf("ParseParamSegment(%q) = %q, %v, %q", tt.body, name, optional, suffix)
		}
	}
}
