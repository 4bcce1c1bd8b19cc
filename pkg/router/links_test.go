package router

import (
	"testing"

	"github.com/vango-dev/vroute/pkg/reactive"
)

func TestActiveMatcher(t *testing.T) {
	r, _ := newTestRouter(t, "/", "")

	var prefix, exact *reactive.Memo[bool]
	r.Run(func() {
		var err error
		if prefix, err = ActiveMatcher("/users", false); err != nil {
			t.Fatalf("ActiveMatcher() error: %v", err)
		}
		if exact, err = ActiveMatcher("/users", true); err != nil {
			t.Fatalf("ActiveMatcher() error: %v", err)
		}
	})

	tests := []struct {
		to            string
		prefix, exact bool
	}{
		{"/", false, false},
		{"/users", true, true},
		{"/users/", true, true},
		{"/users/1", true, false},
		{"/usersx", false, false},
	}
	for _, tt := range tests {
		r.Push(tt.to)
		if got := prefix.Get(); got != tt.prefix {
			t.Errorf("%s: prefix active = %v, want %v", tt.to, got, tt.prefix)
		}
		if got := exact.Get(); got != tt.exact {
			t.Errorf("%s: exact active = %v, want %v", tt.to, got, tt.exact)
		}
	}
}

func TestActiveMatcherRelative(t *testing.T) {
	r, _ := newTestRouter(t, "/users/7", "")

	users, _ := r.NewRoute(nil, "users/:id", false)
	active := users.ActiveMatcher("settings", true)

	if active.Get() {
		t.Error("settings active at /users/7")
	}
	r.Push("/users/7/settings")
	if !active.Get() {
		t.Error("settings not active at /users/7/settings")
	}
	r.Push("/users/8/settings")
	if !active.Get() {
		t.Error("settings not active at /users/8/settings")
	}
}

func TestActiveMatcherWithoutRouter(t *testing.T) {
	if _, err := ActiveMatcher("/", false); err == nil {
		t.Error("expected an error outside a router")
	}
}

func TestHrefRenderPath(t *testing.T) {
	r, _ := newTestRouter(t, "/", "/app", WithUtils(Utils{
		RenderPath: func(path string) string { return "#" + path },
	}))

	link := r.Base.NewLink("docs", false)
	if link.Href != "#/app/docs" {
		t.Errorf("Href = %q, want %q", link.Href, "#/app/docs")
	}
	if link.Active.Get() {
		t.Error("link active before navigating")
	}
	r.Push("docs/intro")
	if !link.Active.Get() {
		t.Error("link not active at /app/docs/intro")
	}

	if _, ok := r.Base.Href("ftp://x"); ok {
		t.Error("Href accepted a scheme")
	}
}
