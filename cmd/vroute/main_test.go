package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/pkg/router"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"resolve", "/app", "users"}, "/app/users\n"},
		{[]string{"resolve", "/app", "posts", "/app/users/1"}, "/app/users/1/posts\n"},
		{[]string{"resolve", "", ""}, "/\n"},
	}

	for _, tt := range tests {
		got, err := execute(t, tt.args...)
		if err != nil {
			t.Errorf("%v: unexpected error: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	if _, err := execute(t, "resolve", "/app", "https://example.com"); err == nil {
		t.Error("expected error for external target")
	}
}

func TestMatchCommand(t *testing.T) {
	got, err := execute(t, "match", "/users/:id", "/users/42/posts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "path: /users/42") || !strings.Contains(got, "id = 42") {
		t.Errorf("output = %q", got)
	}

	got, _ = execute(t, "match", "/users/:id", "/users/42/posts", "--end")
	if got != "no match\n" {
		t.Errorf("exact output = %q, want no match", got)
	}

	if _, err := execute(t, "match", "/users/:", "/users/1"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestQueryCommand(t *testing.T) {
	got, err := execute(t, "query", "Q=go&page=2&q=rust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "page = 2\nq = rust\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != version+"\n" {
		t.Errorf("output = %q, want %q", got, version+"\n")
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "init", "--format", "yaml", "--dir", dir); err != nil {
		t.Fatalf("init error: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written config is invalid: %v", err)
	}
	if len(cfg.Routes) != 2 || cfg.Routes[1].Children[0].Name != "user" {
		t.Errorf("routes = %+v", cfg.Routes)
	}

	if _, err := execute(t, "init", "--dir", dir); err == nil {
		t.Error("expected error when a config exists")
	}
	if _, err := execute(t, "init", "--dir", dir, "--force"); err != nil {
		t.Errorf("init --force error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "vroute.json")); err != nil {
		t.Errorf("vroute.json not written: %v", err)
	}
}

func TestSimulation(t *testing.T) {
	script := &config.Script{
		Routes: []router.RouteDef{
			{Name: "users", Pattern: "users", Children: []router.RouteDef{
				{Name: "user", Pattern: ":id", End: true},
			}},
		},
		Redirects: []config.Redirect{{From: "/legacy/:id", To: "/users"}},
		Steps: []config.Step{
			{Push: "/users/1"},
			{Push: "/legacy/5"},
			{Go: -1},
			{Batch: []config.Step{{Push: "/users/2"}, {Replace: "/users/3"}}},
			{Push: "/users/3"},
			{Go: 5},
		},
	}

	var out bytes.Buffer
	s, err := runSimulation(&out, script, simulateOptions{MaxHistory: 10})
	if err != nil {
		t.Fatalf("runSimulation error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"  commit init /\n",
		"  commit push /users/1\n",
		"  commit push /users\n",
		"  commit push /users/3\n",
		"  at /users/1 [user users]\n",
		"  at /users [users]\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "commit replace") {
		t.Errorf("redirect and batch should commit with the first mode:\n%s", got)
	}

	entries := s.history.Entries()
	want := []string{"/", "/users/1", "/users/3"}
	if strings.Join(entries, ",") != strings.Join(want, ",") {
		t.Errorf("history = %v, want %v", entries, want)
	}
	if s.history.Index() != 2 {
		t.Errorf("index = %d, want 2", s.history.Index())
	}
	if s.failed != 1 {
		t.Errorf("failed = %d, want 1 (go 5)", s.failed)
	}
}

func TestSimulationRedirectLoop(t *testing.T) {
	script := &config.Script{
		Initial: "/",
		Redirects: []config.Redirect{
			{From: "/a", To: "/b"},
			{From: "/b", To: "/a"},
		},
		Steps: []config.Step{{Push: "/a"}},
	}

	var out bytes.Buffer
	s, err := runSimulation(&out, script, simulateOptions{})
	if err != nil {
		t.Fatalf("runSimulation error: %v", err)
	}
	if !strings.Contains(out.String(), "R003") {
		t.Errorf("output missing redirect loop error:\n%s", out.String())
	}
	if s.failed == 0 {
		t.Error("loop not counted as a failure")
	}
}

func TestSimulateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	script := `routes:
  - name: users
    pattern: users
steps:
  - push: /users
  - go: 3
`
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := execute(t, "simulate", path)
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	if !strings.Contains(got, "> 1 /users") {
		t.Errorf("output = %q", got)
	}

	if _, err := execute(t, "simulate", path, "--strict"); err == nil {
		t.Error("expected --strict to fail on the out of range go step")
	}
}

func TestServerHandler(t *testing.T) {
	cfg := config.New()
	cfg.Routes = []router.RouteDef{{Name: "home", Pattern: "/", End: true}}

	bridge, handler := newServer(cfg, cfg.Logger(io.Discard), prometheus.NewRegistry())
	defer bridge.Close()
	srv := httptest.NewServer(handler)
	defer srv.Close()

	for path, want := range map[string]int{
		"/healthz":      http.StatusOK,
		"/api/sessions": http.StatusOK,
		"/metrics":      http.StatusOK,
		"/ws":           http.StatusBadRequest,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}
}
