package router

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateDefs(t *testing.T) {
	tests := []struct {
		name  string
		defs  []RouteDef
		types []DefinitionErrorType
	}{
		{
			name: "valid",
			defs: []RouteDef{
				{Pattern: "users", Children: []RouteDef{{Pattern: ":id", End: true}}},
				{Pattern: "about", End: true},
			},
		},
		{
			name: "duplicate",
			defs: []RouteDef{
				{Name: "a", Pattern: "users", End: true},
				{Name: "b", Pattern: "/Users/", End: true},
			},
			types: []DefinitionErrorType{DuplicateRoute},
		},
		{
			name: "terminal parent",
			defs: []RouteDef{
				{Pattern: "users", End: true, Children: []RouteDef{{Pattern: ":id"}}},
			},
			types: []DefinitionErrorType{TerminalParent},
		},
		{
			name:  "unresolvable",
			defs:  []RouteDef{{Pattern: "https://example.com"}},
			types: []DefinitionErrorType{UnresolvablePattern},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDefs("", tt.defs, Utils{})
			if len(tt.types) == 0 {
				if err != nil {
					t.Fatalf("ValidateDefs() error: %v", err)
				}
				return
			}

			var defErrs *DefinitionErrors
			if !errors.As(err, &defErrs) {
				t.Fatalf("ValidateDefs() error = %v, want *DefinitionErrors", err)
			}
			var got []DefinitionErrorType
			for _, e := range defErrs.Errors {
				got = append(got, e.Type)
			}
			if !reflect.DeepEqual(got, tt.types) {
				t.Errorf("error types = %v, want %v", got, tt.types)
			}
		})
	}
}

func TestDeclareTable(t *testing.T) {
	r, _ := newTestRouter(t, "/", "")

	table, err := Declare(r, []RouteDef{
		{Name: "users", Pattern: "users", Children: []RouteDef{
			{Name: "user", Pattern: ":id", End: true},
			{Name: "me", Pattern: "me", End: true},
		}},
		{Name: "files", Pattern: "files/*"},
	})
	if err != nil {
		t.Fatalf("Declare() error: %v", err)
	}

	r.Push("/users/me")
	if got, want := table.Matching(), []string{"me", "user", "users"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Matching() = %v, want %v", got, want)
	}
	if name, _, ok := table.Best(); !ok || name != "me" {
		t.Errorf("Best() = %q, %v, want me", name, ok)
	}

	r.Push("/files/a/b")
	name, route, ok := table.Best()
	if !ok || name != "files" {
		t.Fatalf("Best() = %q, %v, want files", name, ok)
	}
	if got := route.Params().Value("wild"); got != "a/b" {
		t.Errorf("wild = %q, want %q", got, "a/b")
	}

	table.Dispose()
	if len(r.Base.Children()) != 0 {
		t.Errorf("base children after Dispose = %d, want 0", len(r.Base.Children()))
	}
}

func TestDeclareRejectsInvalidDefs(t *testing.T) {
	r, _ := newTestRouter(t, "/", "")

	_, err := Declare(r, []RouteDef{
		{Pattern: "a", End: true},
		{Pattern: "a", End: true},
	})
	if err == nil {
		t.Fatal("expected an error for duplicate definitions")
	}
	if len(r.Base.Children()) != 0 {
		t.Error("invalid definitions declared routes")
	}
}

func TestSpecificity(t *testing.T) {
	ordered := []struct {
		path string
		end  bool
	}{
		{"/users/me", true},
		{"/users/:id", true},
		{"/users/:id?", true},
		{"/users/:id?.json", false},
		{"/users", false},
		{"/files/*", false},
		{"/", false},
	}
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if specificity(prev.path, prev.end) <= specificity(cur.path, cur.end) {
			t.Errorf("%s should be more specific than %s", prev.path, cur.path)
		}
	}

	for _, opt := range []string{"/v/:ver?", "/v/:ver?.json", "/v/:ver.json?"} {
		if got, want := specificity(opt, true), specificity("/v/:ver", true); got >= want {
			t.Errorf("specificity(%s) = %d, want below required param %d", opt, got, want)
		}
	}
}
