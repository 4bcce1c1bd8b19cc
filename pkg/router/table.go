package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/vroute/pkg/routepath"
)

// RouteDef declares a route and its children as data, for routers built
// from configuration.
type RouteDef struct {
	// Name identifies the route in listings. Defaults to its resolved path.
	Name string `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`

	// Pattern is resolved against the parent definition.
	Pattern string `json:"pattern" toml:"pattern" yaml:"pattern"`

	// End requires an exact match.
	End bool `json:"end,omitempty" toml:"end" yaml:"end,omitempty"`

	Children []RouteDef `json:"children,omitempty" toml:"children" yaml:"children,omitempty"`
}

// DefinitionError describes one invalid route definition.
type DefinitionError struct {
	// Type is the error category.
	Type DefinitionErrorType

	// Path is the resolved pattern involved.
	Path string

	// Names are the definitions involved.
	Names []string

	// Details contains additional error-specific information.
	Details string
}

func (e DefinitionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Path, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

// DefinitionErrorType categorizes definition errors.
type DefinitionErrorType string

const (
	// DuplicateRoute: two definitions resolve to the same pattern and End.
	DuplicateRoute DefinitionErrorType = "DUPLICATE_ROUTE"

	// TerminalParent: a non-terminal definition nested in a terminal one.
	TerminalParent DefinitionErrorType = "TERMINAL_PARENT"

	// UnresolvablePattern: the pattern is not an in-app path.
	UnresolvablePattern DefinitionErrorType = "UNRESOLVABLE_PATTERN"
)

// DefinitionErrors wraps every problem found in a definition tree.
type DefinitionErrors struct {
	Errors []DefinitionError
}

func (e *DefinitionErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route definition errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// flatDef is a definition with its pattern resolved.
type flatDef struct {
	name string
	path string
	end  bool
}

// ValidateDefs checks a definition tree against base without building
// any reactive state. Returns nil or a *DefinitionErrors.
func ValidateDefs(base string, defs []RouteDef, utils Utils) error {
	utils = DefaultUtils().Merge(utils)
	basePath, ok := utils.ResolvePath("", base, "")
	if !ok {
		return &DefinitionErrors{Errors: []DefinitionError{{
			Type: UnresolvablePattern,
			Path: base,
		}}}
	}

	var (
		errs  []DefinitionError
		flat  []flatDef
		visit func(defs []RouteDef, parent string, parentEnd bool)
	)
	visit = func(defs []RouteDef, parent string, parentEnd bool) {
		for _, def := range defs {
			path, ok := utils.ResolvePath(basePath, def.Pattern, parent)
			if !ok {
				errs = append(errs, DefinitionError{
					Type:  UnresolvablePattern,
					Path:  def.Pattern,
					Names: []string{def.Name},
				})
				continue
			}
			name := def.Name
			if name == "" {
				name = path
			}
			if parentEnd && !def.End {
				errs = append(errs, DefinitionError{
					Type:    TerminalParent,
					Path:    path,
					Names:   []string{name},
					Details: "parent " + parent + " is terminal",
				})
			}
			flat = append(flat, flatDef{name: name, path: path, end: def.End})
			visit(def.Children, path, def.End)
		}
	}
	visit(defs, basePath, false)

	byKey := make(map[flatDef][]string)
	var order []flatDef
	for _, d := range flat {
		key := flatDef{path: strings.ToLower(d.path), end: d.end}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], d.name)
	}
	for _, key := range order {
		if names := byKey[key]; len(names) > 1 {
			errs = append(errs, DefinitionError{
				Type:  DuplicateRoute,
				Path:  key.path,
				Names: names,
			})
		}
	}

	if len(errs) > 0 {
		return &DefinitionErrors{Errors: errs}
	}
	return nil
}

// Table is a set of routes declared from definitions.
type Table struct {
	router  *Router
	entries []tableEntry
}

type tableEntry struct {
	name  string
	route *Route
	score int
}

// Declare validates defs and declares them under the router's base route.
// The routes live until the router is disposed or Dispose is called.
func Declare(r *Router, defs []RouteDef) (*Table, error) {
	if err := ValidateDefs(r.Base.Path, defs, r.Utils); err != nil {
		return nil, err
	}

	t := &Table{router: r}
	var declare func(defs []RouteDef, parent *Route) error
	declare = func(defs []RouteDef, parent *Route) error {
		for _, def := range defs {
			route, err := r.NewRoute(parent, def.Pattern, def.End)
			if err != nil {
				return err
			}
			name := def.Name
			if name == "" {
				name = route.Path
			}
			t.entries = append(t.entries, tableEntry{
				name:  name,
				route: route,
				score: specificity(route.Path, route.End),
			})
			if err := declare(def.Children, route); err != nil {
				return err
			}
		}
		return nil
	}
	if err := declare(defs, r.Base); err != nil {
		t.Dispose()
		return nil, err
	}

	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].score > t.entries[j].score
	})
	return t, nil
}

// Route returns the declared route with the given name.
func (t *Table) Route(name string) (*Route, bool) {
	for _, e := range t.entries {
		if e.name == name {
			return e.route, true
		}
	}
	return nil, false
}

// Names returns every route name, most specific first.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.name
	}
	return names
}

// Matching returns the names of the routes matching the current
// location, most specific first. Tracked through every route's IsMatch.
func (t *Table) Matching() []string {
	var names []string
	for _, e := range t.entries {
		if e.route.IsMatch() {
			names = append(names, e.name)
		}
	}
	return names
}

// Best returns the most specific matching route.
func (t *Table) Best() (string, *Route, bool) {
	for _, e := range t.entries {
		if e.route.IsMatch() {
			return e.name, e.route, true
		}
	}
	return "", nil, false
}

// Dispose disposes every declared route.
func (t *Table) Dispose() {
	for i := len(t.entries) - 1; i >= 0; i-- {
		t.router.DisposeRoute(t.entries[i].route)
	}
	t.entries = nil
}

// specificity scores a resolved pattern. Higher is matched first.
// Wildcard patterns rank below every other pattern but the root; static
// segments beat params and exact beats prefix.
func specificity(path string, end bool) int {
	trimmed := strings.Trim(path, "/")
	var segments []string
	if trimmed != "" {
		segments = strings.Split(trimmed, "/")
	}

	for _, seg := range segments {
		if strings.HasPrefix(seg, "*") {
			return len(segments)
		}
	}

	score := len(segments) * 100
	for _, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			if _, optional, _ := routepath.ParseParamSegment(seg[1:]); optional {
				score += 5
			} else {
				score += 10
			}
		default:
			score += 50
		}
	}
	if end {
		score += 25
	}
	return score
}
