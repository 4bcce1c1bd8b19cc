package router

import "github.com/vango-dev/vroute/pkg/routepath"

// Utils is the replaceable strategy bag used for resolution, matching,
// query parsing and rendering. A nil field falls back to the default.
type Utils struct {
	// ResolvePath resolves path against base and, for relative paths,
	// against from. Returns false when the path is not an in-app path.
	ResolvePath func(base, path, from string) (string, bool)

	// CreateMatcher compiles a route pattern.
	CreateMatcher func(pattern string, opts routepath.MatcherOptions) (routepath.Matcher, error)

	// ParseQuery parses a raw query string.
	ParseQuery func(query string) map[string]string

	// RenderPath turns a resolved path into an href.
	RenderPath func(path string) string
}

// DefaultUtils returns the built-in strategies.
func DefaultUtils() Utils {
	return Utils{
		ResolvePath:   routepath.ResolvePath,
		CreateMatcher: routepath.CreateMatcher,
		ParseQuery:    routepath.ParseQuery,
		RenderPath:    renderPath,
	}
}

func renderPath(path string) string { return path }

// Merge returns u with every non-nil field of over applied on top.
func (u Utils) Merge(over Utils) Utils {
	if over.ResolvePath != nil {
		u.ResolvePath = over.ResolvePath
	}
	if over.CreateMatcher != nil {
		u.CreateMatcher = over.CreateMatcher
	}
	if over.ParseQuery != nil {
		u.ParseQuery = over.ParseQuery
	}
	if over.RenderPath != nil {
		u.RenderPath = over.RenderPath
	}
	return u
}
