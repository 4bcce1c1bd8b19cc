package routepath

import (
	"strings"

	"github.com/coregx/coregex"
)

var (
	// schemeRe detects references that leave the app: "http://x", "//x".
	schemeRe = coregex.MustCompile(`(?i)^(?:[a-z0-9]+:)?//`)

	spaceRe = coregex.MustCompile(`\s+`)
)

// HasScheme reports whether path carries a URI scheme or is
// protocol-relative. Such paths are not resolvable as in-app routes.
func HasScheme(path string) bool {
	return schemeRe.MatchString(path)
}

// Normalize drops all whitespace, strips leading and trailing slashes and
// prefixes a single "/". Empty input normalizes to "".
//
//	Normalize(" /foo/bar/ ") // "/foo/bar"
//	Normalize("//")          // ""
func Normalize(path string) string {
	s := strings.Trim(spaceRe.ReplaceAllString(path, ""), "/")
	if s == "" {
		return ""
	}
	return "/" + s
}

// ResolvePath resolves path against base, and against from when path is
// relative. An empty from means "no from". Returns false when path has a
// scheme.
//
// The base containment check on from is case-insensitive; the result
// keeps the casing of its inputs. An empty result renders as "/".
//
//	ResolvePath("/base", "bar", "BASE/foo") // "/BASE/foo/bar", true
//	ResolvePath("/base", "/bar", "/base/foo") // "/base/bar", true
//	ResolvePath("", "http://x", "")         // "", false
func ResolvePath(base, path, from string) (string, bool) {
	if HasScheme(path) {
		return "", false
	}

	b := Normalize(base)
	p := Normalize(path)

	var result string
	switch {
	case from == "" || strings.HasPrefix(path, "/"):
		result = b + p
	default:
		f := Normalize(from)
		if strings.HasPrefix(strings.ToLower(f), strings.ToLower(b)) {
			result = f + p
		} else {
			result = b + f + p
		}
	}

	if result == "" {
		return "/", true
	}
	return result, true
}
