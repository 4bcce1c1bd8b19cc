package routepath

import (
	"strings"

	"github.com/coregx/coregex"

	"github.com/vango-dev/vroute/internal/errors"
)

// WildcardParam is the parameter name a "*" segment captures into.
const WildcardParam = "wild"

// ErrInvalidPattern is returned by CreateMatcher for a malformed pattern.
var ErrInvalidPattern = errors.ErrInvalidPattern

// MatcherOptions configures CreateMatcher.
type MatcherOptions struct {
	// End requires the whole candidate to match. When false the pattern
	// matches a prefix of the candidate that ends at a segment boundary.
	End bool
}

// Match is a successful match.
type Match struct {
	// Path is the concrete matched path ("/" when the match is empty).
	Path string

	// Params maps parameter names to captured values. Optional parameters
	// that did not participate are absent.
	Params map[string]string
}

// Matcher matches a candidate path, returning nil when it does not match.
// A Matcher holds no state besides its compiled expression.
type Matcher func(path string) *Match

// CreateMatcher compiles pattern into a Matcher.
//
// Pattern syntax, one construct per segment:
//
//	/users        static segment (matched case-insensitively)
//	/:id          named parameter
//	/:id?         optional parameter
//	/:file.json   parameter with a literal suffix
//	/:file?.json  optional parameter with a literal suffix
//	/*            wildcard, captured as "wild"
//
// The compiled expression decides whether a path matches; the matched
// path and params are then bound segment by segment.
func CreateMatcher(pattern string, opts MatcherOptions) (Matcher, error) {
	expr, segments, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	var full string
	if opts.End {
		full = `(?i)^` + expr + `/?$`
	} else {
		full = `(?i)^` + expr + `(?:/|$)`
	}

	re, err := coregex.Compile(full)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidPattern).WithInput(pattern).Wrap(err)
	}

	b := binder{segments: segments, end: opts.End}
	return func(path string) *Match {
		if !re.MatchString(path) {
			return nil
		}
		return b.bind(path)
	}, nil
}

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentWild
)

// segment is one compiled pattern segment. text is the literal for a
// static segment and the parameter name otherwise.
type segment struct {
	kind     segmentKind
	text     string
	optional bool
	suffix   string
}

// capture returns the param value carried by one path segment. An
// optional suffixed param matching only its suffix captures "".
func (s segment) capture(value string) (string, bool) {
	if s.suffix == "" {
		return value, value != ""
	}
	n := len(value) - len(s.suffix)
	if n < 0 || !strings.EqualFold(value[n:], s.suffix) {
		return "", false
	}
	if n == 0 && !s.optional {
		return "", false
	}
	return value[:n], true
}

// binder walks a path against compiled segments. Params bind to whole
// segments; optional params are tried present first, and a wildcard
// takes the longest remainder that lets the rest of the pattern match.
type binder struct {
	segments []segment
	end      bool
}

func (b binder) bind(path string) *Match {
	params := make(map[string]string)
	n, ok := b.walk(0, 0, path, params)
	if !ok {
		return nil
	}
	m := &Match{Path: path[:n], Params: params}
	if m.Path == "" {
		m.Path = "/"
	}
	return m
}

// walk matches segments[i:] against path[pos:] and returns the end of the
// matched path. params are written only along the successful branch.
func (b binder) walk(i, pos int, path string, params map[string]string) (int, bool) {
	if i == len(b.segments) {
		rest := path[pos:]
		if b.end {
			if rest == "" || rest == "/" {
				return len(path), true
			}
			return 0, false
		}
		if rest == "" || rest[0] == '/' {
			return pos, true
		}
		return 0, false
	}

	seg := b.segments[i]
	if pos >= len(path) || path[pos] != '/' {
		if seg.kind == segmentParam && seg.optional && seg.suffix == "" {
			return b.walk(i+1, pos, path, params)
		}
		return 0, false
	}

	if seg.kind == segmentWild {
		for end := len(path); end > pos; end-- {
			if n, ok := b.walk(i+1, end, path, params); ok {
				params[seg.text] = path[pos+1 : end]
				return n, true
			}
		}
		return 0, false
	}

	next := strings.IndexByte(path[pos+1:], '/')
	if next < 0 {
		next = len(path)
	} else {
		next += pos + 1
	}
	value := path[pos+1 : next]

	switch seg.kind {
	case segmentStatic:
		if strings.EqualFold(value, seg.text) {
			return b.walk(i+1, next, path, params)
		}
		return 0, false

	default:
		if v, ok := seg.capture(value); ok {
			if n, ok := b.walk(i+1, next, path, params); ok {
				if v != "" {
					params[seg.text] = v
				}
				return n, true
			}
		}
		if seg.optional && seg.suffix == "" {
			return b.walk(i+1, pos, path, params)
		}
		return 0, false
	}
}

// compilePattern translates a route pattern into a regular expression
// body and its segments.
func compilePattern(pattern string) (string, []segment, error) {
	var (
		b        strings.Builder
		segments []segment
	)

	for _, seg := range strings.Split(pattern, "/") {
		switch {
		case seg == "":
			continue

		case seg[0] == '*':
			segments = append(segments, segment{kind: segmentWild, text: WildcardParam})
			b.WriteString(`/.*`)

		case seg[0] == ':':
			name, optional, suffix := ParseParamSegment(seg[1:])
			if name == "" {
				return "", nil, errors.New(errors.CodeInvalidPattern).
					WithInput(pattern).
					WithSuggestion("name every parameter, e.g. /users/:id")
			}
			segments = append(segments, segment{
				kind:     segmentParam,
				text:     name,
				optional: optional,
				suffix:   suffix,
			})

			switch {
			case optional && suffix == "":
				b.WriteString(`(?:/[^/]+)?`)
			case optional:
				b.WriteString(`/[^/]*`)
				b.WriteString(coregex.QuoteMeta(suffix))
			default:
				b.WriteString(`/[^/]+`)
				b.WriteString(coregex.QuoteMeta(suffix))
			}

		default:
			segments = append(segments, segment{kind: segmentStatic, text: seg})
			b.WriteString("/")
			b.WriteString(coregex.QuoteMeta(seg))
		}
	}

	return b.String(), segments, nil
}

// ParseParamSegment splits the body of a ":name" segment into the name,
// the optional marker and a literal suffix starting at the first ".".
//
//	"id"         -> "id", false, ""
//	"id?"        -> "id", true, ""
//	"file.json"  -> "file", false, ".json"
//	"file?.json" -> "file", true, ".json"
func ParseParamSegment(body string) (name string, optional bool, suffix string) {
	name = body
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name, suffix = name[:i], name[i:]
	}
	if strings.HasSuffix(name, "?") {
		name, optional = strings.TrimSuffix(name, "?"), true
	}
	if strings.HasSuffix(suffix, "?") {
		suffix, optional = strings.TrimSuffix(suffix, "?"), true
	}
	return name, optional, suffix
}
