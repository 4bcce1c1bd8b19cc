package routepath

import (
	stderrors "errors"
	"strings"

	"github.com/vango-dev/vroute/internal/errors"
)

// Reasons a navigation path is rejected by CleanNavPath.
var (
	ErrExternalPath         = stderrors.New("path leaves the app")
	ErrRelativePath         = stderrors.New("path is not rooted")
	ErrBackslashInPath      = stderrors.New("path contains backslash")
	ErrNullByteInPath       = stderrors.New("path contains null byte")
	ErrInvalidPercentEscape = stderrors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = stderrors.New("path escapes root via ..")
)

// CanonicalizePath cleans the path part of ref and keeps its query:
//   - repeated slashes collapse (/blog//post → /blog/post)
//   - "." segments are dropped and ".." segments are resolved
//   - a trailing slash is removed, except for "/"
//
// Backslashes, NUL bytes (literal or %00), malformed percent escapes and
// ".." above the root are rejected.
func CanonicalizePath(ref string) (Location, error) {
	loc := SplitLocation(ref)
	path := loc.Path

	if path == "" {
		return Location{Path: "/", QueryString: loc.QueryString}, nil
	}
	if strings.Contains(path, `\`) {
		return Location{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Location{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Location{}, err
		}
	}

	var segs []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				return Location{}, ErrPathEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}

	return Location{
		Path:        "/" + strings.Join(segs, "/"),
		QueryString: loc.QueryString,
	}, nil
}

// validatePercentEscapes checks that every "%" starts a %XX escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// CleanNavPath validates and canonicalizes a navigation target received
// from an untrusted peer. The target must be rooted and must not carry a
// scheme. Failures are R002 errors wrapping the specific reason.
func CleanNavPath(ref string) (string, error) {
	if HasScheme(ref) {
		return "", invalidTarget(ref, ErrExternalPath)
	}
	if !strings.HasPrefix(ref, "/") {
		return "", invalidTarget(ref, ErrRelativePath)
	}

	loc, err := CanonicalizePath(ref)
	if err != nil {
		return "", invalidTarget(ref, err)
	}
	return loc.String(), nil
}

func invalidTarget(ref string, reason error) error {
	return errors.New(errors.CodeInvalidTarget).WithInput(ref).Wrap(reason)
}
