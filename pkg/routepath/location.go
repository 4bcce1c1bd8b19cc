package routepath

import "strings"

// Location is a raw reference split into its path and query string.
type Location struct {
	// Path never contains "?".
	Path string

	// QueryString is everything after the first "?", without the "?".
	QueryString string
}

// SplitLocation splits ref at the first "?".
func SplitLocation(ref string) Location {
	path, query, _ := strings.Cut(ref, "?")
	return Location{Path: path, QueryString: query}
}

// String reconstructs the raw reference.
func (l Location) String() string {
	if l.QueryString == "" {
		return l.Path
	}
	return l.Path + "?" + l.QueryString
}
