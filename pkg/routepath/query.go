package routepath

import "strings"

// ParseQuery parses a raw query string (without the leading "?") into a
// map. Pairs split on "&" and then on the first "="; keys are lower-cased;
// a repeated key keeps the last value. Pairs with an empty key are
// skipped, and a key without "=" maps to "".
//
//	ParseQuery("foo=bar&two=2&foo=baz") // {"foo": "baz", "two": "2"}
func ParseQuery(query string) map[string]string {
	out := make(map[string]string)
	if query == "" {
		return out
	}
	for _, pair := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		out[strings.ToLower(key)] = value
	}
	return out
}
