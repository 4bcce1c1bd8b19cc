package urlparam

import (
	"net/url"
	"sort"
	"strings"

	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

// Navigate merges params into the query of r's current location and
// navigates there with mode. An empty value removes its key. The path is
// kept as is; keys are lower-cased like the router's query view.
func Navigate(r *router.Router, params map[string]string, mode Mode) error {
	loc := routepath.SplitLocation(r.Reference())
	query := routepath.ParseQuery(loc.QueryString)
	for k, v := range params {
		k = url.QueryEscape(strings.ToLower(k))
		if v == "" {
			delete(query, k)
			continue
		}
		query[k] = url.QueryEscape(v)
	}

	ref := routepath.Location{Path: loc.Path, QueryString: encodeQuery(query)}.String()
	if mode == ModeReplace {
		return r.Replace(ref, router.WithoutResolve())
	}
	return r.Push(ref, router.WithoutResolve())
}

// encodeQuery joins already-escaped pairs in key order.
func encodeQuery(query map[string]string) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		if v := query[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// unescape decodes a raw query value, keeping it as is when malformed.
func unescape(raw string) string {
	if v, err := url.QueryUnescape(raw); err == nil {
		return v
	}
	return raw
}
