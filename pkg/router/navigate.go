package router

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/vango-dev/vroute/pkg/routepath"
)

// NavigateOptions configures a single Push or Replace.
type NavigateOptions struct {
	// Resolve resolves the target against RelativeTo, or the base route
	// when RelativeTo is nil. Defaults to true.
	Resolve bool

	// RelativeTo is the route relative targets resolve against.
	RelativeTo *Route

	// Params are query parameters appended to the target.
	Params map[string]any
}

// NavigateOption is a functional option for Push and Replace.
type NavigateOption func(*NavigateOptions)

// WithoutResolve uses the target exactly as given.
func WithoutResolve() NavigateOption {
	return func(o *NavigateOptions) {
		o.Resolve = false
	}
}

// RelativeTo resolves relative targets against route instead of the
// router's base route.
func RelativeTo(route *Route) NavigateOption {
	return func(o *NavigateOptions) {
		o.RelativeTo = route
	}
}

// WithParams appends query parameters to the target, sorted by key.
func WithParams(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

func newNavigateOptions(opts []NavigateOption) NavigateOptions {
	options := NavigateOptions{Resolve: true}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// target computes the reference a navigation to `to` lands on. Targets
// leaving the app are rejected whether or not they are resolved.
func (r *Router) target(to string, o NavigateOptions) (string, bool) {
	ref := to
	if routepath.HasScheme(strings.TrimSpace(ref)) {
		return "", false
	}
	if o.Resolve {
		route := o.RelativeTo
		if route == nil {
			route = r.Base
		}
		var ok bool
		if ref, ok = route.ResolvePath(to); !ok {
			return "", false
		}
	}
	if len(o.Params) > 0 {
		ref = appendParams(ref, o.Params)
	}
	return ref, true
}

// appendParams adds params to ref's query string in key order.
func appendParams(ref string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(ref)
	sep := "?"
	if strings.Contains(ref, "?") {
		sep = "&"
	}
	for _, k := range keys {
		b.WriteString(sep)
		b.WriteString(url.QueryEscape(k))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(fmt.Sprintf("%v", params[k])))
		sep = "&"
	}
	return b.String()
}
