package router

import (
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/routepath"
)

// Href resolves href against the route and renders it with
// Utils.RenderPath. Tracked through the route's match.
func (rt *Route) Href(href string) (string, bool) {
	to, ok := rt.ResolvePath(href)
	if !ok {
		return "", false
	}
	return rt.router.Utils.RenderPath(to), true
}

// ActiveMatcher returns a memo reporting whether href, resolved against
// the route, matches the current location path. With end the match must
// be exact.
//
// The memo is owned by the current owner. Its pattern is recompiled only
// when the resolved target changes.
func (rt *Route) ActiveMatcher(href string, end bool) *reactive.Memo[bool] {
	r := rt.router

	var (
		compiled string
		matcher  routepath.Matcher
	)
	return reactive.NewMemo(func() bool {
		to, ok := rt.ResolvePath(href)
		if !ok {
			return false
		}
		if matcher == nil || compiled != to {
			m, err := r.Utils.CreateMatcher(to, routepath.MatcherOptions{End: end})
			if err != nil {
				r.logger.Warn("link pattern rejected", "href", href, "error", err)
				matcher = nil
				return false
			}
			compiled, matcher = to, m
		}
		return matcher(r.Path()) != nil
	})
}

// ActiveMatcher is Route.ActiveMatcher on the nearest enclosing route.
func ActiveMatcher(href string, end bool) (*reactive.Memo[bool], error) {
	route := UseRoute()
	if route == nil {
		return nil, errors.New(errors.CodeNoRouter).WithInput(href)
	}
	return route.ActiveMatcher(href, end), nil
}

// Link is a resolved anchor: where it points and whether it is active.
type Link struct {
	// Href is the rendered target when the link was built, empty when
	// href did not resolve.
	Href string

	// Active reports whether the target matches the current location.
	Active *reactive.Memo[bool]
}

// NewLink builds a Link for href relative to the route. Active uses an
// exact match when end is true.
func (rt *Route) NewLink(href string, end bool) Link {
	link := Link{Active: rt.ActiveMatcher(href, end)}
	reactive.Untracked(func() {
		link.Href, _ = rt.Href(href)
	})
	return link
}

// Redirect replaces the current location with href, resolved against
// the base route.
func Redirect(r *Router, href string) error {
	var (
		to string
		ok bool
	)
	reactive.Untracked(func() {
		to, ok = r.Base.ResolvePath(href)
	})
	if !ok {
		return errors.New(errors.CodeInvalidTarget).WithInput(href)
	}
	return r.Replace(to, WithoutResolve())
}
