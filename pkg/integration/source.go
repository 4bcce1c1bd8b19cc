package integration

import (
	"strings"

	"github.com/vango-dev/vroute/pkg/router"
)

// Source is an external location store.
type Source interface {
	// Current returns the stored reference.
	Current() string

	// Write stores a reference the router committed.
	Write(update router.RouteUpdate)

	// Listen calls notify whenever the reference changes outside the
	// router, and returns a function that stops listening.
	Listen(notify func(value string)) func()
}

// Path adapts src, storing plain references.
func Path(src Source) *router.Integration {
	return router.CreateIntegration(src.Current, src.Write, src.Listen, router.Utils{})
}

// Hash adapts src, storing references after a "#" and rendering hrefs
// as "#/path". A reference without "#" reads as empty, which makes the
// router seed its base path.
func Hash(src Source) *router.Integration {
	get := func() string {
		return hashValue(src.Current())
	}
	set := func(update router.RouteUpdate) {
		update.Value = "#" + update.Value
		src.Write(update)
	}
	listen := func(notify func(string)) func() {
		return src.Listen(func(string) { notify("") })
	}
	return router.CreateIntegration(get, set, listen, router.Utils{
		RenderPath: func(path string) string { return "#" + path },
	})
}

// hashValue returns the part of ref after the first "#".
func hashValue(ref string) string {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[i+1:]
	}
	return ""
}
