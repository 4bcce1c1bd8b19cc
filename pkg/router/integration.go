package router

import (
	"github.com/vango-dev/vroute/pkg/reactive"
)

// UpdateMode says how a location update should reach the history.
type UpdateMode string

const (
	// ModeNone marks an update that came from the location source itself.
	// Integrations never write it back.
	ModeNone UpdateMode = ""

	// ModePush adds a history entry.
	ModePush UpdateMode = "push"

	// ModeReplace replaces the current history entry.
	ModeReplace UpdateMode = "replace"

	// ModeInit seeds an empty location source with the router base.
	ModeInit UpdateMode = "init"
)

// RouteUpdate is one value of an integration's location signal.
type RouteUpdate struct {
	Value string
	Mode  UpdateMode
}

// Integration connects a router to a location source. Source carries the
// current raw reference; the router writes committed navigations to it.
type Integration struct {
	Source *reactive.Signal[RouteUpdate]

	// Utils overrides the default strategies for routers using this
	// integration.
	Utils Utils
}

// NewIntegration returns an integration backed by a bare signal holding
// initial. It is what a router uses when none is given.
func NewIntegration(initial string) *Integration {
	return &Integration{Source: newSource(initial)}
}

// newSource creates a location signal; updates compare by value only.
func newSource(initial string) *reactive.Signal[RouteUpdate] {
	return reactive.NewSignal(RouteUpdate{Value: initial}).WithEquals(func(a, b RouteUpdate) bool {
		return a.Value == b.Value
	})
}

// CreateIntegration adapts an external location source.
//
// get reads the source's current reference. set is called for every
// update the router writes with a non-empty mode. init, if not nil,
// subscribes to external changes: it receives a notify callback and
// returns an unsubscribe function, which runs when the current owner is
// disposed. notify("") re-reads the source through get.
//
// Example:
//
//	integration := router.CreateIntegration(
//	    history.Current,
//	    func(u router.RouteUpdate) { history.Write(u) },
//	    history.Listen,
//	    router.Utils{},
//	)
func CreateIntegration(
	get func() string,
	set func(update RouteUpdate),
	init func(notify func(value string)) func(),
	utils Utils,
) *Integration {
	source := newSource(get())

	reactive.CreateEffect(func() reactive.Cleanup {
		update := source.Get()
		if update.Mode != ModeNone && set != nil {
			set(update)
		}
		return nil
	}, reactive.EffectName("integration.sink"))

	if init != nil {
		unsubscribe := init(func(value string) {
			if value == "" {
				value = get()
			}
			source.Set(RouteUpdate{Value: value})
		})
		if unsubscribe != nil {
			reactive.OnCleanup(unsubscribe)
		}
	}

	return &Integration{Source: source, Utils: utils}
}
