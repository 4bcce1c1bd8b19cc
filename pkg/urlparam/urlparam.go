// Package urlparam binds typed values to query parameters of a router's
// location.
//
// A Param reads its value from the router's query and writes it back by
// navigating, so the history reflects every change:
//
//   - Push/Replace history modes
//   - Multiple encoding options (Flat, JSON, Comma)
//   - Complex type support (structs, slices)
//
// Example:
//
//	// Search input - replaces history
//	query := urlparam.New(r, "q", "", urlparam.Replace)
//
//	// Filter struct - flat encoding
//	filters := urlparam.New(r, "", Filters{}, urlparam.WithEncoding(urlparam.EncodingFlat))
//
//	// Tag list - comma encoding
//	tags := urlparam.New(r, "tags", []string{}, urlparam.WithEncoding(urlparam.EncodingComma))
package urlparam

import (
	"strings"

	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/router"
)

// Mode determines how URL updates reach the history.
type Mode int

const (
	// ModePush adds a new history entry (default behavior).
	ModePush Mode = iota

	// ModeReplace replaces the current history entry.
	ModeReplace
)

// Encoding specifies how values are serialized into the query.
type Encoding int

const (
	// EncodingDefault writes the value's string form under the key.
	EncodingDefault Encoding = iota

	// EncodingFlat serializes structs as flat params: ?cat=tech&sort=asc
	EncodingFlat

	// EncodingJSON serializes as base64-encoded JSON: ?filter=eyJjYXQiOiJ0ZWNoIn0
	EncodingJSON

	// EncodingComma serializes slices as comma-separated: ?tags=go,web,api
	EncodingComma
)

// Option configures a Param.
type Option interface {
	apply(*config)
}

type config struct {
	mode     Mode
	encoding Encoding
}

// Mode options as values (not functions) to avoid collision with navigation methods.
var (
	// Push creates a new history entry (default behavior).
	Push Option = modeOption{mode: ModePush}

	// Replace updates the location without a history entry (filters, search).
	Replace Option = modeOption{mode: ModeReplace}
)

type modeOption struct {
	mode Mode
}

func (o modeOption) apply(c *config) {
	c.mode = o.mode
}

type encodingOption struct {
	e Encoding
}

func (o encodingOption) apply(c *config) {
	c.encoding = o.e
}

// WithEncoding sets the encoding for complex types.
//
// Example:
//
//	filters := urlparam.New(r, "", Filters{}, urlparam.WithEncoding(urlparam.EncodingFlat))
func WithEncoding(e Encoding) Option {
	return encodingOption{e: e}
}

// Param is a typed value stored in the router's query.
//
// Get is reactive and subscribes only to the query keys the param reads.
// A value that fails to decode reads as the default.
type Param[T any] struct {
	router   *router.Router
	key      string
	defaults T
	config   config
	value    *reactive.Memo[T]
}

// New binds key of r's query to a value of type T. If key is empty the
// struct fields are used as keys (flat encoding). Keys are matched
// case-insensitively, like the router's query. When created inside an
// owner scope, the param is released with it.
func New[T any](r *router.Router, key string, defaultValue T, opts ...Option) *Param[T] {
	p := &Param[T]{
		router:   r,
		key:      strings.ToLower(key),
		defaults: defaultValue,
	}
	for _, opt := range opts {
		opt.apply(&p.config)
	}
	p.value = reactive.NewMemo(func() T {
		v, err := p.decode(p.lookup)
		if err != nil {
			return p.defaults
		}
		return v
	})
	return p
}

// Key returns the query key, or "" for flat params.
func (p *Param[T]) Key() string {
	return p.key
}

// Get returns the current value. Tracked.
func (p *Param[T]) Get() T {
	return p.value.Get()
}

// Peek returns the current value without subscribing.
func (p *Param[T]) Peek() T {
	return p.value.Peek()
}

// Set writes value into the query and navigates with the param's mode.
// Values equal to the default are removed from the query.
func (p *Param[T]) Set(value T) error {
	return Navigate(p.router, p.encode(value), p.config.mode)
}

// Update sets the result of fn applied to the current value.
func (p *Param[T]) Update(fn func(T) T) error {
	return p.Set(fn(p.Peek()))
}

// Reset removes the param from the query.
func (p *Param[T]) Reset() error {
	return p.Set(p.defaults)
}

// Dispose releases the param's memo.
func (p *Param[T]) Dispose() {
	p.value.Dispose()
}

// lookup reads one query key through the router's per-key view.
func (p *Param[T]) lookup(key string) (string, bool) {
	raw, ok := p.router.Query().Get(key)
	if !ok {
		return "", false
	}
	return unescape(raw), true
}
