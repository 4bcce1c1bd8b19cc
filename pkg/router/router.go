package router

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/routepath"
)

// MaxRedirects is the number of navigations one update pass may queue
// before the router reports a redirect loop.
const MaxRedirects = 100

// Errors returned by the router. Match them with errors.Is.
var (
	ErrInvalidBasePath  = errors.ErrInvalidBasePath
	ErrInvalidTarget    = errors.ErrInvalidTarget
	ErrTooManyRedirects = errors.ErrTooManyRedirects
	ErrTerminalParent   = errors.ErrTerminalParent
	ErrInvalidRoutePath = errors.ErrInvalidRoutePath
	ErrInvalidPattern   = errors.ErrInvalidPattern
	ErrNoRouter         = errors.ErrNoRouter
	ErrRouterDisposed   = errors.ErrRouterDisposed
	ErrInvalidParam     = errors.ErrInvalidParam
)

// referrer is a navigation requested in the current pass and not yet
// written to the integration.
type referrer struct {
	ref  string
	mode UpdateMode
}

// Option configures a Router.
type Option func(*options)

type options struct {
	utils   Utils
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	ctx     context.Context
}

// WithUtils overrides strategies on top of the integration's.
func WithUtils(utils Utils) Option {
	return func(o *options) {
		o.utils = utils
	}
}

// WithLogger sets the router's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records router activity into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for navigation spans.
// Default: the global OpenTelemetry tracer named "vroute".
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithContext sets the parent context of navigation spans.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// Router owns the reactive location state of one mounted router.
//
// Location, query and every route update immediately when Push or Replace
// is called. The integration is written once, when the update pass that
// navigated settles, using the mode of the first navigation in that pass.
//
// A Router is driven from one goroutine at a time.
type Router struct {
	// Base is the root route, matched at the base path.
	Base *Route

	// Utils are the strategies in use.
	Utils Utils

	integration *Integration
	owner       *reactive.Owner
	transition  *reactive.Transition

	reference   *reactive.Signal[string]
	location    *reactive.Memo[routepath.Location]
	path        *reactive.Memo[string]
	queryString *reactive.Memo[string]
	query       *reactive.Map

	referrers       []referrer
	commitScheduled bool

	routes *arena

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	ctx     context.Context
}

// New creates a router reading its location from integration. A nil
// integration uses a bare in-memory signal. base is resolved with
// Utils.ResolvePath; an unresolvable base returns ErrInvalidBasePath.
//
// The router's reactive state lives in a new owner scope under the
// current owner, with the router provided in it (see UseRouter).
// Dispose tears it down.
func New(integration *Integration, base string, opts ...Option) (*Router, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if integration == nil {
		integration = NewIntegration("")
	}

	utils := DefaultUtils().Merge(integration.Utils).Merge(o.utils)

	r := &Router{
		Utils:       utils,
		integration: integration,
		transition:  reactive.NewTransition(),
		logger:      o.logger,
		metrics:     o.metrics,
		tracer:      o.tracer,
		ctx:         o.ctx,
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "router")
	}
	if r.tracer == nil {
		r.tracer = defaultTracer()
	}
	r.routes = newArena(r)

	basePath, ok := utils.ResolvePath("", base, "")
	if !ok {
		return nil, errors.New(errors.CodeInvalidBasePath).
			WithInput(base).
			WithSuggestion("use an in-app path such as /app")
	}

	var err error
	reactive.Batch(func() {
		if basePath != "" && integration.Source.Peek().Value == "" {
			integration.Source.Set(RouteUpdate{Value: basePath, Mode: ModeInit})
		}

		r.owner = reactive.NewOwner(reactive.CurrentOwner())
		r.owner.Run(func() {
			routerContext.Provide(r)
			r.init()
			r.Base, err = r.routes.add(nil, basePath, false, nil)
		})
	})
	if err != nil {
		r.owner.Dispose()
		return nil, err
	}

	r.logger.Debug("router created", "base", basePath, "location", r.reference.Peek())
	return r, nil
}

// init builds the reactive location graph and the integration echo.
func (r *Router) init() {
	r.reference = reactive.NewSignal(r.integration.Source.Peek().Value)

	r.location = reactive.NewMemo(func() routepath.Location {
		return routepath.SplitLocation(r.reference.Get())
	})
	r.path = reactive.NewMemo(func() string {
		return r.location.Get().Path
	})
	r.queryString = reactive.NewMemo(func() string {
		return r.location.Get().QueryString
	})
	r.query = reactive.DeriveMap(func() map[string]string {
		qs := r.queryString.Get()
		if qs == "" {
			return nil
		}
		return r.Utils.ParseQuery(qs)
	})

	// Location changes coming from the integration.
	reactive.CreateEffect(func() reactive.Cleanup {
		value := r.integration.Source.Get().Value
		if value != r.reference.Peek() {
			r.transition.Start(func() {
				r.reference.Set(value)
			})
		}
		return nil
	}, reactive.EffectName("router.echo"))
}

// Location returns the current location. Tracked: dependents re-run when
// either the path or the query string changes.
func (r *Router) Location() routepath.Location {
	return r.location.Get()
}

// Path returns the current location path. Tracked: query string changes
// do not re-trigger dependents.
func (r *Router) Path() string {
	return r.path.Get()
}

// QueryString returns the current raw query string. Tracked: path
// changes do not re-trigger dependents.
func (r *Router) QueryString() string {
	return r.queryString.Get()
}

// Query returns the parsed query. Reading a key only re-triggers when
// that key's value changes. Callers must not modify returned maps.
func (r *Router) Query() *reactive.Map {
	return r.query
}

// Reference returns the current raw reference without subscribing.
func (r *Router) Reference() string {
	return r.reference.Peek()
}

// IsRouting reports whether a navigation is still settling. Tracked.
func (r *Router) IsRouting() bool {
	return r.transition.IsPending()
}

// Owner returns the scope the router's state lives in.
func (r *Router) Owner() *reactive.Owner {
	return r.owner
}

// Run runs fn inside the router's scope, where UseRouter and UseRoute
// see this router and routes created with CreateRoute hang off its base.
func (r *Router) Run(fn func()) {
	r.owner.Run(fn)
}

// Push navigates to `to`, adding a history entry when the pass commits.
func (r *Router) Push(to string, opts ...NavigateOption) error {
	return r.navigate(ModePush, to, opts)
}

// Replace navigates to `to`, replacing the current history entry when
// the pass commits.
func (r *Router) Replace(to string, opts ...NavigateOption) error {
	return r.navigate(ModeReplace, to, opts)
}

func (r *Router) navigate(mode UpdateMode, to string, opts []NavigateOption) error {
	_, finish := r.startSpan("vroute.navigate",
		attribute.String("vroute.mode", string(mode)),
		attribute.String("vroute.to", to),
	)

	err := r.redirect(mode, to, newNavigateOptions(opts))
	if err != nil {
		if re, ok := err.(*errors.RouterError); ok {
			r.metrics.reject(re.Code)
		}
		r.logger.Warn("navigation rejected", "mode", mode, "to", to, "error", err)
	}
	finish(err)
	return err
}

// redirect queues a navigation and makes it visible to the location state.
func (r *Router) redirect(mode UpdateMode, to string, o NavigateOptions) error {
	if r.owner.IsDisposed() {
		return errors.New(errors.CodeRouterDisposed).WithInput(to)
	}

	ref, ok := r.target(to, o)
	if !ok {
		return errors.New(errors.CodeInvalidTarget).
			WithInput(to).
			WithSuggestion("navigate to an in-app path; absolute URLs leave the router")
	}

	var err error
	reactive.Batch(func() {
		current := r.reference.Peek()
		if ref == current {
			r.metrics.noop()
			return
		}

		if len(r.referrers) >= MaxRedirects {
			r.metrics.redirectLoop()
			err = errors.New(errors.CodeTooManyRedirects).
				WithInput(ref).
				WithSuggestion("check effects that navigate in response to the location")
			return
		}

		r.referrers = append(r.referrers, referrer{ref: current, mode: mode})
		r.metrics.navigation(mode)

		r.transition.Start(func() {
			r.reference.Set(ref)
		})
		r.scheduleCommit()
	})
	return err
}

// scheduleCommit arranges for commit to run once the pass settles.
func (r *Router) scheduleCommit() {
	if r.commitScheduled {
		return
	}
	r.commitScheduled = true
	reactive.OnSettled(r.commit)
}

// commit writes the settled reference to the integration with the mode
// of the first navigation of the pass, then clears the queue.
func (r *Router) commit() {
	r.commitScheduled = false
	if len(r.referrers) == 0 {
		return
	}

	first := r.referrers[0]
	chain := len(r.referrers)
	r.referrers = r.referrers[:0]

	ref := r.reference.Peek()
	if ref == first.ref {
		r.logger.Debug("navigation returned to its origin", "ref", ref, "chain", chain)
		return
	}

	_, finish := r.startSpan("vroute.commit",
		attribute.String("vroute.mode", string(first.mode)),
		attribute.String("vroute.ref", ref),
		attribute.Int("vroute.chain", chain),
	)
	r.integration.Source.Set(RouteUpdate{Value: ref, Mode: first.mode})
	r.metrics.commit(first.mode, chain)
	r.logger.Debug("navigation committed", "ref", ref, "mode", first.mode, "chain", chain)
	finish(nil)
}

// Dispose disposes every route and the router's scope. The integration
// subscription ends with it.
func (r *Router) Dispose() {
	if r.owner == nil || r.owner.IsDisposed() {
		return
	}
	if r.Base != nil {
		r.routes.dispose(r.Base.ID)
	}
	r.owner.Dispose()
	r.referrers = nil
}
